package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outrider/wayfinder/internal/settings"
)

func init() {
	rootCmd.AddCommand(toggleCmd)
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Enable or disable the run loop without restarting it",
	RunE:  runToggle,
}

func runToggle(cmd *cobra.Command, args []string) error {
	dir, err := runtimeDir()
	if err != nil {
		return err
	}
	path := settingsPath(dir)

	s, err := settings.Load(path)
	if err != nil {
		s = settings.Default()
	}
	s.Enabled = !s.Enabled
	if err := settings.Save(path, s); err != nil {
		return err
	}

	state := "disabled"
	if s.Enabled {
		state = "enabled"
	}
	fmt.Printf("wf is now %s\n", state)
	return nil
}
