package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/outrider/wayfinder/internal/settings"
)

func init() {
	rootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear persisted settings back to defaults",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	dir, err := runtimeDir()
	if err != nil {
		return err
	}
	if err := settings.Save(settingsPath(dir), settings.Default()); err != nil {
		return err
	}
	_ = os.Remove(statusPath(dir))
	fmt.Println("settings reset to defaults")
	return nil
}
