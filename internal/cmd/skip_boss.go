package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outrider/wayfinder/internal/settings"
)

func init() {
	rootCmd.AddCommand(skipBossCmd)
}

var skipBossCmd = &cobra.Command{
	Use:   "skip-boss",
	Short: "Skip the temple and go straight to the boss search",
	RunE:  runSkipBoss,
}

func runSkipBoss(cmd *cobra.Command, args []string) error {
	dir, err := runtimeDir()
	if err != nil {
		return err
	}
	path := settingsPath(dir)

	s, err := settings.Load(path)
	if err != nil {
		s = settings.Default()
	}
	s.SkipBoss = true
	if err := settings.Save(path, s); err != nil {
		return err
	}

	fmt.Println("skip-to-boss requested; the run loop will pick this up on its next settings poll")
	return nil
}
