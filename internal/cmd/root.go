// Package cmd provides the wf CLI commands.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags; "dev" otherwise.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "wf",
	Short:   "wf - automated map-run controller",
	Version: Version,
	Long: `wf drives one map run end to end: locate the temple, walk to it,
clear its guardians, locate the map boss, approach it, and fight it to
completion.`,
	SilenceUsage: true,
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// runtimeDir returns the directory wf keeps its lock/status/settings files
// in, honoring $WF_RUNTIME_DIR for tests and sandboxed runs.
func runtimeDir() (string, error) {
	if dir := os.Getenv("WF_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".wayfinder"), nil
}

func settingsPath(dir string) string { return filepath.Join(dir, "settings.toml") }
func lockPath(dir string) string     { return filepath.Join(dir, "wf.lock") }
func statusPath(dir string) string   { return filepath.Join(dir, "status.json") }
func debugLogPath(dir string) string { return filepath.Join(dir, "debug.jsonl") }
