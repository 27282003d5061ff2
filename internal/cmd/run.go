package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/outrider/wayfinder/internal/fakeworld"
	"github.com/outrider/wayfinder/internal/settings"
	"github.com/outrider/wayfinder/internal/supervisor"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the run loop in the foreground",
	Long: `Start the run loop in the foreground.

This build ships without a concrete game-memory reader, pathfinder, or
packet transport — those are external collaborators per the core's
design and are wired in at the deployment site. Running wf directly
drives the core against an in-memory stand-in world so the loop and its
settings/status files can be exercised end to end.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	dir, err := runtimeDir()
	if err != nil {
		return err
	}

	sPath := settingsPath(dir)
	s, err := settings.Load(sPath)
	if err != nil {
		s = settings.Default()
		_ = settings.Save(sPath, s)
	}

	world := fakeworld.New()
	world.HasPlayer = true

	logFile, err := os.OpenFile(debugLogPath(dir), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err == nil {
		defer logFile.Close()
	}
	logger := log.New(os.Stderr, "wf: ", log.LstdFlags)

	sv := supervisor.New(supervisor.Config{
		LockFile:   lockPath(dir),
		StatusFile: statusPath(dir),
		Logger:     logger,
		World:      world,
		PF:         world,
		Emit:       &fakeworld.Emitter{},
		Rand:       defaultRand{},
		Enabled: func() bool {
			if cur, err := settings.Load(sPath); err == nil {
				s = cur
			}
			return s.Enabled
		},
		SkipBoss: func() bool {
			if !s.SkipBoss {
				return false
			}
			s.SkipBoss = false
			_ = settings.Save(sPath, s)
			return true
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("wf running (enabled=%v); Ctrl-C to stop\n", s.Enabled)
	return sv.Run(ctx)
}

type defaultRand struct{}

func (defaultRand) Float64() float64 { return stdRandFloat64() }
