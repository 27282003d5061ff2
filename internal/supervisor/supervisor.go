// Package supervisor is the process-level run loop: it acquires a
// single-instance lock, drives the Mapper's Tick on a fixed interval,
// applies returned intents through a worldapi.Emitter, writes a status
// file other processes can poll, and shuts down cleanly on signal or
// context cancellation — the same shape as the teacher's daemon run loop,
// narrowed from a multi-agent orchestrator's heartbeat to one mapper's
// tick.
package supervisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/outrider/wayfinder/internal/mapper"
	"github.com/outrider/wayfinder/internal/worldapi"
)

// TickInterval is how often the supervisor asks the Mapper for a new set
// of intents. Faster than any single rate limit inside mapper so the gate
// there, not this loop, is what bounds emission.
const TickInterval = 40 * time.Millisecond

// Status is the JSON status file a CLI `status`/`watch` command polls.
type Status struct {
	Running   bool      `json:"running"`
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
	AreaName  string    `json:"area_name"`
}

// Config configures one supervisor run.
type Config struct {
	LockFile   string
	StatusFile string
	Logger     *log.Logger

	World worldapi.WorldReader
	PF    worldapi.Pathfinder
	Emit  worldapi.Emitter
	Rand  interface{ Float64() float64 }

	Enabled  func() bool // polled each tick; false suspends intent emission
	SkipBoss func() bool // polled each tick; true skips the temple and moves the run to boss search
}

// Supervisor owns the lock, the Mapper, and the status file across one run.
type Supervisor struct {
	cfg    Config
	mapper *mapper.Mapper

	mu         sync.Mutex
	lastStatus Status
}

// New constructs a Supervisor and its Mapper, wired against cfg's world
// reader, pathfinder, and entropy source.
func New(cfg Config) *Supervisor {
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	m := mapper.New(cfg.World, cfg.PF, cfg.Rand)
	return &Supervisor{cfg: cfg, mapper: m}
}

// Run acquires the single-instance lock and drives ticks until ctx is
// canceled or a termination signal arrives.
func (s *Supervisor) Run(ctx context.Context) error {
	s.cfg.Logger.Printf("supervisor starting (PID %d)", os.Getpid())

	if err := os.MkdirAll(filepath.Dir(s.cfg.LockFile), 0o755); err != nil {
		return fmt.Errorf("creating lock directory: %w", err)
	}
	fileLock := flock.New(s.cfg.LockFile)
	locked, err := fileLock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("supervisor already running (lock held by another process)")
	}
	defer func() { _ = fileLock.Unlock() }()

	started := time.Now()
	s.writeStatus(Status{Running: true, PID: os.Getpid(), StartedAt: started, UpdatedAt: started})
	defer s.writeStatus(Status{Running: false, PID: os.Getpid(), StartedAt: started, UpdatedAt: time.Now()})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.cfg.Logger.Println("context canceled, shutting down")
			return nil
		case sig := <-sigChan:
			s.cfg.Logger.Printf("received signal %v, shutting down", sig)
			return nil
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

func (s *Supervisor) tick(now time.Time) {
	if s.cfg.Enabled != nil && !s.cfg.Enabled() {
		return
	}
	if s.cfg.SkipBoss != nil && s.cfg.SkipBoss() {
		s.mapper.SkipBoss()
	}

	entities := s.cfg.World.GetEntities(worldapi.EntityFilter{AliveOnly: true})
	snap := worldapi.BuildSnapshot(s.cfg.World, entities, now)

	intents := s.mapper.Tick(snap)
	for _, in := range intents {
		applyIntent(s.cfg.Emit, in)
	}

	s.writeStatus(Status{
		Running:   true,
		PID:       os.Getpid(),
		State:     s.mapper.State().String(),
		UpdatedAt: now,
		AreaName:  snap.Area.AreaName,
	})
}

func applyIntent(emit worldapi.Emitter, in mapper.Intent) {
	switch in.Kind {
	case mapper.IntentMove:
		emit.MoveAtAngle(in.AngleDeg, in.Distance)
	case mapper.IntentStop:
		emit.StopMovement()
	case mapper.IntentChanneledSkill:
		emit.ExecuteChanneledSkill(in.SkillBytes, in.DX, in.DY, in.Slot)
	}
}

func (s *Supervisor) writeStatus(st Status) {
	s.mu.Lock()
	s.lastStatus = st
	s.mu.Unlock()

	if s.cfg.StatusFile == "" {
		return
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.cfg.StatusFile), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(s.cfg.StatusFile, data, 0o600)
}

// LastStatus returns the most recently written status, for callers that
// share a process with the supervisor.
func (s *Supervisor) LastStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStatus
}

// ReadStatus loads a status file written by another process.
func ReadStatus(path string) (Status, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is from trusted runtime directory
	if err != nil {
		return Status{}, err
	}
	var st Status
	if err := json.Unmarshal(data, &st); err != nil {
		return Status{}, err
	}
	return st, nil
}
