package supervisor

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/outrider/wayfinder/internal/fakeworld"
)

func TestRunShutsDownOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	w := fakeworld.New()
	w.HasPlayer = true

	sv := New(Config{
		LockFile:   filepath.Join(dir, "sv.lock"),
		StatusFile: filepath.Join(dir, "status.json"),
		World:      w,
		PF:         w,
		Emit:       &fakeworld.Emitter{},
		Rand:       &fakeworld.FixedRand{},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	if err := sv.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	st, err := ReadStatus(filepath.Join(dir, "status.json"))
	if err != nil {
		t.Fatalf("ReadStatus: %v", err)
	}
	if st.Running {
		t.Fatalf("expected final status to report not running")
	}
}

func TestSecondRunFailsWhileLockHeld(t *testing.T) {
	dir := t.TempDir()
	w := fakeworld.New()

	sv1 := New(Config{
		LockFile: filepath.Join(dir, "sv.lock"),
		World:    w, PF: w, Emit: &fakeworld.Emitter{}, Rand: &fakeworld.FixedRand{},
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = sv1.Run(ctx) }()
	time.Sleep(30 * time.Millisecond)

	sv2 := New(Config{
		LockFile: filepath.Join(dir, "sv.lock"),
		World:    w, PF: w, Emit: &fakeworld.Emitter{}, Rand: &fakeworld.FixedRand{},
	})
	ctx2, cancel2 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel2()
	if err := sv2.Run(ctx2); err == nil {
		t.Fatalf("expected second supervisor to fail acquiring held lock")
	}
	cancel()
	time.Sleep(30 * time.Millisecond)
}
