package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogDedupesWithinWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.jsonl")
	s := NewSink(path)
	clock := time.Now()
	s.now = func() time.Time { return clock }

	s.Log("stuck", map[string]interface{}{"reason": "stuck"})
	s.Log("stuck", map[string]interface{}{"reason": "stuck"})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Count(strings.TrimRight(string(data), "\n"), "\n") + 1
	if lines != 1 {
		t.Fatalf("expected 1 deduped line, got %d", lines)
	}

	clock = clock.Add(2 * time.Second)
	s.Log("stuck", map[string]interface{}{"reason": "stuck"})
	data, _ = os.ReadFile(path)
	lines = strings.Count(strings.TrimRight(string(data), "\n"), "\n") + 1
	if lines != 2 {
		t.Fatalf("expected 2 lines after window passed, got %d", lines)
	}
}
