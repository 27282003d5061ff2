// Package debuglog provides a dedup'd JSONL debug sink for the core's
// OnDebug callback: identical events fired in quick succession (a
// path-blocked retry every tick, for instance) collapse into one line
// instead of flooding the log.
package debuglog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/outrider/wayfinder/internal/mapconst"
)

// Entry is one logged debug event.
type Entry struct {
	Timestamp string                 `json:"ts"`
	Event     string                 `json:"event"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Sink dedupes and appends entries to a JSONL file.
type Sink struct {
	mu       sync.Mutex
	path     string
	lastKey  string
	lastAt   time.Time
	now      func() time.Time
}

// NewSink returns a dedup'd JSONL sink for path. Nothing is opened here;
// each written entry opens the file, creating it if needed.
func NewSink(path string) *Sink {
	return &Sink{path: path, now: time.Now}
}

// Log records event/fields unless it's an exact repeat of the immediately
// preceding entry within LogDedupWindow. Errors are swallowed: debug
// logging is best-effort and must never affect tick behavior.
func (s *Sink) Log(event string, fields map[string]interface{}) {
	now := s.now()
	key := dedupKey(event, fields)

	s.mu.Lock()
	defer s.mu.Unlock()

	if key == s.lastKey && now.Sub(s.lastAt) < mapconst.LogDedupWindow {
		return
	}
	s.lastKey = key
	s.lastAt = now

	entry := Entry{Timestamp: now.UTC().Format(time.RFC3339Nano), Event: event, Fields: fields}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G302: debug log is non-sensitive operational data
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(data)
}

func dedupKey(event string, fields map[string]interface{}) string {
	data, err := json.Marshal(fields)
	if err != nil {
		return event
	}
	return fmt.Sprintf("%s|%s", event, data)
}
