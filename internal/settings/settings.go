// Package settings loads and saves the persisted settings a run needs
// across restarts (toggle state, skip-to-boss flag, last known area). It follows the same read/decode/validate, encode/write shape as
// the JSON config loader this project's ambient stack is modeled on, but
// persists as TOML the way the ritual file format does.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

var (
	// ErrNotFound indicates the settings file does not exist.
	ErrNotFound = errors.New("settings file not found")

	// ErrInvalidVersion indicates an unsupported schema version.
	ErrInvalidVersion = errors.New("unsupported settings version")
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 1

// Settings is the whole persisted file: whether the core is enabled, the
// pending skip-to-boss request, the last area it ran in (for status
// reporting), and run bookkeeping. One file serves every player identity,
// and it holds no tuning parameters; those are the compiled-in constants
// of package mapconst.
type Settings struct {
	Version       int    `toml:"version"`
	Enabled       bool   `toml:"enabled"`
	SkipBoss      bool   `toml:"skip_boss"`
	LastAreaName  string `toml:"last_area_name"`
	LastRunID     string `toml:"last_run_id"`
	RunCount      int    `toml:"run_count"`
}

// Default returns a Settings value with the core enabled and no history.
func Default() Settings {
	return Settings{Version: CurrentVersion, Enabled: true}
}

// Load reads and validates a settings file. A missing file is reported as
// ErrNotFound so callers can fall back to Default() themselves.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is from trusted settings directory
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	if _, err := toml.Decode(string(data), &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}

	if err := validate(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save validates and writes settings, creating the parent directory if
// needed.
func Save(path string, s Settings) error {
	if s.Version == 0 {
		s.Version = CurrentVersion
	}
	if err := validate(&s); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("opening settings file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return nil
}

func validate(s *Settings) error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidVersion, s.Version, CurrentVersion)
	}
	return nil
}
