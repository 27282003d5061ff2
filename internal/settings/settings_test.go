package settings

import (
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "settings.toml")

	s := Default()
	s.SkipBoss = true
	s.LastAreaName = "Temple of Ardea"
	s.RunCount = 3

	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != s {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, s)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSaveRejectsBadVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := Save(path, Settings{Version: 99}); err == nil {
		t.Fatalf("expected validation error for bad version")
	}
}
