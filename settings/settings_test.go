package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathing.toml")
	if err := SaveDefault(path); err != nil {
		t.Fatalf("save default: %v", err)
	}
	if err := SaveDefault(path); err == nil {
		t.Fatalf("expected error saving over an existing file")
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s != DefaultSettings() {
		t.Fatalf("loaded settings differ from defaults: %+v", s)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	data := []byte("[Movement]\nAllowPlace = false\nMaxFallHeight = 5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Movement.AllowPlace || s.Movement.MaxFallHeight != 5 {
		t.Fatalf("expected overrides to apply, got %+v", s.Movement)
	}
	if !s.Movement.AllowBreak || s.Execution.MaxTicksAway != 200 {
		t.Fatalf("expected defaults to be kept, got %+v", s)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error loading a missing file")
	}
}
