package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/james-see/basstab/pkg/tab"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	d, _ := cfg.Duration()
	if d != tab.Quarter {
		t.Errorf("Duration() = %v, want quarter", d)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basstab.yaml")
	data := "default_string: 3\ndefault_duration: eighth\ntuning: drop-d\nlog_level: debug\nserver:\n  port: 9090\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultString != 3 || cfg.Tuning != "drop-d" || cfg.Server.Port != 9090 {
		t.Errorf("Load() = %+v", cfg)
	}
	// untouched keys keep their defaults
	if cfg.TimeSignature != "4/4" || cfg.Server.Mode != "release" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if lvl, _ := cfg.Level(); lvl != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", lvl)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad string", "default_string: 6\n"},
		{"bad fret", "default_fret: -2\n"},
		{"derived duration", "default_duration: 3/16\n"},
		{"bad time signature", "time_signature: 5/6\n"},
		{"bad tuning", "tuning: nashville\n"},
		{"bad level", "log_level: loud\n"},
		{"bad port", "server:\n  port: 0\n"},
		{"bad mode", "server:\n  mode: fast\n"},
		{"bad yaml", "default_string: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "basstab.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("Load() should reject %q", tt.data)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}
