package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := cfg.Population(); got != 338 {
		t.Fatalf("Population = %d, want 338", got)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"zero rows", func(c *Config) { c.Rows = 0 }, "rows"},
		{"negative cols", func(c *Config) { c.Cols = -1 }, "cols"},
		{"fraction above one", func(c *Config) { c.InitialProsocialFraction = 1.2 }, "initial_prosocial_fraction"},
		{"zero density", func(c *Config) { c.Density = 0 }, "density"},
		{"density above one", func(c *Config) { c.Density = 1.01 }, "density"},
		{"tiny population", func(c *Config) { c.Rows, c.Cols, c.Density = 1, 1, 0.5 }, "density"},
		{"zero synergy", func(c *Config) { c.Synergy = 0 }, "synergy"},
		{"negative tick max", func(c *Config) { c.TickMax = -1 }, "tick_max"},
		{"group patience one", func(c *Config) { c.Patience.Group = 1 }, "patience.group"},
		{"policy patience negative", func(c *Config) { c.Patience.Policy = -0.1 }, "patience.policy"},
		{"unknown mode", func(c *Config) { c.Patience.Mode = "gaussian" }, "patience.mode"},
		{"field without scale", func(c *Config) { c.Patience.Mode, c.Patience.Scale = PatienceField, 0 }, "patience.scale"},
		{"unknown deadlock policy", func(c *Config) { c.OnDeadlock = "retry" }, "on_deadlock"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.edit(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("error %v does not match ErrInvalid", err)
			}
			var ce *ConfigurationError
			if !errors.As(err, &ce) || ce.Field != tc.field {
				t.Fatalf("error %v, want field %q", err, tc.field)
			}
		})
	}
}

func TestFullGridIsValid(t *testing.T) {
	cfg := Default()
	cfg.Rows, cfg.Cols, cfg.Density = 3, 3, 1.0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Population() != 9 {
		t.Fatalf("Population = %d, want 9", cfg.Population())
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	raw := []byte("rows: 10\ncols: 12\nsynergy: 3.0\npatience:\n  mode: uniform\non_deadlock: stay\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rows != 10 || cfg.Cols != 12 || cfg.Synergy != 3.0 {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.Pressure != 1.06 || cfg.TickMax != 200 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.Patience.Mode != PatienceUniform || cfg.OnDeadlock != DeadlockStay {
		t.Fatalf("nested fields not applied: %+v", cfg)
	}
}

func TestLoadValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("density: 2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load error = %v, want ErrInvalid", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load error = %v, want ErrNotExist", err)
	}
}
