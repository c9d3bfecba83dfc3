// Package config holds the immutable parameters of a simulation run.
// Values are fixed for the whole run; the engine receives a copy at construction.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is matched by every ConfigurationError.
var ErrInvalid = errors.New("invalid configuration")

// ConfigurationError reports a parameter outside its valid range.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalid) match any ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalid
}

// DeadlockPolicy decides what happens when a relocating agent has no
// destination other than its own cell.
type DeadlockPolicy string

const (
	DeadlockFail DeadlockPolicy = "fail" // Abort the run with a RelocationDeadlockError
	DeadlockStay DeadlockPolicy = "stay" // Agent keeps its cell this tick
)

// PatienceMode selects how agents receive their patience thresholds.
type PatienceMode string

const (
	PatienceFixed   PatienceMode = "fixed"   // Every agent gets Group/Policy
	PatienceUniform PatienceMode = "uniform" // Independent draws in [0, 1)
	PatienceField   PatienceMode = "field"   // Sampled from a smooth noise field over the grid
)

// Patience configures agent temperament at creation.
type Patience struct {
	Mode   PatienceMode `yaml:"mode" json:"mode"`
	Group  float64      `yaml:"group" json:"group"`   // Fixed mode: group patience
	Policy float64      `yaml:"policy" json:"policy"` // Fixed mode: policy patience

	// Field mode: noise frequency in cycles per cell. Small values give broad
	// regions of similar temperament.
	Scale float64 `yaml:"scale" json:"scale"`
}

// Config holds every parameter of one run.
type Config struct {
	Rows                     int     `yaml:"rows" json:"rows"`
	Cols                     int     `yaml:"cols" json:"cols"`
	InitialProsocialFraction float64 `yaml:"initial_prosocial_fraction" json:"initial_prosocial_fraction"`
	Density                  float64 `yaml:"density" json:"density"`
	Pressure                 float64 `yaml:"pressure" json:"pressure"` // Scores below this are dissatisfied
	Synergy                  float64 `yaml:"synergy" json:"synergy"`
	TickMax                  int     `yaml:"tick_max" json:"tick_max"`

	Seed       int64          `yaml:"seed" json:"seed"` // 0 = seed from crypto/rand
	Patience   Patience       `yaml:"patience" json:"patience"`
	OnDeadlock DeadlockPolicy `yaml:"on_deadlock" json:"on_deadlock"`
}

// Default returns the reference parameter set: a 22x22 space at 70% density
// with 10% initial contributors.
func Default() Config {
	return Config{
		Rows:                     22,
		Cols:                     22,
		InitialProsocialFraction: 0.1,
		Density:                  0.7,
		Pressure:                 1.06,
		Synergy:                  2.4,
		TickMax:                  200,
		Patience: Patience{
			Mode:   PatienceFixed,
			Group:  0.5,
			Policy: 0.5,
			Scale:  0.15,
		},
		OnDeadlock: DeadlockFail,
	}
}

// Load reads a YAML file over the defaults and validates the result.
// Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Cells returns the lattice area R×C.
func (c Config) Cells() int {
	return c.Rows * c.Cols
}

// Population returns floor(density × R × C).
func (c Config) Population() int {
	return int(c.Density * float64(c.Cells()))
}

// Validate checks every parameter range. It fails fast on the first problem.
func (c Config) Validate() error {
	switch {
	case c.Rows <= 0:
		return &ConfigurationError{Field: "rows", Reason: "must be positive"}
	case c.Cols <= 0:
		return &ConfigurationError{Field: "cols", Reason: "must be positive"}
	case !unitClosed(c.InitialProsocialFraction):
		return &ConfigurationError{Field: "initial_prosocial_fraction", Reason: "must be in [0, 1]"}
	case math.IsNaN(c.Density) || c.Density <= 0 || c.Density > 1:
		return &ConfigurationError{Field: "density", Reason: "must be in (0, 1]"}
	case math.IsNaN(c.Pressure) || math.IsInf(c.Pressure, 0):
		return &ConfigurationError{Field: "pressure", Reason: "must be finite"}
	case math.IsNaN(c.Synergy) || math.IsInf(c.Synergy, 0) || c.Synergy <= 0:
		return &ConfigurationError{Field: "synergy", Reason: "must be positive"}
	case c.TickMax < 0:
		return &ConfigurationError{Field: "tick_max", Reason: "must not be negative"}
	}

	pop := c.Population()
	if pop < 1 {
		return &ConfigurationError{Field: "density", Reason: fmt.Sprintf("population is %d for a %dx%d grid", pop, c.Rows, c.Cols)}
	}
	if pop > c.Cells() {
		return &ConfigurationError{Field: "density", Reason: fmt.Sprintf("population %d exceeds %d cells", pop, c.Cells())}
	}

	switch c.Patience.Mode {
	case PatienceFixed:
		if !unitHalfOpen(c.Patience.Group) {
			return &ConfigurationError{Field: "patience.group", Reason: "must be in [0, 1)"}
		}
		if !unitHalfOpen(c.Patience.Policy) {
			return &ConfigurationError{Field: "patience.policy", Reason: "must be in [0, 1)"}
		}
	case PatienceUniform:
	case PatienceField:
		if math.IsNaN(c.Patience.Scale) || c.Patience.Scale <= 0 {
			return &ConfigurationError{Field: "patience.scale", Reason: "must be positive"}
		}
	default:
		return &ConfigurationError{Field: "patience.mode", Reason: fmt.Sprintf("unknown mode %q", c.Patience.Mode)}
	}

	switch c.OnDeadlock {
	case DeadlockFail, DeadlockStay:
	default:
		return &ConfigurationError{Field: "on_deadlock", Reason: fmt.Sprintf("unknown policy %q", c.OnDeadlock)}
	}
	return nil
}

func unitClosed(v float64) bool {
	return v >= 0 && v <= 1
}

func unitHalfOpen(v float64) bool {
	return v >= 0 && v < 1
}
