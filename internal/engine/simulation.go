// Simulation ties the grid, the population, and the per-tick systems together.
package engine

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/groupsim/internal/agents"
	"github.com/talgya/groupsim/internal/config"
	"github.com/talgya/groupsim/internal/entropy"
	"github.com/talgya/groupsim/internal/social"
	"github.com/talgya/groupsim/internal/world"
)

// State is the tick loop's lifecycle state.
type State uint8

const (
	StateRunning   State = iota
	StateConverged       // A tick found every agent satisfied
	StateTimedOut        // The tick budget ran out
	StateAborted         // Relocation deadlock or cancelled run
)

var stateNames = [...]string{"running", "converged", "timed_out", "aborted"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

// Terminal returns true once the loop has stopped.
func (s State) Terminal() bool {
	return s != StateRunning
}

// MarshalJSON encodes the state by name.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ParseState maps a state name back to its value.
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return StateRunning, fmt.Errorf("unknown state %q", name)
}

// Sample is one point of the output time series.
type Sample struct {
	Tick              int     `json:"tick" db:"tick"`
	ProsocialFraction float64 `json:"prosocial_fraction" db:"prosocial_fraction"`
}

// TickReport summarises one tick for logging and storage.
type TickReport struct {
	Tick              int               `json:"tick"`
	Unsatisfied       int               `json:"unsatisfied"`
	Moved             int               `json:"moved"`
	Switched          int               `json:"switched"`
	ProsocialFraction float64           `json:"prosocial_fraction"`
	MeanScore         float64           `json:"mean_score"`
	Groups            social.GroupStats `json:"groups"`
	Converged         bool              `json:"converged"`
}

// Simulation holds the complete state of one run. It is owned by a single
// goroutine; independent runs share nothing.
type Simulation struct {
	Config config.Config
	Seed   int64 // Seed of the source, when known
	Grid   *world.Grid
	Agents agents.Population

	Tick   int      // Last tick started
	State  State
	Series []Sample // Append-only

	rng entropy.Rand
}

// NewSimulation validates cfg, populates a fresh grid drawing from rng, and
// records the tick-0 sample.
func NewSimulation(cfg config.Config, rng entropy.Rand) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid := world.NewGrid(cfg.Rows, cfg.Cols)
	spawner := agents.NewSpawner(rng, cfg.Patience)
	pop, err := spawner.Populate(grid, cfg.Population(), cfg.InitialProsocialFraction)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	return newSimulation(cfg, grid, pop, rng), nil
}

// NewSeeded builds a simulation on an entropy.Source seeded from cfg.Seed.
func NewSeeded(cfg config.Config) (*Simulation, error) {
	src := entropy.NewSource(cfg.Seed)
	sim, err := NewSimulation(cfg, src)
	if err != nil {
		return nil, err
	}
	sim.Seed = src.Seed()
	return sim, nil
}

// newSimulation assembles a simulation from an already-populated grid.
func newSimulation(cfg config.Config, grid *world.Grid, pop agents.Population, rng entropy.Rand) *Simulation {
	sim := &Simulation{
		Config: cfg,
		Grid:   grid,
		Agents: pop,
		State:  StateRunning,
		rng:    rng,
	}
	sim.record(0)
	return sim
}

// record appends (tick, prosocial fraction) to the series.
func (s *Simulation) record(tick int) float64 {
	f := s.Agents.ProsocialFraction()
	s.Series = append(s.Series, Sample{Tick: tick, ProsocialFraction: f})
	return f
}

// Result is the outcome of a finished (or stopped) run.
type Result struct {
	Seed       int64    `json:"seed"`
	State      State    `json:"state"`
	Ticks      int      `json:"ticks"`
	Population int      `json:"population"`
	Series     []Sample `json:"series"`
}

// FinalFraction returns the last recorded prosocial fraction.
func (r Result) FinalFraction() float64 {
	if len(r.Series) == 0 {
		return 0
	}
	return r.Series[len(r.Series)-1].ProsocialFraction
}

// Result snapshots the run's outcome so far.
func (s *Simulation) Result() Result {
	series := make([]Sample, len(s.Series))
	copy(series, s.Series)
	return Result{
		Seed:       s.Seed,
		State:      s.State,
		Ticks:      s.Tick,
		Population: len(s.Agents),
		Series:     series,
	}
}
