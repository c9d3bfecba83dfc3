package engine

import (
	"testing"

	"github.com/talgya/groupsim/internal/agents"
	"github.com/talgya/groupsim/internal/config"
	"github.com/talgya/groupsim/internal/entropy"
	"github.com/talgya/groupsim/internal/world"
)

// placed builds a simulation with agents at fixed cells.
func placed(t *testing.T, rows, cols int, rng entropy.Rand, cells ...world.Coord) *Simulation {
	t.Helper()
	cfg := config.Default()
	cfg.Rows, cfg.Cols = rows, cols
	grid := world.NewGrid(rows, cols)
	pop := make(agents.Population, len(cells))
	for i, c := range cells {
		pop[i] = &agents.Agent{ID: agents.AgentID(i + 1), Position: c, GroupPatience: 0.5, PolicyPatience: 0.5}
		if err := grid.Place(c, uint64(i+1)); err != nil {
			t.Fatalf("Place: %v", err)
		}
	}
	return newSimulation(cfg, grid, pop, rng)
}

func TestRelocationResamplesOwnCell(t *testing.T) {
	// Candidates start as [(0,2) empty, (0,0) agent 1, (0,1) agent 2].
	rng := entropy.NewScripted(nil, []int{1, 0, 1, 0})
	sim := placed(t, 1, 3, rng, world.Coord{Row: 0, Col: 0}, world.Coord{Row: 0, Col: 1})

	moved, err := sim.relocate(sim.Agents)
	if err != nil {
		t.Fatalf("relocate: %v", err)
	}
	if moved != 2 {
		t.Fatalf("moved = %d, want 2", moved)
	}
	if got := sim.Agents[0].Position; got != (world.Coord{Row: 0, Col: 2}) {
		t.Fatalf("agent 1 at %s, want (0,2)", got)
	}
	if got := sim.Agents[1].Position; got != (world.Coord{Row: 0, Col: 0}) {
		t.Fatalf("agent 2 at %s, want (0,0)", got)
	}
	if !sim.Grid.IsEmpty(world.Coord{Row: 0, Col: 1}) {
		t.Fatal("(0,1) still occupied")
	}
	checkOccupancy(t, sim)
}

func TestRelocationSwapOnFullGrid(t *testing.T) {
	// Agent 1 takes agent 2's cell before agent 2 leaves.
	rng := entropy.NewScripted(nil, []int{1})
	sim := placed(t, 1, 2, rng, world.Coord{Row: 0, Col: 0}, world.Coord{Row: 0, Col: 1})

	moved, err := sim.relocate(sim.Agents)
	if err != nil {
		t.Fatalf("relocate: %v", err)
	}
	if moved != 2 {
		t.Fatalf("moved = %d, want 2", moved)
	}
	if sim.Agents[0].Position != (world.Coord{Row: 0, Col: 1}) || sim.Agents[1].Position != (world.Coord{Row: 0, Col: 0}) {
		t.Fatalf("positions %s %s, want swapped", sim.Agents[0].Position, sim.Agents[1].Position)
	}
	checkOccupancy(t, sim)
}

func TestRelocationLastMoverDeadlocks(t *testing.T) {
	// Full 1x3 grid, all three move. Agent 1 takes (0,1), agent 2 takes (0,0),
	// leaving agent 3 only its own cell.
	rng := entropy.NewScripted(nil, []int{1, 0})
	sim := placed(t, 1, 3, rng,
		world.Coord{Row: 0, Col: 0}, world.Coord{Row: 0, Col: 1}, world.Coord{Row: 0, Col: 2})
	sim.Tick = 7

	_, err := sim.relocate(sim.Agents)
	de, ok := err.(*RelocationDeadlockError)
	if !ok {
		t.Fatalf("relocate error = %v, want RelocationDeadlockError", err)
	}
	if de.AgentID != 3 || de.Tick != 7 || de.Cell != (world.Coord{Row: 0, Col: 2}) {
		t.Fatalf("deadlock = %+v", de)
	}
}

func TestRelocationLastMoverStays(t *testing.T) {
	rng := entropy.NewScripted(nil, []int{1, 0})
	sim := placed(t, 1, 3, rng,
		world.Coord{Row: 0, Col: 0}, world.Coord{Row: 0, Col: 1}, world.Coord{Row: 0, Col: 2})
	sim.Config.OnDeadlock = config.DeadlockStay

	moved, err := sim.relocate(sim.Agents)
	if err != nil {
		t.Fatalf("relocate: %v", err)
	}
	if moved != 2 {
		t.Fatalf("moved = %d, want 2", moved)
	}
	if sim.Agents[2].Position != (world.Coord{Row: 0, Col: 2}) {
		t.Fatalf("agent 3 at %s, want to stay at (0,2)", sim.Agents[2].Position)
	}
	checkOccupancy(t, sim)
}

func TestRelocationNoMovers(t *testing.T) {
	sim := placed(t, 2, 2, entropy.NewSource(1), world.Coord{Row: 0, Col: 0})
	moved, err := sim.relocate(nil)
	if err != nil || moved != 0 {
		t.Fatalf("relocate(nil) = %d, %v", moved, err)
	}
}

func TestDecideOrderAndIndependence(t *testing.T) {
	// Three isolated agents, all dissatisfied. Draws are consumed in id order,
	// move draw first.
	rng := entropy.NewScripted([]float64{0.9, 0.1, 0.1, 0.9, 0.9, 0.9}, nil)
	sim := placed(t, 3, 3, rng,
		world.Coord{Row: 0, Col: 0}, world.Coord{Row: 0, Col: 2}, world.Coord{Row: 2, Col: 2})
	sim.Config.Pressure = 1.5
	for _, a := range sim.Agents {
		a.Group = []agents.AgentID{a.ID}
		a.UpdateScore(sim.Agents, sim.Config.Synergy)
	}

	d := sim.decide()
	if d.unsatisfied != 3 {
		t.Fatalf("unsatisfied = %d, want 3", d.unsatisfied)
	}
	if ids(d.moving) != "1,3" || ids(d.switching) != "2,3" {
		t.Fatalf("moving %s switching %s", ids(d.moving), ids(d.switching))
	}
}

func TestSatisfiedAgentsNeverAct(t *testing.T) {
	sim := placed(t, 3, 3, entropy.NewSource(1),
		world.Coord{Row: 0, Col: 0}, world.Coord{Row: 2, Col: 2})
	sim.Config.Pressure = 1.0 // Isolated agents score exactly 1
	for _, a := range sim.Agents {
		a.GroupPatience, a.PolicyPatience = 0, 0
		a.Group = []agents.AgentID{a.ID}
		a.UpdateScore(sim.Agents, sim.Config.Synergy)
	}
	d := sim.decide()
	if d.unsatisfied != 0 || len(d.moving) != 0 || len(d.switching) != 0 {
		t.Fatalf("satisfied agents acted: %+v", d)
	}
}

func ids(list []*agents.Agent) string {
	out := ""
	for i, a := range list {
		if i > 0 {
			out += ","
		}
		out += string(rune('0' + a.ID))
	}
	return out
}
