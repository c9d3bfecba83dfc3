// Population setup places agents on distinct random cells and seeds the
// initial contributors.
package agents

import (
	"errors"
	"fmt"

	"github.com/talgya/groupsim/internal/config"
	"github.com/talgya/groupsim/internal/entropy"
	"github.com/talgya/groupsim/internal/world"
)

// ErrOverCapacity is returned when more agents are requested than the grid has cells.
var ErrOverCapacity = errors.New("population exceeds grid capacity")

// Spawner creates the initial population for a run.
type Spawner struct {
	rng         entropy.Rand
	temperament *Temperament
	nextID      AgentID
}

// NewSpawner creates a spawner drawing every random choice from rng.
func NewSpawner(rng entropy.Rand, patience config.Patience) *Spawner {
	return &Spawner{
		rng:         rng,
		temperament: NewTemperament(rng, patience),
		nextID:      1,
	}
}

// Populate places count agents on uniformly random unoccupied cells, ids
// 1..count in creation order, all defecting, then turns the first
// floor(count × prosocialFraction) agents into contributors.
func (s *Spawner) Populate(grid *world.Grid, count int, prosocialFraction float64) (Population, error) {
	if count > grid.Size()-grid.Occupied() {
		return nil, fmt.Errorf("populate %d agents on %s: %w", count, grid, ErrOverCapacity)
	}

	pop := make(Population, 0, count)
	for i := 0; i < count; i++ {
		a, err := s.spawnOne(grid)
		if err != nil {
			return nil, err
		}
		pop = append(pop, a)
	}

	contributors := int(float64(count) * prosocialFraction)
	for _, a := range pop[:contributors] {
		a.Policy = PolicyContribute
	}
	return pop, nil
}

func (s *Spawner) spawnOne(grid *world.Grid) (*Agent, error) {
	id := s.nextID
	s.nextID++

	// Resample until empty; capacity was checked so this terminates.
	spot := s.randomCell(grid)
	for !grid.IsEmpty(spot) {
		spot = s.randomCell(grid)
	}
	if err := grid.Place(spot, uint64(id)); err != nil {
		return nil, err
	}

	groupPatience, policyPatience := s.temperament.Assign(spot)
	return &Agent{
		ID:             id,
		Position:       spot,
		Policy:         PolicyDefect,
		GroupPatience:  groupPatience,
		PolicyPatience: policyPatience,
	}, nil
}

func (s *Spawner) randomCell(grid *world.Grid) world.Coord {
	return world.Coord{Row: s.rng.Intn(grid.Rows), Col: s.rng.Intn(grid.Cols)}
}
