package engine

import (
	"log/slog"
	"slices"

	"github.com/talgya/groupsim/internal/agents"
	"github.com/talgya/groupsim/internal/config"
	"github.com/talgya/groupsim/internal/world"
)

// relocate moves every agent in moving (ascending id) to a new cell and
// returns how many actually moved.
//
// Candidates are the empty cells (row-major) followed by the movers' own
// cells. Each mover draws uniformly from the remaining candidates, redrawing
// if it hits its own cell, and the cell it takes leaves the candidate list.
// No two movers share a destination and a vacated cell stays available to
// later movers.
func (s *Simulation) relocate(moving []*agents.Agent) (int, error) {
	if len(moving) == 0 {
		return 0, nil
	}

	candidates := s.Grid.EmptyCells()
	for _, a := range moving {
		candidates = append(candidates, a.Position)
	}

	moved := 0
	for _, a := range moving {
		from := a.Position
		i, ok := s.pickDestination(candidates, from)
		if !ok {
			if s.Config.OnDeadlock != config.DeadlockStay {
				return moved, &RelocationDeadlockError{Tick: s.Tick, AgentID: a.ID, Cell: from}
			}
			slog.Debug("relocation deadlock, agent stays", "tick", s.Tick, "agent", a.ID, "cell", from.String())
			if j := slices.Index(candidates, from); j >= 0 {
				candidates = slices.Delete(candidates, j, j+1)
			}
			continue
		}

		to := candidates[i]
		if err := s.Grid.Move(uint64(a.ID), from, to); err != nil {
			return moved, err
		}
		a.Position = to
		candidates = slices.Delete(candidates, i, i+1)
		moved++
	}
	return moved, nil
}

// pickDestination draws a candidate index other than own. It reports false
// when own is the only candidate left.
func (s *Simulation) pickDestination(candidates []world.Coord, own world.Coord) (int, bool) {
	if len(candidates) == 0 || (len(candidates) == 1 && candidates[0] == own) {
		return 0, false
	}
	for {
		i := s.rng.Intn(len(candidates))
		if candidates[i] != own {
			return i, true
		}
	}
}
