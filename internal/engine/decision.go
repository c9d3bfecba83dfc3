package engine

import "github.com/talgya/groupsim/internal/agents"

// decisions collects what the dissatisfied agents chose this tick.
type decisions struct {
	unsatisfied int
	moving      []*agents.Agent // Ascending id
	switching   []*agents.Agent
}

// decide lets every dissatisfied agent, in ascending id order, draw its move
// and switch decisions. Scores must be current for this tick.
func (s *Simulation) decide() decisions {
	var d decisions
	for _, a := range s.Agents {
		if !a.Dissatisfied(s.Config.Pressure) {
			continue
		}
		d.unsatisfied++
		choice := a.Decide(s.rng)
		if choice.Move {
			d.moving = append(d.moving, a)
		}
		if choice.Switch {
			d.switching = append(d.switching, a)
		}
	}
	return d
}
