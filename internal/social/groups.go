// Package social forms the local groups agents are scored in.
// Groups are a per-tick view derived from positions; nothing here persists
// between ticks.
package social

import (
	"slices"

	"github.com/talgya/groupsim/internal/agents"
	"github.com/talgya/groupsim/internal/world"
)

// GroupRadius is the exclusive distance bound for group membership. It admits
// the 8-cell Moore neighbourhood (1 and √2) and excludes distance 2.
const GroupRadius = 1.5

// FormGroups recomputes every agent's group from current positions: the agent
// itself first, then every agent closer than GroupRadius in ascending id order.
//
// The grid serves as the spatial index; only the Moore neighbourhood can be
// within range on an integer lattice, and each candidate is still checked
// against GroupRadius.
func FormGroups(grid *world.Grid, pop agents.Population) {
	for _, a := range pop {
		group := make([]agents.AgentID, 1, 9)
		group[0] = a.ID
		for _, n := range a.Position.Neighbors() {
			id := grid.At(n)
			if id == world.Empty || agents.AgentID(id) == a.ID {
				continue
			}
			if world.Distance(a.Position, n) < GroupRadius {
				group = append(group, agents.AgentID(id))
			}
		}
		slices.Sort(group[1:])
		a.Group = group
	}
}

// InGroup reports whether id belongs to a's current group.
func InGroup(a *agents.Agent, id agents.AgentID) bool {
	return slices.Contains(a.Group, id)
}

// GroupStats summarises the group structure of one tick.
type GroupStats struct {
	MeanSize float64 `json:"mean_size"`
	Largest  int     `json:"largest"`
	Isolated int     `json:"isolated"` // Agents alone in their group
}

// Summarize computes GroupStats over the current groups.
func Summarize(pop agents.Population) GroupStats {
	var st GroupStats
	if len(pop) == 0 {
		return st
	}
	total := 0
	for _, a := range pop {
		size := len(a.Group)
		total += size
		if size > st.Largest {
			st.Largest = size
		}
		if size <= 1 {
			st.Isolated++
		}
	}
	st.MeanSize = float64(total) / float64(len(pop))
	return st
}
