// Package agents provides the agent data model, population setup, and scoring.
package agents

import (
	"fmt"

	"github.com/talgya/groupsim/internal/world"
)

// AgentID is a unique identifier for an agent. Ids start at 1.
type AgentID uint64

// Policy is an agent's binary behavioural choice in the public-goods game.
type Policy uint8

const (
	PolicyDefect     Policy = 0 // Non-contributor
	PolicyContribute Policy = 1 // Contributor
)

// Flip returns the other policy.
func (p Policy) Flip() Policy {
	return 1 - p
}

func (p Policy) String() string {
	if p == PolicyContribute {
		return "contribute"
	}
	return "defect"
}

// Agent is a simulated individual.
//
// Group and Score are derived each tick from the current positions and are
// not meaningful across ticks.
type Agent struct {
	ID       AgentID     `json:"id"`
	Position world.Coord `json:"position"`
	Policy   Policy      `json:"policy"`

	// Patience thresholds in [0, 1), fixed at creation. A dissatisfied agent
	// acts when its draw is at or above the threshold.
	GroupPatience  float64 `json:"group_patience"`
	PolicyPatience float64 `json:"policy_patience"`

	Group []AgentID `json:"group"` // Self first, then neighbours by ascending id
	Score float64   `json:"score"`
}

func (a *Agent) String() string {
	return fmt.Sprintf("Agent %d at %s policy=%d group_patience=%.3f policy_patience=%.3f score=%.3f",
		a.ID, a.Position, a.Policy, a.GroupPatience, a.PolicyPatience, a.Score)
}

// Population is the agent list ordered by id: the agent with id i is at index i-1.
type Population []*Agent

// Get returns the agent with the given id, or nil.
func (p Population) Get(id AgentID) *Agent {
	if id == 0 || int(id) > len(p) {
		return nil
	}
	return p[id-1]
}

// Count returns the number of agents holding the given policy.
func (p Population) Count(policy Policy) int {
	n := 0
	for _, a := range p {
		if a.Policy == policy {
			n++
		}
	}
	return n
}

// ProsocialFraction returns the share of contributors, or 0 for an empty population.
func (p Population) ProsocialFraction() float64 {
	if len(p) == 0 {
		return 0
	}
	return float64(p.Count(PolicyContribute)) / float64(len(p))
}

// MeanScore returns the average current score.
func (p Population) MeanScore() float64 {
	if len(p) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range p {
		total += a.Score
	}
	return total / float64(len(p))
}
