// Dissatisfied agents choose, independently, whether to leave their group
// and whether to change policy.
package agents

import "github.com/talgya/groupsim/internal/entropy"

// Choice is what a dissatisfied agent decided this tick.
type Choice struct {
	Move   bool
	Switch bool
}

// Decide draws the agent's two decisions: first the move draw against group
// patience, then the switch draw against policy patience. Both draws are
// always consumed.
func (a *Agent) Decide(rng entropy.Rand) Choice {
	move := rng.Float() >= a.GroupPatience
	sw := rng.Float() >= a.PolicyPatience
	return Choice{Move: move, Switch: sw}
}

// SwitchPolicy flips the agent's policy.
func (a *Agent) SwitchPolicy() {
	a.Policy = a.Policy.Flip()
}
