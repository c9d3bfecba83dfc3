package agents

// UpdateScore recomputes the agent's payoff from its current group.
//
// An agent alone scores exactly 1. Otherwise it earns 1 for not contributing
// plus synergy times the share of contributors in its group, itself included.
// Group must be current for this tick.
func (a *Agent) UpdateScore(pop Population, synergy float64) {
	a.Score = Score(a, pop, synergy)
}

// Score computes the payoff of a without storing it.
func Score(a *Agent, pop Population, synergy float64) float64 {
	size := len(a.Group)
	if size <= 1 {
		return 1
	}
	contribution := 0
	for _, id := range a.Group {
		contribution += int(pop.Get(id).Policy)
	}
	return float64(1-a.Policy) + synergy*float64(contribution)/float64(size)
}

// Dissatisfied reports whether the agent's current score is below pressure.
func (a *Agent) Dissatisfied(pressure float64) bool {
	return a.Score < pressure
}
