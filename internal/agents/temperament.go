// Temperament assigns each agent its two patience thresholds at creation.
package agents

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/groupsim/internal/config"
	"github.com/talgya/groupsim/internal/entropy"
	"github.com/talgya/groupsim/internal/world"
)

// maxPatience is the largest float64 below 1.
var maxPatience = math.Nextafter(1, 0)

// Temperament hands out patience values according to a config.Patience mode.
type Temperament struct {
	cfg config.Patience
	rng entropy.Rand

	// Field mode only.
	groupNoise  opensimplex.Noise
	policyNoise opensimplex.Noise
}

// NewTemperament builds a temperament source. In field mode the noise seed is
// drawn from rng so a run seed still replays the whole population.
func NewTemperament(rng entropy.Rand, cfg config.Patience) *Temperament {
	t := &Temperament{cfg: cfg, rng: rng}
	if cfg.Mode == config.PatienceField {
		seed := int64(rng.Intn(math.MaxInt32))
		t.groupNoise = opensimplex.NewNormalized(seed)
		t.policyNoise = opensimplex.NewNormalized(seed + 1)
	}
	return t
}

// Assign returns (groupPatience, policyPatience) for an agent created at cell.
// Both values lie in [0, 1).
func (t *Temperament) Assign(cell world.Coord) (float64, float64) {
	switch t.cfg.Mode {
	case config.PatienceUniform:
		return t.rng.Float(), t.rng.Float()
	case config.PatienceField:
		x := float64(cell.Col) * t.cfg.Scale
		y := float64(cell.Row) * t.cfg.Scale
		return clampPatience(t.groupNoise.Eval2(x, y)), clampPatience(t.policyNoise.Eval2(x, y))
	default:
		return t.cfg.Group, t.cfg.Policy
	}
}

func clampPatience(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > maxPatience {
		return maxPatience
	}
	return v
}
