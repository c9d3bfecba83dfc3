// Ensembles run independent replicates of one configuration in parallel.
package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/groupsim/internal/config"
	"github.com/talgya/groupsim/internal/entropy"
)

// EnsembleOptions controls RunEnsemble.
type EnsembleOptions struct {
	Replicates int
	Workers    int // 0 = GOMAXPROCS
}

// RunEnsemble runs opts.Replicates independent simulations of cfg. Replicate
// i uses seed base+i, where base is cfg.Seed or a fresh crypto seed, so any
// single replicate can be replayed with `run --seed`. Results are in replicate
// order. The first failing replicate cancels the rest.
func RunEnsemble(ctx context.Context, cfg config.Config, opts EnsembleOptions) ([]Result, error) {
	if opts.Replicates < 1 {
		return nil, fmt.Errorf("ensemble: replicates must be positive, got %d", opts.Replicates)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	base := cfg.Seed
	if base == 0 {
		base = entropy.CryptoSeed()
	}

	results := make([]Result, opts.Replicates)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < opts.Replicates; i++ {
		g.Go(func() error {
			rc := cfg
			rc.Seed = base + int64(i)
			sim, err := NewSeeded(rc)
			if err != nil {
				return fmt.Errorf("replicate %d: %w", i, err)
			}
			res, err := NewEngine().Run(ctx, sim)
			results[i] = res
			if err != nil {
				return fmt.Errorf("replicate %d (seed %d): %w", i, rc.Seed, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// MeanSeries averages the replicates' series tick by tick. A replicate that
// stopped early contributes its final value to every later tick.
func MeanSeries(results []Result) []Sample {
	last := -1
	for _, r := range results {
		if n := len(r.Series); n > 0 && r.Series[n-1].Tick > last {
			last = r.Series[n-1].Tick
		}
	}
	if last < 0 {
		return nil
	}

	out := make([]Sample, 0, last+1)
	for tick := 0; tick <= last; tick++ {
		sum, n := 0.0, 0
		for _, r := range results {
			if len(r.Series) == 0 {
				continue
			}
			idx := min(tick, len(r.Series)-1)
			sum += r.Series[idx].ProsocialFraction
			n++
		}
		out = append(out, Sample{Tick: tick, ProsocialFraction: sum / float64(n)})
	}
	return out
}

// EnsembleSummary counts outcomes across replicates.
type EnsembleSummary struct {
	Replicates int     `json:"replicates"`
	Converged  int     `json:"converged"`
	TimedOut   int     `json:"timed_out"`
	Aborted    int     `json:"aborted"`
	MeanFinal  float64 `json:"mean_final_prosocial"`
	MeanTicks  float64 `json:"mean_ticks"`
}

// Summarize aggregates replicate outcomes.
func Summarize(results []Result) EnsembleSummary {
	s := EnsembleSummary{Replicates: len(results)}
	if len(results) == 0 {
		return s
	}
	for _, r := range results {
		switch r.State {
		case StateConverged:
			s.Converged++
		case StateTimedOut:
			s.TimedOut++
		default:
			s.Aborted++
		}
		s.MeanFinal += r.FinalFraction()
		s.MeanTicks += float64(r.Ticks)
	}
	s.MeanFinal /= float64(len(results))
	s.MeanTicks /= float64(len(results))
	return s
}
