package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/talgya/groupsim/internal/config"
)

func TestRunEnsemble(t *testing.T) {
	cfg := smallConfig(10, 10, 0.7)
	cfg.TickMax = 15
	cfg.Seed = 100

	results, err := RunEnsemble(context.Background(), cfg, EnsembleOptions{Replicates: 4, Workers: 2})
	if err != nil {
		t.Fatalf("RunEnsemble: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Seed != 100+int64(i) {
			t.Fatalf("replicate %d seed %d", i, r.Seed)
		}
		if !r.State.Terminal() || r.State == StateAborted {
			t.Fatalf("replicate %d state %v", i, r.State)
		}
	}

	// Replicate 2 replays on its own.
	solo := cfg
	solo.Seed = 102
	again, err := NewEngine().Run(context.Background(), mustSeeded(t, solo))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if again.FinalFraction() != results[2].FinalFraction() || again.Ticks != results[2].Ticks {
		t.Fatalf("replicate 2 did not replay: %+v vs %+v", again, results[2])
	}

	sum := Summarize(results)
	if sum.Replicates != 4 || sum.Converged+sum.TimedOut != 4 {
		t.Fatalf("summary %+v", sum)
	}
}

func TestRunEnsemblePropagatesFailure(t *testing.T) {
	cfg := smallConfig(1, 1, 1.0)
	cfg.Pressure = 1.5
	cfg.Patience.Group = 0
	cfg.Seed = 1

	_, err := RunEnsemble(context.Background(), cfg, EnsembleOptions{Replicates: 3})
	if !errors.Is(err, ErrRelocationDeadlock) {
		t.Fatalf("RunEnsemble error = %v, want ErrRelocationDeadlock", err)
	}
}

func TestRunEnsembleRejectsBadInput(t *testing.T) {
	if _, err := RunEnsemble(context.Background(), config.Default(), EnsembleOptions{}); err == nil {
		t.Fatal("zero replicates accepted")
	}
	cfg := config.Default()
	cfg.Synergy = -1
	if _, err := RunEnsemble(context.Background(), cfg, EnsembleOptions{Replicates: 1}); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("error = %v, want config.ErrInvalid", err)
	}
}

func TestMeanSeriesCarriesFinalValue(t *testing.T) {
	results := []Result{
		{Series: []Sample{{0, 0.2}, {1, 0.4}, {2, 0.6}}},
		{Series: []Sample{{0, 0.4}}}, // Converged at tick 1
	}
	mean := MeanSeries(results)
	want := []float64{0.3, 0.4, 0.5}
	if len(mean) != len(want) {
		t.Fatalf("mean = %v", mean)
	}
	for i, w := range want {
		if mean[i].Tick != i || diff(mean[i].ProsocialFraction, w) > 1e-12 {
			t.Fatalf("mean[%d] = %v, want %v", i, mean[i], w)
		}
	}
	if MeanSeries(nil) != nil {
		t.Fatal("MeanSeries(nil) not nil")
	}
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
