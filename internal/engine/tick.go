// Package engine provides the tick-based simulation loop.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/groupsim/internal/social"
)

// Step advances the simulation by one tick:
// grouping, scoring, decisions, then relocation and policy updates.
//
// A tick with no dissatisfied agent converges the run; nothing is moved or
// recorded for it. Otherwise the tick's sample is appended and the run times
// out once the tick counter exceeds TickMax.
func (s *Simulation) Step() (TickReport, error) {
	if s.State.Terminal() {
		return TickReport{}, ErrFinished
	}
	s.Tick++

	// Each phase completes for all agents before the next one reads it.
	social.FormGroups(s.Grid, s.Agents)
	for _, a := range s.Agents {
		a.UpdateScore(s.Agents, s.Config.Synergy)
	}
	d := s.decide()

	report := TickReport{
		Tick:        s.Tick,
		Unsatisfied: d.unsatisfied,
		MeanScore:   s.Agents.MeanScore(),
		Groups:      social.Summarize(s.Agents),
	}

	if d.unsatisfied == 0 {
		s.State = StateConverged
		report.Converged = true
		report.ProsocialFraction = s.Agents.ProsocialFraction()
		return report, nil
	}

	moved, err := s.relocate(d.moving)
	report.Moved = moved
	if err != nil {
		s.State = StateAborted
		return report, fmt.Errorf("relocate: %w", err)
	}

	for _, a := range d.switching {
		a.SwitchPolicy()
	}
	report.Switched = len(d.switching)
	report.ProsocialFraction = s.record(s.Tick)

	if s.Tick > s.Config.TickMax {
		s.State = StateTimedOut
	}
	return report, nil
}

// Engine drives a simulation to a terminal state.
type Engine struct {
	Interval time.Duration // Minimum wall time per tick; 0 runs unpaced

	// Callbacks, optional.
	OnTick   func(TickReport)
	OnFinish func(Result)
}

// NewEngine creates an unpaced engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Run steps sim until it converges, times out, or fails. Cancelling ctx stops
// the run between ticks and marks it aborted.
func (e *Engine) Run(ctx context.Context, sim *Simulation) (Result, error) {
	slog.Debug("simulation started",
		"seed", sim.Seed,
		"rows", sim.Config.Rows,
		"cols", sim.Config.Cols,
		"population", len(sim.Agents),
		"prosocial", fmt.Sprintf("%.3f", sim.Agents.ProsocialFraction()),
	)

	var runErr error
	for !sim.State.Terminal() {
		if err := ctx.Err(); err != nil {
			sim.State = StateAborted
			runErr = err
			break
		}

		start := time.Now()
		report, err := sim.Step()
		if e.OnTick != nil {
			e.OnTick(report)
		}
		if err != nil {
			runErr = err
			break
		}
		slog.Debug("tick",
			"tick", report.Tick,
			"unsatisfied", report.Unsatisfied,
			"moved", report.Moved,
			"switched", report.Switched,
			"prosocial", fmt.Sprintf("%.3f", report.ProsocialFraction),
		)

		if e.Interval > 0 && !sim.State.Terminal() {
			if wait := e.Interval - time.Since(start); wait > 0 {
				if err := sleepCtx(ctx, wait); err != nil {
					sim.State = StateAborted
					runErr = err
					break
				}
			}
		}
	}

	res := sim.Result()
	slog.Info("simulation finished",
		"seed", res.Seed,
		"state", res.State.String(),
		"ticks", res.Ticks,
		"final_prosocial", fmt.Sprintf("%.3f", res.FinalFraction()),
	)
	if e.OnFinish != nil {
		e.OnFinish(res)
	}
	return res, runErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
