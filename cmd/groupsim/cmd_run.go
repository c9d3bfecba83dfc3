package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/groupsim/internal/chart"
	"github.com/talgya/groupsim/internal/config"
	"github.com/talgya/groupsim/internal/engine"
	"github.com/talgya/groupsim/internal/persistence"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation and store it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			if cmd.Flags().Changed("tick-max") {
				cfg.TickMax, _ = cmd.Flags().GetInt("tick-max")
			}
			dbPath, _ := cmd.Flags().GetString("db")
			chartPath, _ := cmd.Flags().GetString("chart")
			interval, _ := cmd.Flags().GetDuration("interval")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runOnce(ctx, cmd.OutOrStdout(), cfg, dbPath, chartPath, interval)
		},
	}

	cmd.Flags().String("config", "", "YAML config file (defaults apply to absent fields)")
	cmd.Flags().Int64("seed", 0, "Random seed (0 = fresh)")
	cmd.Flags().Int("tick-max", 0, "Override the tick limit")
	cmd.Flags().String("chart", "", "Write a PNG chart of the contributor share to this path")
	cmd.Flags().Duration("interval", 0, "Minimum wall time per tick")
	return cmd
}

// runOnce runs cfg to completion, stores it, and prints a summary. A run that
// ends in error is still stored along with the error.
func runOnce(ctx context.Context, out io.Writer, cfg config.Config, dbPath, chartPath string, interval time.Duration) error {
	sim, err := engine.NewSeeded(cfg)
	if err != nil {
		return err
	}
	cfg.Seed = sim.Seed

	var reports []engine.TickReport
	eng := engine.NewEngine()
	eng.Interval = interval
	eng.OnTick = func(r engine.TickReport) {
		reports = append(reports, r)
	}
	res, runErr := eng.Run(ctx, sim)

	db, err := openDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveRun(cfg, res, reports, runErr)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	slog.Info("run stored", "id", id, "path", dbPath)

	if chartPath != "" {
		if err := writeChart(chartPath, fmt.Sprintf("Contributors (seed %d)", res.Seed),
			chart.Line{Name: "contributors", Samples: res.Series}); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "run %s\n", id)
	fmt.Fprintf(out, "  seed:        %d\n", res.Seed)
	fmt.Fprintf(out, "  state:       %s after %s ticks\n", res.State, humanize.Comma(int64(res.Ticks)))
	fmt.Fprintf(out, "  population:  %s on %dx%d\n", humanize.Comma(int64(res.Population)), cfg.Rows, cfg.Cols)
	fmt.Fprintf(out, "  contributors: %.1f%% -> %.1f%%\n",
		100*res.Series[0].ProsocialFraction, 100*res.FinalFraction())
	return runErr
}

func openDB(path string) (*persistence.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	db, err := persistence.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func writeChart(path, title string, lines ...chart.Line) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := chart.Render(f, title, lines...); err != nil {
		f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("chart written", "path", path)
	return nil
}
