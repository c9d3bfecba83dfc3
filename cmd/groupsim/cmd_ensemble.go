package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talgya/groupsim/internal/chart"
	"github.com/talgya/groupsim/internal/engine"
)

// Replicate lines drawn next to the mean; more than this is unreadable.
const maxChartReplicates = 4

func newEnsembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "Run independent replicates of one configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			replicates, _ := cmd.Flags().GetInt("replicates")
			workers, _ := cmd.Flags().GetInt("workers")
			chartPath, _ := cmd.Flags().GetString("chart")
			jsonOut, _ := cmd.Flags().GetBool("json")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			results, err := engine.RunEnsemble(ctx, cfg, engine.EnsembleOptions{
				Replicates: replicates,
				Workers:    workers,
			})
			if err != nil {
				return err
			}
			summary := engine.Summarize(results)

			if chartPath != "" {
				lines := []chart.Line{{Name: "mean", Samples: engine.MeanSeries(results)}}
				for _, r := range results[:min(len(results), maxChartReplicates)] {
					lines = append(lines, chart.Line{Name: fmt.Sprintf("seed %d", r.Seed), Samples: r.Series})
				}
				if err := writeChart(chartPath, fmt.Sprintf("Contributors (%d replicates)", len(results)), lines...); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprintf(out, "replicates:   %d (converged %d, timed out %d, aborted %d)\n",
				summary.Replicates, summary.Converged, summary.TimedOut, summary.Aborted)
			fmt.Fprintf(out, "mean ticks:   %.1f\n", summary.MeanTicks)
			fmt.Fprintf(out, "contributors: %.1f%% (mean final)\n", 100*summary.MeanFinal)
			return nil
		},
	}

	cmd.Flags().String("config", "", "YAML config file (defaults apply to absent fields)")
	cmd.Flags().Int64("seed", 0, "Base seed; replicate i uses seed+i (0 = fresh)")
	cmd.Flags().Int("replicates", 10, "Number of independent runs")
	cmd.Flags().Int("workers", 0, "Parallel runs (0 = GOMAXPROCS)")
	cmd.Flags().String("chart", "", "Write a PNG chart of the mean series to this path")
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	return cmd
}
