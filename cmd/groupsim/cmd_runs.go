package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/groupsim/internal/persistence"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			limit, _ := cmd.Flags().GetInt("limit")
			jsonOut, _ := cmd.Flags().GetBool("json")

			db, err := openDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns(limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if runs == nil {
					runs = []persistence.RunRow{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs stored.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tSEED\tSTATE\tTICKS\tFINAL")
			for _, r := range runs {
				state := r.State
				if r.Error != "" {
					state += " (error)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%.3f\n",
					r.ID, humanize.Time(r.Created()), r.Seed, state, humanize.Comma(int64(r.Ticks)), r.FinalFraction)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum runs to list")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a run's tick reports as zstd-compressed JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			outPath, _ := cmd.Flags().GetString("out")
			id := args[0]

			db, err := openDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := db.LoadRun(id); err != nil {
				return err
			}
			rows, err := db.LoadTickReports(id)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = id + ".jsonl.zst"
			}
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := persistence.ExportTicks(f, rows); err != nil {
				f.Close()
				return fmt.Errorf("export: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d ticks to %s\n", len(rows), outPath)
			return nil
		},
	}

	cmd.Flags().String("out", "", "Output path (default <id>.jsonl.zst)")
	return cmd
}
