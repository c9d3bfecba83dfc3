// Command groupsim runs public-goods grouping simulations and stores the results.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/groupsim/internal/config"
)

const defaultDBPath = "data/groupsim.db"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "groupsim",
		Short: "Agent-based public goods grouping simulation",
		Long: `groupsim places contributors and defectors on a grid and lets them
relocate or switch policy until everyone is satisfied with their group's
payoff, or a tick limit is reached.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(verbose)
		},
	}

	rootCmd.PersistentFlags().Bool("verbose", false, "Log every tick")
	rootCmd.PersistentFlags().String("db", defaultDBPath, "SQLite database path")

	rootCmd.AddCommand(
		newRunCmd(),
		newEnsembleCmd(),
		newRunsCmd(),
		newExportCmd(),
		newServeCmd(),
	)
	return rootCmd
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// loadConfig returns the defaults, or the file at path laid over them.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
