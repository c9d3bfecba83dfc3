package main

import (
	"github.com/spf13/cobra"

	"github.com/talgya/groupsim/internal/api"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored runs over a read-only HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			port, _ := cmd.Flags().GetInt("port")

			db, err := openDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			srv := &api.Server{DB: db, Port: port}
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().Int("port", 8080, "HTTP port")
	return cmd
}
