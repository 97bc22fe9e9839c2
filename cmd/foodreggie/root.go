package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Running the binary without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:   "foodreggie",
		Short: "Food catalog server",
		Long: `foodreggie serves a small food catalog over HTTP: a table of foods
with create, update and delete forms, backed by Postgres or SQLite.

Configuration is read from FOODREGGIE_* environment variables and an
optional .env file.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd())

	return root
}
