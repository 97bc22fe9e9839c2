package main

import (
	"context"
	"time"

	"github.com/deppfellow/foodreggie/internal/config"
	"github.com/deppfellow/foodreggie/internal/database"
	"github.com/deppfellow/foodreggie/internal/logger"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		Long: `Apply the embedded migrations to the configured Postgres database.
SQLite databases create their schema on open, so this is a no-op for them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			log := logger.NewLoggerWithService(cfg.Observability, nil)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := database.Migrate(ctx, &log, cfg); err != nil {
				log.Error().Err(err).Msg("migration failed")
				return err
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "deadline for the whole migration run")

	return cmd
}
