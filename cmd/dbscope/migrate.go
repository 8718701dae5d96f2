package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/dbscope/internal/notes"
	"github.com/dmitrymomot/dbscope/pkg/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			engine, err := db.Open(ctx, cfg.DB.URL, cfg.DB.EngineOptions()...)
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := db.Migrate(ctx, engine, notes.Migrations, notes.MigrationsDir, cfg.DB.MigrationsTable, log); err != nil {
				return err
			}

			log.InfoContext(ctx, "migrations applied", "driver", engine.Driver())
			return nil
		},
	}
}
