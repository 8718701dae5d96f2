package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/dbscope/internal/config"
	"github.com/dmitrymomot/dbscope/middlewares"
	"github.com/dmitrymomot/dbscope/pkg/dbsession"
	"github.com/dmitrymomot/dbscope/pkg/logger"
)

const version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dbscope",
		Short: "Notes API with request-scoped database sessions",
		Long: `dbscope serves a small notes API. Every request gets its own database
session, rolled back on failure and always closed when the request ends.

Configuration comes from the environment; DATABASE_URL is required.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

// bootstrap loads the configuration and builds the process logger.
func bootstrap() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	log := logger.NewWithSentry(cfg.Sentry, cfg.LogLevel,
		middlewares.RequestIDExtractor(),
		dbsession.LogExtractor(),
	)
	return cfg, log, nil
}
