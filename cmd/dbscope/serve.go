package main

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/dbscope/internal/config"
	"github.com/dmitrymomot/dbscope/internal/notes"
	"github.com/dmitrymomot/dbscope/internal/server"
	"github.com/dmitrymomot/dbscope/pkg/db"
	"github.com/dmitrymomot/dbscope/pkg/dbsession"
	"github.com/dmitrymomot/dbscope/pkg/logger"
	"github.com/dmitrymomot/dbscope/pkg/metrics"
)

const sentryFlushTimeout = 2 * time.Second

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
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

			if migrate {
				if err := db.Migrate(ctx, engine, notes.Migrations, notes.MigrationsDir, cfg.DB.MigrationsTable, log); err != nil {
					engine.Close()
					return err
				}
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			h, err := newApp(engine, reg, cfg, log)
			if err != nil {
				engine.Close()
				return err
			}

			log.InfoContext(ctx, "database ready",
				slog.String("driver", engine.Driver()),
				slog.Bool("commit_on_exit", cfg.Session.CommitOnExit),
			)

			// Hooks run after the HTTP drain, so the pool outlives every request.
			return server.Run(h,
				server.Address(cfg.HTTP.Addr),
				server.Logger(log),
				server.BaseContext(ctx),
				server.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
				server.ShutdownHooks(
					db.Shutdown(engine),
					logger.SentryFlush(sentryFlushTimeout),
				),
			)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

// sessionManager builds the request-scoped session manager for engine.
func sessionManager(engine db.Engine, reg prometheus.Registerer, cfg config.Session, log *slog.Logger) (*dbsession.Manager, error) {
	factory, err := dbsession.NewFactory(engine)
	if err != nil {
		return nil, err
	}

	collector, err := metrics.NewSessionCollector(reg)
	if err != nil {
		return nil, err
	}

	opts := append(cfg.ManagerOptions(),
		dbsession.WithLogger(log),
		dbsession.WithObserver(collector),
	)
	return dbsession.New(factory, opts...)
}
