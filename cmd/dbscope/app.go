package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/dbscope/internal/config"
	"github.com/dmitrymomot/dbscope/internal/notes"
	"github.com/dmitrymomot/dbscope/middlewares"
	"github.com/dmitrymomot/dbscope/pkg/db"
	"github.com/dmitrymomot/dbscope/pkg/health"
)

const readinessTimeout = 3 * time.Second

// newApp wires the HTTP routes. API routes run as
// RequestID -> Recover -> Timeout -> DBSession -> handler.
func newApp(engine db.Engine, reg *prometheus.Registry, cfg config.Config, log *slog.Logger) (http.Handler, error) {
	mgr, err := sessionManager(engine, reg, cfg.Session, log)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
		"database": db.Healthcheck(engine),
	}, health.WithTimeout(readinessTimeout), health.WithLogger(log)))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	notes.NewHandler(notes.NewRepository()).Routes(r,
		middlewares.WithErrorHandler(middlewares.DefaultErrorHandler(log)),
		middlewares.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(middlewares.WithRecoverLogger(log)),
			middlewares.Timeout(cfg.HTTP.RequestTimeout),
			middlewares.DBSession(mgr, middlewares.WithRollbackOnStatus(cfg.Session.RollbackOnStatus)),
		),
	)

	return r, nil
}
