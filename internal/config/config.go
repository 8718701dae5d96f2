// Package config loads the dbscope server configuration from the environment.
package config

import (
	"errors"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/dbscope/pkg/db"
	"github.com/dmitrymomot/dbscope/pkg/dbsession"
	"github.com/dmitrymomot/dbscope/pkg/logger"
)

var ErrLoadConfig = errors.New("config: failed to load configuration")

// Config is the complete server configuration.
type Config struct {
	DB      db.Config
	Session Session
	HTTP    HTTP
	Sentry  logger.SentryConfig

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// Session holds request-scoped session settings.
type Session struct {
	TeardownTimeout time.Duration            `env:"DBSESSION_TEARDOWN_TIMEOUT" envDefault:"5s"`
	CommitOnExit    bool                     `env:"DBSESSION_COMMIT_ON_EXIT" envDefault:"false"`
	Isolation       dbsession.IsolationLevel `env:"DBSESSION_ISOLATION" envDefault:"default"`
	ReadOnly        bool                     `env:"DBSESSION_READ_ONLY" envDefault:"false"`
	// RollbackOnStatus rolls back sessions of responses at or above this status. Zero disables it.
	RollbackOnStatus int `env:"DBSESSION_ROLLBACK_ON_STATUS" envDefault:"500"`
}

// HTTP holds server settings.
type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
}

// Load parses the environment. Missing required variables and malformed
// values are reported together.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrLoadConfig, err)
	}
	return cfg, nil
}

// ManagerOptions converts the session settings into dbsession.Manager options.
func (s Session) ManagerOptions() []dbsession.Option {
	opts := []dbsession.Option{
		dbsession.WithTeardownTimeout(s.TeardownTimeout),
		dbsession.WithSessionOptions(s.SessionOptions()...),
	}
	if s.CommitOnExit {
		opts = append(opts, dbsession.WithCommitOnExit())
	}
	return opts
}

// SessionOptions returns the session-level defaults.
func (s Session) SessionOptions() []dbsession.SessionOption {
	opts := []dbsession.SessionOption{dbsession.WithIsolation(s.Isolation)}
	if s.ReadOnly {
		opts = append(opts, dbsession.WithReadOnly())
	}
	return opts
}
