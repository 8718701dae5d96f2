package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dbscope/internal/config"
	"github.com/dmitrymomot/dbscope/pkg/dbsession"
)

// t.Setenv forbids t.Parallel.

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite3://:memory:")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "sqlite3://:memory:", cfg.DB.URL)
	require.Equal(t, "schema_migrations", cfg.DB.MigrationsTable)
	require.Equal(t, 10, cfg.DB.MaxOpenConns)
	require.Equal(t, 5*time.Second, cfg.Session.TeardownTimeout)
	require.False(t, cfg.Session.CommitOnExit)
	require.Equal(t, dbsession.IsolationDefault, cfg.Session.Isolation)
	require.Equal(t, 500, cfg.Session.RollbackOnStatus)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel)
	require.Equal(t, slog.LevelWarn, cfg.Sentry.MinLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app@localhost/app")
	t.Setenv("DBSESSION_TEARDOWN_TIMEOUT", "2s")
	t.Setenv("DBSESSION_COMMIT_ON_EXIT", "true")
	t.Setenv("DBSESSION_ISOLATION", "serializable")
	t.Setenv("DBSESSION_READ_ONLY", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 2*time.Second, cfg.Session.TeardownTimeout)
	require.True(t, cfg.Session.CommitOnExit)
	require.Equal(t, dbsession.IsolationSerializable, cfg.Session.Isolation)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel)
	require.Equal(t, ":9090", cfg.HTTP.Addr)

	require.Len(t, cfg.Session.ManagerOptions(), 3)
	require.Len(t, cfg.Session.SessionOptions(), 2)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")

		_, err := config.Load()
		require.ErrorIs(t, err, config.ErrLoadConfig)
	})

	t.Run("unknown isolation level", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "sqlite3://:memory:")
		t.Setenv("DBSESSION_ISOLATION", "snapshot")

		_, err := config.Load()
		require.ErrorIs(t, err, config.ErrLoadConfig)
		require.Contains(t, err.Error(), "snapshot")
	})
}
