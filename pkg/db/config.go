package db

import "time"

// Config holds connection parameters for the engine binder.
// All fields are populated from environment variables for deployment convenience.
type Config struct {
	// Connection URL. The scheme selects the driver:
	// postgres://, sqlite3://, mysql://.
	URL string `env:"DATABASE_URL,required,notEmpty"`

	// Migration table used by goose.
	MigrationsTable string `env:"DATABASE_MIGRATIONS_TABLE" envDefault:"schema_migrations"`

	// Health check frequency for pooled connections (Postgres only).
	HealthCheckPeriod time.Duration `env:"DATABASE_HEALTHCHECK_PERIOD" envDefault:"1m"`

	// Idle connections older than this are closed.
	// 10 minutes keeps connection poolers like PgBouncer happy.
	MaxConnIdleTime time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"10m"`

	// Total connection lifetime, so failovers and DNS changes are picked up.
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`

	// Bound on establishing a connection and on the startup ping.
	ConnectTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"10s"`

	// Pool size. One request-scoped session holds one connection for the
	// whole request, so MaxOpenConns caps concurrent requests touching the database.
	MaxOpenConns int `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`

	// Minimum connections kept open (idle connections for database/sql drivers).
	MinConns int `env:"DATABASE_MIN_CONNS" envDefault:"2"`
}

// EngineOptions converts the configuration into an engine option bundle for [Open].
func (c Config) EngineOptions() []EngineOption {
	return []EngineOption{
		WithMaxConns(c.MaxOpenConns),
		WithMinConns(c.MinConns),
		WithHealthCheckPeriod(c.HealthCheckPeriod),
		WithMaxConnIdleTime(c.MaxConnIdleTime),
		WithMaxConnLifetime(c.MaxConnLifetime),
		WithConnectTimeout(c.ConnectTimeout),
	}
}
