// Package db builds the database connection target used by request-scoped sessions.
//
// [Open] takes a connection URL and an engine-level option bundle and returns an
// [Engine]. The URL scheme selects the driver:
//
//   - postgres:// and postgresql:// open a [github.com/jackc/pgx/v5/pgxpool] pool ([PgEngine])
//   - sqlite://, sqlite3:// and file: open [github.com/mattn/go-sqlite3] through database/sql ([SQLEngine])
//   - mysql:// opens [github.com/go-sql-driver/mysql] through database/sql ([SQLEngine])
//
// Construction fails fast. An invalid URL, an unknown scheme, an invalid option or
// a failed startup ping is returned immediately; nothing is retried.
//
// # Configuration
//
// [Config] is populated from environment variables:
//
//	DATABASE_URL                - Connection URL (required)
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum open/idle connections (default: 2)
//	DATABASE_HEALTHCHECK_PERIOD - Health check interval, Postgres only (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_CONNECT_TIMEOUT    - Connect and startup ping timeout (default: 10s)
//	DATABASE_MIGRATIONS_TABLE   - Migrations table name (default: schema_migrations)
//
// # Usage
//
//	engine, err := db.Open(ctx, cfg.URL, cfg.EngineOptions()...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer engine.Close()
//
// # Migrations
//
// [Migrate] runs [github.com/pressly/goose/v3] migrations from an fs.FS with the
// dialect matching the engine:
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	err := db.Migrate(ctx, engine, migrations, "migrations", "schema_migrations", logger)
//
// # Error Handling
//
//   - [ErrInvalidURL] - Empty or malformed connection URL
//   - [ErrUnsupportedDriver] - Unknown URL scheme
//   - [ErrInvalidEngineOption] - Negative limits or min above max
//   - [ErrFailedToParseDBConfig] - Driver rejected the DSN
//   - [ErrFailedToOpenDBConnection] - Pool creation or startup ping failed
//   - [ErrHealthcheckFailed] - Database ping failed
//   - [ErrSetDialect], [ErrApplyMigrations] - Migration failures
//
// Errors are wrapped using [errors.Join] to preserve the original error context.
package db
