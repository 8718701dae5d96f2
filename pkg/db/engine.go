package db

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Driver names reported by [Engine.Driver].
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
	DriverMySQL    = "mysql"
)

// Engine is a connection target produced by [Open].
// It is created once at startup and closed at shutdown.
type Engine interface {
	// Driver reports which driver backs the engine.
	Driver() string

	// Ping verifies that a connection can be established.
	Ping(ctx context.Context) error

	// Close releases every pooled connection.
	Close()
}

// PgEngine is a Postgres connection target backed by pgxpool.
type PgEngine struct {
	pool *pgxpool.Pool
}

// NewPgEngine wraps an existing pool.
func NewPgEngine(pool *pgxpool.Pool) *PgEngine {
	return &PgEngine{pool: pool}
}

// Pool returns the underlying pool.
func (e *PgEngine) Pool() *pgxpool.Pool { return e.pool }

func (e *PgEngine) Driver() string { return DriverPostgres }

func (e *PgEngine) Ping(ctx context.Context) error { return e.pool.Ping(ctx) }

func (e *PgEngine) Close() { e.pool.Close() }

// SQLEngine is a connection target backed by database/sql.
// It serves the SQLite and MySQL drivers.
type SQLEngine struct {
	db     *sql.DB
	driver string
}

// NewSQLEngine wraps an existing *sql.DB opened with the given driver name.
func NewSQLEngine(db *sql.DB, driver string) *SQLEngine {
	return &SQLEngine{db: db, driver: driver}
}

// DB returns the underlying handle.
func (e *SQLEngine) DB() *sql.DB { return e.db }

func (e *SQLEngine) Driver() string { return e.driver }

func (e *SQLEngine) Ping(ctx context.Context) error { return e.db.PingContext(ctx) }

func (e *SQLEngine) Close() { _ = e.db.Close() }
