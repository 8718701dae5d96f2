package dbsession

import "context"

// Session is one request's unit of work against the database.
// A session owns a single pooled connection from creation until Close and is
// not safe for concurrent use.
type Session interface {
	// ID identifies the session in logs and metrics.
	ID() string

	// Driver reports the engine driver, useful with db.Rebind.
	Driver() string

	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)

	// Query runs a statement returning rows. The caller closes the rows.
	Query(ctx context.Context, query string, args ...any) (Rows, error)

	// QueryRow runs a statement expected to return at most one row.
	// Errors are deferred until Scan.
	QueryRow(ctx context.Context, query string, args ...any) Row

	// Commit commits pending changes. No-op when no transaction is open.
	Commit(ctx context.Context) error

	// Rollback aborts pending changes. No-op when no transaction is open.
	Rollback(ctx context.Context) error

	// Close discards any uncommitted transaction and releases the connection.
	// Close never commits. Calling it again is a no-op.
	Close(ctx context.Context) error
}

// Rows is a result set. It is satisfied by *sql.Rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Row is a single-row result. It is satisfied by *sql.Row and pgx.Row.
type Row interface {
	Scan(dest ...any) error
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }
