package dbsession

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/dbscope/pkg/db"
)

// pgQuerier is implemented by both *pgxpool.Conn and pgx.Tx.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgSession is a session holding one connection acquired from a pgxpool.
type PgSession struct {
	conn   *pgxpool.Conn
	tx     pgx.Tx
	id     string
	cfg    sessionConfig
	closed bool
}

func newPgSession(id string, conn *pgxpool.Conn, cfg sessionConfig) *PgSession {
	return &PgSession{id: id, conn: conn, cfg: cfg}
}

func (s *PgSession) ID() string     { return s.id }
func (s *PgSession) Driver() string { return db.DriverPostgres }

// Conn returns the acquired pool connection.
func (s *PgSession) Conn() *pgxpool.Conn { return s.conn }

// Tx returns the session transaction, beginning one if none is open.
func (s *PgSession) Tx(ctx context.Context) (pgx.Tx, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.tx == nil {
		tx, err := s.conn.BeginTx(ctx, s.cfg.pgxTxOptions())
		if err != nil {
			return nil, errors.Join(ErrBeginTx, err)
		}
		s.tx = tx
	}
	return s.tx, nil
}

func (s *PgSession) querier(ctx context.Context) (pgQuerier, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.tx != nil || s.cfg.autoBegin {
		return s.Tx(ctx)
	}
	return s.conn, nil
}

func (s *PgSession) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	q, err := s.querier(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PgSession) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	q, err := s.querier(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgRows{rows}, nil
}

func (s *PgSession) QueryRow(ctx context.Context, query string, args ...any) Row {
	q, err := s.querier(ctx)
	if err != nil {
		return errRow{err}
	}
	return q.QueryRow(ctx, query, args...)
}

func (s *PgSession) Commit(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	return tx.Commit(ctx)
}

func (s *PgSession) Rollback(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

func (s *PgSession) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}

	var err error
	if s.tx != nil {
		// pgxpool destroys connections released mid-transaction, so a failed
		// rollback here still leaves the pool clean.
		if rbErr := s.tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = rbErr
		}
		s.tx = nil
	}

	s.closed = true
	s.conn.Release()
	return err
}

// pgRows adapts pgx.Rows, whose Close reports nothing, to Rows.
type pgRows struct {
	rows pgx.Rows
}

func (r pgRows) Next() bool             { return r.rows.Next() }
func (r pgRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r pgRows) Err() error             { return r.rows.Err() }

func (r pgRows) Close() error {
	r.rows.Close()
	return r.rows.Err()
}
