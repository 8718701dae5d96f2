package dbsession

import (
	"context"
	"database/sql"
	"errors"
)

// sqlQuerier is implemented by both *sql.Conn and *sql.Tx.
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLSession is a session holding one database/sql connection.
type SQLSession struct {
	conn   *sql.Conn
	tx     *sql.Tx
	id     string
	driver string
	cfg    sessionConfig
	closed bool
}

func newSQLSession(id, driver string, conn *sql.Conn, cfg sessionConfig) *SQLSession {
	return &SQLSession{id: id, driver: driver, conn: conn, cfg: cfg}
}

func (s *SQLSession) ID() string     { return s.id }
func (s *SQLSession) Driver() string { return s.driver }

// Conn returns the dedicated connection.
func (s *SQLSession) Conn() *sql.Conn { return s.conn }

// Tx returns the session transaction, beginning one if none is open.
//
// The transaction ignores cancellation of the context that began it, so a
// per-query timeout does not abort it. It ends only on Commit, Rollback or Close.
func (s *SQLSession) Tx(ctx context.Context) (*sql.Tx, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.tx == nil {
		tx, err := s.conn.BeginTx(context.WithoutCancel(ctx), s.cfg.sqlTxOptions())
		if err != nil {
			return nil, errors.Join(ErrBeginTx, err)
		}
		s.tx = tx
	}
	return s.tx, nil
}

func (s *SQLSession) querier(ctx context.Context) (sqlQuerier, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.tx != nil || s.cfg.autoBegin {
		tx, err := s.Tx(ctx)
		if err != nil {
			return nil, err
		}
		return tx, nil
	}
	return s.conn, nil
}

func (s *SQLSession) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	q, err := s.querier(ctx)
	if err != nil {
		return 0, err
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLSession) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	q, err := s.querier(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *SQLSession) QueryRow(ctx context.Context, query string, args ...any) Row {
	q, err := s.querier(ctx)
	if err != nil {
		return errRow{err}
	}
	return q.QueryRowContext(ctx, query, args...)
}

func (s *SQLSession) Commit(context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	return tx.Commit()
}

func (s *SQLSession) Rollback(context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func (s *SQLSession) Close(context.Context) error {
	if s.closed {
		return nil
	}

	var errs []error
	if s.tx != nil {
		if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, err)
		}
		s.tx = nil
	}

	s.closed = true
	if err := s.conn.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
