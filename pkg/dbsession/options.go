package dbsession

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// IsolationLevel is the transaction isolation requested for a session.
type IsolationLevel int

const (
	IsolationDefault IsolationLevel = iota
	IsolationReadUncommitted
	IsolationReadCommitted
	IsolationRepeatableRead
	IsolationSerializable
)

var isolationNames = map[IsolationLevel]string{
	IsolationDefault:         "default",
	IsolationReadUncommitted: "read-uncommitted",
	IsolationReadCommitted:   "read-committed",
	IsolationRepeatableRead:  "repeatable-read",
	IsolationSerializable:    "serializable",
}

func (l IsolationLevel) String() string {
	if name, ok := isolationNames[l]; ok {
		return name
	}
	return fmt.Sprintf("isolation(%d)", int(l))
}

// ParseIsolationLevel accepts the names returned by String.
// Underscores and spaces are treated like dashes.
func ParseIsolationLevel(s string) (IsolationLevel, error) {
	norm := strings.NewReplacer("_", "-", " ", "-").Replace(strings.ToLower(strings.TrimSpace(s)))
	if norm == "" {
		return IsolationDefault, nil
	}
	for level, name := range isolationNames {
		if name == norm {
			return level, nil
		}
	}
	return IsolationDefault, errors.Join(ErrInvalidIsolation, fmt.Errorf("%q", s))
}

// UnmarshalText lets configuration loaders parse isolation levels from env.
func (l *IsolationLevel) UnmarshalText(text []byte) error {
	level, err := ParseIsolationLevel(string(text))
	if err != nil {
		return err
	}
	*l = level
	return nil
}

func (l IsolationLevel) pgxLevel() pgx.TxIsoLevel {
	switch l {
	case IsolationReadUncommitted:
		return pgx.ReadUncommitted
	case IsolationReadCommitted:
		return pgx.ReadCommitted
	case IsolationRepeatableRead:
		return pgx.RepeatableRead
	case IsolationSerializable:
		return pgx.Serializable
	default:
		return ""
	}
}

func (l IsolationLevel) sqlLevel() sql.IsolationLevel {
	switch l {
	case IsolationReadUncommitted:
		return sql.LevelReadUncommitted
	case IsolationReadCommitted:
		return sql.LevelReadCommitted
	case IsolationRepeatableRead:
		return sql.LevelRepeatableRead
	case IsolationSerializable:
		return sql.LevelSerializable
	default:
		return sql.LevelDefault
	}
}

// sessionConfig is the session-level option bundle.
type sessionConfig struct {
	isolation  IsolationLevel
	autoBegin  bool
	readOnly   bool
	deferrable bool
}

// SessionOption configures sessions produced by a factory.
// Options passed per call are applied after the factory defaults.
type SessionOption func(*sessionConfig)

// WithAutoBegin controls whether the first statement opens a transaction.
// Enabled by default; when disabled, statements run in autocommit mode until
// Tx is called explicitly.
func WithAutoBegin(enabled bool) SessionOption {
	return func(c *sessionConfig) {
		c.autoBegin = enabled
	}
}

// WithIsolation sets the isolation level of the session transaction.
func WithIsolation(level IsolationLevel) SessionOption {
	return func(c *sessionConfig) {
		c.isolation = level
	}
}

// WithReadOnly opens read-only transactions.
func WithReadOnly() SessionOption {
	return func(c *sessionConfig) {
		c.readOnly = true
	}
}

// WithDeferrable marks transactions deferrable (Postgres, serializable read-only only).
func WithDeferrable() SessionOption {
	return func(c *sessionConfig) {
		c.deferrable = true
	}
}

func newSessionConfig(opts ...SessionOption) sessionConfig {
	cfg := sessionConfig{autoBegin: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (c sessionConfig) pgxTxOptions() pgx.TxOptions {
	opts := pgx.TxOptions{IsoLevel: c.isolation.pgxLevel()}
	if c.readOnly {
		opts.AccessMode = pgx.ReadOnly
	}
	if c.deferrable {
		opts.DeferrableMode = pgx.Deferrable
	}
	return opts
}

func (c sessionConfig) sqlTxOptions() *sql.TxOptions {
	return &sql.TxOptions{Isolation: c.isolation.sqlLevel(), ReadOnly: c.readOnly}
}
