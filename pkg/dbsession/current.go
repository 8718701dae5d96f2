package dbsession

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/dbscope/pkg/ctxslot"
	"github.com/dmitrymomot/dbscope/pkg/logger"
)

// current holds the session of the active scope for each request context.
var current = ctxslot.New[Session]("dbsession")

// Current returns the session of the innermost active scope for ctx.
// It returns ErrNoActiveSession outside any scope.
func Current(ctx context.Context) (Session, error) {
	if s, ok := current.Get(ctx); ok {
		return s, nil
	}
	return nil, ErrNoActiveSession
}

// MustCurrent is like Current but panics with ErrNoActiveSession.
func MustCurrent(ctx context.Context) Session {
	s, err := Current(ctx)
	if err != nil {
		panic(err)
	}
	return s
}

// CurrentPg returns the current session when it is backed by Postgres.
func CurrentPg(ctx context.Context) (*PgSession, error) {
	return currentAs[*PgSession](ctx)
}

// CurrentSQL returns the current session when it is backed by database/sql.
func CurrentSQL(ctx context.Context) (*SQLSession, error) {
	return currentAs[*SQLSession](ctx)
}

func currentAs[T Session](ctx context.Context) (T, error) {
	var zero T
	s, err := Current(ctx)
	if err != nil {
		return zero, err
	}
	typed, ok := s.(T)
	if !ok {
		return zero, ErrSessionType
	}
	return typed, nil
}

// LogExtractor adds the current session ID to log records as db_session_id.
func LogExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if s, ok := current.Get(ctx); ok {
			return slog.String("db_session_id", s.ID()), true
		}
		return slog.Attr{}, false
	}
}
