package dbsession

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/dbscope/pkg/ctxslot"
)

// Scope is one active session installation.
// Its lifecycle is open -> (rolling back) -> closed -> uninstalled; a scope
// is never reused.
type Scope struct {
	manager *Manager
	session Session
	ctx     context.Context
	started time.Time
	result  error
	token   ctxslot.Token[Session]
	once    sync.Once
}

// Session returns the scope's session.
func (s *Scope) Session() Session {
	return s.session
}

// Context returns the context in which the session is current.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// End finalizes the scope. workErr is the outcome of the wrapped work:
// non-nil triggers a rollback. The session is always closed and the previous
// current session is restored.
//
// When workErr is non-nil it is returned unchanged and teardown failures are
// only logged and reported to the observer. Otherwise teardown failures are
// returned joined with ErrTeardown.
//
// Only the first call has effect; later calls return the first result.
func (s *Scope) End(workErr error) error {
	s.once.Do(func() {
		s.result = s.finish(workErr)
	})
	return s.result
}

func (s *Scope) finish(workErr error) error {
	m := s.manager
	id := s.session.ID()

	// Teardown must run even when the request was cancelled or timed out.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), m.teardownTimeout)
	defer cancel()

	var errs []error
	fail := func(stage string, sentinel, err error) {
		m.observer.TeardownFailed(id, stage, err)
		errs = append(errs, errors.Join(sentinel, err))
	}

	outcome := OutcomeClosed
	switch {
	case workErr != nil:
		outcome = OutcomeRolledBack
		if err := s.session.Rollback(ctx); err != nil {
			fail(StageRollback, ErrRollback, err)
		}
	case m.commitOnExit:
		outcome = OutcomeCommitted
		if err := s.session.Commit(ctx); err != nil {
			fail(StageCommit, ErrCommit, err)
		}
	}

	if err := s.session.Close(ctx); err != nil {
		fail(StageClose, ErrClose, err)
	}

	if _, err := current.Reset(s.token); err != nil {
		fail(StageReset, ErrTeardown, err)
	}

	elapsed := time.Since(s.started)
	m.observer.SessionFinished(id, outcome, elapsed)
	m.logger.DebugContext(ctx, "db session finished",
		slog.String("db_session_id", id),
		slog.String("outcome", string(outcome)),
		slog.Duration("elapsed", elapsed),
	)

	if len(errs) == 0 {
		return workErr
	}

	teardownErr := errors.Join(append([]error{ErrTeardown}, errs...)...)
	if workErr != nil {
		m.logger.ErrorContext(ctx, "db session teardown failed",
			slog.String("db_session_id", id),
			slog.Any("error", teardownErr),
			slog.Any("work_error", workErr),
		)
		return workErr
	}
	return teardownErr
}
