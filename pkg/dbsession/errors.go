package dbsession

import "errors"

var (
	// ErrNoActiveSession is returned when the current session is requested
	// outside any scope: the middleware is missing, or the accessor runs
	// outside a request.
	ErrNoActiveSession = errors.New("dbsession: no active session")

	// ErrSessionClosed is returned by every session method after Close.
	ErrSessionClosed = errors.New("dbsession: session closed")

	// ErrSessionType is returned by the typed accessors when the current
	// session is backed by another driver.
	ErrSessionType = errors.New("dbsession: unexpected session type")

	// ErrHandlerPanicked is passed to Scope.End when the wrapped work panicked.
	// The panic itself keeps propagating.
	ErrHandlerPanicked = errors.New("dbsession: handler panicked")

	ErrNilFactory        = errors.New("dbsession: nil session factory")
	ErrNilEngine         = errors.New("dbsession: nil engine")
	ErrUnsupportedEngine = errors.New("dbsession: unsupported engine")
	ErrAcquireSession    = errors.New("dbsession: failed to acquire session")
	ErrBeginTx           = errors.New("dbsession: failed to begin transaction")
	ErrInvalidIsolation  = errors.New("dbsession: invalid isolation level")

	// ErrTeardown wraps rollback, commit and close failures of a scope whose
	// work succeeded.
	ErrTeardown = errors.New("dbsession: session teardown failed")
	ErrRollback = errors.New("dbsession: rollback failed")
	ErrCommit   = errors.New("dbsession: commit failed")
	ErrClose    = errors.New("dbsession: close failed")
)
