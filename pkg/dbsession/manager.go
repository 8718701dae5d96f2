package dbsession

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/dmitrymomot/dbscope/pkg/logger"
)

// DefaultTeardownTimeout bounds rollback, commit and close of one scope.
const DefaultTeardownTimeout = 5 * time.Second

// Manager opens request-scoped sessions from a factory and guarantees their
// finalization. It is safe for concurrent use; every scope gets its own session.
type Manager struct {
	factory         Factory
	logger          *slog.Logger
	observer        Observer
	sessionOpts     []SessionOption
	teardownTimeout time.Duration
	commitOnExit    bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for teardown failures and debug lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithObserver sets the lifecycle observer, e.g. a metrics collector.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observer = o
		}
	}
}

// WithTeardownTimeout bounds rollback, commit and close.
// Teardown never inherits the request cancellation; this timeout is its only limit.
func WithTeardownTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.teardownTimeout = d
		}
	}
}

// WithSessionOptions applies session options to every scope opened by the manager,
// after the factory defaults and before per-call options.
func WithSessionOptions(opts ...SessionOption) Option {
	return func(m *Manager) {
		m.sessionOpts = append(m.sessionOpts, opts...)
	}
}

// WithCommitOnExit commits the session when a scope exits without error.
// By default the scope only closes the session, and work that was not
// committed explicitly is discarded.
func WithCommitOnExit() Option {
	return func(m *Manager) {
		m.commitOnExit = true
	}
}

// New creates a Manager bound to factory.
func New(factory Factory, opts ...Option) (*Manager, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}

	m := &Manager{
		factory:         factory,
		logger:          logger.NewNope(),
		observer:        nopObserver{},
		teardownTimeout: DefaultTeardownTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Begin opens a session and installs it as current in the returned context.
// The caller must call Scope.End exactly once, typically deferred.
// A factory error is returned as is.
func (m *Manager) Begin(ctx context.Context, opts ...SessionOption) (*Scope, context.Context, error) {
	if len(m.sessionOpts) > 0 {
		opts = append(slices.Clone(m.sessionOpts), opts...)
	}

	sess, err := m.factory.NewSession(ctx, opts...)
	if err != nil {
		m.observer.SessionOpenFailed(err)
		return nil, nil, err
	}

	scopedCtx, token := current.Set(ctx, sess)
	m.observer.SessionOpened(sess.ID())
	m.logger.DebugContext(scopedCtx, "db session opened", slog.String("db_session_id", sess.ID()))

	return &Scope{
		manager: m,
		session: sess,
		token:   token,
		ctx:     scopedCtx,
		started: time.Now(),
	}, scopedCtx, nil
}

// Run executes fn inside a scope. The session is rolled back when fn returns an
// error or panics, and is always closed. fn's error is returned unchanged and a
// panic keeps propagating after cleanup.
func (m *Manager) Run(ctx context.Context, fn func(ctx context.Context) error, opts ...SessionOption) error {
	scope, scopedCtx, err := m.Begin(ctx, opts...)
	if err != nil {
		return err
	}

	// Not recovering keeps the original panic value and stack intact;
	// runtime.Goexit takes the same path.
	finished := false
	defer func() {
		if !finished {
			_ = scope.End(ErrHandlerPanicked)
		}
	}()

	err = fn(scopedCtx)
	finished = true
	return scope.End(err)
}
