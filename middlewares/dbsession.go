package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/dbscope/pkg/dbsession"
)

type dbSessionConfig struct {
	errorHandler     ErrorHandler
	sessionOpts      []dbsession.SessionOption
	rollbackOnStatus int
}

// DBSessionOption configures DBSession and DBSessionHandler.
type DBSessionOption func(*dbSessionConfig)

// WithSessionOptions applies session options to every request's session.
func WithSessionOptions(opts ...dbsession.SessionOption) DBSessionOption {
	return func(cfg *dbSessionConfig) {
		cfg.sessionOpts = append(cfg.sessionOpts, opts...)
	}
}

// WithRollbackOnStatus treats a response status >= minStatus as a failed
// request: the session is rolled back although the handler returned normally.
// Zero disables the check.
func WithRollbackOnStatus(minStatus int) DBSessionOption {
	return func(cfg *dbSessionConfig) {
		if minStatus >= 0 {
			cfg.rollbackOnStatus = minStatus
		}
	}
}

// WithSessionErrorHandler sets the error handler DBSessionHandler uses when no
// session could be opened or its teardown failed.
func WithSessionErrorHandler(eh ErrorHandler) DBSessionOption {
	return func(cfg *dbSessionConfig) {
		if eh != nil {
			cfg.errorHandler = eh
		}
	}
}

func newDBSessionConfig(opts []DBSessionOption) *dbSessionConfig {
	cfg := &dbSessionConfig{errorHandler: DefaultErrorHandler(nil)}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// DBSession returns middleware that runs each request inside a session scope.
//
// The session is current in the request context for the whole handler chain
// below. When the handler returns an error or panics the session is rolled
// back; it is always closed and uninstalled. The handler's error is returned
// unchanged, and a panic keeps propagating to an outer Recover.
//
// A session that cannot be opened fails the request with a 503 *HTTPError
// before the handler runs.
func DBSession(mgr *dbsession.Manager, opts ...DBSessionOption) Middleware {
	cfg := newDBSessionConfig(opts)

	return func(next HandlerFunc) HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			return serveScoped(mgr, cfg, w, r, next)
		}
	}
}

// DBSessionHandler is the net/http form of DBSession for routers such as chi.
// Plain handlers cannot return errors, so a request fails when it panics or,
// with WithRollbackOnStatus, when it answers with a failure status.
func DBSessionHandler(mgr *dbsession.Manager, opts ...DBSessionOption) func(http.Handler) http.Handler {
	cfg := newDBSessionConfig(opts)

	return func(next http.Handler) http.Handler {
		h := func(w http.ResponseWriter, r *http.Request) error {
			next.ServeHTTP(w, r)
			return nil
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := WrapResponseWriter(w)
			if err := serveScoped(mgr, cfg, rw, r, h); err != nil {
				cfg.errorHandler(rw, r, err)
			}
		})
	}
}

func serveScoped(mgr *dbsession.Manager, cfg *dbSessionConfig, w http.ResponseWriter, r *http.Request, next HandlerFunc) error {
	scope, ctx, err := mgr.Begin(r.Context(), cfg.sessionOpts...)
	if err != nil {
		return NewHTTPError(http.StatusServiceUnavailable, "", err)
	}

	rw := WrapResponseWriter(w)

	finished := false
	defer func() {
		if !finished {
			_ = scope.End(dbsession.ErrHandlerPanicked)
		}
	}()

	handlerErr := next(rw, r.WithContext(ctx))
	finished = true

	if handlerErr != nil {
		return scope.End(handlerErr)
	}

	if cfg.rollbackOnStatus > 0 && rw.Status() >= cfg.rollbackOnStatus {
		// The response is already out; teardown failures are logged by the scope.
		_ = scope.End(ErrRollbackStatus)
		return nil
	}

	return scope.End(nil)
}
