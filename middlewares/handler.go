package middlewares

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/dbscope/pkg/dbsession"
	"github.com/dmitrymomot/dbscope/pkg/logger"
)

// HandlerFunc is an HTTP handler that reports failure by returning an error.
// A non-nil error is a failed request: it rolls back the request's session.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders an error returned by a HandlerFunc.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Chain wraps h with mws. The first middleware is the outermost one.
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}

type handleConfig struct {
	errorHandler ErrorHandler
	middlewares  []Middleware
}

// HandleOption configures Handle.
type HandleOption func(*handleConfig)

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(eh ErrorHandler) HandleOption {
	return func(cfg *handleConfig) {
		if eh != nil {
			cfg.errorHandler = eh
		}
	}
}

// WithMiddleware appends middlewares applied around the handler, outermost first.
func WithMiddleware(mws ...Middleware) HandleOption {
	return func(cfg *handleConfig) {
		cfg.middlewares = append(cfg.middlewares, mws...)
	}
}

// Handle adapts h to an http.HandlerFunc. Errors returned by h (after the
// configured middlewares) are passed to the error handler.
func Handle(h HandlerFunc, opts ...HandleOption) http.HandlerFunc {
	cfg := &handleConfig{errorHandler: DefaultErrorHandler(nil)}
	for _, opt := range opts {
		opt(cfg)
	}

	h = Chain(h, cfg.middlewares...)

	return func(w http.ResponseWriter, r *http.Request) {
		rw := WrapResponseWriter(w)
		if err := h(rw, r); err != nil {
			cfg.errorHandler(rw, r, err)
		}
	}
}

// DefaultErrorHandler logs err and answers with a plain-text status:
// the code of an *HTTPError, 503 when no session could be acquired, 500 otherwise.
// Nothing is written when the response was already started.
func DefaultErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		log = logger.NewNope()
	}

	return func(w http.ResponseWriter, r *http.Request, err error) {
		code := StatusCode(err)
		if code >= http.StatusInternalServerError {
			log.ErrorContext(r.Context(), "request failed",
				slog.Int("status", code),
				slog.Any("error", err),
			)
		}

		if rw, ok := w.(*ResponseWriter); ok && rw.Written() {
			return
		}

		msg := http.StatusText(code)
		if he, ok := AsHTTPError(err); ok && he.Message != "" {
			msg = he.Message
		}
		http.Error(w, msg, code)
	}
}

// StatusCode maps an error to the HTTP status DefaultErrorHandler responds with.
func StatusCode(err error) int {
	if he, ok := AsHTTPError(err); ok && he.Code > 0 {
		return he.Code
	}
	switch {
	case errors.Is(err, dbsession.ErrAcquireSession):
		return http.StatusServiceUnavailable
	case IsTimeoutError(err):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
