package middlewares

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns middleware that bounds the request context by d.
// The handler runs in the request goroutine, so a session opened further
// down the chain is always finalized before Timeout returns. A handler
// that fails after the deadline passed gets its error wrapped in a
// *TimeoutError; the original error stays reachable with errors.Is.
func Timeout(d time.Duration) Middleware {
	if d <= 0 {
		d = DefaultTimeout
	}

	return func(next HandlerFunc) HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			err := next(w, r.WithContext(ctx))
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return &TimeoutError{Duration: d, Err: err}
			}
			return err
		}
	}
}
