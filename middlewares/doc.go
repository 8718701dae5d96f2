// Package middlewares provides HTTP middleware that binds a database session
// to each request.
//
// Handlers return errors instead of writing failures themselves:
//
//	type HandlerFunc func(w http.ResponseWriter, r *http.Request) error
//
// Handle adapts such a handler to net/http and renders returned errors with
// an ErrorHandler.
//
// # DB session
//
// DBSession opens one session per request through a dbsession.Manager,
// installs it in the request context and finalizes it when the handler
// returns. Downstream code reads it with dbsession.Current:
//
//	r.Get("/notes/{id}", middlewares.Handle(h.Get,
//	    middlewares.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.DBSession(sessions),
//	    ),
//	))
//
// A returned error or a panic rolls the session back. The session is always
// closed and uninstalled, and the handler's error is returned unchanged.
// Uncommitted work is discarded on close; commit explicitly or build the
// manager with dbsession.WithCommitOnExit.
//
// DBSessionHandler is the plain net/http form for router-level middleware.
// It treats panics and, with WithRollbackOnStatus, failure statuses as
// failed requests:
//
//	r.Use(middlewares.DBSessionHandler(sessions,
//	    middlewares.WithRollbackOnStatus(http.StatusInternalServerError),
//	))
//
// # Request ID
//
// RequestID keeps an incoming X-Request-ID (or X-Correlation-ID) or generates
// a UUID. RequestIDExtractor adds it to log records.
//
// # Recover
//
// Recover converts panics into *PanicError. Place it outside DBSession so the
// session is finalized while the panic unwinds.
//
// # Timeout
//
// Timeout bounds the request context. Failures after the deadline are
// wrapped in *TimeoutError, which DefaultErrorHandler answers with 504.
package middlewares
