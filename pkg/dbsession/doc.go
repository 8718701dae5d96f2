// Package dbsession binds one database session to each request context and
// guarantees it is finalized when the request ends.
//
// # Overview
//
// A [Manager] is created once at startup with a [Factory], usually an
// [EngineFactory] bound to a [github.com/dmitrymomot/dbscope/pkg/db.Engine].
// For every unit of work (typically an HTTP request) the manager opens a new
// [Session], installs it in the context and, when the work ends, rolls it
// back on failure and always closes it.
//
// Downstream code reads the session from the context instead of receiving it
// as a parameter:
//
//	func (r *Repository) Rename(ctx context.Context, id, name string) error {
//		sess, err := dbsession.Current(ctx)
//		if err != nil {
//			return err
//		}
//		_, err = sess.Exec(ctx, "UPDATE items SET name = $1 WHERE id = $2", name, id)
//		return err
//	}
//
// [Current] returns [ErrNoActiveSession] when no scope is active, which
// signals a missing middleware or a call outside a request.
//
// # Setup
//
//	engine, err := db.Open(ctx, cfg.URL, cfg.EngineOptions()...)
//	if err != nil {
//		return err
//	}
//
//	factory, err := dbsession.NewFactory(engine, dbsession.WithIsolation(dbsession.IsolationReadCommitted))
//	if err != nil {
//		return err
//	}
//
//	sessions, err := dbsession.New(factory, dbsession.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
// # Scopes
//
// [Manager.Run] wraps a function:
//
//	err := sessions.Run(ctx, func(ctx context.Context) error {
//		return repo.Rename(ctx, id, name)
//	})
//
// [Manager.Begin] and [Scope.End] form an explicit enter/exit pair:
//
//	scope, ctx, err := sessions.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	finished := false
//	defer func() {
//		if !finished {
//			_ = scope.End(dbsession.ErrHandlerPanicked)
//		}
//	}()
//	err = work(ctx)
//	finished = true
//	return scope.End(err)
//
// Exit behavior:
//
//   - on error or panic the session is rolled back
//   - with [WithCommitOnExit] a successful scope commits
//   - the session is always closed, exactly once
//   - the previous current session (or none) is restored
//   - the work error is returned unchanged; a panic keeps propagating
//
// Teardown runs on a context detached from the request cancellation and
// bounded by [WithTeardownTimeout], so cancelled or timed-out requests still
// release their connection.
//
// # Teardown errors
//
// When the work failed, its error always wins: it is returned as is and
// rollback or close failures are logged and reported to the [Observer].
// When the work succeeded, teardown failures are returned wrapped in
// [ErrTeardown] together with [ErrRollback], [ErrCommit] or [ErrClose].
//
// # Sessions
//
// [PgSession] and [SQLSession] hold one pooled connection each. With
// auto-begin (the default) the first statement opens a transaction using the
// session options; [Session.Commit] persists it and [Session.Close] discards
// anything left uncommitted. A session is request-exclusive and not safe for
// concurrent use.
package dbsession
