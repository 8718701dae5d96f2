// Package logger provides structured logging with context extraction and Sentry integration.
//
// The package extends log/slog with two capabilities: attributes extracted from
// the request context on every log call, and optional Sentry reporting.
//
// # Basic Usage
//
//	log := logger.New(slog.LevelInfo,
//		middlewares.RequestIDExtractor(),
//		dbsession.LogExtractor(),
//	)
//
//	// request_id and db_session_id are added automatically when present in ctx.
//	log.InfoContext(ctx, "note created", slog.String("note_id", id))
//
// # Context Extractors
//
// A ContextExtractor returns the attribute to add and whether to add it:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// [WithExtractors] wraps any slog.Handler with a set of extractors.
//
// # Sentry Integration
//
//	log := logger.NewWithSentry(cfg.Sentry, slog.LevelInfo, extractors...)
//
// Errors create Sentry issues; warnings and errors (or errors only, see
// [SentryConfig.MinLevel]) are stored as Sentry logs. Without a DSN the logger
// falls back to stdout, so the same code path works in development.
// Register [SentryFlush] as a shutdown hook to deliver buffered events.
package logger
