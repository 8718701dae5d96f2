package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a JSON logger on stdout with the given minimum level.
func New(level slog.Leveler, extractors ...ContextExtractor) *slog.Logger {
	return NewWithWriter(os.Stdout, level, extractors...)
}

// NewWithWriter creates a JSON logger writing to w.
func NewWithWriter(w io.Writer, level slog.Leveler, extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(WithExtractors(h, extractors...))
}

// NewNope creates a logger that discards all output.
// Use it as a default when logging is not configured.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
