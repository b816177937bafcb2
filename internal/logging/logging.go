// Package logging builds the process-wide structured logger.
package logging

import (
	"context"
	"io"
	"log/slog"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// New returns a text logger at level tagged with the service name. Debug
// level also records source locations.
func New(service string, level slog.Level, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})
	return slog.New(handler).With(slog.String("service", service))
}

// WithRequestID returns a context carrying the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the request ID, or "" if none is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns l annotated with the request ID carried by ctx.
func FromContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return l.With(slog.String("request_id", id))
	}
	return l
}
