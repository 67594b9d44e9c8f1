package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// WithContext returns a context carrying the logger. Use it to scope a
// logger to a single request or unit of work.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Logger returns the logger carried by the context, if any.
func Logger(ctx context.Context) (*slog.Logger, bool) {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	return l, ok
}

// FromContext returns the logger carried by the context, falling back to
// slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := Logger(ctx); ok {
		return l
	}
	return slog.Default()
}
