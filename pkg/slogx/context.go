package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// WithContext returns a context carrying the given logger. Handlers store
// their request-scoped logger here so lower layers inherit its attributes.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger carried by ctx. Outside a request scope
// (startup, background workers) it falls back to the process default, so
// callers never need a nil check.
func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithRequestID rebinds the contextual logger with a req_id attribute so
// every line logged downstream ties back to one gateway request.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	l := FromContext(ctx)
	return WithContext(ctx, l.With("req_id", reqID))
}
