// Package logger augments slog with attributes carried on the context, so
// request-scoped fields (like a request ID) show up on every log line
// without threading them by hand.
package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Handler wraps a base [slog.Handler] and folds any context-carried
// attributes into each record before handing it off.
type Handler struct {
	slog.Handler
}

// NewHandler wraps the given base handler.
func NewHandler(base slog.Handler) Handler {
	return Handler{Handler: base}
}

// Handle implements [slog.Handler].
func (h Handler) Handle(ctx context.Context, record slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		record.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, record)
}

// WithAttrs returns a context carrying the given attributes in addition to
// any it already held. A [Handler] given the resulting context will log them.
func WithAttrs(ctx context.Context, toAppend ...slog.Attr) context.Context {
	attrs, _ := ctx.Value(ctxKey{}).([]slog.Attr)
	attrs = append(attrs[:len(attrs):len(attrs)], toAppend...)

	return context.WithValue(ctx, ctxKey{}, attrs)
}
