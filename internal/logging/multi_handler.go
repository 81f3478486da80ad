package logging

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// MultiHandler fans each record out to several handlers. The CLI uses it
// to pair the console handler with the JSON stream behind --log-file;
// each destination keeps its own level gate.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler creates a MultiHandler over the given destinations.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled reports whether any destination wants records at this level.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, dest := range h.handlers {
		if dest.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every destination enabled for its level.
// A failing destination does not stop delivery to the others; failures
// are combined into the returned error.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var combined error
	for _, dest := range h.handlers {
		if !dest.Enabled(ctx, r.Level) {
			continue
		}
		if err := dest.Handle(ctx, r); err != nil {
			combined = errors.CombineErrors(combined, err)
		}
	}
	return combined
}

// WithAttrs applies the attributes to every destination.
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, dest := range h.handlers {
		handlers[i] = dest.WithAttrs(attrs)
	}
	return NewMultiHandler(handlers...)
}

// WithGroup opens the group on every destination.
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, dest := range h.handlers {
		handlers[i] = dest.WithGroup(name)
	}
	return NewMultiHandler(handlers...)
}
