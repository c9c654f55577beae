package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// MultiHandler fans each record out to every enabled sink. A failing sink does
// not stop the others; all failures are joined into the returned error and
// reported to the error hook, since slog.Logger discards handler errors.
type MultiHandler struct {
	handlers []slog.Handler
	onError  func(error)
}

// NewMultiHandler creates a handler over the non-nil sinks.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	valid := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			valid = append(valid, h)
		}
	}
	return &MultiHandler{handlers: valid}
}

// OnError sets fn to receive the joined sink errors of each failed record.
func (m *MultiHandler) OnError(fn func(error)) *MultiHandler {
	m.onError = fn
	return m
}

// Enabled is true if any sink accepts the level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes r to every sink enabled for its level.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for i, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, fmt.Errorf("log sink %d: %w", i, err))
		}
	}

	err := errors.Join(errs...)
	if err != nil && m.onError != nil {
		m.onError(err)
	}
	return err
}

// WithAttrs applies attrs to every sink.
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

// WithGroup opens the group on every sink.
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = fn(h)
	}
	return &MultiHandler{handlers: handlers, onError: m.onError}
}
