package logging

import (
	"context"
	"log/slog"
)

// ContextProvider returns a snapshot of live state, e.g. the current game.
type ContextProvider func() []slog.Attr

// ContextHandler adds the provider's attributes to each record as one group
// under key, so they never clash with attributes passed at the call site. The
// provider runs once per record. A record that already carries key is passed
// through unchanged.
type ContextHandler struct {
	inner    slog.Handler
	key      string
	provider ContextProvider
}

// NewContextHandler wraps inner. An empty provider result adds nothing.
func NewContextHandler(inner slog.Handler, key string, provider ContextProvider) *ContextHandler {
	return &ContextHandler{inner: inner, key: key, provider: provider}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider == nil || hasKey(r, h.key) {
		return h.inner.Handle(ctx, r)
	}
	if attrs := h.provider(); len(attrs) > 0 {
		r.AddAttrs(slog.Attr{Key: h.key, Value: slog.GroupValue(attrs...)})
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), key: h.key, provider: h.provider}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{inner: h.inner.WithGroup(name), key: h.key, provider: h.provider}
}

func hasKey(r slog.Record, key string) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		found = a.Key == key
		return !found
	})
	return found
}
