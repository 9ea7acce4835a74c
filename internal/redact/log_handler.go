package redact

import (
	"context"
	"log/slog"
)

// LogHandler is a slog.Handler middleware that scrubs registered secrets from
// record messages and string attribute values before delegating to the inner
// handler. Attributes attached via WithAttrs are scrubbed at attachment time.
type LogHandler struct {
	inner    slog.Handler
	registry *Registry
}

// NewLogHandler wraps inner with scrubbing backed by the given registry.
func NewLogHandler(inner slog.Handler, registry *Registry) *LogHandler {
	return &LogHandler{inner: inner, registry: registry}
}

// Enabled implements slog.Handler.
func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *LogHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, h.registry.Scrub(record.Message), record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clean.AddAttrs(h.scrubAttr(attr))
		return true
	})
	return h.inner.Handle(ctx, clean)
}

// WithAttrs implements slog.Handler.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		scrubbed = append(scrubbed, h.scrubAttr(attr))
	}
	return &LogHandler{inner: h.inner.WithAttrs(scrubbed), registry: h.registry}
}

// WithGroup implements slog.Handler.
func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{inner: h.inner.WithGroup(name), registry: h.registry}
}

func (h *LogHandler) scrubAttr(attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindString:
		attr.Value = slog.StringValue(h.registry.Scrub(attr.Value.String()))
	case slog.KindGroup:
		group := attr.Value.Group()
		scrubbed := make([]slog.Attr, 0, len(group))
		for _, member := range group {
			scrubbed = append(scrubbed, h.scrubAttr(member))
		}
		attr.Value = slog.GroupValue(scrubbed...)
	}
	return attr
}
