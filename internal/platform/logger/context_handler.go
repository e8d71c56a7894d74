package logger

import (
	"context"
	"io"
	"log/slog"
)

// ContextHandler is a custom slog.Handler that stamps request-scoped
// attributes from the context onto every log record, so call sites do
// not have to thread a request ID through their log arguments.
type ContextHandler struct {
	// The underlying handler (usually JSON)
	handler slog.Handler
}

// NewContextHandler creates a ContextHandler writing JSON records to out.
func NewContextHandler(out io.Writer, opts *slog.HandlerOptions) *ContextHandler {
	// Clone the options to avoid modifying the caller's options
	var handlerOpts *slog.HandlerOptions
	if opts != nil {
		handlerOptsCopy := *opts
		handlerOpts = &handlerOptsCopy
	} else {
		handlerOpts = &slog.HandlerOptions{}
	}

	return &ContextHandler{
		handler: slog.NewJSONHandler(out, handlerOpts),
	}
}

// WrapHandler creates a ContextHandler around an existing handler.
func WrapHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{handler: inner}
}

// Enabled implements the slog.Handler interface.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup implements the slog.Handler interface.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// Handle implements the slog.Handler interface. It clones the record so
// the caller's copy is not modified.
func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	id, ok := RequestID(ctx)
	if !ok {
		return h.handler.Handle(ctx, record)
	}

	enhanced := record.Clone()
	enhanced.AddAttrs(slog.String("request_id", id))
	return h.handler.Handle(ctx, enhanced)
}
