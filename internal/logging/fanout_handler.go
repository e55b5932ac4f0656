package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// fanoutHandler forwards each record to every handler that accepts its level.
// closer releases the log file shared by the handler and its derivatives.
type fanoutHandler struct {
	handlers []slog.Handler
	closer   io.Closer
}

func newFileFanoutHandler(primary, file slog.Handler, closer io.Closer) slog.Handler {
	return &fanoutHandler{handlers: []slog.Handler{primary, file}, closer: closer}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next, closer: h.closer}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: next, closer: h.closer}
}

func (h *fanoutHandler) Close() error {
	if h.closer == nil {
		return nil
	}
	return h.closer.Close()
}
