package vmlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// DiscardHandler returns a handler that drops every record; it is the
// default root logger until InitLogger or SetDefault is called.
func DiscardHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: levelMaxVerbosity})
}

// NewTerminalHandler returns a handler that writes one aligned, human
// readable line per record to w.
func NewTerminalHandler(w io.Writer, level slog.Level) slog.Handler {
	return &terminalHandler{w: w, level: level}
}

type terminalHandler struct {
	mu    sync.Mutex
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool { return level >= h.level }

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.w, "%s[%s] %s", LevelAlignedString(r.Level), r.Time.Format("15:04:05.000"), r.Message)
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.w, " %s=%v", a.Key, a.Value)
		return true
	})
	for _, a := range h.attrs {
		fmt.Fprintf(h.w, " %s=%v", a.Key, a.Value)
	}
	fmt.Fprintln(h.w)
	return nil
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &terminalHandler{w: h.w, level: h.level, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *terminalHandler) WithGroup(_ string) slog.Handler { return h }
