// Package vmlog is the ambient structured-logging layer used by
// cmd/embivesim. It is a trimmed adaptation of the
// teacher repo's log package: same slog-on-top, legacy-level-bridging,
// per-module-gating design, cut down to the four modules this project
// actually has and stripped of the JAM-node-specific remote syslog/telemetry
// sinks (see DESIGN.md).
package vmlog

import (
	"context"
	"log/slog"
	"math"
	"os"
	"runtime"
	"time"
)

const (
	levelMaxVerbosity slog.Level = math.MinInt
	LevelTrace        slog.Level = -8
	LevelDebug                   = slog.LevelDebug
	LevelInfo                    = slog.LevelInfo
	LevelWarn                    = slog.LevelWarn
	LevelError                   = slog.LevelError
	LevelCrit         slog.Level = 12
)

// LevelAlignedString returns a fixed-width name for l, used by the terminal
// handler's line prefix.
func LevelAlignedString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO "
	case slog.LevelWarn:
		return "WARN "
	case slog.LevelError:
		return "ERROR"
	case LevelCrit:
		return "CRIT "
	default:
		return "?????"
	}
}

// Logger writes key/value pairs to a slog.Handler, gated by level and
// (via the package-level functions in root.go) by module name.
type Logger interface {
	With(ctx ...any) Logger
	Write(level slog.Level, module string, msg string, attrs ...any)
	Trace(module string, msg string, ctx ...any)
	Debug(module string, msg string, ctx ...any)
	Info(module string, msg string, ctx ...any)
	Warn(module string, msg string, ctx ...any)
	Error(module string, msg string, ctx ...any)
	Crit(module string, msg string, ctx ...any)
	Enabled(ctx context.Context, level slog.Level) bool
	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a Logger backed by h.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) Handler() slog.Handler { return l.inner.Handler() }

func (l *logger) Write(level slog.Level, module string, msg string, attrs ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.AddAttrs(slog.String("module", module))
	r.Add(attrs...)
	_ = l.inner.Handler().Handle(context.Background(), r)
}

func (l *logger) With(ctx ...any) Logger { return &logger{inner: l.inner.With(ctx...)} }

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

func (l *logger) Trace(module, msg string, ctx ...any) { l.Write(LevelTrace, module, msg, ctx...) }
func (l *logger) Debug(module, msg string, ctx ...any) { l.Write(slog.LevelDebug, module, msg, ctx...) }
func (l *logger) Info(module, msg string, ctx ...any)  { l.Write(slog.LevelInfo, module, msg, ctx...) }
func (l *logger) Warn(module, msg string, ctx ...any)  { l.Write(slog.LevelWarn, module, msg, ctx...) }
func (l *logger) Error(module, msg string, ctx ...any) { l.Write(slog.LevelError, module, msg, ctx...) }
func (l *logger) Crit(module, msg string, ctx ...any) {
	l.Write(LevelCrit, module, msg, ctx...)
	os.Exit(1)
}
