package vmlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Module names gating package-level Trace/Debug calls, trimmed from the
// teacher's much larger module list down to this project's four log
// sources (§2 components F, C, H, and the interactive monitor).
const (
	Dispatch   = "dispatch"   // the F dispatch loop (vm package)
	Transpile  = "transpile"  // the C transpiler driver (transpile package)
	HostBridge = "hostbridge" // the H host bridge / syscall path (vm package)
	Monitor    = "monitor"    // the interactive REPL and remote bridge
)

var root atomic.Value

func init() {
	root.Store(NewLogger(DiscardHandler()))
	moduleEnabled = map[string]bool{Dispatch: true, Transpile: true, HostBridge: true, Monitor: true}
}

func ParseLevel(lvl string) (slog.Level, error) {
	switch strings.ToUpper(lvl) {
	case "MAX", "MAXVERBOSITY":
		return levelMaxVerbosity, nil
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "CRIT", "CRITICAL":
		return LevelCrit, nil
	default:
		return 0, fmt.Errorf("invalid level: %s", lvl)
	}
}

// InitLogger installs a terminal handler at the given textual level as the
// root logger; it is how cmd/embivesim wires up --log-level.
func InitLogger(logLevel string) error {
	lvl, err := ParseLevel(logLevel)
	if err != nil {
		return err
	}
	SetDefault(NewLogger(NewTerminalHandler(os.Stderr, lvl)))
	return nil
}

func SetDefault(l Logger) { root.Store(l) }

func Root() Logger { return root.Load().(Logger) }

func New(ctx ...any) Logger { return Root().With(ctx...) }

var moduleMu sync.RWMutex
var moduleEnabled map[string]bool

func EnableModule(module string) {
	moduleMu.Lock()
	defer moduleMu.Unlock()
	moduleEnabled[module] = true
}

func DisableModule(module string) {
	moduleMu.Lock()
	defer moduleMu.Unlock()
	moduleEnabled[module] = false
}

func isModuleEnabled(module string) bool {
	moduleMu.RLock()
	defer moduleMu.RUnlock()
	return moduleEnabled[module]
}

func Trace(module, msg string, ctx ...any) {
	if !isModuleEnabled(module) {
		return
	}
	Root().Write(LevelTrace, module, msg, ctx...)
}

func Debug(module, msg string, ctx ...any) {
	if !isModuleEnabled(module) {
		return
	}
	Root().Write(slog.LevelDebug, module, msg, ctx...)
}

func Info(module, msg string, ctx ...any)  { Root().Write(slog.LevelInfo, module, msg, ctx...) }
func Warn(module, msg string, ctx ...any)  { Root().Write(slog.LevelWarn, module, msg, ctx...) }
func Error(module, msg string, ctx ...any) { Root().Write(slog.LevelError, module, msg, ctx...) }
func Crit(module, msg string, ctx ...any) {
	Root().Write(LevelCrit, module, msg, ctx...)
	os.Exit(1)
}

// recorder is an in-memory sink tests can install to assert on emitted
// records without capturing stderr, the same role the teacher's
// RecordLogs/GetRecordedLogs pair played.
type recorder struct {
	mu      sync.Mutex
	records []string
}

var activeRecorder *recorder

// RecordLogs switches the root logger to an in-memory recorder.
func RecordLogs() {
	rec := &recorder{}
	activeRecorder = rec
	SetDefault(NewLogger(recorderHandler{rec}))
}

// GetRecordedLogs returns every line captured since the last RecordLogs call.
func GetRecordedLogs() []string {
	if activeRecorder == nil {
		return nil
	}
	activeRecorder.mu.Lock()
	defer activeRecorder.mu.Unlock()
	out := make([]string, len(activeRecorder.records))
	copy(out, activeRecorder.records)
	return out
}

type recorderHandler struct{ rec *recorder }

func (h recorderHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (h recorderHandler) Handle(_ context.Context, r slog.Record) error {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	h.rec.records = append(h.rec.records, fmt.Sprintf("%s %s", LevelAlignedString(r.Level), r.Message))
	return nil
}
func (h recorderHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h recorderHandler) WithGroup(_ string) slog.Handler     { return h }
