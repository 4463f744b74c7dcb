package vm

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// TraceEvent is one executed-instruction record (§4.F), emitted once per
// dispatch iteration after the handler runs. It mirrors the shape of the
// teacher's TraceStep (pvm/trace/pvm_trace.go) — an opcode tag plus a
// post-instruction register snapshot — generalized from polkavm's
// 13-register/gas-metered record to this ISA's flat 32-register file and
// instruction-count budget.
type TraceEvent struct {
	PC        uint32    `json:"pc"`
	Opcode    string    `json:"opcode"`
	NextPC    uint32    `json:"nextPc"`
	Registers [32]uint32 `json:"registers"`
}

// Tracer receives one TraceEvent per instruction Run executes, for as long
// as Config.Tracer is set. Implementations must not call back into the
// Interpreter they were attached to; Trace is called synchronously from
// inside Run.
type Tracer interface {
	Trace(ev TraceEvent)
}

// TracerFunc adapts a plain function to Tracer.
type TracerFunc func(TraceEvent)

func (f TracerFunc) Trace(ev TraceEvent) { f(ev) }

// JSONLTracer writes one JSON object per line, the line-delimited format
// the teacher's trace2log/validatetraces tools consume. Safe for concurrent
// use; buffered like the teacher's JSONLTraceWriter so a long run doesn't
// make a syscall per instruction.
type JSONLTracer struct {
	mu  sync.Mutex
	enc *json.Encoder
	buf *bufio.Writer
}

// NewJSONLTracer returns a Tracer that writes newline-delimited JSON to w.
// The caller owns w and must Flush before reading back a fully-written
// trace.
func NewJSONLTracer(w io.Writer) *JSONLTracer {
	buf := bufio.NewWriterSize(w, 64*1024)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &JSONLTracer{enc: enc, buf: buf}
}

func (t *JSONLTracer) Trace(ev TraceEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// Trace output is diagnostic only; a write failure here must not abort
	// guest execution, so the encode error is dropped rather than surfaced.
	_ = t.enc.Encode(ev)
}

// Flush forces any buffered trace lines to the underlying writer.
func (t *JSONLTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Flush()
}
