package vm

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/colorfulnotion/embive/riscv"
	"github.com/stretchr/testify/require"
)

func TestTracerFuncReceivesOneEventPerInstruction(t *testing.T) {
	code := encode(t,
		riscv.Instruction{Op: riscv.OpOpImm, Rd: 1, Rs1: 0, Imm: 1, Funct3: riscv.AddiFunc},
		riscv.Instruction{Op: riscv.OpOpImm, Rd: 1, Rs1: 1, Imm: 1, Funct3: riscv.AddiFunc},
		riscv.Instruction{Op: riscv.OpSystemMiscMem, Imm: riscv.EbreakImm},
	)

	var events []TraceEvent
	cfg := DefaultConfig().WithTracer(TracerFunc(func(ev TraceEvent) {
		events = append(events, ev)
	}))
	mem := NewSliceMemory(code, nil)
	it := NewInterpreter(mem, cfg)

	state, err := it.Run()
	require.NoError(t, err)
	require.Equal(t, Halted, state)
	require.Len(t, events, 3)
	require.Equal(t, uint32(0), events[0].PC)
	require.Equal(t, uint32(4), events[0].NextPC)
	require.Equal(t, uint32(2), events[1].Registers[1])
}

func TestJSONLTracerWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONLTracer(&buf)

	code := encode(t,
		riscv.Instruction{Op: riscv.OpOpImm, Rd: 1, Rs1: 0, Imm: 1, Funct3: riscv.AddiFunc},
		riscv.Instruction{Op: riscv.OpSystemMiscMem, Imm: riscv.EbreakImm},
	)
	cfg := DefaultConfig().WithTracer(tracer)
	mem := NewSliceMemory(code, nil)
	it := NewInterpreter(mem, cfg)

	_, err := it.Run()
	require.NoError(t, err)
	require.NoError(t, tracer.Flush())

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 2)
	var ev TraceEvent
	require.NoError(t, json.Unmarshal(lines[0], &ev))
	require.Equal(t, uint32(0), ev.PC)
}
