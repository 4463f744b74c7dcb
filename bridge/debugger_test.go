package bridge

import (
	"encoding/binary"
	"testing"

	"github.com/colorfulnotion/embive/riscv"
	"github.com/colorfulnotion/embive/vm"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, insts ...riscv.Instruction) []byte {
	t.Helper()
	code := make([]byte, 0, len(insts)*4)
	for _, inst := range insts {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], inst.EncodeBytecode())
		code = append(code, b[:]...)
	}
	return code
}

func newDebugger(t *testing.T, insts ...riscv.Instruction) *Debugger {
	t.Helper()
	code := encode(t, insts...)
	mem := vm.NewSliceMemory(code, make([]byte, 64))
	it := vm.NewInterpreter(mem, vm.DefaultConfig())
	return NewDebugger(it, mem)
}

func threeInstructionProgram(t *testing.T) *Debugger {
	return newDebugger(t,
		riscv.Instruction{Op: riscv.OpOpImm, Rd: 1, Rs1: 0, Imm: 5, Funct3: riscv.AddiFunc},
		riscv.Instruction{Op: riscv.OpOpImm, Rd: 1, Rs1: 1, Imm: 1, Funct3: riscv.AddiFunc},
		riscv.Instruction{Op: riscv.OpSystemMiscMem, Imm: riscv.EbreakImm},
	)
}

func TestDebuggerStepAdvancesOneInstructionAtATime(t *testing.T) {
	d := threeInstructionProgram(t)

	state, err := d.Step()
	require.NoError(t, err)
	require.Equal(t, vm.Running, state)
	require.Equal(t, uint32(4), d.PC())
	require.Equal(t, uint32(5), d.ReadRegisters()[1])

	state, err = d.Step()
	require.NoError(t, err)
	require.Equal(t, vm.Running, state)
	require.Equal(t, uint32(6), d.ReadRegisters()[1])

	state, err = d.Step()
	require.NoError(t, err)
	require.Equal(t, vm.Halted, state)
}

func TestDebuggerContinueStopsAtBreakpoint(t *testing.T) {
	d := threeInstructionProgram(t)
	d.SetBreakpoint(4)

	state, hit, err := d.Continue()
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, vm.Running, state)
	require.Equal(t, uint32(4), d.PC())

	// Resuming from the breakpoint must not immediately re-trigger it.
	state, hit, err = d.Continue()
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, vm.Halted, state)
}

func TestDebuggerReadWriteMemoryRoundTrips(t *testing.T) {
	d := threeInstructionProgram(t)

	require.NoError(t, d.WriteMemory(vm.RAMBase, []byte{1, 2, 3, 4}))
	data, err := d.ReadMemory(vm.RAMBase, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestDebuggerWriteRegister(t *testing.T) {
	d := threeInstructionProgram(t)
	d.WriteRegister(5, 42)
	require.Equal(t, uint32(42), d.ReadRegisters()[5])
}
