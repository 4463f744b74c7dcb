package bridge

import (
	"sync"

	"github.com/colorfulnotion/embive/vm"
)

// Debugger drives an Interpreter one instruction at a time on behalf of a
// remote control connection, tracking a breakpoint set the interpreter
// itself has no notion of. One Debugger serves exactly one control stream;
// concurrent stepping and register/memory access from multiple connections
// is not supported.
type Debugger struct {
	mu          sync.Mutex
	it          *vm.Interpreter
	mem         vm.Memory
	breakpoints map[uint32]bool
}

// NewDebugger wraps it, reading and writing memory through mem (the same
// backing it was constructed with).
func NewDebugger(it *vm.Interpreter, mem vm.Memory) *Debugger {
	return &Debugger{it: it, mem: mem, breakpoints: make(map[uint32]bool)}
}

// SetBreakpoint arms a breakpoint at addr.
func (d *Debugger) SetBreakpoint(addr uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.breakpoints[addr] = true
}

// ClearBreakpoint disarms the breakpoint at addr, if any.
func (d *Debugger) ClearBreakpoint(addr uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.breakpoints, addr)
}

// Step executes exactly one instruction.
func (d *Debugger) Step() (vm.State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.it.Step()
}

// Continue steps until a breakpoint is hit, the interpreter leaves the
// Running state, or an error occurs. hit reports whether a breakpoint, as
// opposed to a halt/call/wait or budget exhaustion, stopped execution. The
// instruction sitting on a breakpoint when Continue is called always
// executes once before the breakpoint set is consulted again, so resuming
// from a breakpoint doesn't immediately re-trigger it.
func (d *Debugger) Continue() (state vm.State, hit bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	state, err = d.it.Step()
	if err != nil || state != vm.Running {
		return state, false, err
	}
	for {
		if d.breakpoints[d.it.PC()] {
			return vm.Running, true, nil
		}
		state, err = d.it.Step()
		if err != nil || state != vm.Running {
			return state, false, err
		}
	}
}

// PC returns the interpreter's current program counter.
func (d *Debugger) PC() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.it.PC()
}

// ReadRegisters snapshots all 32 general-purpose registers.
func (d *Debugger) ReadRegisters() [32]uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	var regs [32]uint32
	for i := range regs {
		regs[i] = d.it.Register(uint8(i))
	}
	return regs
}

// WriteRegister overwrites general-purpose register i.
func (d *Debugger) WriteRegister(i uint8, value uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.it.SetRegister(i, value)
}

// ReadMemory reads length bytes starting at addr. Reads proceed one byte at
// a time since Memory.Load only guarantees 1/2/4-byte aligned-width access
// and a debug read may span both regions or start unaligned.
func (d *Debugger) ReadMemory(addr, length uint32) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, length)
	for i := uint32(0); i < length; i++ {
		b, err := d.mem.Load(addr+i, 1)
		if err != nil {
			return nil, err
		}
		out[i] = b[0]
	}
	return out, nil
}

// WriteMemory writes data starting at addr, one byte at a time for the same
// reason ReadMemory does.
func (d *Debugger) WriteMemory(addr uint32, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, b := range data {
		if err := d.mem.Store(addr+uint32(i), 1, []byte{b}); err != nil {
			return err
		}
	}
	return nil
}
