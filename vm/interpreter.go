package vm

import (
	"github.com/colorfulnotion/embive/riscv"
)

// mcauseExternalInterrupt is the mcause value interrupt() records: the
// interrupt bit (31) set, with cause code 11 (machine external interrupt).
const mcauseExternalInterrupt uint32 = 0x8000_000B

// Interpreter executes a bytecode image against a Memory backing (§4.E-I).
// It holds no goroutines and does no I/O of its own; Run, Syscall and
// Interrupt are all synchronous and safe to call only from a single
// goroutine at a time (§5).
type Interpreter struct {
	mem         Memory
	regs        Registers
	csr         CSRFile
	reservation Reservation
	cfg         Config
	state       State
}

// NewInterpreter constructs an Interpreter over mem, seeded with cfg. The
// program counter starts at cfg.EntryPoint if set, otherwise 0 (the start
// of the bytecode region; no image header is read). The stack pointer (x2) is seeded at the top of
// RAM, 16-byte aligned down, when mem reports its size via Sizer.
func NewInterpreter(mem Memory, cfg Config) *Interpreter {
	it := &Interpreter{mem: mem, cfg: cfg, state: Running}
	it.csr.StrictUnimplemented = cfg.StrictCSR
	it.csr.Mtvec = cfg.InterruptVector
	entry := uint32(0)
	if cfg.EntryPoint != nil {
		entry = *cfg.EntryPoint
	}
	it.regs.SetPC(entry)
	if sizer, ok := mem.(Sizer); ok {
		top := RAMBase + sizer.RAMSize()
		it.regs.Set(2, top&^0xF)
	}
	return it
}

// State reports the interpreter's current run state.
func (it *Interpreter) State() State { return it.state }

// Register reads general-purpose register i (0..31).
func (it *Interpreter) Register(i uint8) uint32 { return it.regs.Get(i) }

// SetRegister writes general-purpose register i; writes to x0 are no-ops.
func (it *Interpreter) SetRegister(i uint8, value uint32) { it.regs.Set(i, value) }

// PC returns the current program counter.
func (it *Interpreter) PC() uint32 { return it.regs.PC() }

// SetPC overwrites the program counter (host-driven relocation/patching).
func (it *Interpreter) SetPC(pc uint32) { it.regs.SetPC(pc) }

// ReadCSR reads CSR num without side effects, for host introspection.
func (it *Interpreter) ReadCSR(num uint16) (uint32, error) { return it.csr.Read(num) }

// Step executes exactly one instruction regardless of Config.InstructionLimit,
// for a debug frontend driving the interpreter one instruction at a time
// (bridge/). It shares Run's fetch-decode-dispatch body but returns after a
// single iteration instead of looping on a budget.
func (it *Interpreter) Step() (State, error) {
	switch it.state {
	case Halted:
		return it.state, &IllegalState{Reason: "step called on a halted interpreter"}
	case Called:
		return it.state, &IllegalState{Reason: "step called while awaiting a syscall reply"}
	case Waiting:
		return it.state, &IllegalState{Reason: "step called while awaiting an interrupt"}
	}

	pc := it.regs.PC()
	if pc%4 != 0 {
		it.state = Halted
		return it.state, &MisalignedFetch{Addr: pc}
	}
	word, err := loadWord(it, pc)
	if err != nil {
		it.state = Halted
		return it.state, err
	}
	op := riscv.Opcode(word & 0x1F)
	handler := dispatchTable[op]
	if handler == nil {
		it.state = Halted
		return it.state, &InvalidInstruction{Addr: pc}
	}
	outcome, err := handler(it, word)
	if err != nil {
		it.state = Halted
		return it.state, err
	}
	if outcome == stepContinue && it.regs.PC() == pc {
		it.regs.SetPC(pc + 4)
	}
	it.regs.ZeroGuard()
	if it.cfg.Tracer != nil {
		it.cfg.Tracer.Trace(TraceEvent{
			PC:        pc,
			Opcode:    op.String(),
			NextPC:    it.regs.PC(),
			Registers: it.regs.Snapshot(),
		})
	}
	switch outcome {
	case stepHalted:
		it.state = Halted
	case stepCalled:
		it.state = Called
	case stepWaiting:
		it.state = Waiting
	default:
		it.state = Running
	}
	return it.state, nil
}

// Run executes instructions until the configured InstructionLimit is spent,
// the guest halts, calls out to the host, or waits for an interrupt, or an
// error occurs (§4.F, §6). Run fails immediately if the interpreter is not
// in the Running state.
func (it *Interpreter) Run() (State, error) {
	switch it.state {
	case Halted:
		return it.state, &IllegalState{Reason: "run called on a halted interpreter"}
	case Called:
		return it.state, &IllegalState{Reason: "run called while awaiting a syscall reply"}
	case Waiting:
		return it.state, &IllegalState{Reason: "run called while awaiting an interrupt"}
	}
	it.reservation.Clear()

	budget := it.cfg.InstructionLimit
	unbounded := budget == 0
	for unbounded || budget > 0 {
		pc := it.regs.PC()
		if pc%4 != 0 {
			it.state = Halted
			return it.state, &MisalignedFetch{Addr: pc}
		}
		word, err := loadWord(it, pc)
		if err != nil {
			it.state = Halted
			return it.state, err
		}
		op := riscv.Opcode(word & 0x1F)
		handler := dispatchTable[op]
		if handler == nil {
			it.state = Halted
			return it.state, &InvalidInstruction{Addr: pc}
		}
		outcome, err := handler(it, word)
		if err != nil {
			it.state = Halted
			return it.state, err
		}
		if outcome == stepContinue && it.regs.PC() == pc {
			it.regs.SetPC(pc + 4)
		}
		it.regs.ZeroGuard()
		if it.cfg.Tracer != nil {
			it.cfg.Tracer.Trace(TraceEvent{
				PC:        pc,
				Opcode:    op.String(),
				NextPC:    it.regs.PC(),
				Registers: it.regs.Snapshot(),
			})
		}
		if !unbounded {
			budget--
		}
		switch outcome {
		case stepHalted:
			it.state = Halted
			return it.state, nil
		case stepCalled:
			it.state = Called
			return it.state, nil
		case stepWaiting:
			it.state = Waiting
			return it.state, nil
		}
	}
	it.state = Running
	return it.state, nil
}

// Syscall services a pending ecall (state Called) by invoking
// Config.SyscallFn with a7 as the syscall number and a0..a5 as its
// arguments, writing the result back to a0/a1 and advancing the program
// counter past the ecall (§4.H). It returns the interpreter to Running on
// success. Calling it outside the Called state is an error.
func (it *Interpreter) Syscall() error {
	if it.state != Called {
		return &IllegalState{Reason: "syscall called outside the Called state"}
	}
	if it.cfg.SyscallFn == nil {
		it.state = Halted
		return &HostError{Err: &IllegalState{Reason: "no syscall handler configured"}}
	}
	nr := int32(it.regs.Get(17))
	var args [SyscallArgs]int32
	for i := range args {
		args[i] = int32(it.regs.Get(uint8(10 + i)))
	}
	outcome, err := it.cfg.SyscallFn(nr, args, it.mem)
	if err != nil {
		it.state = Halted
		return &HostError{Err: err}
	}
	it.regs.Set(10, uint32(outcome.Result))
	it.regs.Set(11, uint32(outcome.ErrCode))
	it.regs.SetPC(it.regs.PC() + 4)
	it.reservation.Clear()
	it.state = Running
	return nil
}

// Interrupt delivers an external interrupt while the interpreter is
// Waiting (post-WFI), per §4.H: it records mepc (pc of the instruction
// after wfi) and mcause, then jumps to mtvec. It is a no-op outside the
// Waiting state, while mtvec is unset, or while mstatus.MIE (bit 3) is
// clear — an unconfigured or masked interrupt is simply dropped rather
// than reported as an error.
func (it *Interpreter) Interrupt() error {
	if it.state != Waiting {
		return nil
	}
	if it.csr.Mtvec == 0 {
		return nil
	}
	if it.csr.Mstatus&0x8 == 0 {
		return nil
	}
	it.csr.Mepc = it.regs.PC() + 4
	it.csr.Mcause = mcauseExternalInterrupt
	it.regs.SetPC(it.csr.Mtvec)
	it.reservation.Clear()
	it.state = Running
	return nil
}
