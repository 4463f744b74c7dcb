package vm

// SyscallArgs is the number of integer arguments (a0..a5) a syscall handler
// receives. spec.md is explicit about this value; the reference crate's
// current implementation actually uses 7, a discrepancy resolved in favor
// of the spec's literal text (see DESIGN.md).
const SyscallArgs = 6

// SyscallOutcome is the guest-visible result of a syscall (§4.H): Result is
// written to a0, ErrCode to a1 (0 on success, nonzero on guest-visible
// failure). This a0=result/a1=error-flag convention is also a deliberate
// deviation from the reference implementation's opposite assignment — see
// DESIGN.md.
type SyscallOutcome struct {
	Result  int32
	ErrCode int32
}

// SyscallFunc is the host-provided syscall handler (§4.H). nr is a7, args
// mirrors a0..a5 at call time. A non-nil returned error is a fatal host
// error (wrapped in *HostError by run), distinct from a guest-visible
// ErrCode in the returned outcome.
type SyscallFunc func(nr int32, args [SyscallArgs]int32, mem Memory) (SyscallOutcome, error)

// Config configures an Interpreter at construction time (§4.I). Config
// values are set once and not mutated by the interpreter itself, except
// indirectly through CSR writes to Mtvec (mirrored by InterruptVector only
// at construction).
type Config struct {
	// InstructionLimit bounds how many instructions a single run() call
	// executes; 0 means unbounded.
	InstructionLimit uint32
	// SyscallFn services ecall; nil means ecall always reports
	// *IllegalState via HostError (no syscall handler configured).
	SyscallFn SyscallFunc
	// InterruptVector seeds CSRFile.Mtvec; interrupt() is a no-op while
	// Mtvec is 0.
	InterruptVector uint32
	// EntryPoint sets the initial program counter when non-nil; otherwise
	// execution starts at address 0.
	EntryPoint *uint32
	// StrictCSR makes unimplemented CSR numbers fault instead of behaving
	// leniently (§9 open question; supplemented feature, see DESIGN.md).
	StrictCSR bool
	// Tracer, if non-nil, receives one TraceEvent per instruction Run
	// executes.
	Tracer Tracer
}

// DefaultConfig returns the zero-value configuration: unbounded
// instructions, no syscall handler, mtvec 0 (interrupts ignored), entry
// point 0, lenient CSR access.
func DefaultConfig() Config {
	return Config{}
}

// WithInstructionLimit returns a copy of c with InstructionLimit set.
func (c Config) WithInstructionLimit(limit uint32) Config {
	c.InstructionLimit = limit
	return c
}

// WithSyscallFn returns a copy of c with SyscallFn set.
func (c Config) WithSyscallFn(fn SyscallFunc) Config {
	c.SyscallFn = fn
	return c
}

// WithInterruptVector returns a copy of c with InterruptVector set.
func (c Config) WithInterruptVector(vector uint32) Config {
	c.InterruptVector = vector
	return c
}

// WithEntryPoint returns a copy of c with EntryPoint set to entry.
func (c Config) WithEntryPoint(entry uint32) Config {
	c.EntryPoint = &entry
	return c
}

// WithStrictCSR returns a copy of c with StrictCSR set.
func (c Config) WithStrictCSR(strict bool) Config {
	c.StrictCSR = strict
	return c
}

// WithTracer returns a copy of c with Tracer set.
func (c Config) WithTracer(t Tracer) Config {
	c.Tracer = t
	return c
}
