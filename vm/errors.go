package vm

import "fmt"

// Error is the runtime (post-transpile) fault taxonomy (§7): every way the
// dispatch loop or host bridge can fail, modeled as concrete types behind a
// shared interface rather than a single sentinel, mirroring the reference
// engine's error enum. None of these are ever raised by panic; run always
// returns one as a plain error.
type Error interface {
	error
	vmError()
}

// InvalidInstruction reports a bytecode word at addr that no dispatch
// handler recognizes; the interpreter never reaches this for bytecode it
// produced itself, but a corrupted or foreign image can still trigger it.
type InvalidInstruction struct{ Addr uint32 }

func (e *InvalidInstruction) Error() string {
	return fmt.Sprintf("invalid instruction at 0x%08x", e.Addr)
}
func (*InvalidInstruction) vmError() {}

// AccessFault reports a load/store whose [addr, addr+width) span is not
// wholly contained in a single addressable region, or that targets the
// read-only code region with a store.
type AccessFault struct {
	Addr  uint32
	Width uint8
}

func (e *AccessFault) Error() string {
	return fmt.Sprintf("access fault at 0x%08x (width %d)", e.Addr, e.Width)
}
func (*AccessFault) vmError() {}

// MisalignedFetch reports a program counter that is not 4-byte aligned
// before an instruction fetch.
type MisalignedFetch struct{ Addr uint32 }

func (e *MisalignedFetch) Error() string {
	return fmt.Sprintf("misaligned fetch at 0x%08x", e.Addr)
}
func (*MisalignedFetch) vmError() {}

// InvalidCSR reports an access to an unimplemented control/status register
// while Config.StrictCSR is enabled (§9 open question, resolved by making
// this opt-in rather than the default).
type InvalidCSR struct{ Number uint16 }

func (e *InvalidCSR) Error() string {
	return fmt.Sprintf("invalid CSR number 0x%03x", e.Number)
}
func (*InvalidCSR) vmError() {}

// HostError wraps an error value returned by a syscall handler itself (as
// opposed to a guest-visible error code carried in a1): the handler's own
// operation failed in a way the guest cannot be expected to recover from.
type HostError struct{ Err error }

func (e *HostError) Error() string { return fmt.Sprintf("host error: %v", e.Err) }
func (e *HostError) Unwrap() error { return e.Err }
func (*HostError) vmError()        {}

// IllegalState reports a host API misuse: calling syscall() outside the
// Called state, run() or step() outside the Running state, or an ecall with
// no syscall handler configured (wrapped in HostError). It never originates
// from guest behavior.
type IllegalState struct{ Reason string }

func (e *IllegalState) Error() string { return fmt.Sprintf("illegal state: %s", e.Reason) }
func (*IllegalState) vmError()        {}
