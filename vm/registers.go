package vm

// Registers is the 32-slot general-purpose register file (§3, §4.E). Slot 0
// (x0) is hardwired to zero: Set is a no-op for index 0 and Get always
// returns 0 regardless of what was last written, so a stray write can never
// leave x0 non-zero.
type Registers struct {
	x  [32]uint32
	pc uint32
}

// Get returns the value in register i (0..31). Reading x0 always returns 0.
func (r *Registers) Get(i uint8) uint32 {
	if i == 0 {
		return 0
	}
	return r.x[i&0x1f]
}

// Set writes value into register i. Writing x0 is a silent no-op.
func (r *Registers) Set(i uint8, value uint32) {
	if i == 0 {
		return
	}
	r.x[i&0x1f] = value
}

// Snapshot returns a copy of all 32 general-purpose registers, for trace
// emission; the caller cannot observe or mutate the live array through it.
func (r *Registers) Snapshot() [32]uint32 { return r.x }

// PC returns the current program counter.
func (r *Registers) PC() uint32 { return r.pc }

// SetPC overwrites the program counter.
func (r *Registers) SetPC(pc uint32) { r.pc = pc }

// ZeroGuard re-asserts x0 == 0. The dispatch loop calls this once per
// instruction as a safety net (§4.F) in case a handler wrote to index 0
// through an aliasing path; with Set already guarding index 0 this is
// normally a no-op, but it costs nothing and the invariant is cheap to
// reassert unconditionally.
func (r *Registers) ZeroGuard() { r.x[0] = 0 }
