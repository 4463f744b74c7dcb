package vm

// Reservation is the single load-reserved/store-conditional slot backing
// the A extension (§3, §4.G). There is exactly one per interpreter; it
// tracks the address LR.W last reserved and whether that reservation is
// still live.
type Reservation struct {
	addr  uint32
	valid bool
}

// Set records a new reservation at addr, replacing any previous one.
func (r *Reservation) Set(addr uint32) {
	r.addr, r.valid = addr, true
}

// Clear drops any live reservation unconditionally (ecall return, interrupt
// entry, mret, SC.W, and each entry into Run).
func (r *Reservation) Clear() {
	r.valid = false
}

// ClearIfOverlaps drops the reservation if it is live and [addr, addr+width)
// overlaps the reserved word. Every store (including AMO* and a successful
// or failed SC.W, per the stricter behavior this module adopts over the
// reference implementation — see DESIGN.md) must call this.
func (r *Reservation) ClearIfOverlaps(addr uint32, width uint8) {
	if !r.valid {
		return
	}
	if addr < r.addr+4 && r.addr < addr+uint32(width) {
		r.valid = false
	}
}

// Check reports whether addr currently holds a live reservation (used by
// SC.W to decide success/failure before it unconditionally clears).
func (r *Reservation) Check(addr uint32) bool {
	return r.valid && r.addr == addr
}
