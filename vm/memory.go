package vm

// RAMBase is the fixed load address of the read/write RAM region (§3).
// The code region always starts at address 0 and is read-only.
const RAMBase uint32 = 0x8000_0000

// Memory is the host-provided backing store the interpreter executes
// against (§4.D). Implementations hold only borrowed slice references; the
// interpreter never caches loaded bytes across calls.
type Memory interface {
	// Load reads width (1, 2 or 4) bytes at addr, little-endian, returning
	// an *AccessFault if the span is not wholly inside one region.
	Load(addr uint32, width uint8) ([]byte, error)
	// Store writes width bytes (len(data) == width) at addr, little-endian.
	// Returns an *AccessFault for an out-of-region target, a code-region
	// target (always read-only), or a width/data-length mismatch.
	Store(addr uint32, width uint8, data []byte) error
}

// Sizer is implemented by a Memory backing that can report the extent of
// its RAM region, so NewInterpreter can seed the stack pointer at the top
// of RAM (§6) without needing to know the concrete Memory type.
type Sizer interface {
	RAMSize() uint32
}

// SliceMemory is the reference Memory implementation: a read-only code
// slice based at 0, and a read/write RAM slice based at RAMBase.
type SliceMemory struct {
	Code []byte
	RAM  []byte
}

// RAMSize implements Sizer.
func (m *SliceMemory) RAMSize() uint32 { return uint32(len(m.RAM)) }

// NewSliceMemory wraps code (read-only, based at 0) and ram (read/write,
// based at RAMBase).
func NewSliceMemory(code, ram []byte) *SliceMemory {
	return &SliceMemory{Code: code, RAM: ram}
}

func (m *SliceMemory) Load(addr uint32, width uint8) ([]byte, error) {
	if off, ok := ramOffset(addr, width, len(m.RAM)); ok {
		return m.RAM[off : off+uint32(width) : off+uint32(width)], nil
	}
	if addr < uint32(len(m.Code)) && addr+uint32(width) <= uint32(len(m.Code)) && addr+uint32(width) >= addr {
		return m.Code[addr : addr+uint32(width)], nil
	}
	return nil, &AccessFault{Addr: addr, Width: width}
}

func (m *SliceMemory) Store(addr uint32, width uint8, data []byte) error {
	if uint8(len(data)) != width {
		return &AccessFault{Addr: addr, Width: width}
	}
	if off, ok := ramOffset(addr, width, len(m.RAM)); ok {
		copy(m.RAM[off:off+uint32(width)], data)
		return nil
	}
	// Any address not wholly inside RAM is a fault, including every
	// address inside the read-only code region: the wrapping subtraction
	// in ramOffset already rejects those, so there is nothing further to
	// special-case here.
	return &AccessFault{Addr: addr, Width: width}
}

// ramOffset reports whether [addr, addr+width) lies wholly inside a RAM
// region of the given length, and if so its offset from RAMBase. It relies
// on unsigned wraparound: for addr < RAMBase the subtraction wraps to a
// huge value that always fails the length bound, so code-region addresses
// are rejected without a separate comparison.
func ramOffset(addr uint32, width uint8, ramLen int) (uint32, bool) {
	off := addr - RAMBase
	end := off + uint32(width)
	if end < off { // overflow
		return 0, false
	}
	if end > uint32(ramLen) {
		return 0, false
	}
	return off, true
}
