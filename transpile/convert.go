package transpile

import (
	"encoding/binary"

	"github.com/colorfulnotion/embive/riscv"
)

// pcRelative reports whether op's immediate is a native-PC-relative branch
// target that the remap pass must rewrite; every other opcode's immediate
// (OP-IMM constants, load/store offsets, JALR's register-relative offset)
// is left untouched.
func pcRelative(op riscv.Opcode) bool {
	switch op {
	case riscv.OpBranch, riscv.OpJal, riscv.OpCJal, riscv.OpCJ, riscv.OpCBeqz, riscv.OpCBnez:
		return true
	default:
		return false
	}
}

// convertCode transpiles a raw native RISC-V instruction stream (as found
// in one EXECINSTR section) into the uniform-width Embive bytecode this
// module's vm package executes: one 4-byte word per native instruction,
// with every PC-relative branch/jump immediate rewritten from a native
// byte delta into a bytecode-word-aligned delta (§4.C, the "single subtle
// step" of the pipeline).
//
// Two passes are required because a forward branch's target offset is not
// known in bytecode-address terms until every instruction between here and
// there has been counted (a 2-byte compressed native instruction still
// becomes a 4-byte bytecode word, so native and bytecode offsets diverge).
func convertCode(native []byte) ([]byte, error) {
	// Pass 1: map every native instruction's starting byte offset to its
	// bytecode word offset.
	remap := make(map[int]uint32)
	var bytecodeOffset uint32
	offsets := make([]int, 0, len(native)/2)
	sizes := make([]riscv.Size, 0, len(native)/2)
	for i := 0; i+2 <= len(native); {
		size := riscv.Size4
		if riscv.IsCompressed(binary.LittleEndian.Uint16(native[i:])) {
			size = riscv.Size2
		}
		if i+int(size) > len(native) && size == riscv.Size4 {
			// Trailing half-word whose low bits announce a 32-bit
			// instruction but with no room left for the full word;
			// the reference pads this case, but a well-formed EXECINSTR
			// section from a real compiler never ends mid-instruction.
			size = riscv.Size2
		}
		remap[i] = bytecodeOffset
		offsets = append(offsets, i)
		sizes = append(sizes, size)
		bytecodeOffset += 4
		i += int(size)
	}

	// Pass 2: decode, rewrite PC-relative immediates, re-encode.
	out := make([]byte, 0, len(offsets)*4)
	for idx, off := range offsets {
		size := sizes[idx]
		var word uint32
		if size == riscv.Size4 {
			word = binary.LittleEndian.Uint32(native[off:])
		} else {
			word = uint32(binary.LittleEndian.Uint16(native[off:]))
		}

		inst, _, err := riscv.Decode(word)
		if err != nil {
			return nil, &NativeDecodeError{Offset: off, Err: err}
		}

		if pcRelative(inst.Op) {
			targetNative := off + int(inst.Imm)
			targetBytecode, ok := remap[targetNative]
			if !ok {
				return nil, &NativeDecodeError{Offset: off, Err: &riscv.IllegalInstructionError{Word: word, Size: size}}
			}
			currentBytecode := remap[off]
			inst.Imm = int32(targetBytecode) - int32(currentBytecode)
		}

		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], inst.EncodeBytecode())
		out = append(out, b[:]...)
	}
	return out, nil
}
