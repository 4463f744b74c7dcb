package transpile

import (
	"encoding/binary"
	"testing"

	"github.com/colorfulnotion/embive/riscv"
	"github.com/stretchr/testify/require"
)

// encodeNativeJAL builds a native RV32 JAL word (rd, and imm a signed
// multiple-of-2 byte offset) using the standard scrambled J-type bit layout,
// so tests can exercise convertCode against a real PC-relative encoding
// rather than one already expressed in Embive's unscrambled form.
func encodeNativeJAL(rd uint8, imm int32) uint32 {
	u := uint32(imm)
	var word uint32
	word |= (u & (1 << 20)) << (31 - 20)
	word |= (u & (0b11_1111_1111 << 1)) << (21 - 1)
	word |= (u & (1 << 11)) << (20 - 11)
	word |= u & (0b1111_1111 << 12)
	word |= uint32(rd) << 7
	word |= riscv.RVOpJal
	return word
}

func TestConvertCodeRemapsForwardJAL(t *testing.T) {
	// Layout (native byte offsets):
	//   0: c.nop            (2 bytes)
	//   2: jal x0, +6       (4 bytes) -> targets native offset 8
	//   6: c.nop            (2 bytes)
	//   8: addi x0, x0, 0   (4 bytes, jump target)
	native := make([]byte, 0, 12)
	native = append(native, 0x01, 0x00) // c.nop
	var jalBuf [4]byte
	binary.LittleEndian.PutUint32(jalBuf[:], encodeNativeJAL(0, 6))
	native = append(native, jalBuf[:]...)
	native = append(native, 0x01, 0x00)             // c.nop
	native = append(native, 0x13, 0x00, 0x00, 0x00) // addi x0, x0, 0

	out, err := convertCode(native)
	require.NoError(t, err)
	// 4 native instructions -> 4 bytecode words.
	require.Len(t, out, 16)

	jalWord := binary.LittleEndian.Uint32(out[4:8])
	require.Equal(t, riscv.OpJal, riscv.Opcode(jalWord&0b1_1111))

	decoded := riscv.TypeJFromEmbive(jalWord)
	// jal sits at bytecode offset 4, its target (the trailing addi) at
	// bytecode offset 12: a delta of +8, not the native +6.
	require.Equal(t, int32(8), decoded.Imm)
}

func TestConvertCodeLeavesNonPCRelativeImmediatesAlone(t *testing.T) {
	// addi x1, x0, 5
	native := []byte{0x93, 0x00, 0x50, 0x00}
	out, err := convertCode(native)
	require.NoError(t, err)
	require.Len(t, out, 4)

	word := binary.LittleEndian.Uint32(out)
	decoded := riscv.TypeIFromEmbive(word)
	require.Equal(t, int32(5), decoded.Imm)
}

func TestConvertCodeRejectsIllegalInstruction(t *testing.T) {
	native := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	_, err := convertCode(native)
	require.Error(t, err)

	var decodeErr *NativeDecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, 0, decodeErr.Offset)
}
