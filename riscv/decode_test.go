package riscv

import "testing"

func TestDecodeUncompressedAddi(t *testing.T) {
	// addi x3, x2, -1000
	inst, size, err := Decode(0b11000001100000010000000110010011)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != Size4 {
		t.Fatalf("expected size 4, got %d", size)
	}
	if inst.Op != OpOpImm || inst.Rd != 3 || inst.Rs1 != 2 || inst.Imm != -1000 || inst.Funct3 != AddiFunc {
		t.Fatalf("unexpected decode: %+v", inst)
	}
}

func TestDecodeCompressedLi(t *testing.T) {
	// c.li x10, -21 (low 16 bits only)
	inst, size, err := Decode(0b0101010100101101)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != Size2 {
		t.Fatalf("expected size 2, got %d", size)
	}
	if inst.Op != OpCLi || inst.Rd != 10 || inst.Imm != -21 {
		t.Fatalf("unexpected decode: %+v", inst)
	}
}

func TestDecodeIllegalUncompressed(t *testing.T) {
	// opcode bits 0b1111111 isn't any RV32IMAC opcode.
	_, _, err := Decode(0xFFFFFFFF)
	if err == nil {
		t.Fatalf("expected an illegal instruction error")
	}
}

// FuzzDecodeNoPanic exercises testable property 2 (decode/encode round-trip
// well-formedness): Decode must never panic on arbitrary 32-bit input, and
// any instruction it accepts must re-encode to a bytecode word whose low 5
// bits are the opcode it was tagged with.
func FuzzDecodeNoPanic(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(0xFFFFFFFF))
	f.Add(uint32(0b11000001100000010000000110010011))
	f.Fuzz(func(t *testing.T, word uint32) {
		inst, _, err := Decode(word)
		if err != nil {
			return
		}
		bc := inst.EncodeBytecode()
		if Opcode(bc&0b1_1111) != inst.Op {
			t.Fatalf("opcode not preserved in bytecode: word=0x%x inst=%+v bc=0x%x", word, inst, bc)
		}
	})
}
