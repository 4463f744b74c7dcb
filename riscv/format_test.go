package riscv

import "testing"

// Fixtures transliterated from the reference transpiler's format unit tests.

func roundTrip[T comparable](t *testing.T, encode func(T) uint32, decode func(uint32) T, want T) {
	t.Helper()
	got := decode(encode(want))
	if got != want {
		t.Fatalf("round trip mismatch: want %+v got %+v", want, got)
	}
}

func TestTypeR(t *testing.T) {
	inst := uint32(0b01000000001100100101000010110011) // sra x1, x4, x3
	parsed := TypeRFromRISCV(inst)
	if parsed.Rd != 1 || parsed.Rs1 != 4 || parsed.Rs2 != 3 || parsed.Funct10 != (32<<3)|5 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	roundTrip(t, TypeR.ToEmbive, TypeRFromEmbive, parsed)
}

func TestTypeINegative(t *testing.T) {
	inst := uint32(0b11000001100000010000000110010011) // addi x3, x2, -1000
	parsed := TypeIFromRISCV(inst)
	if parsed.RdRs2 != 3 || parsed.Funct3 != 0 || parsed.Rs1 != 2 || parsed.Imm != -1000 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	roundTrip(t, TypeI.ToEmbive, TypeIFromEmbive, parsed)
}

func TestTypeIPositive(t *testing.T) {
	inst := uint32(0b01111111101000000100000010010011) // xori x1, x0, 2042
	parsed := TypeIFromRISCV(inst)
	if parsed.RdRs2 != 1 || parsed.Funct3 != 4 || parsed.Rs1 != 0 || parsed.Imm != 2042 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	roundTrip(t, TypeI.ToEmbive, TypeIFromEmbive, parsed)
}

func TestTypeSNegative(t *testing.T) {
	inst := uint32(0b11100000000100010001101100100011) // sh x1, -490(x2)
	parsed := TypeSFromRISCV(inst)
	if parsed.Imm != -490 || parsed.Funct3 != 1 || parsed.Rs1 != 2 || parsed.Rs2 != 1 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
}

func TestTypeBNegative(t *testing.T) {
	inst := uint32(0b10101100100000101001010011100011) // bne x5, x8, -1336
	parsed := TypeBFromRISCV(inst)
	if parsed.Imm != -1336 || parsed.Funct3 != 1 || parsed.Rs1 != 5 || parsed.Rs2 != 8 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	roundTrip(t, TypeB.ToEmbive, TypeBFromEmbive, parsed)
}

func TestTypeUNegative(t *testing.T) {
	inst := uint32(0b11110000001000001111000110110111) // lui x3, -65009
	parsed := TypeUFromRISCV(inst)
	if parsed.Imm != -65009<<12 || parsed.Rd != 3 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	roundTrip(t, TypeU.ToEmbive, TypeUFromEmbive, parsed)
}

func TestTypeJNegative(t *testing.T) {
	inst := uint32(0b10101100001100011011000111101111) // jal x3, -935230
	parsed := TypeJFromRISCV(inst)
	if parsed.Imm != -935230 || parsed.Rd != 3 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	roundTrip(t, TypeJ.ToEmbive, TypeJFromEmbive, parsed)
}

func TestTypeCIW(t *testing.T) {
	inst := uint32(0b0001011011001000) // c.addi4spn x10, 868
	parsed := TypeCIWFromRISCV(inst)
	if parsed.Rd != 10 || parsed.Imm != 868 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	roundTrip(t, TypeCIW.ToEmbive, TypeCIWFromEmbive, parsed)
}

func TestTypeCI1Negative(t *testing.T) {
	inst := uint32(0b0101010100101101) // c.li x10, -21
	parsed := TypeCI1FromRISCV(inst)
	if parsed.RdRs1 != 10 || parsed.Imm != -21 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	roundTrip(t, TypeCI1.ToEmbive, TypeCI1FromEmbive, parsed)
}

func TestTypeCI2Negative(t *testing.T) {
	inst := uint32(0b0111000100100101) // c.addi16sp -416
	parsed := TypeCI2FromRISCV(inst)
	if parsed.RdRs1 != 2 || parsed.Imm != -416 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	roundTrip(t, TypeCI2.ToEmbive, TypeCI2FromEmbive, parsed)
}

func TestTypeCI3Negative(t *testing.T) {
	inst := uint32(0b0111010100101101) // c.lui x10, -21
	parsed := TypeCI3FromRISCV(inst)
	if parsed.RdRs1 != 10 || parsed.Imm != -21<<12 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	roundTrip(t, TypeCI3.ToEmbive, TypeCI3FromEmbive, parsed)
}

func TestTypeCB4Negative(t *testing.T) {
	inst := uint32(0b1111100100110101) // c.bnez x10, -140
	parsed := TypeCB4FromRISCV(inst)
	if parsed.Rs1 != 10 || parsed.Imm != -140 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	roundTrip(t, TypeCB4.ToEmbive, TypeCB4FromEmbive, parsed)
}

func TestTypeCJ(t *testing.T) {
	inst := uint32(0b0011110010101001) // c.jal -1446
	parsed := TypeCJFromRISCV(inst)
	if parsed.Imm != -1446 {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
	roundTrip(t, TypeCJ.ToEmbive, TypeCJFromEmbive, parsed)
}
