// Package riscv implements the native RISC-V instruction formats (§3, §4.A,
// §4.B) and the conversion between raw RISC-V words and the dense Embive
// bytecode word used by the rest of this module. The bit layouts below are
// adopted verbatim from the reference transpiler's format tables, per the
// dense-opcode-assignment decision recorded in DESIGN.md.
package riscv

// CompressedRegisterOffset is added to the 3-bit register fields used by the
// compressed (16-bit) instruction formats, which can only name x8..x15.
const CompressedRegisterOffset = 8

// TypeR is the R-type format: two source registers, one destination, and a
// combined function selector (funct7<<3 | funct3) called funct10 here
// because it is carried as a single 10-bit field in the Embive encoding.
type TypeR struct {
	Rd      uint8
	Rs1     uint8
	Rs2     uint8
	Funct10 uint16
}

func TypeRFromRISCV(inst uint32) TypeR {
	return TypeR{
		Rd:      uint8((inst >> 7) & 0b1_1111),
		Rs1:     uint8((inst >> 15) & 0b1_1111),
		Rs2:     uint8((inst >> 20) & 0b1_1111),
		Funct10: uint16(((inst >> 22) & (0b111_1111 << 3)) | ((inst >> 12) & 0b111)),
	}
}

func TypeRFromEmbive(inst uint32) TypeR {
	return TypeR{
		Rd:      uint8((inst >> 17) & 0b1_1111),
		Rs1:     uint8((inst >> 22) & 0b1_1111),
		Rs2:     uint8((inst >> 27) & 0b1_1111),
		Funct10: uint16((inst >> 7) & 0b11_1111_1111),
	}
}

func (t TypeR) ToEmbive() uint32 {
	return (uint32(t.Rd) << 17) | (uint32(t.Rs1) << 22) | (uint32(t.Rs2) << 27) | (uint32(t.Funct10) << 7)
}

// TypeI is the I-type format: one source register, one destination/source
// register, a 12-bit sign-extended immediate, and a 3-bit function selector.
type TypeI struct {
	RdRs2  uint8
	Rs1    uint8
	Imm    int32
	Funct3 uint8
}

func TypeIFromRISCV(inst uint32) TypeI {
	return TypeI{
		RdRs2:  uint8((inst >> 7) & 0b1_1111),
		Funct3: uint8((inst >> 12) & 0b111),
		Rs1:    uint8((inst >> 15) & 0b1_1111),
		Imm:    int32(inst&(0b1111_1111_1111<<20)) >> 20,
	}
}

func TypeIFromEmbive(inst uint32) TypeI {
	return TypeI{
		RdRs2:  uint8((inst >> 10) & 0b1_1111),
		Funct3: uint8((inst >> 7) & 0b111),
		Rs1:    uint8((inst >> 15) & 0b1_1111),
		Imm:    int32(inst&(0b1111_1111_1111<<20)) >> 20,
	}
}

func (t TypeI) ToEmbive() uint32 {
	return (uint32(t.RdRs2) << 10) | (uint32(t.Funct3) << 7) | (uint32(t.Rs1) << 15) |
		((uint32(t.Imm) & 0b1111_1111_1111) << 20)
}

// TypeS is the RISC-V-only S-type format (store instructions); it is always
// converted to TypeI for the Embive side, since Embive has no separate store
// format.
type TypeS struct {
	Rs1    uint8
	Rs2    uint8
	Imm    int32
	Funct3 uint8
}

func TypeSFromRISCV(inst uint32) TypeS {
	return TypeS{
		Imm:    int32((inst&(0b111_1111<<25))|((inst&(0b1_1111<<7))<<13)) >> 20,
		Funct3: uint8((inst >> 12) & 0b111),
		Rs1:    uint8((inst >> 15) & 0b1_1111),
		Rs2:    uint8((inst >> 20) & 0b1_1111),
	}
}

// TypeB is the branch format.
type TypeB struct {
	Rs1    uint8
	Rs2    uint8
	Imm    int32
	Funct3 uint8
}

func TypeBFromRISCV(inst uint32) TypeB {
	v := (inst & (0b1 << 31)) | ((inst & (0b1 << 7)) << 23) | ((inst & (0b11_1111 << 25)) >> 1) | ((inst & (0b1111 << 8)) << 12)
	return TypeB{
		Imm:    int32(v) >> 19,
		Funct3: uint8((inst >> 12) & 0b111),
		Rs1:    uint8((inst >> 15) & 0b1_1111),
		Rs2:    uint8((inst >> 20) & 0b1_1111),
	}
}

func TypeBFromEmbive(inst uint32) TypeB {
	return TypeB{
		Imm:    int32(inst&(0b1111_1111_1111<<20)) >> 19,
		Funct3: uint8((inst >> 7) & 0b111),
		Rs1:    uint8((inst >> 10) & 0b1_1111),
		Rs2:    uint8((inst >> 15) & 0b1_1111),
	}
}

func (t TypeB) ToEmbive() uint32 {
	return (uint32(t.Imm) << 19) | (uint32(t.Funct3) << 7) | (uint32(t.Rs1) << 10) | (uint32(t.Rs2) << 15)
}

// TypeU is the upper-immediate format (LUI/AUIPC). It is bit-layout
// identical between RISC-V and Embive, so FromEmbive just calls FromRISCV.
type TypeU struct {
	Rd  uint8
	Imm int32
}

func TypeUFromRISCV(inst uint32) TypeU {
	return TypeU{
		Rd:  uint8((inst >> 7) & 0b1_1111),
		Imm: int32(inst & (0b1111_1111_1111_1111_1111 << 12)),
	}
}

func TypeUFromEmbive(inst uint32) TypeU { return TypeUFromRISCV(inst) }

func (t TypeU) ToEmbive() uint32 {
	return (uint32(t.Rd) << 7) | (uint32(t.Imm) & (0b1111_1111_1111_1111_1111 << 12))
}

// TypeJ is the jump format (JAL).
type TypeJ struct {
	Rd  uint8
	Imm int32
}

func TypeJFromRISCV(inst uint32) TypeJ {
	v := (inst & (0b1 << 31)) | ((inst & (0b1111_1111 << 12)) << 11) | ((inst & (0b1 << 20)) << 2) | ((inst & (0b11_1111_1111 << 21)) >> 9)
	return TypeJ{
		Rd:  uint8((inst >> 7) & 0b1_1111),
		Imm: int32(v) >> 11,
	}
}

func TypeJFromEmbive(inst uint32) TypeJ {
	return TypeJ{
		Rd:  uint8((inst >> 7) & 0b1_1111),
		Imm: int32(inst&(0b1111_1111_1111_1111_1111<<12)) >> 11,
	}
}

func (t TypeJ) ToEmbive() uint32 {
	return (uint32(t.Rd) << 7) | (uint32(t.Imm) << 11)
}

// TypeCIW is the compressed-wide-immediate format (c.addi4spn).
type TypeCIW struct {
	Rd  uint8
	Imm int32
}

func TypeCIWFromRISCV(inst uint32) TypeCIW {
	return TypeCIW{
		Rd: uint8((inst>>2)&0b111) + CompressedRegisterOffset,
		Imm: int32(((inst & (0b1 << 6)) >> 4) | ((inst & (0b1 << 5)) >> 2) |
			((inst & (0b11 << 11)) >> 7) | ((inst & (0b1111 << 7)) >> 1)),
	}
}

func TypeCIWFromEmbive(inst uint32) TypeCIW {
	return TypeCIW{
		Rd:  uint8((inst>>5)&0b111) + CompressedRegisterOffset,
		Imm: int32((inst & (0b1111_1111 << 8)) >> 6),
	}
}

func (t TypeCIW) ToEmbive() uint32 {
	return (uint32(t.Rd-CompressedRegisterOffset) << 5) | ((uint32(t.Imm) << 6) & (0b1111_1111 << 8))
}

// TypeCL is the compressed load format (c.lw).
type TypeCL struct {
	RdRs2 uint8
	Rs1   uint8
	Imm   int32
}

func TypeCLFromRISCV(inst uint32) TypeCL {
	return TypeCL{
		RdRs2: uint8((inst>>2)&0b111) + CompressedRegisterOffset,
		Rs1:   uint8((inst>>7)&0b111) + CompressedRegisterOffset,
		Imm: int32(((inst & (0b1 << 5)) << 1) | ((inst & (0b111 << 10)) >> 7) |
			((inst & (0b1 << 6)) >> 4)),
	}
}

func TypeCLFromEmbive(inst uint32) TypeCL {
	return TypeCL{
		RdRs2: uint8((inst>>5)&0b111) + CompressedRegisterOffset,
		Rs1:   uint8((inst>>8)&0b111) + CompressedRegisterOffset,
		Imm:   int32((inst & (0b1_1111 << 11)) >> 9),
	}
}

func (t TypeCL) ToEmbive() uint32 {
	return (uint32(t.RdRs2-CompressedRegisterOffset) << 5) | (uint32(t.Rs1-CompressedRegisterOffset) << 8) | (uint32(t.Imm) << 9)
}

// TypeCI1 carries imm[5:0] (c.addi, c.li).
type TypeCI1 struct {
	RdRs1 uint8
	Imm   int32
}

func TypeCI1FromRISCV(inst uint32) TypeCI1 {
	v := uint8((inst & (0b1_1111 << 2)) | ((inst & (0b1 << 12)) >> 5))
	return TypeCI1{
		RdRs1: uint8((inst >> 7) & 0b1_1111),
		Imm:   int32(int8(v) >> 2),
	}
}

func TypeCI1FromEmbive(inst uint32) TypeCI1 {
	v := uint16(inst & (0b11_1111 << 10))
	return TypeCI1{
		RdRs1: uint8((inst >> 5) & 0b1_1111),
		Imm:   int32(int16(v) >> 10),
	}
}

func (t TypeCI1) ToEmbive() uint32 {
	return (uint32(t.RdRs1) << 5) | ((uint32(t.Imm) << 10) & (0b11_1111 << 10))
}

// TypeCI2 carries imm[9:4] (c.addi16sp).
type TypeCI2 struct {
	RdRs1 uint8
	Imm   int32
}

func TypeCI2FromRISCV(inst uint32) TypeCI2 {
	v := uint8(((inst & (0b1 << 12)) >> 5) | ((inst & (0b11 << 3)) << 2) |
		((inst & (0b1 << 5)) >> 1) | ((inst & (0b1 << 2)) << 1) | ((inst & (0b1 << 6)) >> 4))
	return TypeCI2{
		RdRs1: uint8((inst >> 7) & 0b1_1111),
		Imm:   int32(int8(v)) << 2,
	}
}

func TypeCI2FromEmbive(inst uint32) TypeCI2 {
	v := uint16(inst & (0b11_1111 << 10))
	return TypeCI2{
		RdRs1: uint8((inst >> 5) & 0b1_1111),
		Imm:   int32(int16(v) >> 6),
	}
}

func (t TypeCI2) ToEmbive() uint32 {
	return (uint32(t.RdRs1) << 5) | ((uint32(t.Imm) << 6) & (0b11_1111 << 10))
}

// TypeCI3 carries imm[17:12] (c.lui).
type TypeCI3 struct {
	RdRs1 uint8
	Imm   int32
}

func TypeCI3FromRISCV(inst uint32) TypeCI3 {
	v := uint8((inst & (0b1_1111 << 2)) | ((inst & (0b1 << 12)) >> 5))
	return TypeCI3{
		RdRs1: uint8((inst >> 7) & 0b1_1111),
		Imm:   int32(int8(v)) << 10,
	}
}

func TypeCI3FromEmbive(inst uint32) TypeCI3 {
	v := uint16(inst & (0b11_1111 << 10))
	return TypeCI3{
		RdRs1: uint8((inst >> 5) & 0b1_1111),
		Imm:   int32(int16(v)) << 2,
	}
}

func (t TypeCI3) ToEmbive() uint32 {
	return (uint32(t.RdRs1) << 5) | ((uint32(t.Imm) >> 2) & (0b11_1111 << 10))
}

// TypeCI4 carries uimm[5:0] (c.slli).
type TypeCI4 struct {
	RdRs1 uint8
	Imm   int32
}

func TypeCI4FromRISCV(inst uint32) TypeCI4 {
	return TypeCI4{
		RdRs1: uint8((inst >> 7) & 0b1_1111),
		Imm:   int32(((inst & (0b1_1111 << 2)) | ((inst & (0b1 << 12)) >> 5)) >> 2),
	}
}

func TypeCI4FromEmbive(inst uint32) TypeCI4 {
	return TypeCI4{
		RdRs1: uint8((inst >> 5) & 0b1_1111),
		Imm:   int32((inst & (0b11_1111 << 10)) >> 10),
	}
}

func (t TypeCI4) ToEmbive() uint32 {
	return (uint32(t.RdRs1) << 5) | (uint32(t.Imm) << 10)
}

// TypeCI5 carries uimm[7:2] (c.lwsp).
type TypeCI5 struct {
	RdRs1 uint8
	Imm   int32
}

func TypeCI5FromRISCV(inst uint32) TypeCI5 {
	v := ((inst & (0b11 << 2)) << 11) | (inst & (0b1 << 12)) | ((inst & (0b111 << 4)) << 5)
	return TypeCI5{
		RdRs1: uint8((inst >> 7) & 0b1_1111),
		Imm:   int32(v) >> 7,
	}
}

func TypeCI5FromEmbive(inst uint32) TypeCI5 {
	return TypeCI5{
		RdRs1: uint8((inst >> 5) & 0b1_1111),
		Imm:   int32((inst & (0b11_1111 << 10)) >> 8),
	}
}

func (t TypeCI5) ToEmbive() uint32 {
	return (uint32(t.RdRs1) << 5) | (uint32(t.Imm) << 8)
}

// TypeCB1 carries uimm[5:0] (c.srli/c.srai shift amount).
type TypeCB1 struct {
	RdRs1 uint8
	Imm   int32
}

func TypeCB1FromRISCV(inst uint32) TypeCB1 {
	return TypeCB1{
		RdRs1: uint8((inst>>7)&0b111) + CompressedRegisterOffset,
		Imm:   int32(((inst & (0b1_1111 << 2)) | ((inst & (0b1 << 12)) >> 5)) >> 2),
	}
}

func TypeCB1FromEmbive(inst uint32) TypeCB1 {
	return TypeCB1{
		RdRs1: uint8((inst >> 5) & 0b1_1111),
		Imm:   int32((inst & (0b11_1111 << 10)) >> 10),
	}
}

func (t TypeCB1) ToEmbive() uint32 {
	return (uint32(t.RdRs1) << 5) | (uint32(t.Imm) << 10)
}

// TypeCB2 carries imm[5:0] (c.andi).
type TypeCB2 struct {
	RdRs1 uint8
	Imm   int32
}

func TypeCB2FromRISCV(inst uint32) TypeCB2 {
	v := uint8((inst & (0b1_1111 << 2)) | ((inst & (0b1 << 12)) >> 5))
	return TypeCB2{
		RdRs1: uint8((inst>>7)&0b111) + CompressedRegisterOffset,
		Imm:   int32(int8(v) >> 2),
	}
}

func TypeCB2FromEmbive(inst uint32) TypeCB2 {
	v := uint16(inst & (0b11_1111 << 10))
	return TypeCB2{
		RdRs1: uint8((inst >> 5) & 0b1_1111),
		Imm:   int32(int16(v) >> 10),
	}
}

func (t TypeCB2) ToEmbive() uint32 {
	return (uint32(t.RdRs1) << 5) | ((uint32(t.Imm) << 10) & (0b11_1111 << 10))
}

// TypeCB3 carries rs2 only (c.sub/c.xor/c.or/c.and).
type TypeCB3 struct {
	RdRs1 uint8
	Rs2   uint8
}

func TypeCB3FromRISCV(inst uint32) TypeCB3 {
	return TypeCB3{
		RdRs1: uint8((inst>>7)&0b111) + CompressedRegisterOffset,
		Rs2:   uint8((inst>>2)&0b111) + CompressedRegisterOffset,
	}
}

func TypeCB3FromEmbive(inst uint32) TypeCB3 {
	return TypeCB3{
		RdRs1: uint8((inst >> 5) & 0b1_1111),
		Rs2:   uint8((inst >> 10) & 0b1_1111),
	}
}

func (t TypeCB3) ToEmbive() uint32 {
	return (uint32(t.RdRs1) << 5) | (uint32(t.Rs2) << 10)
}

// TypeCB4 carries imm[8:1] (c.beqz/c.bnez).
type TypeCB4 struct {
	Rs1 uint8
	Imm int32
}

func TypeCB4FromRISCV(inst uint32) TypeCB4 {
	v := uint8(((inst & (0b1 << 12)) >> 5) | (inst & (0b11 << 5)) | ((inst & (0b1 << 2)) << 2) |
		((inst & (0b11 << 10)) >> 8) | ((inst & (0b11 << 3)) >> 3))
	return TypeCB4{
		Rs1: uint8((inst>>7)&0b111) + CompressedRegisterOffset,
		Imm: int32(int8(v)) << 1,
	}
}

func TypeCB4FromEmbive(inst uint32) TypeCB4 {
	v := uint16(inst & (0b1111_1111 << 8))
	return TypeCB4{
		Rs1: uint8((inst>>5)&0b111) + CompressedRegisterOffset,
		Imm: int32(int16(v) >> 7),
	}
}

func (t TypeCB4) ToEmbive() uint32 {
	return (uint32(t.Rs1-CompressedRegisterOffset) << 5) | ((uint32(t.Imm) << 7) & (0b1111_1111 << 8))
}

// TypeCR is the compressed register format (c.jr/c.mv/c.jalr/c.add).
type TypeCR struct {
	RdRs1 uint8
	Rs2   uint8
}

func TypeCRFromRISCV(inst uint32) TypeCR {
	return TypeCR{
		RdRs1: uint8((inst >> 7) & 0b1_1111),
		Rs2:   uint8((inst >> 2) & 0b1_1111),
	}
}

func TypeCRFromEmbive(inst uint32) TypeCR {
	return TypeCR{
		RdRs1: uint8((inst >> 5) & 0b1_1111),
		Rs2:   uint8((inst >> 10) & 0b1_1111),
	}
}

func (t TypeCR) ToEmbive() uint32 {
	return (uint32(t.RdRs1) << 5) | (uint32(t.Rs2) << 10)
}

// TypeCS is the compressed arithmetic-register format backing
// c.sub/c.xor/c.or/c.and (the decoder reads them through TypeCB3, which has
// the same bit layout; c.sw uses TypeCL).
type TypeCS struct {
	RdRs1 uint8
	Rs2   uint8
}

func TypeCSFromRISCV(inst uint32) TypeCS {
	return TypeCS{
		RdRs1: uint8((inst>>7)&0b111) + CompressedRegisterOffset,
		Rs2:   uint8((inst>>2)&0b111) + CompressedRegisterOffset,
	}
}

func TypeCSFromEmbive(inst uint32) TypeCS {
	return TypeCS{
		RdRs1: uint8((inst >> 5) & 0b1_1111),
		Rs2:   uint8((inst >> 10) & 0b1_1111),
	}
}

func (t TypeCS) ToEmbive() uint32 {
	return (uint32(t.RdRs1) << 5) | (uint32(t.Rs2) << 10)
}

// TypeCSS is the compressed stack-store format (c.swsp).
type TypeCSS struct {
	Rs2 uint8
	Imm int32
}

func TypeCSSFromRISCV(inst uint32) TypeCSS {
	return TypeCSS{
		Rs2: uint8((inst >> 2) & 0b1_1111),
		Imm: int32(((inst & (0b11 << 7)) | ((inst & (0b1111 << 9)) >> 6)) >> 1),
	}
}

func TypeCSSFromEmbive(inst uint32) TypeCSS {
	return TypeCSS{
		Rs2: uint8((inst >> 5) & 0b1_1111),
		Imm: int32((inst & (0b11_1111 << 10)) >> 8),
	}
}

func (t TypeCSS) ToEmbive() uint32 {
	return (uint32(t.Rs2) << 5) | (uint32(t.Imm) << 8)
}

// TypeCJ is the compressed jump format (c.j/c.jal).
type TypeCJ struct {
	Imm int32
}

func TypeCJFromRISCV(inst uint32) TypeCJ {
	v := uint16(((inst & (0b1 << 12)) << 3) | ((inst & (0b1 << 8)) << 6) | ((inst & (0b11 << 9)) << 3) |
		((inst & (0b1 << 6)) << 5) | ((inst & (0b1 << 7)) << 3) | ((inst & (0b1 << 2)) << 7) |
		((inst & (0b1 << 11)) >> 3) | ((inst & (0b111 << 3)) << 2))
	return TypeCJ{Imm: int32(int16(v)) >> 4}
}

func TypeCJFromEmbive(inst uint32) TypeCJ {
	v := uint16(inst & (0b111_1111_1111 << 5))
	return TypeCJ{Imm: int32(int16(v)) >> 4}
}

func (t TypeCJ) ToEmbive() uint32 {
	return (uint32(t.Imm) << 4) & (0b111_1111_1111 << 5)
}
