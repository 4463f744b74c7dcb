package riscv

import "fmt"

// IllegalInstructionError reports a native word the decoder does not
// recognize as any supported RV32IMAC/Zicsr/Zifencei encoding.
type IllegalInstructionError struct {
	Word uint32
	Size Size
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("illegal instruction: word=0x%x size=%d", e.Word, e.Size)
}

// Size is an instruction's encoded length in bytes: 2 for compressed, 4 for
// uncompressed (§3, §4.A).
type Size uint8

const (
	Size2 Size = 2
	Size4 Size = 4
)

// IsCompressed reports whether the low 16 bits of inst begin a 16-bit
// compressed instruction (quadrant != 0b11) rather than a 32-bit one.
func IsCompressed(low16 uint16) bool {
	return low16&0b11 != 0b11
}

// Decode reads one native RISC-V instruction starting at the given native
// word. word must hold at least the low 16 bits; the full 32 bits are only
// read for uncompressed instructions. Returns the decoded instruction and
// its size, or an *IllegalInstructionError if no opcode family matches.
func Decode(word uint32) (Instruction, Size, error) {
	low16 := uint16(word)
	if IsCompressed(low16) {
		inst, err := decodeCompressed(uint32(low16))
		return inst, Size2, err
	}
	inst, err := decodeUncompressed(word)
	return inst, Size4, err
}

func decodeUncompressed(word uint32) (Instruction, error) {
	opcode := word & 0b111_1111
	switch opcode {
	case RVOpLui:
		f := TypeUFromRISCV(word)
		return Instruction{Op: OpLui, Rd: f.Rd, Imm: f.Imm}, nil
	case RVOpAuipc:
		f := TypeUFromRISCV(word)
		return Instruction{Op: OpAuipc, Rd: f.Rd, Imm: f.Imm}, nil
	case RVOpJal:
		f := TypeJFromRISCV(word)
		return Instruction{Op: OpJal, Rd: f.Rd, Imm: f.Imm}, nil
	case RVOpJalr:
		f := TypeIFromRISCV(word)
		if f.Funct3 != 0 {
			return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
		}
		return Instruction{Op: OpJalr, Rd: f.RdRs2, Rs1: f.Rs1, Imm: f.Imm, Funct3: f.Funct3}, nil
	case RVOpBranch:
		f := TypeBFromRISCV(word)
		if f.Funct3 > BgeuFunc {
			return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
		}
		return Instruction{Op: OpBranch, Rs1: f.Rs1, Rs2: f.Rs2, Imm: f.Imm, Funct3: f.Funct3}, nil
	case RVOpLoad:
		f := TypeIFromRISCV(word)
		if f.Funct3 == 0b110 || f.Funct3 == 0b111 {
			return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
		}
		return Instruction{Op: OpLoadStore, Rd: f.RdRs2, Rs1: f.Rs1, Imm: f.Imm, Funct3: f.Funct3}, nil
	case RVOpStore:
		s := TypeSFromRISCV(word)
		if s.Funct3 > SwFunc {
			return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
		}
		return Instruction{Op: OpLoadStore, Rs1: s.Rs1, Rs2: s.Rs2, Imm: s.Imm, Funct3: SbFunc + s.Funct3}, nil
	case RVOpOpImm:
		f := TypeIFromRISCV(word)
		switch f.Funct3 {
		case SlliFunc:
			if (f.Imm>>5)&0b1111111 != 0 {
				return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
			}
			return Instruction{Op: OpOpImm, Rd: f.RdRs2, Rs1: f.Rs1, Imm: f.Imm & 0b11111, Funct3: f.Funct3}, nil
		case SrliSraiFunc:
			top7 := (f.Imm >> 5) & 0b1111111
			if top7 != 0 && top7 != 0b0100000 {
				return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
			}
			imm := f.Imm & 0b11111
			if top7 == 0b0100000 {
				imm |= 1 << 10
			}
			return Instruction{Op: OpOpImm, Rd: f.RdRs2, Rs1: f.Rs1, Imm: imm, Funct3: f.Funct3}, nil
		default:
			return Instruction{Op: OpOpImm, Rd: f.RdRs2, Rs1: f.Rs1, Imm: f.Imm, Funct3: f.Funct3}, nil
		}
	case RVOpOp:
		r := TypeRFromRISCV(word)
		funct7 := uint8(r.Funct10 >> 3)
		funct3 := uint8(r.Funct10 & 0b111)
		var fn uint16
		switch funct7 {
		case 0b0000000:
			base := []uint16{AddFunc, SllFunc, SltFunc, SltuFunc, XorFunc, SrlFunc, OrFunc, AndFunc}
			fn = base[funct3]
		case 0b0100000:
			switch funct3 {
			case 0b000:
				fn = SubFunc
			case 0b101:
				fn = SraFunc
			default:
				return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
			}
		case 0b0000001:
			base := []uint16{MulFunc, MulhFunc, MulhsuFunc, MulhuFunc, DivFunc, DivuFunc, RemFunc, RemuFunc}
			fn = base[funct3]
		default:
			return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
		}
		return Instruction{Op: OpOpAmo, Rd: r.Rd, Rs1: r.Rs1, Rs2: r.Rs2, Funct10: fn}, nil
	case RVOpAmo:
		r := TypeRFromRISCV(word)
		funct3 := uint8(r.Funct10 & 0b111)
		funct5 := uint8(r.Funct10 >> 5)
		if funct3 != 0b010 {
			return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
		}
		var fn uint16
		switch funct5 {
		case 0b00010:
			fn = LrFunc
		case 0b00011:
			fn = ScFunc
		case 0b00001:
			fn = AmoswapFunc
		case 0b00000:
			fn = AmoaddFunc
		case 0b00100:
			fn = AmoxorFunc
		case 0b01100:
			fn = AmoandFunc
		case 0b01000:
			fn = AmoorFunc
		case 0b10000:
			fn = AmominFunc
		case 0b10100:
			fn = AmomaxFunc
		case 0b11000:
			fn = AmominuFunc
		case 0b11100:
			fn = AmomaxuFunc
		default:
			return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
		}
		return Instruction{Op: OpOpAmo, Rd: r.Rd, Rs1: r.Rs1, Rs2: r.Rs2, Funct10: fn}, nil
	case RVOpMiscMem:
		f := TypeIFromRISCV(word)
		switch f.Funct3 {
		case 0b000:
			return Instruction{Op: OpSystemMiscMem, Funct3: MiscFunc, Imm: FenceiImm}, nil
		case 0b001:
			return Instruction{Op: OpSystemMiscMem, Funct3: MiscFunc, Imm: FenceiImm}, nil
		default:
			return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
		}
	case RVOpSystem:
		f := TypeIFromRISCV(word)
		switch f.Funct3 {
		case 0b000:
			switch f.Imm & 0xFFF {
			case 0x000:
				return Instruction{Op: OpSystemMiscMem, Funct3: MiscFunc, Imm: EcallImm}, nil
			case 0x001:
				return Instruction{Op: OpSystemMiscMem, Funct3: MiscFunc, Imm: EbreakImm}, nil
			case 0x105:
				return Instruction{Op: OpSystemMiscMem, Funct3: MiscFunc, Imm: WfiImm}, nil
			case 0x302:
				return Instruction{Op: OpSystemMiscMem, Funct3: MiscFunc, Imm: MretImm}, nil
			default:
				return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
			}
		case CsrrwFunc, CsrrsFunc, CsrrcFunc, CsrrwiFunc, CsrrsiFunc, CsrrciFunc:
			return Instruction{Op: OpSystemMiscMem, Rd: f.RdRs2, Rs1: f.Rs1, Imm: f.Imm & 0xFFF, Funct3: f.Funct3}, nil
		default:
			return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
		}
	default:
		return Instruction{}, &IllegalInstructionError{Word: word, Size: Size4}
	}
}

func decodeCompressed(word uint32) (Instruction, error) {
	quadrant := word & 0b11
	funct3 := (word >> 13) & 0b111
	switch quadrant {
	case 0b00:
		switch funct3 {
		case 0b000: // c.addi4spn
			f := TypeCIWFromRISCV(word)
			if f.Imm == 0 {
				return Instruction{}, &IllegalInstructionError{Word: word, Size: Size2}
			}
			return Instruction{Op: OpCAddi4spn, Rd: f.Rd, Imm: f.Imm}, nil
		case 0b010: // c.lw
			f := TypeCLFromRISCV(word)
			return Instruction{Op: OpCLw, Rd: f.RdRs2, Rs1: f.Rs1, Imm: f.Imm}, nil
		case 0b110: // c.sw
			f := TypeCLFromRISCV(word)
			return Instruction{Op: OpCSw, Rd: f.RdRs2, Rs1: f.Rs1, Imm: f.Imm}, nil
		default:
			return Instruction{}, &IllegalInstructionError{Word: word, Size: Size2}
		}
	case 0b01:
		switch funct3 {
		case 0b000: // c.addi (rd==0 is c.nop, still valid, no-op add)
			f := TypeCI1FromRISCV(word)
			return Instruction{Op: OpCAddi, Rd: f.RdRs1, Imm: f.Imm}, nil
		case 0b001: // c.jal (RV32-only encoding)
			f := TypeCJFromRISCV(word)
			return Instruction{Op: OpCJal, Imm: f.Imm}, nil
		case 0b010: // c.li
			f := TypeCI1FromRISCV(word)
			return Instruction{Op: OpCLi, Rd: f.RdRs1, Imm: f.Imm}, nil
		case 0b011:
			rd := uint8((word >> 7) & 0b1_1111)
			if rd == 2 {
				f := TypeCI2FromRISCV(word)
				return Instruction{Op: OpCAddi16sp, Rd: f.RdRs1, Imm: f.Imm}, nil
			}
			f := TypeCI3FromRISCV(word)
			if f.Imm == 0 {
				return Instruction{}, &IllegalInstructionError{Word: word, Size: Size2}
			}
			return Instruction{Op: OpCLui, Rd: f.RdRs1, Imm: f.Imm}, nil
		case 0b100:
			sel := (word >> 10) & 0b11
			switch sel {
			case 0b00: // c.srli
				f := TypeCB1FromRISCV(word)
				return Instruction{Op: OpCSrli, Rd: f.RdRs1, Imm: f.Imm}, nil
			case 0b01: // c.srai
				f := TypeCB1FromRISCV(word)
				return Instruction{Op: OpCSrai, Rd: f.RdRs1, Imm: f.Imm}, nil
			case 0b10: // c.andi
				f := TypeCB2FromRISCV(word)
				return Instruction{Op: OpCAndi, Rd: f.RdRs1, Imm: f.Imm}, nil
			default: // 0b11: register-register alu group
				if (word>>12)&0b1 != 0 {
					return Instruction{}, &IllegalInstructionError{Word: word, Size: Size2}
				}
				f := TypeCB3FromRISCV(word)
				switch (word >> 5) & 0b11 {
				case 0b00:
					return Instruction{Op: OpCSub, Rd: f.RdRs1, Rs2: f.Rs2}, nil
				case 0b01:
					return Instruction{Op: OpCXor, Rd: f.RdRs1, Rs2: f.Rs2}, nil
				case 0b10:
					return Instruction{Op: OpCOr, Rd: f.RdRs1, Rs2: f.Rs2}, nil
				default:
					return Instruction{Op: OpCAnd, Rd: f.RdRs1, Rs2: f.Rs2}, nil
				}
			}
		case 0b101: // c.j
			f := TypeCJFromRISCV(word)
			return Instruction{Op: OpCJ, Imm: f.Imm}, nil
		case 0b110: // c.beqz
			f := TypeCB4FromRISCV(word)
			return Instruction{Op: OpCBeqz, Rd: f.Rs1, Imm: f.Imm}, nil
		case 0b111: // c.bnez
			f := TypeCB4FromRISCV(word)
			return Instruction{Op: OpCBnez, Rd: f.Rs1, Imm: f.Imm}, nil
		default:
			return Instruction{}, &IllegalInstructionError{Word: word, Size: Size2}
		}
	case 0b10:
		switch funct3 {
		case 0b000: // c.slli
			f := TypeCI4FromRISCV(word)
			return Instruction{Op: OpCSlli, Rd: f.RdRs1, Imm: f.Imm}, nil
		case 0b010: // c.lwsp
			f := TypeCI5FromRISCV(word)
			if f.RdRs1 == 0 {
				return Instruction{}, &IllegalInstructionError{Word: word, Size: Size2}
			}
			return Instruction{Op: OpCLwsp, Rd: f.RdRs1, Imm: f.Imm}, nil
		case 0b100:
			f := TypeCRFromRISCV(word)
			bit12 := (word >> 12) & 0b1
			switch {
			case bit12 == 0 && f.Rs2 == 0: // c.jr
				if f.RdRs1 == 0 {
					return Instruction{}, &IllegalInstructionError{Word: word, Size: Size2}
				}
				return Instruction{Op: OpCJrMv, Rd: f.RdRs1, Rs2: f.Rs2}, nil
			case bit12 == 0: // c.mv
				return Instruction{Op: OpCJrMv, Rd: f.RdRs1, Rs2: f.Rs2}, nil
			case f.RdRs1 == 0 && f.Rs2 == 0: // c.ebreak
				return Instruction{Op: OpCEbreakJalrAdd, Rd: 0, Rs2: 0}, nil
			case f.Rs2 == 0: // c.jalr
				return Instruction{Op: OpCEbreakJalrAdd, Rd: f.RdRs1, Rs2: 0}, nil
			default: // c.add
				return Instruction{Op: OpCEbreakJalrAdd, Rd: f.RdRs1, Rs2: f.Rs2}, nil
			}
		case 0b110: // c.swsp
			f := TypeCSSFromRISCV(word)
			return Instruction{Op: OpCSwsp, Rs2: f.Rs2, Imm: f.Imm}, nil
		default:
			return Instruction{}, &IllegalInstructionError{Word: word, Size: Size2}
		}
	default:
		return Instruction{}, &IllegalInstructionError{Word: word, Size: Size2}
	}
}
