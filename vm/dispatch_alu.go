package vm

import "github.com/colorfulnotion/embive/riscv"

func execOpImm(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeIFromEmbive(word)
	rs1 := it.regs.Get(f.Rs1)
	var result uint32
	switch f.Funct3 {
	case riscv.AddiFunc:
		result = rs1 + uint32(f.Imm)
	case riscv.SlliFunc:
		result = rs1 << (uint32(f.Imm) & 0x1F)
	case riscv.SltiFunc:
		result = boolToWord(int32(rs1) < f.Imm)
	case riscv.SltiuFunc:
		result = boolToWord(rs1 < uint32(f.Imm))
	case riscv.XoriFunc:
		result = rs1 ^ uint32(f.Imm)
	case riscv.SrliSraiFunc:
		shamt := uint32(f.Imm) & 0x1F
		if f.Imm&(1<<10) != 0 {
			result = uint32(int32(rs1) >> shamt)
		} else {
			result = rs1 >> shamt
		}
	case riscv.OriFunc:
		result = rs1 | uint32(f.Imm)
	case riscv.AndiFunc:
		result = rs1 & uint32(f.Imm)
	default:
		return stepHalted, &InvalidInstruction{Addr: it.regs.PC()}
	}
	it.regs.Set(f.RdRs2, result)
	return stepContinue, nil
}

func execOpAmo(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeRFromEmbive(word)
	rs1 := it.regs.Get(f.Rs1)
	rs2 := it.regs.Get(f.Rs2)
	switch f.Funct10 {
	case riscv.AddFunc:
		it.regs.Set(f.Rd, rs1+rs2)
	case riscv.SubFunc:
		it.regs.Set(f.Rd, rs1-rs2)
	case riscv.SllFunc:
		it.regs.Set(f.Rd, rs1<<(rs2&0x1F))
	case riscv.SltFunc:
		it.regs.Set(f.Rd, boolToWord(int32(rs1) < int32(rs2)))
	case riscv.SltuFunc:
		it.regs.Set(f.Rd, boolToWord(rs1 < rs2))
	case riscv.XorFunc:
		it.regs.Set(f.Rd, rs1^rs2)
	case riscv.SrlFunc:
		it.regs.Set(f.Rd, rs1>>(rs2&0x1F))
	case riscv.SraFunc:
		it.regs.Set(f.Rd, uint32(int32(rs1)>>(rs2&0x1F)))
	case riscv.OrFunc:
		it.regs.Set(f.Rd, rs1|rs2)
	case riscv.AndFunc:
		it.regs.Set(f.Rd, rs1&rs2)
	case riscv.MulFunc:
		it.regs.Set(f.Rd, rs1*rs2)
	case riscv.MulhFunc:
		it.regs.Set(f.Rd, uint32(int64(int32(rs1))*int64(int32(rs2))>>32))
	case riscv.MulhsuFunc:
		it.regs.Set(f.Rd, uint32((int64(int32(rs1))*int64(rs2))>>32))
	case riscv.MulhuFunc:
		it.regs.Set(f.Rd, uint32((uint64(rs1)*uint64(rs2))>>32))
	case riscv.DivFunc:
		it.regs.Set(f.Rd, divSigned(int32(rs1), int32(rs2)))
	case riscv.DivuFunc:
		it.regs.Set(f.Rd, divUnsigned(rs1, rs2))
	case riscv.RemFunc:
		it.regs.Set(f.Rd, remSigned(int32(rs1), int32(rs2)))
	case riscv.RemuFunc:
		it.regs.Set(f.Rd, remUnsigned(rs1, rs2))
	case riscv.LrFunc:
		val, err := loadWord(it, rs1)
		if err != nil {
			return stepHalted, err
		}
		it.reservation.Set(rs1)
		it.regs.Set(f.Rd, val)
	case riscv.ScFunc:
		ok := it.reservation.Check(rs1)
		it.reservation.Clear()
		if ok {
			if err := storeWord(it, rs1, rs2); err != nil {
				return stepHalted, err
			}
			it.regs.Set(f.Rd, 0)
		} else {
			it.regs.Set(f.Rd, 1)
		}
	default: // AMOSWAP/AMOADD/AMOXOR/AMOAND/AMOOR/AMOMIN/AMOMAX/AMOMINU/AMOMAXU
		old, err := loadWord(it, rs1)
		if err != nil {
			return stepHalted, err
		}
		var next uint32
		switch f.Funct10 {
		case riscv.AmoswapFunc:
			next = rs2
		case riscv.AmoaddFunc:
			next = old + rs2
		case riscv.AmoxorFunc:
			next = old ^ rs2
		case riscv.AmoandFunc:
			next = old & rs2
		case riscv.AmoorFunc:
			next = old | rs2
		case riscv.AmominFunc:
			next = uint32(minInt32(int32(old), int32(rs2)))
		case riscv.AmomaxFunc:
			next = uint32(maxInt32(int32(old), int32(rs2)))
		case riscv.AmominuFunc:
			next = minUint32(old, rs2)
		case riscv.AmomaxuFunc:
			next = maxUint32(old, rs2)
		default:
			return stepHalted, &InvalidInstruction{Addr: it.regs.PC()}
		}
		if err := storeWord(it, rs1, next); err != nil {
			return stepHalted, err
		}
		it.reservation.ClearIfOverlaps(rs1, 4)
		it.regs.Set(f.Rd, old)
	}
	return stepContinue, nil
}

func execCAddi(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCI1FromEmbive(word)
	it.regs.Set(f.RdRs1, it.regs.Get(f.RdRs1)+uint32(f.Imm))
	return stepContinue, nil
}

func execCLi(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCI1FromEmbive(word)
	it.regs.Set(f.RdRs1, uint32(f.Imm))
	return stepContinue, nil
}

func execCAddi16sp(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCI2FromEmbive(word)
	it.regs.Set(f.RdRs1, it.regs.Get(f.RdRs1)+uint32(f.Imm))
	return stepContinue, nil
}

func execCLui(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCI3FromEmbive(word)
	it.regs.Set(f.RdRs1, uint32(f.Imm))
	return stepContinue, nil
}

func execCSrli(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCB1FromEmbive(word)
	it.regs.Set(f.RdRs1, it.regs.Get(f.RdRs1)>>(uint32(f.Imm)&0x1F))
	return stepContinue, nil
}

func execCSrai(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCB1FromEmbive(word)
	it.regs.Set(f.RdRs1, uint32(int32(it.regs.Get(f.RdRs1))>>(uint32(f.Imm)&0x1F)))
	return stepContinue, nil
}

func execCAndi(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCB2FromEmbive(word)
	it.regs.Set(f.RdRs1, it.regs.Get(f.RdRs1)&uint32(f.Imm))
	return stepContinue, nil
}

func execCSub(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCSFromEmbive(word)
	it.regs.Set(f.RdRs1, it.regs.Get(f.RdRs1)-it.regs.Get(f.Rs2))
	return stepContinue, nil
}

func execCXor(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCSFromEmbive(word)
	it.regs.Set(f.RdRs1, it.regs.Get(f.RdRs1)^it.regs.Get(f.Rs2))
	return stepContinue, nil
}

func execCOr(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCSFromEmbive(word)
	it.regs.Set(f.RdRs1, it.regs.Get(f.RdRs1)|it.regs.Get(f.Rs2))
	return stepContinue, nil
}

func execCAnd(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCSFromEmbive(word)
	it.regs.Set(f.RdRs1, it.regs.Get(f.RdRs1)&it.regs.Get(f.Rs2))
	return stepContinue, nil
}

func execCSlli(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCI4FromEmbive(word)
	it.regs.Set(f.RdRs1, it.regs.Get(f.RdRs1)<<(uint32(f.Imm)&0x1F))
	return stepContinue, nil
}

func execLui(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeUFromEmbive(word)
	it.regs.Set(f.Rd, uint32(f.Imm))
	return stepContinue, nil
}

func execAuipc(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeUFromEmbive(word)
	it.regs.Set(f.Rd, it.regs.PC()+uint32(f.Imm))
	return stepContinue, nil
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minUint32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxUint32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// divSigned implements RISC-V's division-by-zero and overflow conventions:
// x/0 == -1, and INT_MIN/-1 wraps back to INT_MIN instead of trapping.
func divSigned(a, b int32) uint32 {
	if b == 0 {
		return 0xFFFFFFFF
	}
	if a == -2147483648 && b == -1 {
		return uint32(a)
	}
	return uint32(a / b)
}

func divUnsigned(a, b uint32) uint32 {
	if b == 0 {
		return 0xFFFFFFFF
	}
	return a / b
}

func remSigned(a, b int32) uint32 {
	if b == 0 {
		return uint32(a)
	}
	if a == -2147483648 && b == -1 {
		return 0
	}
	return uint32(a % b)
}

func remUnsigned(a, b uint32) uint32 {
	if b == 0 {
		return a
	}
	return a % b
}
