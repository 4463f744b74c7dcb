package vm

import "github.com/colorfulnotion/embive/riscv"

func execBranch(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeBFromEmbive(word)
	rs1, rs2 := it.regs.Get(f.Rs1), it.regs.Get(f.Rs2)
	var taken bool
	switch f.Funct3 {
	case riscv.BeqFunc:
		taken = rs1 == rs2
	case riscv.BneFunc:
		taken = rs1 != rs2
	case riscv.BltFunc:
		taken = int32(rs1) < int32(rs2)
	case riscv.BgeFunc:
		taken = int32(rs1) >= int32(rs2)
	case riscv.BltuFunc:
		taken = rs1 < rs2
	case riscv.BgeuFunc:
		taken = rs1 >= rs2
	default:
		return stepHalted, &InvalidInstruction{Addr: it.regs.PC()}
	}
	if taken {
		it.regs.SetPC(it.regs.PC() + uint32(f.Imm))
	}
	return stepContinue, nil
}

func execJal(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeJFromEmbive(word)
	link := it.regs.PC() + linkSize
	it.regs.SetPC(it.regs.PC() + uint32(f.Imm))
	it.regs.Set(f.Rd, link)
	return stepContinue, nil
}

func execJalr(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeIFromEmbive(word)
	link := it.regs.PC() + linkSize
	target := maskIndirectTarget(it.regs.Get(f.Rs1) + uint32(f.Imm))
	it.regs.SetPC(target)
	it.regs.Set(f.RdRs2, link)
	return stepContinue, nil
}

func execCJal(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCJFromEmbive(word)
	link := it.regs.PC() + linkSize
	it.regs.SetPC(it.regs.PC() + uint32(f.Imm))
	it.regs.Set(1, link)
	return stepContinue, nil
}

func execCJ(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCJFromEmbive(word)
	it.regs.SetPC(it.regs.PC() + uint32(f.Imm))
	return stepContinue, nil
}

func execCBeqz(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCB4FromEmbive(word)
	if it.regs.Get(f.Rs1) == 0 {
		it.regs.SetPC(it.regs.PC() + uint32(f.Imm))
	}
	return stepContinue, nil
}

func execCBnez(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCB4FromEmbive(word)
	if it.regs.Get(f.Rs1) != 0 {
		it.regs.SetPC(it.regs.PC() + uint32(f.Imm))
	}
	return stepContinue, nil
}

func execCJrMv(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCRFromEmbive(word)
	if f.Rs2 == 0 {
		it.regs.SetPC(maskIndirectTarget(it.regs.Get(f.RdRs1)))
		return stepContinue, nil
	}
	it.regs.Set(f.RdRs1, it.regs.Get(f.Rs2))
	return stepContinue, nil
}

func execCEbreakJalrAdd(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCRFromEmbive(word)
	switch {
	case f.RdRs1 == 0 && f.Rs2 == 0:
		return stepHalted, nil
	case f.Rs2 == 0:
		link := it.regs.PC() + linkSize
		target := maskIndirectTarget(it.regs.Get(f.RdRs1))
		it.regs.SetPC(target)
		it.regs.Set(1, link)
		return stepContinue, nil
	default:
		it.regs.Set(f.RdRs1, it.regs.Get(f.RdRs1)+it.regs.Get(f.Rs2))
		return stepContinue, nil
	}
}
