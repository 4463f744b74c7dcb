package vm

import "github.com/colorfulnotion/embive/riscv"

func execSystemMiscMem(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeIFromEmbive(word)
	switch f.Funct3 {
	case riscv.MiscFunc:
		switch f.Imm {
		case riscv.EcallImm:
			return stepCalled, nil
		case riscv.EbreakImm:
			return stepHalted, nil
		case riscv.FenceiImm:
			return stepContinue, nil
		case riscv.WfiImm:
			return stepWaiting, nil
		case riscv.MretImm:
			it.regs.SetPC(it.csr.Mepc)
			it.reservation.Clear()
			return stepContinue, nil
		default:
			return stepHalted, &InvalidInstruction{Addr: it.regs.PC()}
		}
	case riscv.CsrrwFunc, riscv.CsrrsFunc, riscv.CsrrcFunc:
		return execCSR(it, csrOpFor(f.Funct3), uint16(f.Imm)&0x0FFF, it.regs.Get(f.Rs1), f.RdRs2)
	case riscv.CsrrwiFunc, riscv.CsrrsiFunc, riscv.CsrrciFunc:
		return execCSR(it, csrOpFor(f.Funct3), uint16(f.Imm)&0x0FFF, uint32(f.Rs1), f.RdRs2)
	default:
		return stepHalted, &InvalidInstruction{Addr: it.regs.PC()}
	}
}

func csrOpFor(funct3 uint8) CSOperation {
	switch funct3 {
	case riscv.CsrrwFunc, riscv.CsrrwiFunc:
		return CSWrite
	case riscv.CsrrcFunc, riscv.CsrrciFunc:
		return CSClear
	default: // CsrrsFunc, CsrrsiFunc
		return CSSet
	}
}

func execCSR(it *Interpreter, op CSOperation, num uint16, operand uint32, rd uint8) (stepOutcome, error) {
	old, err := it.csr.Operation(op, num, operand)
	if err != nil {
		return stepHalted, err
	}
	it.regs.Set(rd, old)
	return stepContinue, nil
}
