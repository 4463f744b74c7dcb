package vm

import "github.com/colorfulnotion/embive/riscv"

func execLoadStore(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeIFromEmbive(word)
	addr := it.regs.Get(f.Rs1) + uint32(f.Imm)
	switch f.Funct3 {
	case riscv.LbFunc, riscv.LhFunc, riscv.LwFunc, riscv.LbuFunc, riscv.LhuFunc:
		width := loadWidth(f.Funct3)
		b, err := it.mem.Load(addr, width)
		if err != nil {
			return stepHalted, err
		}
		it.regs.Set(f.RdRs2, extendLoad(b, f.Funct3))
		return stepContinue, nil
	default: // store
		width := storeWidth(f.Funct3)
		b := encodeStore(it.regs.Get(f.RdRs2), width)
		if err := it.mem.Store(addr, width, b); err != nil {
			return stepHalted, err
		}
		it.reservation.ClearIfOverlaps(addr, width)
		return stepContinue, nil
	}
}

func loadWidth(funct3 uint8) uint8 {
	switch funct3 {
	case riscv.LbFunc, riscv.LbuFunc:
		return 1
	case riscv.LhFunc, riscv.LhuFunc:
		return 2
	default:
		return 4
	}
}

func extendLoad(b []byte, funct3 uint8) uint32 {
	switch funct3 {
	case riscv.LbFunc:
		return uint32(int32(int8(b[0])))
	case riscv.LbuFunc:
		return uint32(b[0])
	case riscv.LhFunc:
		return uint32(int32(int16(uint16(b[0]) | uint16(b[1])<<8)))
	case riscv.LhuFunc:
		return uint32(uint16(b[0]) | uint16(b[1])<<8)
	default: // LwFunc
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
}

func storeWidth(funct3 uint8) uint8 {
	switch funct3 {
	case riscv.SbFunc:
		return 1
	case riscv.ShFunc:
		return 2
	default:
		return 4
	}
}

func encodeStore(value uint32, width uint8) []byte {
	switch width {
	case 1:
		return []byte{byte(value)}
	case 2:
		return []byte{byte(value), byte(value >> 8)}
	default:
		return []byte{byte(value), byte(value >> 8), byte(value >> 16), byte(value >> 24)}
	}
}

func execCLw(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCLFromEmbive(word)
	b, err := it.mem.Load(it.regs.Get(f.Rs1)+uint32(f.Imm), 4)
	if err != nil {
		return stepHalted, err
	}
	it.regs.Set(f.RdRs2, extendLoad(b, riscv.LwFunc))
	return stepContinue, nil
}

func execCSw(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCLFromEmbive(word)
	addr := it.regs.Get(f.Rs1) + uint32(f.Imm)
	if err := it.mem.Store(addr, 4, encodeStore(it.regs.Get(f.RdRs2), 4)); err != nil {
		return stepHalted, err
	}
	it.reservation.ClearIfOverlaps(addr, 4)
	return stepContinue, nil
}

func execCLwsp(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCI5FromEmbive(word)
	b, err := it.mem.Load(it.regs.Get(2)+uint32(f.Imm), 4)
	if err != nil {
		return stepHalted, err
	}
	it.regs.Set(f.RdRs1, extendLoad(b, riscv.LwFunc))
	return stepContinue, nil
}

func execCSwsp(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCSSFromEmbive(word)
	addr := it.regs.Get(2) + uint32(f.Imm)
	if err := it.mem.Store(addr, 4, encodeStore(it.regs.Get(f.Rs2), 4)); err != nil {
		return stepHalted, err
	}
	it.reservation.ClearIfOverlaps(addr, 4)
	return stepContinue, nil
}

func execCAddi4spn(it *Interpreter, word uint32) (stepOutcome, error) {
	f := riscv.TypeCIWFromEmbive(word)
	it.regs.Set(f.Rd, it.regs.Get(2)+uint32(f.Imm))
	return stepContinue, nil
}
