package vm

import (
	"encoding/binary"

	"github.com/colorfulnotion/embive/riscv"
)

// stepOutcome is what a dispatch handler reports about the instruction it
// just executed (§4.F): whether the dispatch loop should keep going, or
// transition the interpreter's State.
type stepOutcome uint8

const (
	stepContinue stepOutcome = iota
	stepHalted
	stepCalled
	stepWaiting
)

// handlerFunc executes one bytecode word already known to carry the opcode
// it is registered under. It returns the outcome and, for any error, the
// *vm.Error value run() should surface (Halted) after returning it.
type handlerFunc func(it *Interpreter, word uint32) (stepOutcome, error)

var dispatchTable [riscv.NumOpcodes]handlerFunc

func init() {
	dispatchTable[riscv.OpCAddi4spn] = execCAddi4spn
	dispatchTable[riscv.OpCLw] = execCLw
	dispatchTable[riscv.OpCSw] = execCSw
	dispatchTable[riscv.OpCAddi] = execCAddi
	dispatchTable[riscv.OpCJal] = execCJal
	dispatchTable[riscv.OpCLi] = execCLi
	dispatchTable[riscv.OpCAddi16sp] = execCAddi16sp
	dispatchTable[riscv.OpCLui] = execCLui
	dispatchTable[riscv.OpCSrli] = execCSrli
	dispatchTable[riscv.OpCSrai] = execCSrai
	dispatchTable[riscv.OpCAndi] = execCAndi
	dispatchTable[riscv.OpCSub] = execCSub
	dispatchTable[riscv.OpCXor] = execCXor
	dispatchTable[riscv.OpCOr] = execCOr
	dispatchTable[riscv.OpCAnd] = execCAnd
	dispatchTable[riscv.OpCJ] = execCJ
	dispatchTable[riscv.OpCBeqz] = execCBeqz
	dispatchTable[riscv.OpCBnez] = execCBnez
	dispatchTable[riscv.OpCSlli] = execCSlli
	dispatchTable[riscv.OpCLwsp] = execCLwsp
	dispatchTable[riscv.OpCJrMv] = execCJrMv
	dispatchTable[riscv.OpCEbreakJalrAdd] = execCEbreakJalrAdd
	dispatchTable[riscv.OpCSwsp] = execCSwsp
	dispatchTable[riscv.OpAuipc] = execAuipc
	dispatchTable[riscv.OpBranch] = execBranch
	dispatchTable[riscv.OpJal] = execJal
	dispatchTable[riscv.OpJalr] = execJalr
	dispatchTable[riscv.OpLoadStore] = execLoadStore
	dispatchTable[riscv.OpLui] = execLui
	dispatchTable[riscv.OpOpImm] = execOpImm
	dispatchTable[riscv.OpOpAmo] = execOpAmo
	dispatchTable[riscv.OpSystemMiscMem] = execSystemMiscMem
}

// linkSize is the fixed bytecode instruction width every jump-and-link
// handler uses to compute its return address. Every bytecode word is 4
// bytes regardless of whether the native instruction it came from was
// compressed or not (§4.C) — a jump-and-link inside this VM always links
// to pc+4, never pc+2, even for opcodes that started life as a 16-bit
// compressed RISC-V instruction.
const linkSize = 4

func loadWord(it *Interpreter, addr uint32) (uint32, error) {
	b, err := it.mem.Load(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func storeWord(it *Interpreter, addr uint32, value uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], value)
	return it.mem.Store(addr, 4, b[:])
}

// maskIndirectTarget clears the low bit of an indirect jump target, per
// §4.F's JALR/c.jr/c.jalr computation of (rs1+imm) & ~1.
func maskIndirectTarget(addr uint32) uint32 { return addr &^ 1 }
