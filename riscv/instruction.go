package riscv

import "fmt"

// Opcode is the dense Embive opcode (§3, §6): a sequential index in [0,31]
// that packs into the low 5 bits of every bytecode word, in place of the
// RISC-V 7-bit/quadrant-plus-funct3 opcode space. The assignment below is
// adopted verbatim from the reference transpiler's instruction table.
type Opcode uint8

const (
	OpCAddi4spn Opcode = iota // 0
	OpCLw                     // 1
	OpCSw                     // 2
	OpCAddi                   // 3
	OpCJal                    // 4
	OpCLi                     // 5
	OpCAddi16sp               // 6
	OpCLui                    // 7
	OpCSrli                   // 8
	OpCSrai                   // 9
	OpCAndi                   // 10
	OpCSub                    // 11
	OpCXor                    // 12
	OpCOr                     // 13
	OpCAnd                    // 14
	OpCJ                      // 15
	OpCBeqz                   // 16
	OpCBnez                   // 17
	OpCSlli                   // 18
	OpCLwsp                   // 19
	OpCJrMv                   // 20
	OpCEbreakJalrAdd          // 21
	OpCSwsp                   // 22
	OpAuipc                   // 23
	OpBranch                  // 24
	OpJal                     // 25
	OpJalr                    // 26
	OpLoadStore               // 27
	OpLui                     // 28
	OpOpImm                   // 29
	OpOpAmo                   // 30
	OpSystemMiscMem          // 31

	NumOpcodes = 32
)

func (o Opcode) String() string {
	names := [NumOpcodes]string{
		"c.addi4spn", "c.lw", "c.sw", "c.addi", "c.jal", "c.li", "c.addi16sp",
		"c.lui", "c.srli", "c.srai", "c.andi", "c.sub", "c.xor", "c.or", "c.and",
		"c.j", "c.beqz", "c.bnez", "c.slli", "c.lwsp", "c.jr/c.mv",
		"c.ebreak/c.jalr/c.add", "c.swsp", "auipc", "branch", "jal", "jalr",
		"load/store", "lui", "op-imm", "op/amo", "system/misc-mem",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return fmt.Sprintf("opcode(%d)", o)
}

// Branch funct3 values.
const (
	BeqFunc  uint8 = 0
	BneFunc  uint8 = 1
	BltFunc  uint8 = 2
	BgeFunc  uint8 = 3
	BltuFunc uint8 = 4
	BgeuFunc uint8 = 5
)

// LoadStore funct3 values.
const (
	LbFunc  uint8 = 0
	LhFunc  uint8 = 1
	LwFunc  uint8 = 2
	LbuFunc uint8 = 3
	LhuFunc uint8 = 4
	SbFunc  uint8 = 5
	ShFunc  uint8 = 6
	SwFunc  uint8 = 7
)

// OpImm funct3 values.
const (
	AddiFunc    uint8 = 0
	SlliFunc    uint8 = 1
	SltiFunc    uint8 = 2
	SltiuFunc   uint8 = 3
	XoriFunc    uint8 = 4
	SrliSraiFunc uint8 = 5
	OriFunc     uint8 = 6
	AndiFunc    uint8 = 7
)

// OpAmo funct10 values: dense sequential indices (not the native
// funct7/funct3 bits) covering OP, M-extension and the A-extension atomics
// sharing the same dense opcode; the decoder maps native encodings to them.
const (
	AddFunc      uint16 = 0
	SubFunc      uint16 = 1
	SllFunc      uint16 = 2
	SltFunc      uint16 = 3
	SltuFunc     uint16 = 4
	XorFunc      uint16 = 5
	SrlFunc      uint16 = 6
	SraFunc      uint16 = 7
	OrFunc       uint16 = 8
	AndFunc      uint16 = 9
	MulFunc      uint16 = 10
	MulhFunc     uint16 = 11
	MulhsuFunc   uint16 = 12
	MulhuFunc    uint16 = 13
	DivFunc      uint16 = 14
	DivuFunc     uint16 = 15
	RemFunc      uint16 = 16
	RemuFunc     uint16 = 17
	LrFunc       uint16 = 18
	ScFunc       uint16 = 19
	AmoswapFunc  uint16 = 20
	AmoaddFunc   uint16 = 21
	AmoxorFunc   uint16 = 22
	AmoandFunc   uint16 = 23
	AmoorFunc    uint16 = 24
	AmominFunc   uint16 = 25
	AmomaxFunc   uint16 = 26
	AmominuFunc  uint16 = 27
	AmomaxuFunc  uint16 = 28
)

// SystemMiscMem immediates (for the non-CSR, funct3==0 sub-family) and
// funct3 values selecting between that family and the Zicsr instructions.
const (
	EcallImm  int32 = 0
	EbreakImm int32 = 1
	FenceiImm int32 = 2
	WfiImm    int32 = 3
	MretImm   int32 = 4
)

const (
	MiscFunc   uint8 = 0
	CsrrwFunc  uint8 = 1
	CsrrsFunc  uint8 = 2
	CsrrcFunc  uint8 = 3
	CsrrwiFunc uint8 = 4
	CsrrsiFunc uint8 = 5
	CsrrciFunc uint8 = 6
)

// Native RISC-V 7-bit opcodes (bits[6:0], only used while decoding the
// uncompressed 32-bit instruction stream out of an ELF text section).
const (
	RVOpLoad     uint32 = 0b000_0011
	RVOpMiscMem  uint32 = 0b000_1111
	RVOpOpImm    uint32 = 0b001_0011
	RVOpAuipc    uint32 = 0b001_0111
	RVOpStore    uint32 = 0b010_0011
	RVOpAmo      uint32 = 0b010_1111
	RVOpOp       uint32 = 0b011_0011
	RVOpLui      uint32 = 0b011_0111
	RVOpBranch   uint32 = 0b110_0011
	RVOpJalr     uint32 = 0b110_0111
	RVOpJal      uint32 = 0b110_1111
	RVOpSystem   uint32 = 0b111_0011
)

// Instruction is the native, tagged-variant instruction record (§3): an
// opcode tag plus the union of fields any Embive opcode might need. Not
// every field is meaningful for every Op; which ones are is determined
// entirely by Op, exactly as in the source format tables.
type Instruction struct {
	Op     Opcode
	Rd     uint8
	Rs1    uint8
	Rs2    uint8
	Imm    int32
	Funct3 uint8
	Funct7 uint8
	Funct10 uint16
}

// EncodeBytecode converts a decoded native instruction into its Embive
// bytecode word (§4.B, the re-encoder): dense opcode in the low 5 bits, the
// format-specific fields above it, per the per-opcode bit layouts in
// format.go. Each Type*.ToEmbive() already places its fields starting above
// bit 4, leaving the low 5 bits clear for the opcode, so this only needs to
// OR them together, not shift body any further.
func (inst Instruction) EncodeBytecode() uint32 {
	return inst.encodeBody() | uint32(inst.Op)
}

func (inst Instruction) encodeBody() uint32 {
	switch inst.Op {
	case OpCAddi4spn:
		return TypeCIW{Rd: inst.Rd, Imm: inst.Imm}.ToEmbive()
	case OpCLw, OpCSw:
		return TypeCL{RdRs2: inst.Rd, Rs1: inst.Rs1, Imm: inst.Imm}.ToEmbive()
	case OpCAddi, OpCLi:
		return TypeCI1{RdRs1: inst.Rd, Imm: inst.Imm}.ToEmbive()
	case OpCJal:
		return TypeCJ{Imm: inst.Imm}.ToEmbive()
	case OpCAddi16sp:
		return TypeCI2{RdRs1: inst.Rd, Imm: inst.Imm}.ToEmbive()
	case OpCLui:
		return TypeCI3{RdRs1: inst.Rd, Imm: inst.Imm}.ToEmbive()
	case OpCSrli, OpCSrai:
		return TypeCB1{RdRs1: inst.Rd, Imm: inst.Imm}.ToEmbive()
	case OpCAndi:
		return TypeCB2{RdRs1: inst.Rd, Imm: inst.Imm}.ToEmbive()
	case OpCSub, OpCXor, OpCOr, OpCAnd:
		return TypeCS{RdRs1: inst.Rd, Rs2: inst.Rs2}.ToEmbive()
	case OpCJ:
		return TypeCJ{Imm: inst.Imm}.ToEmbive()
	case OpCBeqz, OpCBnez:
		return TypeCB4{Rs1: inst.Rd, Imm: inst.Imm}.ToEmbive()
	case OpCSlli:
		return TypeCI4{RdRs1: inst.Rd, Imm: inst.Imm}.ToEmbive()
	case OpCLwsp:
		return TypeCI5{RdRs1: inst.Rd, Imm: inst.Imm}.ToEmbive()
	case OpCJrMv, OpCEbreakJalrAdd:
		return TypeCR{RdRs1: inst.Rd, Rs2: inst.Rs2}.ToEmbive()
	case OpCSwsp:
		return TypeCSS{Rs2: inst.Rs2, Imm: inst.Imm}.ToEmbive()
	case OpAuipc, OpLui:
		return TypeU{Rd: inst.Rd, Imm: inst.Imm}.ToEmbive()
	case OpBranch:
		return TypeB{Rs1: inst.Rs1, Rs2: inst.Rs2, Imm: inst.Imm, Funct3: inst.Funct3}.ToEmbive()
	case OpJal:
		return TypeJ{Rd: inst.Rd, Imm: inst.Imm}.ToEmbive()
	case OpJalr, OpLoadStore, OpOpImm:
		rdRs2 := inst.Rd
		if inst.Op == OpLoadStore && inst.Funct3 >= SbFunc {
			rdRs2 = inst.Rs2
		}
		return TypeI{RdRs2: rdRs2, Rs1: inst.Rs1, Imm: inst.Imm, Funct3: inst.Funct3}.ToEmbive()
	case OpOpAmo:
		return TypeR{Rd: inst.Rd, Rs1: inst.Rs1, Rs2: inst.Rs2, Funct10: inst.Funct10}.ToEmbive()
	case OpSystemMiscMem:
		return TypeI{RdRs2: inst.Rd, Rs1: inst.Rs1, Imm: inst.Imm, Funct3: inst.Funct3}.ToEmbive()
	default:
		return 0
	}
}
