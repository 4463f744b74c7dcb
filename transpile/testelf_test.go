package transpile

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

// buildTestELF assembles a minimal 32-bit little-endian RISC-V ELF by hand,
// using debug/elf's own Header32/Prog32/Section32 layouts so the bytes are
// guaranteed to match what (*elf.File) expects: one executable .text
// section (code, loaded at address 0), one writable .data section plus a
// .bss section (loaded at vm.RAMBase), matching this module's code/RAM
// split. text is the raw native instruction bytes to place in .text.
func buildTestELF(text, data []byte, bssSize uint32, entry uint32) []byte {
	const (
		ehsize = 52
		phsize = 32
		shsize = 40
	)

	phoff := uint32(ehsize)
	textOff := phoff + 2*phsize
	dataOff := textOff + uint32(len(text))
	shstrtabOff := dataOff + uint32(len(data))

	shstrtab := []byte("\x00.text\x00.data\x00.bss\x00.shstrtab\x00")
	nameText := uint32(1)
	nameData := uint32(7)
	nameBss := uint32(13)
	nameShstrtab := uint32(18)

	shoff := shstrtabOff + uint32(len(shstrtab))

	var buf bytes.Buffer

	hdr := elf.Header32{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_RISCV),
		Version:   1,
		Entry:     entry,
		Phoff:     phoff,
		Shoff:     shoff,
		Ehsize:    ehsize,
		Phentsize: phsize,
		Phnum:     2,
		Shentsize: shsize,
		Shnum:     5,
		Shstrndx:  4,
	}
	copy(hdr.Ident[:], []byte{0x7f, 'E', 'L', 'F'})
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS32)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	binary.Write(&buf, binary.LittleEndian, &hdr)

	textSeg := elf.Prog32{
		Type:   uint32(elf.PT_LOAD),
		Off:    textOff,
		Vaddr:  0,
		Paddr:  0,
		Filesz: uint32(len(text)),
		Memsz:  uint32(len(text)),
		Flags:  uint32(elf.PF_R | elf.PF_X),
		Align:  4,
	}
	dataSeg := elf.Prog32{
		Type:   uint32(elf.PT_LOAD),
		Off:    dataOff,
		Vaddr:  0x8000_0000,
		Paddr:  0x8000_0000,
		Filesz: uint32(len(data)),
		Memsz:  uint32(len(data)) + bssSize,
		Flags:  uint32(elf.PF_R | elf.PF_W),
		Align:  4,
	}
	binary.Write(&buf, binary.LittleEndian, &textSeg)
	binary.Write(&buf, binary.LittleEndian, &dataSeg)

	buf.Write(text)
	buf.Write(data)
	buf.Write(shstrtab)

	sections := []elf.Section32{
		{}, // null section
		{
			Name: nameText, Type: uint32(elf.SHT_PROGBITS),
			Flags: uint32(elf.SHF_ALLOC | elf.SHF_EXECINSTR),
			Addr:  0, Off: textOff, Size: uint32(len(text)), Addralign: 4,
		},
		{
			Name: nameData, Type: uint32(elf.SHT_PROGBITS),
			Flags: uint32(elf.SHF_ALLOC | elf.SHF_WRITE),
			Addr:  0x8000_0000, Off: dataOff, Size: uint32(len(data)), Addralign: 4,
		},
		{
			Name: nameBss, Type: uint32(elf.SHT_NOBITS),
			Flags: uint32(elf.SHF_ALLOC | elf.SHF_WRITE),
			Addr:  0x8000_0000 + uint32(len(data)), Off: dataOff, Size: bssSize, Addralign: 4,
		},
		{
			Name: nameShstrtab, Type: uint32(elf.SHT_STRTAB),
			Off: shstrtabOff, Size: uint32(len(shstrtab)), Addralign: 1,
		},
	}
	for _, s := range sections {
		binary.Write(&buf, binary.LittleEndian, &s)
	}

	return buf.Bytes()
}
