package transpile

import (
	"bytes"
	"debug/elf"
	"sort"

	"github.com/colorfulnotion/embive/vm"
)

// Image is the transpiled result: a code buffer ready to back a read-only
// vm.Memory region at address 0, and a RAM initializer (the ELF's
// initialized data, zero-extended to cover .bss) ready to back the
// read/write region at vm.RAMBase.
type Image struct {
	Code       []byte
	RAM        []byte
	EntryPoint uint32
}

// loadable is one allocatable section already resolved to its containing
// segment's physical address.
type loadable struct {
	name       string
	paddr      uint32
	size       uint32
	write      bool
	exec       bool
	noBits     bool
	data       []byte
}

// ELF parses a 32-bit little-endian RISC-V ELF and transpiles it into an
// Image (§4.C). Grounded on the reference transpiler's section-to-segment
// walk (original_source/src/transpiler.rs's elf_transpiler_impl), adapted
// to this module's split code/RAM memory model: the reference writes every
// allocatable section into one flat, entry-relative buffer, while here each
// section lands in the code buffer (base 0) or the RAM buffer (base
// vm.RAMBase) depending on its SHF_WRITE flag, with EXECINSTR sections
// additionally run through convertCode.
func ELF(raw []byte) (*Image, error) {
	f, err := elf.NewFile(bytes.NewReader(raw))
	if err != nil {
		return nil, &ElfParse{Err: err}
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 || f.Data != elf.ELFDATA2LSB || f.Machine != elf.EM_RISCV {
		return nil, &UnsupportedArchitecture{Class: f.Class.String(), Machine: f.Machine.String()}
	}

	loads, err := resolveSections(f)
	if err != nil {
		return nil, err
	}

	var codeSize, ramSize uint32
	for _, l := range loads {
		end := l.paddr + l.size
		if l.write {
			off := end - vm.RAMBase
			if off > ramSize {
				ramSize = off
			}
		} else if end > codeSize {
			codeSize = end
		}
	}

	img := &Image{
		Code:       make([]byte, codeSize),
		RAM:        make([]byte, ramSize),
		EntryPoint: uint32(f.Entry),
	}

	for _, l := range loads {
		if l.noBits {
			// .bss: already zero in a freshly allocated Go slice, only its
			// size needed accounting for above.
			continue
		}
		if l.write {
			off := l.paddr - vm.RAMBase
			copy(img.RAM[off:off+l.size], l.data)
			continue
		}
		copy(img.Code[l.paddr:l.paddr+l.size], l.data)
	}

	return img, nil
}

// resolveSections walks every SHT_PROGBITS/SHT_NOBITS, SHF_ALLOC section and
// maps its virtual address to the physical address of the PT_LOAD segment
// that contains it, mirroring the reference's per-section segment search.
func resolveSections(f *elf.File) ([]loadable, error) {
	var out []loadable
	for _, sec := range f.Sections {
		if sec.Type != elf.SHT_PROGBITS && sec.Type != elf.SHT_NOBITS {
			continue
		}
		if sec.Flags&elf.SHF_ALLOC == 0 || sec.Size == 0 {
			continue
		}

		var (
			paddr uint32
			found bool
		)
		for _, prog := range f.Progs {
			if prog.Type != elf.PT_LOAD {
				continue
			}
			vaddrEnd := prog.Vaddr + prog.Memsz
			if sec.Addr >= prog.Vaddr && sec.Addr+sec.Size <= vaddrEnd {
				paddr = uint32(sec.Addr-prog.Vaddr) + uint32(prog.Paddr)
				found = true
				break
			}
		}
		if !found {
			return nil, &SegmentOutOfBounds{Section: sec.Name, Addr: sec.Addr, Size: sec.Size}
		}

		l := loadable{
			name:   sec.Name,
			paddr:  paddr,
			size:   uint32(sec.Size),
			write:  sec.Flags&elf.SHF_WRITE != 0,
			exec:   sec.Flags&elf.SHF_EXECINSTR != 0,
			noBits: sec.Type == elf.SHT_NOBITS,
		}
		if !l.noBits {
			data, err := sec.Data()
			if err != nil {
				return nil, &ElfParse{Err: err}
			}
			if l.exec {
				// Convert up front so size accounts for bytecode expansion:
				// a run of 2-byte compressed instructions occupies more
				// bytes once every instruction becomes a 4-byte word.
				converted, err := convertCode(data)
				if err != nil {
					return nil, err
				}
				data = converted
				l.size = uint32(len(converted))
			}
			l.data = data
		}
		out = append(out, l)
	}

	// Deterministic order keeps image layout stable across Go map-iteration
	// differences between debug/elf versions.
	sort.Slice(out, func(i, j int) bool { return out[i].paddr < out[j].paddr })
	return out, nil
}
