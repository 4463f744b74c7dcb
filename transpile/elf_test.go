package transpile

import (
	"testing"

	"github.com/colorfulnotion/embive/vm"
	"github.com/stretchr/testify/require"
)

func TestELFRoundTrip(t *testing.T) {
	// addi x1, x0, 5
	text := []byte{0x93, 0x00, 0x50, 0x00}
	data := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	raw := buildTestELF(text, data, 4, 0)

	img, err := ELF(raw)
	require.NoError(t, err)
	require.Equal(t, uint32(0), img.EntryPoint)
	require.Len(t, img.RAM, 8) // 4 bytes of .data + 4 bytes of .bss

	require.Equal(t, data, img.RAM[:4])
	require.Equal(t, []byte{0, 0, 0, 0}, img.RAM[4:8])

	mem := vm.NewSliceMemory(img.Code, img.RAM)
	it := vm.NewInterpreter(mem, vm.Config{})
	_, err = it.Run()
	require.Error(t, err) // runs off the end of a one-instruction image

	require.Equal(t, uint32(5), it.Register(1))
}

func TestELFRejectsWrongMachine(t *testing.T) {
	raw := buildTestELF([]byte{0x13, 0x00, 0x00, 0x00}, nil, 0, 0)
	raw[18] = 0x03 // corrupt e_machine low byte away from EM_RISCV

	_, err := ELF(raw)
	require.Error(t, err)
}

func TestELFZeroFillsBSSOnly(t *testing.T) {
	text := []byte{0x13, 0x00, 0x00, 0x00} // addi x0, x0, 0 (nop)
	raw := buildTestELF(text, nil, 16, 0)

	img, err := ELF(raw)
	require.NoError(t, err)
	require.Len(t, img.RAM, 16)
	for _, b := range img.RAM {
		require.Zero(t, b)
	}
}
