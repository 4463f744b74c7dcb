package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/colorfulnotion/embive/transpile"
)

// imageMagic tags a pre-transpiled image file saved by the transpile
// subcommand and reloaded by run/monitor/dump, so they don't have to
// re-run ELF parsing and PC-relative remap on every invocation. There is
// no ecosystem serialization library in the retrieved pack aimed at a
// bespoke two-region (code/RAM) container like this one, so the format is
// a small hand-rolled binary.Write/Read layout (see DESIGN.md).
var imageMagic = [4]byte{'E', 'M', 'B', 'V'}

func saveImage(path string, img *transpile.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(imageMagic[:]); err != nil {
		return err
	}
	for _, v := range []uint32{img.EntryPoint, uint32(len(img.Code))} {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	if _, err := f.Write(img.Code); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(img.RAM))); err != nil {
		return err
	}
	_, err = f.Write(img.RAM)
	return err
}

func loadImage(path string) (*transpile.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return nil, err
	}
	if magic != imageMagic {
		return nil, fmt.Errorf("%s: not an embive image", path)
	}

	var entry, codeLen uint32
	if err := binary.Read(f, binary.LittleEndian, &entry); err != nil {
		return nil, err
	}
	if err := binary.Read(f, binary.LittleEndian, &codeLen); err != nil {
		return nil, err
	}
	code := make([]byte, codeLen)
	if _, err := io.ReadFull(f, code); err != nil {
		return nil, err
	}

	var ramLen uint32
	if err := binary.Read(f, binary.LittleEndian, &ramLen); err != nil {
		return nil, err
	}
	ram := make([]byte, ramLen)
	if _, err := io.ReadFull(f, ram); err != nil {
		return nil, err
	}

	return &transpile.Image{Code: code, RAM: ram, EntryPoint: entry}, nil
}

// loadAnyImage accepts either a raw ELF or a previously-saved embive image,
// distinguishing them by magic number without needing a flag.
func loadAnyImage(path string) (*transpile.Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) >= 4 && [4]byte(raw[:4]) == imageMagic {
		return loadImage(path)
	}
	return transpile.ELF(raw)
}
