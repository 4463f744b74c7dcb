package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/embive/transpile"
	"github.com/colorfulnotion/embive/vmlog"
	"github.com/spf13/cobra"
)

func newTranspileCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "transpile <elf>",
		Short: "Transpile a RISC-V ELF binary into an embive bytecode image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			img, err := transpile.ELF(raw)
			if err != nil {
				return fmt.Errorf("transpile: %w", err)
			}
			vmlog.Info(vmlog.Transpile, "transpiled image",
				"input", args[0], "codeBytes", len(img.Code), "ramBytes", len(img.RAM), "entry", img.EntryPoint)

			if out == "" {
				out = args[0] + ".embv"
			}
			if err := saveImage(out, img); err != nil {
				return err
			}
			fmt.Printf("wrote %s (code=%d bytes, ram=%d bytes, entry=0x%x)\n", out, len(img.Code), len(img.RAM), img.EntryPoint)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default: <input>.embv)")
	return cmd
}
