package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/embive/tracediff"
	"github.com/spf13/cobra"
)

func newTraceDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace-diff <trace-a> <trace-b>",
		Short: "Compare two JSONL execution traces lockstep and report the first divergence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer a.Close()
			b, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer b.Close()

			div, err := tracediff.Compare(a, b)
			if err != nil {
				return fmt.Errorf("compare: %w", err)
			}
			if div == nil {
				fmt.Println("traces match")
				return nil
			}
			fmt.Println(div.String())
			return fmt.Errorf("traces diverge at line %d", div.Line)
		},
	}
	return cmd
}
