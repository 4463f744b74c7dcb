// Command embivesim transpiles, runs and inspects RISC-V guest images
// against the embive bytecode interpreter: transpile, run, monitor, dump
// and trace-diff subcommands, following the one-binary-many-subcommands
// shape of the teacher's cobra-based cmd/* tools.
package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/embive/vmlog"
	"github.com/spf13/cobra"
)

func main() {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "embivesim",
		Short: "Transpile, run and debug RISC-V guest images on the embive VM",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return vmlog.InitLogger(logLevel)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error, crit")

	rootCmd.AddCommand(
		newTranspileCmd(),
		newRunCmd(),
		newMonitorCmd(),
		newDumpCmd(),
		newTraceDiffCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
