package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/embive/vm"
	"github.com/colorfulnotion/embive/vmlog"
	"github.com/spf13/cobra"
)

// Built-in syscall numbers for the run subcommand's scenario-style smoke
// tests: just enough of a host ABI to let a guest print output and report
// an exit code, not a general POSIX surface.
const (
	sysExit  = 1
	sysWrite = 2
)

// echoExitSyscall services sysExit/sysWrite against mem, writing to out.
// Any other syscall number reports ErrCode 1 to the guest rather than
// failing the host, matching the "unrecognized syscall is guest-visible,
// not fatal" posture §4.H's Config.SyscallFn doc describes.
func echoExitSyscall(out *os.File) vm.SyscallFunc {
	return func(nr int32, args [vm.SyscallArgs]int32, mem vm.Memory) (vm.SyscallOutcome, error) {
		switch nr {
		case sysExit:
			return vm.SyscallOutcome{Result: args[0]}, nil
		case sysWrite:
			addr, length := uint32(args[1]), uint32(args[2])
			for i := uint32(0); i < length; i++ {
				b, err := mem.Load(addr+i, 1)
				if err != nil {
					return vm.SyscallOutcome{ErrCode: 1}, nil
				}
				out.Write(b)
			}
			return vm.SyscallOutcome{Result: int32(length)}, nil
		default:
			return vm.SyscallOutcome{ErrCode: 1}, nil
		}
	}
}

func newRunCmd() *cobra.Command {
	var (
		instructionLimit uint32
		tracePath        string
		strictCSR        bool
	)

	cmd := &cobra.Command{
		Use:   "run <elf-or-image>",
		Short: "Load a RISC-V ELF or embive image and execute it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := loadAnyImage(args[0])
			if err != nil {
				return err
			}

			cfg := vm.DefaultConfig().
				WithEntryPoint(img.EntryPoint).
				WithInstructionLimit(instructionLimit).
				WithStrictCSR(strictCSR).
				WithSyscallFn(echoExitSyscall(os.Stdout))

			var tracer *vm.JSONLTracer
			if tracePath != "" {
				f, err := os.Create(tracePath)
				if err != nil {
					return err
				}
				defer f.Close()
				tracer = vm.NewJSONLTracer(f)
				defer tracer.Flush()
				cfg = cfg.WithTracer(tracer)
			}

			mem := vm.NewSliceMemory(img.Code, img.RAM)
			it := vm.NewInterpreter(mem, cfg)

			for {
				state, err := it.Run()
				if err != nil {
					return fmt.Errorf("run: %w", err)
				}
				switch state {
				case vm.Called:
					if err := it.Syscall(); err != nil {
						return fmt.Errorf("syscall: %w", err)
					}
					continue
				case vm.Halted:
					vmlog.Info(vmlog.Dispatch, "halted", "pc", it.PC(), "a0", it.Register(10))
					fmt.Printf("halted: pc=0x%x a0=%d\n", it.PC(), int32(it.Register(10)))
					return nil
				case vm.Waiting:
					fmt.Println("waiting on an external interrupt that will never arrive; stopping")
					return nil
				default:
					// Running: instruction budget was spent with no further
					// progress possible without more budget.
					fmt.Printf("instruction limit reached at pc=0x%x\n", it.PC())
					return nil
				}
			}
		},
	}
	cmd.Flags().Uint32Var(&instructionLimit, "instruction-limit", 0, "stop after N instructions (0 = unbounded)")
	cmd.Flags().StringVar(&tracePath, "trace", "", "write a JSONL execution trace to this path")
	cmd.Flags().BoolVar(&strictCSR, "strict-csr", false, "fault on unimplemented CSR access instead of lenient default")
	return cmd
}
