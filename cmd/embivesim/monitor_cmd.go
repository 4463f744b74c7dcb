package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/colorfulnotion/embive/bridge"
	"github.com/colorfulnotion/embive/vm"
	"github.com/colorfulnotion/embive/vmlog"
	"github.com/spf13/cobra"
)

func newMonitorCmd() *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "monitor <elf-or-image>",
		Short: "Interactively step a guest image (step/continue/registers/breakpoints)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := loadAnyImage(args[0])
			if err != nil {
				return err
			}
			mem := vm.NewSliceMemory(img.Code, img.RAM)
			cfg := vm.DefaultConfig().WithEntryPoint(img.EntryPoint)
			it := vm.NewInterpreter(mem, cfg)
			dbg := bridge.NewDebugger(it, mem)

			if listenAddr != "" {
				srv, err := bridge.Listen(listenAddr, dbg)
				if err != nil {
					return fmt.Errorf("bridge listen: %w", err)
				}
				defer srv.Close()
				vmlog.Info(vmlog.Monitor, "bridge listening", "addr", srv.Addr())
				go func() {
					if err := srv.Serve(context.Background()); err != nil {
						vmlog.Warn(vmlog.Monitor, "bridge serve stopped", "err", err)
					}
				}()
			}

			return runMonitorREPL(dbg)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", "", "also accept remote control connections on this QUIC address")
	return cmd
}

// runMonitorREPL is the interactive loop: no prior shell existed in the
// teacher's own commands (only network servers), so this is new code
// following the teacher's plain stdout-printf idiom (fmt.Printf status
// lines rather than a TUI), wired to chzyer/readline for line editing.
func runMonitorREPL(dbg *bridge.Debugger) error {
	rl, err := readline.New("(embivesim) ")
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("embivesim monitor — step, continue, regs, break <addr>, clear <addr>, mem <addr> <len>, quit")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "step", "s":
			state, err := dbg.Step()
			printStepResult(state, dbg.PC(), err)
		case "continue", "c":
			state, hit, err := dbg.Continue()
			if err != nil {
				fmt.Printf("error: %v\n", err)
			} else if hit {
				fmt.Printf("breakpoint hit at pc=0x%x\n", dbg.PC())
			} else {
				printStepResult(state, dbg.PC(), nil)
			}
		case "regs", "r":
			regs := dbg.ReadRegisters()
			for i, v := range regs {
				fmt.Printf("x%-2d = 0x%08x  ", i, v)
				if i%4 == 3 {
					fmt.Println()
				}
			}
			fmt.Printf("pc  = 0x%08x\n", dbg.PC())
		case "break", "b":
			addr, ok := parseAddr(fields)
			if !ok {
				fmt.Println("usage: break <hex-or-decimal-addr>")
				continue
			}
			dbg.SetBreakpoint(addr)
			fmt.Printf("breakpoint set at 0x%x\n", addr)
		case "clear":
			addr, ok := parseAddr(fields)
			if !ok {
				fmt.Println("usage: clear <hex-or-decimal-addr>")
				continue
			}
			dbg.ClearBreakpoint(addr)
			fmt.Printf("breakpoint cleared at 0x%x\n", addr)
		case "mem", "m":
			if len(fields) != 3 {
				fmt.Println("usage: mem <addr> <length>")
				continue
			}
			addr, ok := parseAddr(fields)
			length, err := strconv.ParseUint(fields[2], 0, 32)
			if !ok || err != nil {
				fmt.Println("usage: mem <addr> <length>")
				continue
			}
			data, err := dbg.ReadMemory(addr, uint32(length))
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Printf("% x\n", data)
		case "quit", "q", "exit":
			return nil
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func parseAddr(fields []string) (uint32, bool) {
	if len(fields) < 2 {
		return 0, false
	}
	v, err := strconv.ParseUint(fields[1], 0, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func printStepResult(state vm.State, pc uint32, err error) {
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("%s pc=0x%x\n", state, pc)
}
