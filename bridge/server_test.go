package bridge

import (
	"net"
	"testing"

	"github.com/colorfulnotion/embive/riscv"
	"github.com/colorfulnotion/embive/vm"
	"github.com/stretchr/testify/require"
)

// newTestServer hands back a Server plus one half of a net.Pipe, so the
// command loop can be exercised without standing up a real QUIC listener.
func newTestServer(t *testing.T) (*Server, net.Conn) {
	t.Helper()
	code := encode(t,
		riscv.Instruction{Op: riscv.OpOpImm, Rd: 1, Rs1: 0, Imm: 7, Funct3: riscv.AddiFunc},
		riscv.Instruction{Op: riscv.OpSystemMiscMem, Imm: riscv.EbreakImm},
	)
	mem := vm.NewSliceMemory(code, make([]byte, 64))
	it := vm.NewInterpreter(mem, vm.DefaultConfig())
	dbg := NewDebugger(it, mem)

	client, srv := net.Pipe()
	s := &Server{dbg: dbg}
	go s.handleStream(srv)
	t.Cleanup(func() { client.Close() })
	return s, client
}

func TestServerDispatchStep(t *testing.T) {
	_, conn := newTestServer(t)

	require.NoError(t, writeFrame(conn, Command{Type: CmdStep}))
	var reply Reply
	require.NoError(t, readFrame(conn, &reply))
	require.Equal(t, ReplyState, reply.Type)
	require.Equal(t, "running", reply.State)
	require.Equal(t, uint32(4), reply.PC)
}

func TestServerDispatchReadRegisters(t *testing.T) {
	_, conn := newTestServer(t)

	require.NoError(t, writeFrame(conn, Command{Type: CmdStep}))
	var stepReply Reply
	require.NoError(t, readFrame(conn, &stepReply))

	require.NoError(t, writeFrame(conn, Command{Type: CmdReadRegisters}))
	var reply Reply
	require.NoError(t, readFrame(conn, &reply))
	require.Equal(t, ReplyRegisters, reply.Type)
	require.NotNil(t, reply.Registers)
	require.Equal(t, uint32(7), reply.Registers[1])
}

func TestServerDispatchBreakpointThenContinueHalts(t *testing.T) {
	_, conn := newTestServer(t)

	require.NoError(t, writeFrame(conn, Command{Type: CmdSetBreakpoint, Addr: 4}))
	var ack Reply
	require.NoError(t, readFrame(conn, &ack))
	require.Equal(t, ReplyState, ack.Type)

	require.NoError(t, writeFrame(conn, Command{Type: CmdContinue}))
	var hit Reply
	require.NoError(t, readFrame(conn, &hit))
	require.Equal(t, ReplyBreakpointHit, hit.Type)
	require.Equal(t, uint32(4), hit.Addr)

	require.NoError(t, writeFrame(conn, Command{Type: CmdContinue}))
	var final Reply
	require.NoError(t, readFrame(conn, &final))
	require.Equal(t, ReplyState, final.Type)
	require.Equal(t, "halted", final.State)
}

func TestServerDispatchUnknownCommand(t *testing.T) {
	_, conn := newTestServer(t)

	require.NoError(t, writeFrame(conn, Command{Type: "bogus"}))
	var reply Reply
	require.NoError(t, readFrame(conn, &reply))
	require.Equal(t, ReplyError, reply.Type)
}
