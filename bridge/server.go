package bridge

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/quic-go/quic-go"
)

const alpn = "embive-bridge/0"

// generateSelfSignedCert mints an ephemeral ed25519 certificate for the
// debug listener, the same shape as the teacher's node identity cert
// (node.go's generateSelfSignedCert) minus the SAN-pinning machinery: a
// debug bridge trusts whoever can reach its port, not a fixed validator
// set.
func generateSelfSignedCert() (tls.Certificate, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{Organization: []string{"embive debug bridge"}},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, pub, priv)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  priv,
	}, nil
}

// quicConfig mirrors the teacher's GenerateQuicConfig (node.go), trimmed of
// the qlog tracer and the very large idle budgets a validator-to-validator
// connection needs: a debug session is one operator, one short-lived
// stream.
func quicConfig() *quic.Config {
	return &quic.Config{
		KeepAlivePeriod:        1 * time.Second,
		MaxIdleTimeout:         30 * time.Second,
		MaxIncomingStreams:     16,
		MaxStreamReceiveWindow: 4 * 1024 * 1024,
	}
}

// Server accepts QUIC connections and serves each one's first stream as a
// Debugger control channel.
type Server struct {
	dbg *Debugger
	ln  *quic.Listener
}

// Listen binds addr with an ephemeral self-signed certificate.
func Listen(addr string, dbg *Debugger) (*Server, error) {
	cert, err := generateSelfSignedCert()
	if err != nil {
		return nil, err
	}
	tlsConf := &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{alpn},
	}
	ln, err := quic.ListenAddr(addr, tlsConf, quicConfig())
	if err != nil {
		return nil, err
	}
	return &Server{dbg: dbg, ln: ln}, nil
}

// Addr returns the listener's bound address.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Close shuts down the listener.
func (s *Server) Close() error { return s.ln.Close() }

// Serve accepts connections until ctx is canceled or Close is called.
func (s *Server) Serve(ctx context.Context) error {
	for {
		conn, err := s.ln.Accept(ctx)
		if err != nil {
			return err
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn quic.Connection) {
	stream, err := conn.AcceptStream(context.Background())
	if err != nil {
		return
	}
	defer stream.Close()
	s.handleStream(stream)
}

// handleStream runs the command loop for one control stream: read a
// Command frame, dispatch it against the Debugger, write back a Reply
// frame, repeat until the peer closes the stream. This is
// DispatchIncomingQUICStream's read-dispatch-reply shape (node/peer.go)
// narrowed to a single synchronous request/response channel instead of a
// fire-and-forget message switch.
func (s *Server) handleStream(stream io.ReadWriter) {
	for {
		var cmd Command
		if err := readFrame(stream, &cmd); err != nil {
			return
		}
		reply := s.dispatch(cmd)
		if err := writeFrame(stream, reply); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(cmd Command) Reply {
	switch cmd.Type {
	case CmdStep:
		state, err := s.dbg.Step()
		return stateReply(state, s.dbg.PC(), err)
	case CmdContinue:
		state, hit, err := s.dbg.Continue()
		if err != nil {
			return Reply{Type: ReplyError, Error: err.Error()}
		}
		if hit {
			return Reply{Type: ReplyBreakpointHit, Addr: s.dbg.PC()}
		}
		return stateReply(state, s.dbg.PC(), nil)
	case CmdReadRegisters:
		regs := s.dbg.ReadRegisters()
		return Reply{Type: ReplyRegisters, Registers: &regs, PC: s.dbg.PC()}
	case CmdWriteRegister:
		s.dbg.WriteRegister(cmd.Register, cmd.Value)
		return Reply{Type: ReplyState, State: "ok"}
	case CmdReadMemory:
		data, err := s.dbg.ReadMemory(cmd.Addr, cmd.Length)
		if err != nil {
			return Reply{Type: ReplyError, Error: err.Error()}
		}
		return Reply{Type: ReplyMemory, Addr: cmd.Addr, Data: data}
	case CmdWriteMemory:
		if err := s.dbg.WriteMemory(cmd.Addr, cmd.Data); err != nil {
			return Reply{Type: ReplyError, Error: err.Error()}
		}
		return Reply{Type: ReplyState, State: "ok"}
	case CmdSetBreakpoint:
		s.dbg.SetBreakpoint(cmd.Addr)
		return Reply{Type: ReplyState, State: "ok"}
	case CmdClearBreakpoint:
		s.dbg.ClearBreakpoint(cmd.Addr)
		return Reply{Type: ReplyState, State: "ok"}
	default:
		return Reply{Type: ReplyError, Error: fmt.Sprintf("unknown command %q", cmd.Type)}
	}
}

func stateReply(state interface{ String() string }, pc uint32, err error) Reply {
	if err != nil {
		return Reply{Type: ReplyError, Error: err.Error()}
	}
	return Reply{Type: ReplyState, State: state.String(), PC: pc}
}
