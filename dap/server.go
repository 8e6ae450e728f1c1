// Package dap implements a trimmed Debug Adapter Protocol server over a
// *debug.Engine: a ReadProtocolMessage/WriteProtocolMessage loop, a
// newResponse/newEvent sequence-number helper, and a type-switch
// dispatcher from dap.Message to per-request handlers.
package dap

import (
	"bufio"
	"io"
	"net"
	"sync"

	godap "github.com/google/go-dap"

	"github.com/sexprlang/sexpr"
	"github.com/sexprlang/sexpr/debug"
)

// Server serves a trimmed DAP request set over one client connection,
// wrapping a *debug.Engine.
type Server struct {
	engine *debug.Engine
	lines  []*sexpr.List

	mu     sync.Mutex
	seq    int
	writer io.Writer
	reader *bufio.Reader

	done chan struct{}
}

// New wraps engine, indexing root's list nodes so incoming DAP line
// numbers can be translated to breakpoint targets (see ListIndex).
func New(engine *debug.Engine, root sexpr.Node) *Server {
	return &Server{
		engine: engine,
		lines:  ListIndex(root),
		done:   make(chan struct{}),
	}
}

// ServeConn serves DAP messages on conn until it is closed or a disconnect
// request is received.
func (s *Server) ServeConn(conn io.ReadWriteCloser) error {
	defer conn.Close() //nolint:errcheck
	s.mu.Lock()
	s.writer = conn
	s.reader = bufio.NewReader(conn)
	s.mu.Unlock()
	return s.serve(newHandler(s, s.engine, s.lines))
}

// ServeTCP listens on addr and serves a single DAP client, blocking until
// it disconnects.
func (s *Server) ServeTCP(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close() //nolint:errcheck
	return s.ServeListener(ln)
}

// ServeListener accepts one connection from ln and serves DAP on it.
func (s *Server) ServeListener(ln net.Listener) error {
	conn, err := ln.Accept()
	if err != nil {
		return err
	}
	return s.ServeConn(conn)
}

// ServeStdio serves DAP messages over r/w, for "run as a child process"
// launch mode (editors spawning `sexpr debug --stdio`).
func (s *Server) ServeStdio(r io.Reader, w io.Writer) error {
	s.mu.Lock()
	s.writer = w
	s.reader = bufio.NewReader(r)
	s.mu.Unlock()
	return s.serve(newHandler(s, s.engine, s.lines))
}

func (s *Server) serve(h *handler) error {
	for {
		select {
		case <-s.done:
			return nil
		default:
		}
		msg, err := godap.ReadProtocolMessage(s.reader)
		if err != nil {
			select {
			case <-s.done:
				return nil
			default:
				if err == io.EOF {
					return nil
				}
				return err
			}
		}
		h.handle(msg)
	}
}

func (s *Server) send(msg godap.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return godap.WriteProtocolMessage(s.writer, msg)
}

// NotifyExit sends an ExitedEvent followed by a TerminatedEvent, for a
// program that ran to completion on its own rather than via a client
// Disconnect request.
func (s *Server) NotifyExit(exitCode int) error {
	if err := s.send(&godap.ExitedEvent{
		Event: godap.Event{ProtocolMessage: godap.ProtocolMessage{Seq: s.nextSeq(), Type: "event"}, Event: "exited"},
		Body:  godap.ExitedEventBody{ExitCode: exitCode},
	}); err != nil {
		return err
	}
	return s.send(&godap.TerminatedEvent{
		Event: godap.Event{ProtocolMessage: godap.ProtocolMessage{Seq: s.nextSeq(), Type: "event"}, Event: "terminated"},
	})
}

func (s *Server) nextSeq() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (s *Server) close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
