package dap

import (
	"log"
	"strconv"
	"sync"

	godap "github.com/google/go-dap"

	"github.com/sexprlang/sexpr"
	"github.com/sexprlang/sexpr/debug"
)

// sexprThreadID is the single thread ID reported to the client: evaluation
// here runs on one goroutine, so there is never more than one thread to
// describe.
const sexprThreadID = 1

// handler dispatches incoming DAP messages to per-request methods, trimmed
// to the request set this core's Engine can actually serve: initialize,
// setBreakpoints, configurationDone, threads, stackTrace, continue, next,
// stepIn, disconnect.
type handler struct {
	server *Server
	engine *debug.Engine
	lines  []*sexpr.List

	mu          sync.Mutex
	initialized bool
}

func newHandler(s *Server, e *debug.Engine, lines []*sexpr.List) *handler {
	h := &handler{server: s, engine: e, lines: lines}
	e.SetEventCallback(func(evt debug.Event) {
		if evt.Type == debug.EventStopped {
			h.sendStoppedEvent(evt.Reason)
		}
	})
	return h
}

func (h *handler) send(msg godap.Message) {
	if err := h.server.send(msg); err != nil {
		log.Printf("dap: send error: %v", err)
	}
}

func (h *handler) handle(msg godap.Message) {
	switch req := msg.(type) {
	case *godap.InitializeRequest:
		h.onInitialize(req)
	case *godap.SetBreakpointsRequest:
		h.onSetBreakpoints(req)
	case *godap.ConfigurationDoneRequest:
		h.onConfigurationDone(req)
	case *godap.ThreadsRequest:
		h.onThreads(req)
	case *godap.StackTraceRequest:
		h.onStackTrace(req)
	case *godap.ContinueRequest:
		h.onContinue(req)
	case *godap.NextRequest:
		h.onNext(req)
	case *godap.StepInRequest:
		h.onStepIn(req)
	case *godap.DisconnectRequest:
		h.onDisconnect(req)
	default:
		log.Printf("dap: unhandled message type: %T", msg)
	}
}

func (h *handler) onInitialize(req *godap.InitializeRequest) {
	h.mu.Lock()
	h.initialized = true
	h.mu.Unlock()

	resp := &godap.InitializeResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	resp.Body = godap.Capabilities{
		SupportsConfigurationDoneRequest: true,
		SupportTerminateDebuggee:         true,
	}
	h.send(resp)
	h.send(&godap.InitializedEvent{Event: h.newEvent("initialized")})
}

// onSetBreakpoints treats each requested line as a 1-based index into the
// server's list index (see ListIndex) rather than a source line, since
// this core's Nodes carry no source position.
func (h *handler) onSetBreakpoints(req *godap.SetBreakpointsRequest) {
	h.engine.Breakpoints().Clear()

	result := make([]godap.Breakpoint, len(req.Arguments.Breakpoints))
	for i, reqBP := range req.Arguments.Breakpoints {
		line := reqBP.Line
		if line < 1 || line > len(h.lines) {
			result[i] = godap.Breakpoint{Verified: false, Line: line}
			continue
		}
		bp := h.engine.Breakpoints().Set(h.lines[line-1], nil)
		result[i] = godap.Breakpoint{Id: bp.ID, Verified: true, Line: line}
	}

	resp := &godap.SetBreakpointsResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	resp.Body.Breakpoints = result
	h.send(resp)
}

func (h *handler) onConfigurationDone(req *godap.ConfigurationDoneRequest) {
	h.engine.Enable()
	resp := &godap.ConfigurationDoneResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	h.send(resp)
}

func (h *handler) onThreads(req *godap.ThreadsRequest) {
	resp := &godap.ThreadsResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	resp.Body.Threads = []godap.Thread{{Id: sexprThreadID, Name: "sexpr main"}}
	h.send(resp)
}

// onStackTrace reports one synthetic frame per level of call depth the
// engine is currently paused at. This core has no call-stack of named
// frames (Environment tracks lexical parents, not call sites), so frames
// here are unlabeled depth markers rather than named functions.
func (h *handler) onStackTrace(req *godap.StackTraceRequest) {
	resp := &godap.StackTraceResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)

	_, _, paused := h.engine.PausedState()
	if !paused {
		h.send(resp)
		return
	}

	depth := h.engine.Depth()
	frames := make([]godap.StackFrame, 0, depth+1)
	for i := 0; i <= depth; i++ {
		frames = append(frames, godap.StackFrame{
			Id:   i + 1,
			Name: frameName(depth - i),
		})
	}
	resp.Body.StackFrames = frames
	resp.Body.TotalFrames = len(frames)
	h.send(resp)
}

func frameName(depth int) string {
	if depth == 0 {
		return "top"
	}
	return "call depth " + strconv.Itoa(depth)
}

func (h *handler) onContinue(req *godap.ContinueRequest) {
	resp := &godap.ContinueResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	resp.Body.AllThreadsContinued = true
	h.send(resp)
	h.engine.Continue()
}

func (h *handler) onNext(req *godap.NextRequest) {
	resp := &godap.NextResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	h.send(resp)
	h.engine.StepOver()
}

func (h *handler) onStepIn(req *godap.StepInRequest) {
	resp := &godap.StepInResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	h.send(resp)
	h.engine.StepInto()
}

func (h *handler) onDisconnect(req *godap.DisconnectRequest) {
	resp := &godap.DisconnectResponse{}
	resp.Response = h.newResponse(req.Seq, req.Command)
	h.send(resp)

	h.engine.Disconnect()
	h.send(&godap.TerminatedEvent{Event: h.newEvent("terminated")})
	h.server.close()
}

func (h *handler) sendStoppedEvent(reason debug.StopReason) {
	evt := &godap.StoppedEvent{Event: h.newEvent("stopped")}
	evt.Body.Reason = stopReasonString(reason)
	evt.Body.ThreadId = sexprThreadID
	evt.Body.AllThreadsStopped = true
	h.send(evt)
}

func stopReasonString(r debug.StopReason) string {
	switch r {
	case debug.StopBreakpoint:
		return "breakpoint"
	case debug.StopStep:
		return "step"
	case debug.StopPauseRequest:
		return "pause"
	case debug.StopEntry:
		return "entry"
	default:
		return "unknown"
	}
}

func (h *handler) newResponse(reqSeq int, command string) godap.Response {
	return godap.Response{
		ProtocolMessage: godap.ProtocolMessage{Seq: h.server.nextSeq(), Type: "response"},
		RequestSeq:      reqSeq,
		Success:         true,
		Command:         command,
	}
}

func (h *handler) newEvent(event string) godap.Event {
	return godap.Event{
		ProtocolMessage: godap.ProtocolMessage{Seq: h.server.nextSeq(), Type: "event"},
		Event:           event,
	}
}
