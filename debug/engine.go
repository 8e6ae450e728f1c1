// Package debug implements sexpr.Debugger: breakpoints keyed by list-node
// identity and depth-based stepping, adapted to a core that carries no
// source positions on its Nodes.
package debug

import (
	"sync"

	"github.com/sexprlang/sexpr"
)

// EventType names the kind of Event delivered through an EventCallback.
type EventType int

const (
	// EventStopped is delivered when evaluation pauses.
	EventStopped EventType = iota
	// EventContinued is delivered when a paused evaluation resumes.
	EventContinued
	// EventExited is delivered once, when the engine is disconnected.
	EventExited
)

// StopReason explains why EventStopped fired.
type StopReason int

const (
	StopBreakpoint StopReason = iota
	StopStep
	StopPauseRequest
	StopEntry
	StopException
)

// Event is delivered synchronously, on the evaluating goroutine, so an
// EventCallback must not block waiting on that same goroutine to resume --
// that is what WaitIfPaused's channel hand-off is for.
type Event struct {
	Type   EventType
	Reason StopReason
	Env    *sexpr.Environment
	Expr   sexpr.Node
}

// EventCallback receives debugger events. It is invoked on the evaluating
// goroutine and must return promptly.
type EventCallback func(Event)

// Engine implements sexpr.Debugger. It is safe for concurrent use: OnEval
// and OnFunEntry/OnFunReturn are called from the evaluating goroutine,
// while Resume/StepInto/.../RequestPause are typically called from a
// separate goroutine serving a REPL command or a DAP request.
type Engine struct {
	mu sync.Mutex

	enabled     bool
	breakpoints *BreakpointStore
	stepper     *Stepper
	depth       int

	stopOnEntry   bool
	enteredOnce   bool
	pauseReq      bool
	pendingReason StopReason

	paused     bool
	pausedEnv  *sexpr.Environment
	pausedExpr sexpr.Node

	onEvent EventCallback
	pauseCh chan sexpr.DebugAction
	readyCh chan struct{}
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithEventCallback registers fn to receive Stopped/Continued/Exited
// events.
func WithEventCallback(fn EventCallback) Option {
	return func(e *Engine) { e.onEvent = fn }
}

// SetEventCallback replaces the engine's event callback after
// construction, for a caller (the dap package's handler) that is built
// from an already-constructed Engine.
func (e *Engine) SetEventCallback(fn EventCallback) {
	e.mu.Lock()
	e.onEvent = fn
	e.mu.Unlock()
}

// Depth returns the engine's current call depth, as tracked by
// OnFunEntry/OnFunReturn.
func (e *Engine) Depth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.depth
}

// PausedState returns the environment and expression evaluation is
// currently paused at, and whether it is paused at all. The dap package's
// stackTrace handler uses it to tell whether evaluation is paused.
func (e *Engine) PausedState() (*sexpr.Environment, sexpr.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pausedEnv, e.pausedExpr, e.paused
}

// WithStopOnEntry arms a synthetic pause on the first OnEval call after
// the engine is enabled, matching a DAP client's "stopOnEntry" launch
// argument.
func WithStopOnEntry() Option {
	return func(e *Engine) { e.stopOnEntry = true }
}

// New returns a disabled Engine. Call Enable before attaching it with
// sexpr.WithDebugger, or leave it disabled to cost nothing on the hot
// path.
func New(opts ...Option) *Engine {
	e := &Engine{
		breakpoints: NewBreakpointStore(),
		stepper:     NewStepper(),
		pauseCh:     make(chan sexpr.DebugAction),
		readyCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Breakpoints returns the engine's breakpoint set.
func (e *Engine) Breakpoints() *BreakpointStore {
	return e.breakpoints
}

// Enable turns on debugging. Evaluation is unaffected until the Evaluator
// that was constructed with WithDebugger(e) runs.
func (e *Engine) Enable() {
	e.mu.Lock()
	e.enabled = true
	e.mu.Unlock()
}

// Disable turns off debugging; OnEval will report false unconditionally
// until Enable is called again.
func (e *Engine) Disable() {
	e.mu.Lock()
	e.enabled = false
	e.mu.Unlock()
}

// IsEnabled implements sexpr.Debugger.
func (e *Engine) IsEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// SignalReady marks the engine ready to accept Resume/Step calls, letting
// a caller that races engine construction against a client's first
// command block on ReadyCh instead of polling.
func (e *Engine) SignalReady() {
	select {
	case <-e.readyCh:
	default:
		close(e.readyCh)
	}
}

// ReadyCh returns the channel SignalReady closes.
func (e *Engine) ReadyCh() <-chan struct{} {
	return e.readyCh
}

// RequestPause arranges for the next OnEval call to pause unconditionally,
// regardless of breakpoints or the current step. It is how an
// asynchronous "pause" command (DAP's pause request, or a REPL Ctrl-C) is
// implemented.
func (e *Engine) RequestPause() {
	e.mu.Lock()
	e.pauseReq = true
	e.mu.Unlock()
}

// OnEval implements sexpr.Debugger. It reports whether expr should cause
// evaluation to pause: a stop-on-entry request, an explicit pause request,
// a matched breakpoint, or a satisfied step. The reason it decided to
// pause is cached for WaitIfPaused to report, since by the time
// WaitIfPaused runs the pauseReq/breakpoint-hit state that justified the
// pause may have already been cleared or re-matched differently.
func (e *Engine) OnEval(env *sexpr.Environment, expr sexpr.Node) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		return false
	}
	if !e.enteredOnce {
		e.enteredOnce = true
		if e.stopOnEntry {
			e.pendingReason = StopEntry
			return true
		}
	}
	if e.pauseReq {
		e.pendingReason = StopPauseRequest
		return true
	}
	if bp := e.breakpoints.Match(env, expr); bp != nil {
		e.pendingReason = StopBreakpoint
		return true
	}
	if e.stepper.ShouldPause(e.depth) {
		e.pendingReason = StopStep
		return true
	}
	return false
}

// WaitIfPaused implements sexpr.Debugger. It notifies the registered
// EventCallback that evaluation has stopped, blocks on pauseCh until a
// Resume/StepInto/StepOver/StepOut call sends an action, arms the
// corresponding step, and notifies the callback that evaluation is
// continuing.
func (e *Engine) WaitIfPaused(env *sexpr.Environment, expr sexpr.Node) sexpr.DebugAction {
	e.mu.Lock()
	reason := e.pendingReason
	e.pauseReq = false
	depth := e.depth
	cb := e.onEvent
	e.paused = true
	e.pausedEnv = env
	e.pausedExpr = expr
	e.mu.Unlock()

	if cb != nil {
		cb(Event{Type: EventStopped, Reason: reason, Env: env, Expr: expr})
	}

	action := <-e.pauseCh

	e.mu.Lock()
	e.paused = false
	e.pausedEnv = nil
	e.pausedExpr = nil
	switch action {
	case sexpr.DebugContinue:
		e.stepper.Reset()
	case sexpr.DebugStepInto:
		e.stepper.SetStepInto(depth)
	case sexpr.DebugStepOver:
		e.stepper.SetStepOver(depth)
	case sexpr.DebugStepOut:
		e.stepper.SetStepOut(depth)
	}
	e.mu.Unlock()

	if cb != nil {
		cb(Event{Type: EventContinued, Env: env, Expr: expr})
	}
	return action
}

// OnError implements sexpr.Debugger. It reports whether evaluation should
// pause on errVal, the core's only non-panicking error-like condition (an
// unresolved symbol resolved to the Unknown atom in eval.go's reduce). Gated
// by the breakpoint store's exception-break mode rather than by breakpoint
// matching, since an error value carries no list identity to key a
// breakpoint on.
func (e *Engine) OnError(env *sexpr.Environment, errVal sexpr.Node) bool {
	if e.breakpoints.ExceptionBreak() != ExceptionBreakAll {
		return false
	}
	e.mu.Lock()
	e.pendingReason = StopException
	e.mu.Unlock()
	return true
}

// OnFunEntry implements sexpr.Debugger, deepening the call-depth counter
// that Stepper's StepOver/StepOut decisions are based on.
func (e *Engine) OnFunEntry(env, fnEnv *sexpr.Environment, fn sexpr.Node) {
	e.mu.Lock()
	e.depth++
	e.mu.Unlock()
}

// OnFunReturn implements sexpr.Debugger, undoing the increment OnFunEntry
// made for the returning call.
func (e *Engine) OnFunReturn(env *sexpr.Environment, fn, result sexpr.Node) {
	e.mu.Lock()
	if e.depth > 0 {
		e.depth--
	}
	e.mu.Unlock()
}

// Resume sends action to a goroutine blocked in WaitIfPaused. It blocks
// until a goroutine in WaitIfPaused receives the action; callers that cannot guarantee that
// should check IsPaused-style state themselves (the dap and repl packages
// only call Resume in response to an event that told them the engine is
// stopped).
func (e *Engine) Resume(action sexpr.DebugAction) {
	e.pauseCh <- action
}

// Continue resumes until the next breakpoint or pause request.
func (e *Engine) Continue() { e.Resume(sexpr.DebugContinue) }

// StepInto resumes, pausing again on the very next evaluation.
func (e *Engine) StepInto() { e.Resume(sexpr.DebugStepInto) }

// StepOver resumes, pausing again on the next evaluation at the current
// call depth or shallower, skipping over nested calls.
func (e *Engine) StepOver() { e.Resume(sexpr.DebugStepOver) }

// StepOut resumes, pausing again only once the current function call has
// returned to its caller.
func (e *Engine) StepOut() { e.Resume(sexpr.DebugStepOut) }

// Disconnect disables the engine and notifies the EventCallback that the
// debugging session has ended.
func (e *Engine) Disconnect() {
	e.Disable()
	e.mu.Lock()
	cb := e.onEvent
	e.mu.Unlock()
	if cb != nil {
		cb(Event{Type: EventExited})
	}
}
