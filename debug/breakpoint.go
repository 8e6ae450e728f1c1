package debug

import (
	"sync"

	"github.com/sexprlang/sexpr"
)

// Breakpoint pauses evaluation when its node is reduced. This core's Node
// tree carries no source position, so a Breakpoint is keyed by the
// *sexpr.List pointer itself -- the one thing that is both unique per
// source subexpression and stable for the whole lifetime of a parsed
// tree, since reduceList mutates a list's items in place rather than
// replacing the list node.
type Breakpoint struct {
	ID int

	// Condition, if set, gates the breakpoint: it only fires when Condition
	// returns true. A nil Condition always fires. This core has no
	// surface-syntax expression evaluator exposed at the Breakpoint layer,
	// so Condition is a plain predicate -- callers that want a
	// sexpr-language condition can close over an Evaluator and Tokenize it
	// themselves.
	Condition func(env *sexpr.Environment, expr sexpr.Node) bool

	Enabled bool

	hits int
}

// Hits reports how many times this breakpoint has fired.
func (b *Breakpoint) Hits() int {
	return b.hits
}

// ExceptionBreakMode controls when Engine.OnError pauses evaluation.
type ExceptionBreakMode int

const (
	// ExceptionBreakNever never pauses on an error-like condition.
	ExceptionBreakNever ExceptionBreakMode = iota
	// ExceptionBreakAll pauses on every error-like condition.
	ExceptionBreakAll
)

// BreakpointStore is a concurrency-safe set of breakpoints keyed by list
// node identity, guarded by a RWMutex.
type BreakpointStore struct {
	mu             sync.RWMutex
	byNode         map[*sexpr.List]*Breakpoint
	nextID         int
	exceptionBreak ExceptionBreakMode
}

// SetExceptionBreak sets the exception breakpoint mode that Engine.OnError
// consults.
func (s *BreakpointStore) SetExceptionBreak(mode ExceptionBreakMode) {
	s.mu.Lock()
	s.exceptionBreak = mode
	s.mu.Unlock()
}

// ExceptionBreak returns the current exception breakpoint mode.
func (s *BreakpointStore) ExceptionBreak() ExceptionBreakMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exceptionBreak
}

// NewBreakpointStore returns an empty store.
func NewBreakpointStore() *BreakpointStore {
	return &BreakpointStore{byNode: make(map[*sexpr.List]*Breakpoint)}
}

// Set installs or replaces the breakpoint on node, enabled, with the given
// condition.
func (s *BreakpointStore) Set(node *sexpr.List, condition func(*sexpr.Environment, sexpr.Node) bool) *Breakpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	bp := &Breakpoint{ID: s.nextID, Condition: condition, Enabled: true}
	s.byNode[node] = bp
	return bp
}

// Remove deletes the breakpoint on node, if any.
func (s *BreakpointStore) Remove(node *sexpr.List) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byNode, node)
}

// Clear removes every breakpoint, used when a DAP client resends a full
// setBreakpoints request.
func (s *BreakpointStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byNode = make(map[*sexpr.List]*Breakpoint)
}

// Match returns the breakpoint attached to expr, if expr is a *List with
// an enabled breakpoint whose condition (if any) is satisfied. It also
// increments the breakpoint's hit count on a match, before the caller
// decides whether to actually pause (log points keep running after a
// "hit").
func (s *BreakpointStore) Match(env *sexpr.Environment, expr sexpr.Node) *Breakpoint {
	list, ok := expr.(*sexpr.List)
	if !ok {
		return nil
	}
	s.mu.RLock()
	bp, found := s.byNode[list]
	s.mu.RUnlock()
	if !found || !bp.Enabled {
		return nil
	}
	if bp.Condition != nil && !bp.Condition(env, expr) {
		return nil
	}
	s.mu.Lock()
	bp.hits++
	s.mu.Unlock()
	return bp
}

// All returns every breakpoint currently installed, in no particular
// order.
func (s *BreakpointStore) All() []*Breakpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Breakpoint, 0, len(s.byNode))
	for _, bp := range s.byNode {
		out = append(out, bp)
	}
	return out
}
