package sexpr

// Installer is the builtin-install seam: a derived interpreter supplies
// one (or several) to populate a scope with
// language-specific builtins beyond the core's own Let and Lambda. An
// Installer runs once per Evaluate/EvaluateNode call, at the scope the
// expression will be reduced in.
type Installer func(env *Environment)

// DebugAction is returned by a Debugger to tell the evaluator what to do
// after resuming from a pause, via this explicit hand-off rather than a
// polling point.
type DebugAction int

const (
	// DebugContinue resumes execution until the next breakpoint.
	DebugContinue DebugAction = iota
	// DebugStepInto pauses on the next OnEval call regardless of depth.
	DebugStepInto
	// DebugStepOver pauses on the next OnEval at the same or lesser depth.
	DebugStepOver
	// DebugStepOut pauses on the next OnEval at a lesser depth.
	DebugStepOut
)

// Debugger is called by the evaluator at key reduction points to support
// breakpoints, stepping, and inspection. When no Debugger is attached (the
// default), or an attached one reports IsEnabled() == false, none of these
// hooks are invoked and there is no overhead on the hot path -- callers
// should gate every call site with `d != nil && d.IsEnabled()`, which is
// exactly what the evaluator itself does.
type Debugger interface {
	// IsEnabled reports whether the debugger is actively debugging. A
	// dormant (attached but inactive) debugger returns false.
	IsEnabled() bool
	// OnEval is called before reducing any list node. It returns true if
	// the evaluator should pause (a breakpoint was hit, or a step completed).
	OnEval(env *Environment, expr Node) bool
	// WaitIfPaused blocks until the debugger allows execution to resume,
	// returning the action to take.
	WaitIfPaused(env *Environment, expr Node) DebugAction
	// OnFunEntry is called when a lambda-produced closure is entered, after
	// its formals have been bound in fnEnv.
	OnFunEntry(env, fnEnv *Environment, fn Node)
	// OnFunReturn is called after a lambda-produced closure returns.
	OnFunReturn(env *Environment, fn, result Node)
	// OnError is called when reduce resolves an unbound symbol to the
	// Unknown sentinel atom, the core's only non-panicking error-like
	// condition. It returns true if the evaluator should pause.
	OnError(env *Environment, errVal Node) bool
}

// Tracer instruments evaluation for observability without changing
// reduction semantics. StartEvaluate brackets one Evaluate/EvaluateNode call;
// StartDispatch brackets one builtin-dispatch resolution. Both return a
// function that ends the span/measurement.
type Tracer interface {
	StartEvaluate(env *Environment) func()
	StartDispatch(env *Environment, sym *Symbol) func()
}

// Config configures an Evaluator at construction time.
type Config func(*evalOptions)

type evalOptions struct {
	seed           []SeedEntry
	strictSeed     bool
	maxSteps       int64
	maxStackHeight int
	debugger       Debugger
	tracer         Tracer
	installers     []Installer
}

// WithSeed overrides the builtin literal table an Evaluator's
// SymbolProvider is seeded with. Pass HardenedSeed() for unguessable
// params/this literals.
func WithSeed(seed []SeedEntry, strict bool) Config {
	return func(o *evalOptions) {
		o.seed = seed
		o.strictSeed = strict
	}
}

// WithMaxSteps limits the number of reduce steps (one per atom or list
// reduced) an Evaluate/EvaluateNode call will perform before it panics
// with StepLimitExceeded. Zero (the default) means unlimited.
func WithMaxSteps(n int64) Config {
	return func(o *evalOptions) { o.maxSteps = n }
}

// WithMaxStackHeight limits the depth of nested reduce calls before the
// evaluator panics with StackLimitExceeded. Zero (the default) means
// unlimited (bounded only by the host goroutine stack).
func WithMaxStackHeight(n int) Config {
	return func(o *evalOptions) { o.maxStackHeight = n }
}

// WithDebugger attaches d to every Environment the evaluator constructs.
func WithDebugger(d Debugger) Config {
	return func(o *evalOptions) { o.debugger = d }
}

// WithTracer attaches t to instrument Evaluate calls and builtin dispatch.
func WithTracer(t Tracer) Config {
	return func(o *evalOptions) { o.tracer = t }
}

// WithInstaller registers fn to run against every fresh evaluation scope,
// in addition to the core's own Let/Lambda install step.
func WithInstaller(fn Installer) Config {
	return func(o *evalOptions) { o.installers = append(o.installers, fn) }
}

// StepLimitExceeded is panicked when a WithMaxSteps budget is exhausted.
// There is no handler-bind-style recovery mechanism in this core, so
// exhausting the budget is treated like any other invariant violation:
// fatal, not a returned value.
type StepLimitExceeded struct{ Limit int64 }

func (e StepLimitExceeded) Error() string {
	return "sexpr: exceeded maximum evaluation steps"
}

// StackLimitExceeded is panicked when a WithMaxStackHeight budget is
// exhausted, for the same reason as StepLimitExceeded.
type StackLimitExceeded struct{ Limit int }

func (e StackLimitExceeded) Error() string {
	return "sexpr: exceeded maximum reduction depth"
}
