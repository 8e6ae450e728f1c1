package sexpr

// Evaluator reduces S-expressions under lexical scoping. A single
// Evaluator owns one SymbolProvider for its whole lifetime and
// installs Let and Lambda -- plus any Installer supplied via
// WithInstaller -- into every fresh evaluation scope it creates.
type Evaluator struct {
	provider   *SymbolProvider
	installers []Installer

	maxSteps       int64
	steps          int64
	maxStackHeight int
	depth          int

	debugger Debugger
	tracer   Tracer

	unknownSym *Symbol
	openSym    *Symbol
	closeSym   *Symbol
	quoteSym   *Symbol
	paramsSym  *Symbol
	thisSym    *Symbol
	letSym     *Symbol
	lambdaSym  *Symbol
}

// NewEvaluator constructs an Evaluator. With no options it seeds a fresh
// SymbolProvider with DefaultSeed() in strict mode.
func NewEvaluator(opts ...Config) *Evaluator {
	o := &evalOptions{seed: DefaultSeed(), strictSeed: true}
	for _, fn := range opts {
		fn(o)
	}
	ev := &Evaluator{
		provider:       NewSeededSymbolProvider(o.seed, o.strictSeed),
		installers:     o.installers,
		maxSteps:       o.maxSteps,
		maxStackHeight: o.maxStackHeight,
		debugger:       o.debugger,
		tracer:         o.tracer,
	}
	// Resolve the eight reserved symbols by their position in the seed
	// table (order: Unknown, Open, Close, Quote, Params, This, Let, Lambda)
	// rather than by hardcoded literal text, so a hardened seed's
	// unguessable params/this literals still resolve correctly.
	seed := o.seed
	ev.unknownSym = ev.symbolAtSeedPosition(seed, 0, "")
	ev.openSym = ev.symbolAtSeedPosition(seed, 1, "(")
	ev.closeSym = ev.symbolAtSeedPosition(seed, 2, ")")
	ev.quoteSym = ev.symbolAtSeedPosition(seed, 3, "`")
	ev.paramsSym = ev.symbolAtSeedPosition(seed, 4, "params")
	ev.thisSym = ev.symbolAtSeedPosition(seed, 5, "this")
	ev.letSym = ev.symbolAtSeedPosition(seed, 6, "let")
	ev.lambdaSym = ev.symbolAtSeedPosition(seed, 7, "=>")
	return ev
}

// symbolAtSeedPosition interns the literal seeded at position i (or a
// conventional fallback if the seed table was shorter than expected),
// always marking it a builtin -- Intern is idempotent, so this simply
// resolves the canonical Symbol the seeding pass already allocated.
func (ev *Evaluator) symbolAtSeedPosition(seed []SeedEntry, i int, fallback string) *Symbol {
	literal := fallback
	if i < len(seed) {
		literal = seed[i].Literal
	}
	return ev.provider.Intern(literal, true)
}

// Symbols returns the evaluator's shared SymbolProvider.
func (ev *Evaluator) Symbols() *SymbolProvider {
	return ev.provider
}

// NewRootEnv returns a fresh, parentless evaluation scope with Let, Lambda,
// and every configured Installer already applied.
func (ev *Evaluator) NewRootEnv() *Environment {
	env := NewRootEnvironment(ev.provider)
	ev.installBuiltins(env)
	return env
}

func (ev *Evaluator) installBuiltins(env *Environment) {
	env.Set(ev.letSym, Closure(ev.builtinLet))
	env.Set(ev.lambdaSym, Closure(ev.builtinLambda))
	for _, install := range ev.installers {
		install(env)
	}
}

// scopeFor creates a child scope of the supplied env, or a fresh root
// scope if env is nil.
func (ev *Evaluator) scopeFor(env *Environment) *Environment {
	var scope *Environment
	if env != nil {
		scope = NewChildEnvironment(env)
	} else {
		scope = NewRootEnvironment(ev.provider)
	}
	ev.installBuiltins(scope)
	return scope
}

// Evaluate parses input in a fresh scope derived from env (env may be
// nil) and reduces the result.
func (ev *Evaluator) Evaluate(env *Environment, tokenize Tokenizer, input string) (Node, error) {
	scope := ev.scopeFor(env)
	parsed, err := Parse(scope, tokenize, input)
	if err != nil {
		return nil, err
	}
	return ev.reduceCopy(scope, parsed), nil
}

// EvaluateNode reduces a pre-parsed S-expression in a fresh scope derived
// from env. It deep-copies node first, so a tree returned by Parse (or by
// a prior EvaluateNode call) is never mutated by reduction and can be
// evaluated again later.
func (ev *Evaluator) EvaluateNode(env *Environment, node Node) Node {
	return ev.reduceCopy(ev.scopeFor(env), node)
}

// reduceCopy starts a fresh WithMaxSteps budget and reduces a deep copy of
// node in scope, bracketed by the tracer's StartEvaluate span.
func (ev *Evaluator) reduceCopy(scope *Environment, node Node) Node {
	ev.steps = 0
	if ev.tracer != nil {
		end := ev.tracer.StartEvaluate(scope)
		defer end()
	}
	return ev.reduce(scope, deepCopy(node))
}

// Reduce evaluates node within env using the same reduction rules as
// EvaluateNode, without creating a fresh scope or deep-copying node first.
// It is the seam a dispatch builtin defined outside this package (an `if`
// or `cond` supplied through an Installer) uses to evaluate one of the
// unevaluated operands it deliberately received, since such a builtin has
// no access to reduce itself.
func (ev *Evaluator) Reduce(env *Environment, node Node) Node {
	return ev.reduce(env, node)
}

// OperandsAfterDispatch is the exported form of operandsAfterDispatch, for
// dispatch builtins installed from outside this package.
func OperandsAfterDispatch(list *List) []Node {
	return operandsAfterDispatch(list)
}

func (ev *Evaluator) unknownAtom() Node {
	return NewAtom(ev.unknownSym)
}

func atomSymbol(n Node) *Symbol {
	a, ok := n.(Atom)
	if !ok {
		return nil
	}
	return a.AsSymbol()
}

func asClosure(n Node) (Closure, bool) {
	cl, ok := n.(Closure)
	return cl, ok
}

// reduce is the single entry point for the core's reduction rules.
func (ev *Evaluator) reduce(env *Environment, node Node) Node {
	ev.steps++
	if ev.maxSteps > 0 && ev.steps > ev.maxSteps {
		panic(StepLimitExceeded{Limit: ev.maxSteps})
	}
	ev.depth++
	if ev.maxStackHeight > 0 && ev.depth > ev.maxStackHeight {
		panic(StackLimitExceeded{Limit: ev.maxStackHeight})
	}
	defer func() { ev.depth-- }()

	switch v := node.(type) {
	case Atom:
		if sym := v.AsSymbol(); sym != nil {
			if val, found := env.TryGet(sym); found {
				return val
			}
			unknown := ev.unknownAtom()
			if d := ev.debugger; d != nil && d.IsEnabled() {
				if d.OnError(env, unknown) {
					d.WaitIfPaused(env, unknown)
				}
			}
			return unknown
		}
		return v
	case *List:
		return ev.reduceList(env, v)
	case *BuiltinCell:
		return v.Fn(env, EmptyList)
	case Closure:
		return v
	default:
		return node
	}
}

func (ev *Evaluator) reduceList(env *Environment, list *List) Node {
	if d := ev.debugger; d != nil && d.IsEnabled() {
		if d.OnEval(env, list) {
			d.WaitIfPaused(env, list)
		}
	}

	if list.Empty() {
		return EmptyList
	}
	items := list.Items
	if len(items) == 1 {
		return ev.reduceSingleton(env, list)
	}

	// Quote form.
	if sym := atomSymbol(items[0]); sym != nil && sym.Index == quoteIndex {
		return items[1]
	}

	// Already-memoized head or second slot.
	if cell, ok := items[0].(*BuiltinCell); ok {
		return cell.Fn(env, list)
	}
	if cell, ok := items[1].(*BuiltinCell); ok {
		return cell.Fn(env, list)
	}

	// Builtin dispatch, prefix position.
	if sym := atomSymbol(items[0]); sym != nil && IsDispatchBuiltin(sym) {
		if cl, ok := ev.resolveClosure(env, sym); ok {
			cell := &BuiltinCell{Fn: cl, Position: 0}
			items[0] = cell
			return cell.Fn(env, list)
		}
	}
	// Builtin dispatch, infix position.
	if sym := atomSymbol(items[1]); sym != nil && IsDispatchBuiltin(sym) {
		if cl, ok := ev.resolveClosure(env, sym); ok {
			cell := &BuiltinCell{Fn: cl, Position: 1}
			items[1] = cell
			return cell.Fn(env, list)
		}
	}

	// Applicative call.
	if cl, resolved := ev.resolveApplicative(env, items[0]); cl != nil {
		if resolved {
			items[0] = cl
		}
		args := make([]Node, len(items)-1)
		for i := 1; i < len(items); i++ {
			args[i-1] = ev.reduce(env, items[i])
		}
		return cl(env, NewList(args...))
	}

	// Sequence fallback.
	var last Node = Nil
	for _, item := range items {
		last = ev.reduce(env, item)
	}
	return last
}

func (ev *Evaluator) reduceSingleton(env *Environment, list *List) Node {
	item := list.Items[0]
	if cell, ok := item.(*BuiltinCell); ok {
		return cell.Fn(env, EmptyList)
	}
	if sym := atomSymbol(item); sym != nil && IsDispatchBuiltin(sym) {
		if cl, ok := ev.resolveClosure(env, sym); ok {
			cell := &BuiltinCell{Fn: cl, Position: 0}
			list.Items[0] = cell
			return cell.Fn(env, EmptyList)
		}
	}
	v := ev.reduce(env, item)
	if cl, ok := asClosure(v); ok {
		return cl(env, EmptyList)
	}
	return v
}

func (ev *Evaluator) resolveClosure(env *Environment, sym *Symbol) (Closure, bool) {
	if ev.tracer != nil {
		end := ev.tracer.StartDispatch(env, sym)
		defer end()
	}
	v, found := env.TryGet(sym)
	if !found {
		return nil, false
	}
	return asClosure(v)
}

// resolveApplicative implements "list[0] resolves to a closure either
// directly or by one level of evaluation". resolved is true only when
// evaluation was required, signalling the caller should cache the result
// into list.Items[0].
func (ev *Evaluator) resolveApplicative(env *Environment, head Node) (cl Closure, resolved bool) {
	if cl, ok := head.(Closure); ok {
		return cl, false
	}
	v := ev.reduce(env, head)
	if cl, ok := asClosure(v); ok {
		return cl, true
	}
	return nil, false
}

// operandsAfterDispatch returns the argument nodes of a builtin-dispatch
// list once its head has been replaced by a BuiltinCell, accounting for
// both the prefix (position 0) and infix (position 1) dispatch positions.
func operandsAfterDispatch(list *List) []Node {
	items := list.Items
	if _, ok := items[0].(*BuiltinCell); ok {
		return items[1:]
	}
	if len(items) > 1 {
		if _, ok := items[1].(*BuiltinCell); ok {
			ops := make([]Node, 0, len(items)-1)
			ops = append(ops, items[0])
			ops = append(ops, items[2:]...)
			return ops
		}
	}
	return items[1:]
}
