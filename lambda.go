package sexpr

// formals describes a lambda's parameter list: a positional prefix plus an
// optional trailing variadic.
type formals struct {
	positional []*Symbol
	variadic   *Symbol
}

// parseFormals accepts either a single Symbol atom (one positional
// parameter) or a list of Symbols whose final element may itself be a
// one-element list naming the variadic parameter.
func parseFormals(n Node) formals {
	if sym := atomSymbol(n); sym != nil {
		return formals{positional: []*Symbol{sym}}
	}
	list, ok := n.(*List)
	if !ok {
		return formals{}
	}
	var f formals
	for i, item := range list.Items {
		if sub, ok := item.(*List); ok && len(sub.Items) == 1 && i == len(list.Items)-1 {
			if sym := atomSymbol(sub.Items[0]); sym != nil {
				f.variadic = sym
				continue
			}
		}
		if sym := atomSymbol(item); sym != nil {
			f.positional = append(f.positional, sym)
		}
	}
	return f
}

// bind binds args against f in scope: positional parameters beyond the
// supplied arguments default to Unknown, and the variadic (if any) collects
// the excess arguments into a fresh list, defaulting to Unknown when there
// is no excess.
func (ev *Evaluator) bind(scope *Environment, f formals, args []Node) {
	for i, sym := range f.positional {
		if i < len(args) {
			scope.Set(sym, args[i])
		} else {
			scope.Set(sym, ev.unknownAtom())
		}
	}
	if f.variadic == nil {
		return
	}
	if len(args) > len(f.positional) {
		rest := append([]Node{}, args[len(f.positional):]...)
		scope.Set(f.variadic, NewList(rest...))
	} else {
		scope.Set(f.variadic, ev.unknownAtom())
	}
}

// builtinLambda implements the Lambda/Abstraction builtin:
//
//	(Lambda formals body...)
//
// The returned Closure captures the defining environment for lexical
// scoping. On invocation it binds positional and variadic formals, binds
// This to itself (anonymous recursion) and Params to the raw argument
// vector (argument reflection), then evaluates body in sequence, returning
// the last value.
func (ev *Evaluator) builtinLambda(env *Environment, list *List) Node {
	ops := operandsAfterDispatch(list)
	if len(ops) == 0 {
		return ev.unknownAtom()
	}
	f := parseFormals(ops[0])
	body := ops[1:]
	definingEnv := env

	// self is declared before assignment so the closure body can capture
	// and later bind a reference to itself (This), without any special
	// back-edge bookkeeping: Go's garbage collector tolerates the cycle
	// this creates between the closure and its own defining scope.
	var self Closure
	self = func(callEnv *Environment, args *List) Node {
		fnScope := NewChildEnvironment(definingEnv)
		ev.bind(fnScope, f, args.Items)
		fnScope.Set(ev.thisSym, self)
		fnScope.Set(ev.paramsSym, NewList(append([]Node{}, args.Items...)...))
		if d := ev.debugger; d != nil && d.IsEnabled() {
			d.OnFunEntry(callEnv, fnScope, self)
		}
		var result Node = Nil
		for _, expr := range body {
			result = ev.reduce(fnScope, expr)
		}
		if d := ev.debugger; d != nil && d.IsEnabled() {
			d.OnFunReturn(callEnv, self, result)
		}
		return result
	}
	return self
}
