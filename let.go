package sexpr

// builtinLet implements the Let/Definition builtin:
//
//	(Let ((sym1 expr1) ... (symN exprN)) body1 ... bodyM)
//
// A fresh child scope of the caller's environment is created; each
// exprI is evaluated *in that new scope*, so later bindings see earlier
// ones (let* semantics, not parallel let), then bound to symI; finally
// body1..bodyM are evaluated in sequence and the last value is returned.
// An empty body yields Nil.
func (ev *Evaluator) builtinLet(env *Environment, list *List) Node {
	ops := operandsAfterDispatch(list)
	if len(ops) == 0 {
		return Nil
	}
	bindings, _ := ops[0].(*List)
	body := ops[1:]

	scope := NewChildEnvironment(env)
	if bindings != nil {
		for _, b := range bindings.Items {
			pair, ok := b.(*List)
			if !ok || len(pair.Items) < 2 {
				continue
			}
			sym := atomSymbol(pair.Items[0])
			if sym == nil {
				continue
			}
			scope.Set(sym, ev.reduce(scope, pair.Items[1]))
		}
	}

	var result Node = Nil
	for _, expr := range body {
		result = ev.reduce(scope, expr)
	}
	return result
}
