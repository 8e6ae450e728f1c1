package sexpr

// QuoteExpr wraps expr as `(Quote expr)` -- the exact two-element list
// shape the parser produces for a quoted form and that Evaluate unwraps
// without evaluating expr.
func (ev *Evaluator) QuoteExpr(expr Node) *List {
	return NewList(NewAtom(ev.quoteSym), expr)
}
