package trace

import (
	"context"

	"github.com/sexprlang/sexpr"
	"go.opencensus.io/stats"
	_ "go.opencensus.io/stats/view"
	octrace "go.opencensus.io/trace"
)

var (
	evaluateCount = stats.Int64("sexpr/evaluate_count", "number of Evaluate/EvaluateNode calls", stats.UnitDimensionless)
	dispatchCount = stats.Int64("sexpr/dispatch_count", "number of builtin dispatches", stats.UnitDimensionless)
)

// OCCounter records evaluation and dispatch counts with OpenCensus stats,
// narrowed to a flat counter rather than a nested span-stack profiler.
// Every span OCCounter starts is parented directly off the root context
// instead of off whichever span most recently started, which loses
// call-tree shape but keeps the two measures (evaluateCount,
// dispatchCount) meaningful on their own.
type OCCounter struct {
	root context.Context
}

// NewOCCounter returns a counter that records against root.
func NewOCCounter(root context.Context) *OCCounter {
	return &OCCounter{root: root}
}

// StartEvaluate implements sexpr.Tracer.
func (c *OCCounter) StartEvaluate(env *sexpr.Environment) func() {
	ctx, span := octrace.StartSpan(c.root, "sexpr.Evaluate")
	stats.Record(ctx, evaluateCount.M(1))
	return span.End
}

// StartDispatch implements sexpr.Tracer.
func (c *OCCounter) StartDispatch(env *sexpr.Environment, sym *sexpr.Symbol) func() {
	name := env.Provider.NameOf(sym)
	ctx, span := octrace.StartSpan(c.root, "sexpr.dispatch:"+name)
	stats.Record(ctx, dispatchCount.M(1))
	return span.End
}
