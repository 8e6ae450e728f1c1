// Package trace instruments an Evaluator via sexpr.Tracer without
// changing reduction semantics.
package trace

import (
	"context"
	"sync"

	"github.com/sexprlang/sexpr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ContextTracerKey looks up a tracer name override from a context value.
const ContextTracerKey = "sexprOTelTracer"

func tracerFor(ctx context.Context) trace.Tracer {
	name, _ := ctx.Value(ContextTracerKey).(string)
	if name == "" {
		name = "sexpr"
	}
	return otel.GetTracerProvider().Tracer(name)
}

// OTelAnnotator starts one OpenTelemetry span per Evaluate/EvaluateNode
// call and, optionally, one per builtin dispatch. sexpr.Tracer's
// StartEvaluate and StartDispatch can both be active simultaneously (an
// Evaluate call dispatches many builtins within it), so OTelAnnotator
// keeps a small mutex-guarded context stack rather than a single current
// context field.
type OTelAnnotator struct {
	mu    sync.Mutex
	stack []context.Context
}

// NewOTelAnnotator returns an annotator whose outermost spans are parented
// off root; each later span is parented off the innermost span still open.
func NewOTelAnnotator(root context.Context) *OTelAnnotator {
	return &OTelAnnotator{stack: []context.Context{root}}
}

func (a *OTelAnnotator) top() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stack[len(a.stack)-1]
}

func (a *OTelAnnotator) push(ctx context.Context) {
	a.mu.Lock()
	a.stack = append(a.stack, ctx)
	a.mu.Unlock()
}

func (a *OTelAnnotator) pop() {
	a.mu.Lock()
	if len(a.stack) > 1 {
		a.stack = a.stack[:len(a.stack)-1]
	}
	a.mu.Unlock()
}

// StartEvaluate implements sexpr.Tracer.
func (a *OTelAnnotator) StartEvaluate(env *sexpr.Environment) func() {
	ctx, span := tracerFor(a.top()).Start(a.top(), "sexpr.Evaluate")
	a.push(ctx)
	return func() {
		span.End()
		a.pop()
	}
}

// StartDispatch implements sexpr.Tracer, labeling the span with the
// dispatched symbol's literal.
func (a *OTelAnnotator) StartDispatch(env *sexpr.Environment, sym *sexpr.Symbol) func() {
	name := env.Provider.NameOf(sym)
	ctx, span := tracerFor(a.top()).Start(a.top(), name)
	span.SetAttributes(attribute.String("sexpr.symbol", name))
	a.push(ctx)
	return func() {
		span.End()
		a.pop()
	}
}
