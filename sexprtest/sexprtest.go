// Package sexprtest is a small table-driven test harness for sexpr-based
// interpreters: a list of named cases, each a sequence of input
// expressions and their expected printed results, run through a fresh
// Evaluator and Environment per case so that cases never leak state into
// one another.
package sexprtest

import (
	"testing"

	"github.com/sexprlang/sexpr"
)

// Step is one expression/expected-result pair within a Case.
type Step struct {
	// Expr is a single s-expression, in source form.
	Expr string
	// Result is the expected printed form of Expr's evaluated result, as
	// produced by the harness's Format function.
	Result string
}

// Case is a named sequence of Steps evaluated in order against one fresh
// Environment. Each step's Evaluate call reduces in its own child scope of
// that Environment, so bindings made by one step are not visible to later
// steps.
type Case struct {
	Name  string
	Steps []Step
}

// Suite is a set of independent Cases.
type Suite []Case

// Format renders a evaluated Node as a string for comparison against a
// Step's expected Result. Callers supply the interpreter's own formatter
// (lang.Format, or an equivalent for another interpreter built on this
// core) since this package has no opinion on printed syntax.
type Format func(provider *sexpr.SymbolProvider, node sexpr.Node) string

// NewEvaluator builds the Evaluator a Run will use for one Case. Callers
// supply their interpreter's own constructor (lang.NewEvaluator, or an
// equivalent) along with any Config options (WithMaxSteps, WithTracer,
// WithDebugger, ...) that should apply to every case in the suite.
type NewEvaluator func(opts ...sexpr.Config) *sexpr.Evaluator

// Run evaluates every Case in suite against a fresh Evaluator and root
// Environment, reporting a t.Errorf for each Step whose printed result
// does not match the expected one. A parse error also fails the Step and
// skips the remaining Steps in that Case.
func Run(t *testing.T, suite Suite, newEvaluator NewEvaluator, tokenize sexpr.Tokenizer, format Format, opts ...sexpr.Config) {
	for _, c := range suite {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			ev := newEvaluator(opts...)
			env := ev.NewRootEnv()
			for i, step := range c.Steps {
				result, err := ev.Evaluate(env, tokenize, step.Expr)
				if err != nil {
					t.Errorf("step %d (%s): parse error: %v", i, step.Expr, err)
					return
				}
				got := format(ev.Symbols(), result)
				if got != step.Result {
					t.Errorf("step %d (%s): expected %q, got %q", i, step.Expr, step.Result, got)
				}
			}
		})
	}
}

// RunBenchmark evaluates source once per b.N iteration against a fresh
// Evaluator and root Environment, reporting a b.Fatalf on the first parse
// error.
func RunBenchmark(b *testing.B, source string, newEvaluator NewEvaluator, tokenize sexpr.Tokenizer, opts ...sexpr.Config) {
	b.StopTimer()
	for i := 0; i < b.N; i++ {
		ev := newEvaluator(opts...)
		env := ev.NewRootEnv()
		b.StartTimer()
		_, err := ev.Evaluate(env, tokenize, source)
		b.StopTimer()
		if err != nil {
			b.Fatalf("parse error: %v", err)
		}
	}
}
