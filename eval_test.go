package sexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalString parses and evaluates source in a fresh root scope of ev,
// using testTokenize (parser_test.go) as the token source.
func evalString(t *testing.T, ev *Evaluator, source string) Node {
	t.Helper()
	result, err := ev.Evaluate(nil, testTokenize, source)
	require.NoError(t, err)
	return result
}

func TestEvaluateAtomSelfEvaluates(t *testing.T) {
	ev := NewEvaluator()
	assert.Equal(t, NewAtom(7), evalString(t, ev, "7"))
}

func TestEvaluateUnboundSymbolYieldsUnknown(t *testing.T) {
	ev := NewEvaluator()
	result := evalString(t, ev, "nosuchbinding")
	sym := result.(Atom).AsSymbol()
	require.NotNil(t, sym)
	assert.Equal(t, int32(0), sym.Index)
}

func TestEvaluateEmptyListYieldsEmptyList(t *testing.T) {
	ev := NewEvaluator()
	assert.Same(t, EmptyList, evalString(t, ev, "()"))
}

func TestEvaluateQuoteReturnsUnevaluated(t *testing.T) {
	ev := NewEvaluator()
	result := evalString(t, ev, "`unbound")
	sym := result.(Atom).AsSymbol()
	require.NotNil(t, sym)
	assert.NotEqual(t, int32(0), sym.Index, "quoting must not resolve the symbol through the environment")
}

func TestLetBindsSequentially(t *testing.T) {
	ev := NewEvaluator()
	// b's initializer sees a already bound, proving let* (sequential)
	// rather than parallel-let semantics.
	result := evalString(t, ev, "(let ((a 1) (b a)) b)")
	assert.Equal(t, NewAtom(1), result)
}

func TestLetBodyEvaluatesInSequenceReturningLast(t *testing.T) {
	ev := NewEvaluator()
	result := evalString(t, ev, "(let ((a 1)) a a 2)")
	assert.Equal(t, NewAtom(2), result)
}

func TestLetCreatesAChildScopeNotPollutingOuter(t *testing.T) {
	ev := NewEvaluator()
	root := ev.NewRootEnv()
	_, err := ev.Evaluate(root, testTokenize, "(let ((a 1)) a)")
	require.NoError(t, err)
	xsym := root.Provider.Intern("a", false)
	_, found := root.TryGet(xsym)
	assert.False(t, found, "let bindings must not leak into the enclosing scope")
}

func TestLambdaCapturesLexicalScope(t *testing.T) {
	ev := NewEvaluator()
	root := ev.NewRootEnv()
	// addN closes over the let scope's n, not over whatever scope it is
	// eventually called from.
	result, err := ev.Evaluate(root, testTokenize, "(let ((n 10) (addN (=> (x) n))) (addN 0))")
	require.NoError(t, err)
	assert.Equal(t, NewAtom(10), result)
}

func TestLambdaSingleSymbolFormal(t *testing.T) {
	ev := NewEvaluator()
	root := ev.NewRootEnv()
	// A bare symbol (not a list) as the formals position names a single
	// positional parameter.
	result, err := ev.Evaluate(root, testTokenize, "(let ((id (=> x x))) (id 5))")
	require.NoError(t, err)
	assert.Equal(t, NewAtom(5), result)
}

func TestLambdaVariadicCollectsExcessArgs(t *testing.T) {
	ev := NewEvaluator()
	root := ev.NewRootEnv()
	// f applied to three args: a binds 1, rest collects (2 3).
	result, err := ev.Evaluate(root, testTokenize, "(let ((f (=> (a (rest)) rest))) (f 1 2 3))")
	require.NoError(t, err)
	list, ok := result.(*List)
	require.True(t, ok)
	assert.Equal(t, []Node{NewAtom(2), NewAtom(3)}, list.Items)
}

func TestLambdaParamsReflectsRawArguments(t *testing.T) {
	ev := NewEvaluator()
	root := ev.NewRootEnv()
	result, err := ev.Evaluate(root, testTokenize, "(let ((f (=> (a b) params))) (f 1 2))")
	require.NoError(t, err)
	list, ok := result.(*List)
	require.True(t, ok)
	assert.Equal(t, []Node{NewAtom(1), NewAtom(2)}, list.Items)
}

func TestLambdaThisEnablesAnonymousRecursion(t *testing.T) {
	ev := NewEvaluator()
	root := ev.NewRootEnv()
	// A lambda body can reference itself via `this` without a name, which
	// is what makes anonymous recursion possible.
	result, err := ev.Evaluate(root, testTokenize, "(let ((f (=> (n) this))) (f 5))")
	require.NoError(t, err)
	_, ok := result.(Closure)
	assert.True(t, ok, "this must resolve to the enclosing lambda's own closure")
}

func TestBuiltinDispatchMemoizesInPlace(t *testing.T) {
	ev := NewEvaluator()
	root := ev.NewRootEnv()
	node, err := Parse(root, testTokenize, "(let ((a 1)) a)")
	require.NoError(t, err)
	list := node.(*List)
	_, isCellBefore := list.Items[0].(*BuiltinCell)
	assert.False(t, isCellBefore, "dispatch has not happened yet")

	// reduce (unlike EvaluateNode) operates on the tree in place, so a
	// direct call lets the test observe the memoized cell it installs.
	ev.reduce(root, node)
	_, isCellAfterFirst := list.Items[0].(*BuiltinCell)
	assert.True(t, isCellAfterFirst, "first reduction rewrites the head slot to a memoized cell")

	// A second reduction of the same tree must still work with the
	// memoized cell in place.
	result := ev.reduce(root, node)
	assert.Equal(t, NewAtom(1), result)
}

func TestEvaluateNodeDoesNotMutateTheSourceTree(t *testing.T) {
	ev := NewEvaluator()
	root := ev.NewRootEnv()
	node, err := Parse(root, testTokenize, "(let ((a 1)) a)")
	require.NoError(t, err)
	list := node.(*List)

	ev.EvaluateNode(root, node)
	_, mutated := list.Items[0].(*BuiltinCell)
	assert.False(t, mutated, "EvaluateNode must reduce a deep copy, leaving the original tree untouched")
}

func TestSingletonListUnwrapsAndInvokesClosures(t *testing.T) {
	ev := NewEvaluator()
	root := ev.NewRootEnv()
	result, err := ev.Evaluate(root, testTokenize, "(let ((f (=> () 5))) (f))")
	require.NoError(t, err)
	assert.Equal(t, NewAtom(5), result)
}

func TestSequenceFallbackEvaluatesEachReturnsLast(t *testing.T) {
	ev := NewEvaluator()
	// Neither 1 nor 2 resolves to a closure, so the list falls back to
	// sequence evaluation rather than an applicative call.
	result := evalString(t, ev, "(1 2)")
	assert.Equal(t, NewAtom(2), result)
}

func TestQuoteExprProducesExactShape(t *testing.T) {
	ev := NewEvaluator()
	q := ev.QuoteExpr(NewAtom(9))
	require.Len(t, q.Items, 2)
	sym := q.Items[0].(Atom).AsSymbol()
	require.NotNil(t, sym)
	assert.Equal(t, int32(-3), sym.Index)
	assert.Equal(t, NewAtom(9), q.Items[1])
}

func TestHardenedSeedRenamesParamsLiteral(t *testing.T) {
	ev := NewEvaluator(WithSeed(HardenedSeed(), true))
	// Under a hardened seed, ev's reserved Params symbol is still a
	// negative-index builtin...
	assert.True(t, ev.paramsSym.IsBuiltin())
	// ...but the literal word "params" typed in source no longer names it:
	// it interns as an unrelated, unbound user identifier instead, so
	// evaluating it yields Unknown rather than the argument vector.
	result := evalString(t, ev, "params")
	sym := result.(Atom).AsSymbol()
	require.NotNil(t, sym)
	assert.Equal(t, int32(0), sym.Index)
}

func TestHardenedSeedLambdaStillBindsFormals(t *testing.T) {
	ev := NewEvaluator(WithSeed(HardenedSeed(), true))
	root := ev.NewRootEnv()
	a := ev.provider.Intern("a", false)
	f := ev.builtinLambda(root, NewList(NewAtom(ev.lambdaSym), NewAtom(a), NewAtom(a)))
	closure, ok := f.(Closure)
	require.True(t, ok)
	result := closure(root, NewList(NewAtom(7)))
	assert.Equal(t, NewAtom(7), result, "bind/lambda machinery must still work when params/this use hardened literals")
}

func TestMaxStepsPanics(t *testing.T) {
	ev := NewEvaluator(WithMaxSteps(2))
	root := ev.NewRootEnv()
	assert.Panics(t, func() {
		ev.Evaluate(root, testTokenize, "(let ((a 1) (b 2) (c 3)) c)")
	})
}

func TestInstallerRunsOnEveryFreshScope(t *testing.T) {
	marker := NewAtom("installed")
	var markerSym *Symbol
	installer := func(env *Environment) {
		markerSym = env.intern("marker")
		env.Set(markerSym, marker)
	}
	ev := NewEvaluator(WithInstaller(installer))
	result := evalString(t, ev, "marker")
	assert.Equal(t, marker, result)
}
