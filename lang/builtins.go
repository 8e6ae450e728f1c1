package lang

import (
	"fmt"

	"github.com/sexprlang/sexpr"
)

// NewEvaluator builds an Evaluator with lang's builtins installed. Install
// needs the Evaluator it will be installed into (so `if` can reduce its
// selected branch), which NewEvaluator resolves with the usual
// declare-then-assign trick: the installer closure only runs once Evaluate
// is called, by which point ev is set.
func NewEvaluator(opts ...sexpr.Config) *sexpr.Evaluator {
	var ev *sexpr.Evaluator
	installer := func(env *sexpr.Environment) { Install(ev)(env) }
	all := make([]sexpr.Config, 0, len(opts)+1)
	all = append(all, sexpr.WithInstaller(installer))
	all = append(all, opts...)
	ev = sexpr.NewEvaluator(all...)
	return ev
}

// Install returns a sexpr.Installer wiring lang's builtins into every fresh
// scope ev creates: arithmetic, comparison, list construction/access, a
// lazy `if`, and `print`. It closes over ev because `if` needs to reduce
// whichever branch is selected, and only ev can do that.
func Install(ev *sexpr.Evaluator) sexpr.Installer {
	return func(env *sexpr.Environment) {
		env.SetLiteral("+", sexpr.Closure(arith(func(a, b int64) int64 { return a + b })))
		env.SetLiteral("-", sexpr.Closure(arith(func(a, b int64) int64 { return a - b })))
		env.SetLiteral("*", sexpr.Closure(arith(func(a, b int64) int64 { return a * b })))
		env.SetLiteral("/", sexpr.Closure(divide))

		env.SetLiteral("<", sexpr.Closure(compare(func(a, b int64) bool { return a < b })))
		env.SetLiteral("<=", sexpr.Closure(compare(func(a, b int64) bool { return a <= b })))
		env.SetLiteral("=", sexpr.Closure(compare(func(a, b int64) bool { return a == b })))
		env.SetLiteral(">=", sexpr.Closure(compare(func(a, b int64) bool { return a >= b })))
		env.SetLiteral(">", sexpr.Closure(compare(func(a, b int64) bool { return a > b })))

		env.SetLiteral("cons", sexpr.Closure(builtinCons))
		env.SetLiteral("car", sexpr.Closure(builtinCar))
		env.SetLiteral("cdr", sexpr.Closure(builtinCdr))
		env.SetLiteral("list", sexpr.Closure(builtinList))

		env.SetLiteral("print", sexpr.Closure(builtinPrint(env.Provider)))

		// `if` needs its branches unevaluated until the condition is known, so
		// it is installed as a dispatch builtin (the same mechanism Let and
		// Lambda use) rather than an ordinary applicative closure.
		ifSym := env.Provider.Intern("if", true)
		env.Set(ifSym, sexpr.Closure(builtinIf(ev)))
	}
}

func asInt64(n sexpr.Node) (int64, bool) {
	a, ok := n.(sexpr.Atom)
	if !ok {
		return 0, false
	}
	switch v := a.Value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

func arith(op func(a, b int64) int64) sexpr.Closure {
	return func(env *sexpr.Environment, args *sexpr.List) sexpr.Node {
		if len(args.Items) == 0 {
			return sexpr.NewAtom(int64(0))
		}
		acc, ok := asInt64(args.Items[0])
		if !ok {
			return sexpr.NewAtom(sexpr.NewSymbol(0))
		}
		for _, item := range args.Items[1:] {
			v, ok := asInt64(item)
			if !ok {
				return sexpr.NewAtom(sexpr.NewSymbol(0))
			}
			acc = op(acc, v)
		}
		return sexpr.NewAtom(acc)
	}
}

func divide(env *sexpr.Environment, args *sexpr.List) sexpr.Node {
	if len(args.Items) == 0 {
		return sexpr.NewAtom(int64(0))
	}
	acc, ok := asInt64(args.Items[0])
	if !ok {
		return sexpr.NewAtom(sexpr.NewSymbol(0))
	}
	for _, item := range args.Items[1:] {
		v, ok := asInt64(item)
		if !ok || v == 0 {
			return sexpr.NewAtom(sexpr.NewSymbol(0))
		}
		acc /= v
	}
	return sexpr.NewAtom(acc)
}

func compare(op func(a, b int64) bool) sexpr.Closure {
	return func(env *sexpr.Environment, args *sexpr.List) sexpr.Node {
		for i := 0; i+1 < len(args.Items); i++ {
			a, ok1 := asInt64(args.Items[i])
			b, ok2 := asInt64(args.Items[i+1])
			if !ok1 || !ok2 || !op(a, b) {
				return sexpr.Nil
			}
		}
		return sexpr.NewAtom(true)
	}
}

func builtinCons(env *sexpr.Environment, args *sexpr.List) sexpr.Node {
	if len(args.Items) != 2 {
		return sexpr.Nil
	}
	tail, ok := args.Items[1].(*sexpr.List)
	if !ok {
		return sexpr.NewList(args.Items[0], args.Items[1])
	}
	items := append([]sexpr.Node{args.Items[0]}, tail.Items...)
	return sexpr.NewList(items...)
}

func builtinCar(env *sexpr.Environment, args *sexpr.List) sexpr.Node {
	list, ok := args.Items[0].(*sexpr.List)
	if !ok || list.Empty() {
		return sexpr.Nil
	}
	return list.Items[0]
}

func builtinCdr(env *sexpr.Environment, args *sexpr.List) sexpr.Node {
	list, ok := args.Items[0].(*sexpr.List)
	if !ok || list.Empty() {
		return sexpr.EmptyList
	}
	return sexpr.NewList(list.Items[1:]...)
}

func builtinList(env *sexpr.Environment, args *sexpr.List) sexpr.Node {
	items := append([]sexpr.Node{}, args.Items...)
	return sexpr.NewList(items...)
}

func builtinPrint(provider *sexpr.SymbolProvider) sexpr.Closure {
	return func(env *sexpr.Environment, args *sexpr.List) sexpr.Node {
		var last sexpr.Node = sexpr.Nil
		for _, item := range args.Items {
			fmt.Println(Format(provider, item))
			last = item
		}
		return last
	}
}

// builtinIf implements `(if cond then else?)`: cond is reduced first and
// only the selected branch is reduced, matching ordinary short-circuiting
// conditionals rather than the core's own eager applicative-call path.
func builtinIf(ev *sexpr.Evaluator) sexpr.Closure {
	return func(env *sexpr.Environment, list *sexpr.List) sexpr.Node {
		ops := sexpr.OperandsAfterDispatch(list)
		if len(ops) == 0 {
			return sexpr.Nil
		}
		cond := ev.Reduce(env, ops[0])
		if truthy(cond) {
			if len(ops) > 1 {
				return ev.Reduce(env, ops[1])
			}
			return sexpr.Nil
		}
		if len(ops) > 2 {
			return ev.Reduce(env, ops[2])
		}
		return sexpr.Nil
	}
}

func truthy(n sexpr.Node) bool {
	if sexpr.IsNil(n) {
		return false
	}
	if n == sexpr.EmptyList {
		return false
	}
	if v, ok := asInt64(n); ok {
		return v != 0
	}
	return true
}
