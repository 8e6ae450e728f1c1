package sexpr

// Node is any S-expression tree element: an atom, a list, a closure, or a
// memoized-builtin cell. The core never inspects an Atom's wrapped value
// except to check whether it is a *Symbol or nil.
type Node interface {
	// sexprNode is unexported so Node has a closed set of implementations.
	sexprNode()
}

// Atom wraps any host value that is not itself a list: nil, numbers,
// strings, *Symbol, or an opaque host value. Callable values are not
// Atoms; they are the separate Closure node type.
type Atom struct {
	Value interface{}
}

func (Atom) sexprNode() {}

// NewAtom wraps v as an Atom.
func NewAtom(v interface{}) Atom {
	return Atom{Value: v}
}

// AsSymbol returns the *Symbol wrapped by the atom, or nil if it does not
// wrap a symbol.
func (a Atom) AsSymbol() *Symbol {
	sym, _ := a.Value.(*Symbol)
	return sym
}

// List is an ordered sequence of S-expression nodes. Lists are mutable in
// place: the evaluator overwrites individual Items slots with memoized
// cells or resolved closures, but never changes len(Items) after parsing.
type List struct {
	Items []Node
}

func (*List) sexprNode() {}

// NewList constructs a fresh List holding items. A nil or empty items slice
// yields a new empty List, not the shared EmptyList.
func NewList(items ...Node) *List {
	return &List{Items: items}
}

// Empty reports whether the list has no elements.
func (l *List) Empty() bool {
	return l == nil || len(l.Items) == 0
}

// EmptyList is the canonical empty list returned for every `()` and every
// empty-list reduction. It is shared, never mutated: code that needs to
// build on it should allocate a fresh List.
var EmptyList = &List{}

// Closure is the two-argument callable shape every lambda-produced
// function and every resolved builtin, once wrapped, satisfies.
type Closure func(env *Environment, args *List) Node

func (Closure) sexprNode() {}

// BuiltinCell is the memoized-builtin wrapper. It is produced only by the
// evaluator, during builtin dispatch, never by the parser. Position
// records whether the cell was installed in the prefix
// (list.Items[0]) or infix (list.Items[1]) slot, purely for diagnostics;
// reduction treats both positions identically once a cell is in place.
type BuiltinCell struct {
	Fn       Closure
	Position int
}

func (*BuiltinCell) sexprNode() {}

// Nil is the host's nil/null atom: the self-evaluating empty value distinct
// from EmptyList. Concrete interpreters may also treat EmptyList as falsey;
// the core only ever constructs Nil as a default/placeholder value (e.g.
// the result of a let or lambda with an empty body).
var Nil = Atom{Value: nil}

// IsNil reports whether n is the Nil atom.
func IsNil(n Node) bool {
	a, ok := n.(Atom)
	return ok && a.Value == nil
}

// deepCopy returns a structural copy of n: Lists are copied recursively
// (fresh Items slices and fresh *List headers) while atoms, closures, and
// builtin cells are copied by reference, since they carry no in-place
// mutable evaluator state of their own. This is the copy Evaluate performs
// before reducing so that repeated evaluations never observe each other's
// memoization rewrites on the tree returned by Parse.
func deepCopy(n Node) Node {
	switch v := n.(type) {
	case *List:
		if v == nil {
			return EmptyList
		}
		items := make([]Node, len(v.Items))
		for i, item := range v.Items {
			items[i] = deepCopy(item)
		}
		return &List{Items: items}
	default:
		return n
	}
}
