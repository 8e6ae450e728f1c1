package sexpr

import "fmt"

// Symbol is an interned atom. Identity is reference identity: two Symbol
// pointers with equal Index are not equal unless they are the same
// allocation. Index 0 is the sentinel Unknown; negative indices are
// builtins reserved by the language; positive indices are user-defined.
type Symbol struct {
	Index int32
}

// NewSymbol constructs a Symbol with the given index. Most callers should
// go through SymbolProvider.Intern instead of calling this directly.
func NewSymbol(index int32) *Symbol {
	return &Symbol{Index: index}
}

// IsBuiltin reports whether s was interned as a builtin (Index <= 0).
func (s *Symbol) IsBuiltin() bool {
	return s.Index <= 0
}

// IsUser reports whether s was interned as a user identifier (Index > 0).
func (s *Symbol) IsUser() bool {
	return s.Index > 0
}

func (s *Symbol) String() string {
	return fmt.Sprintf("[Symbol(%d)]", s.Index)
}

// The reserved builtin symbols and their fixed indices. BuiltinThreshold
// is the index of This: any symbol with Index < BuiltinThreshold is a
// "dispatch builtin" for evaluator purposes.
const (
	unknownIndex = 0
	openIndex    = -1
	closeIndex   = -2
	quoteIndex   = -3
	paramsIndex  = -4
	thisIndex    = -5
	letIndex     = -6
	lambdaIndex  = -7

	// BuiltinThreshold is This's index; symbols with a lower (more
	// negative) index are operator-dispatch builtins.
	BuiltinThreshold = thisIndex
)

// IsDispatchBuiltin reports whether s is a builtin the evaluator resolves by
// dispatch (strictly below BuiltinThreshold), excluding Open, Close, Quote,
// Params, This and This itself.
func IsDispatchBuiltin(s *Symbol) bool {
	return s != nil && s.Index < BuiltinThreshold
}
