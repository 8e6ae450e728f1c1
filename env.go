package sexpr

// Environment is a lexical scope: a local symbol table plus an optional
// parent link. Every environment in a chain shares one SymbolProvider;
// the root has no parent.
type Environment struct {
	Parent   *Environment
	Provider *SymbolProvider
	locals   map[*Symbol]Node
}

// NewRootEnvironment creates a parentless environment backed by provider.
// A nil provider is a programmer error: every environment chain must share
// one, and a root with no parent has nowhere else to get one from.
func NewRootEnvironment(provider *SymbolProvider) *Environment {
	if provider == nil {
		panic("sexpr: NewRootEnvironment requires a non-nil SymbolProvider")
	}
	return &Environment{
		Provider: provider,
		locals:   make(map[*Symbol]Node),
	}
}

// NewChildEnvironment creates a new environment whose parent is parent and
// whose SymbolProvider is inherited from it.
func NewChildEnvironment(parent *Environment) *Environment {
	if parent == nil {
		panic("sexpr: NewChildEnvironment requires a non-nil parent")
	}
	return &Environment{
		Parent:   parent,
		Provider: parent.Provider,
		locals:   make(map[*Symbol]Node),
	}
}

// intern resolves a literal to its canonical Symbol via the shared provider,
// interning it as a user identifier if it has not been seen before.
func (env *Environment) intern(literal string) *Symbol {
	return env.Provider.Intern(literal, false)
}

// ContainsSymbol reports whether sym is bound locally or in any ancestor.
func (env *Environment) ContainsSymbol(sym *Symbol) bool {
	_, found := env.TryGet(sym)
	return found
}

// Contains is the literal-keyed form of ContainsSymbol.
func (env *Environment) Contains(literal string) bool {
	return env.ContainsSymbol(env.intern(literal))
}

// TryGet resolves sym by probing the local table and then, on a miss,
// walking the parent chain. On a successful parent-chain hit the value is
// written into the local table before being returned -- this caches
// ancestor bindings at the leaf the first time they are read through it.
func (env *Environment) TryGet(sym *Symbol) (Node, bool) {
	if v, ok := env.locals[sym]; ok {
		return v, true
	}
	if env.Parent == nil {
		return nil, false
	}
	for anc := env.Parent; anc != nil; anc = anc.Parent {
		if v, ok := anc.locals[sym]; ok {
			env.locals[sym] = v
			return v, true
		}
	}
	return nil, false
}

// TryGetLiteral is the literal-keyed form of TryGet.
func (env *Environment) TryGetLiteral(literal string) (Node, bool) {
	return env.TryGet(env.intern(literal))
}

// Set unconditionally writes v into env's local table, bound to sym. It
// never touches an ancestor -- this is how a local binding shadows one
// further up the chain. Set returns env so calls can be chained.
func (env *Environment) Set(sym *Symbol, v Node) *Environment {
	env.locals[sym] = v
	return env
}

// SetLiteral is the literal-keyed form of Set.
func (env *Environment) SetLiteral(literal string, v Node) *Environment {
	return env.Set(env.intern(literal), v)
}

// Root walks up the parent chain and returns the root environment.
func (env *Environment) Root() *Environment {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}
