package sexpr

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SymbolProvider is a bijective, append-only mapping between literal
// strings and Symbols. It is not safe for concurrent use; callers that
// parse concurrently must synchronize externally.
type SymbolProvider struct {
	byLiteral map[string]*Symbol
	byIndex   map[int32]string
	count     int32
}

// SeedEntry is one (literal, builtin) pair used to pre-populate a
// SymbolProvider's builtin prefix.
type SeedEntry struct {
	Literal string
	Builtin bool
}

// DefaultSeed is the conventional builtin literal table: the empty
// string names Unknown, and the remaining entries are the operator and
// special-form builtins in the exact order that produces their expected
// indices (Open=-1 ... Lambda=-7).
func DefaultSeed() []SeedEntry {
	return []SeedEntry{
		{"", true},
		{"(", true},
		{")", true},
		{"`", true},
		{"params", true},
		{"this", true},
		{"let", true},
		{"=>", true},
	}
}

// HardenedSeed is DefaultSeed with the params/this literals replaced by
// freshly generated unguessable strings, so that ordinary user identifiers
// cannot accidentally rebind them.
func HardenedSeed() []SeedEntry {
	seed := DefaultSeed()
	seed[4].Literal = "params$" + randomHex(8)
	seed[5].Literal = "this$" + randomHex(8)
	return seed
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("sexpr: failed to generate unguessable literal: %v", err))
	}
	return hex.EncodeToString(b)
}

// NewSymbolProvider returns an empty SymbolProvider with no seeded symbols.
func NewSymbolProvider() *SymbolProvider {
	return &SymbolProvider{
		byLiteral: make(map[string]*Symbol),
		byIndex:   make(map[int32]string),
	}
}

// NewSeededSymbolProvider returns a SymbolProvider pre-populated with seed,
// inserted in order. When strict is true each builtin entry's resulting index must
// equal the conventional builtin index for that position (-count before
// insertion); any deviation is an invariant violation and panics. When
// strict is false any prefix is accepted.
func NewSeededSymbolProvider(seed []SeedEntry, strict bool) *SymbolProvider {
	p := NewSymbolProvider()
	for _, e := range seed {
		wantIndex := -p.count
		sym := p.Intern(e.Literal, e.Builtin)
		if strict && e.Builtin && sym.Index != wantIndex {
			panic(fmt.Sprintf("sexpr: seed invariant violated for %q: got index %d, want %d", e.Literal, sym.Index, wantIndex))
		}
	}
	return p
}

// Contains reports whether literal has already been interned.
func (p *SymbolProvider) Contains(literal string) bool {
	_, ok := p.byLiteral[literal]
	return ok
}

// Intern returns the Symbol bound to literal, allocating a new one (with
// index -count if asBuiltin, otherwise +count, where count is the provider's
// size before this call) if literal has not been seen before.
func (p *SymbolProvider) Intern(literal string, asBuiltin bool) *Symbol {
	if sym, ok := p.byLiteral[literal]; ok {
		return sym
	}
	var index int32
	if asBuiltin {
		index = -p.count
	} else {
		index = p.count
	}
	sym := NewSymbol(index)
	p.byLiteral[literal] = sym
	p.byIndex[index] = literal
	p.count++
	return sym
}

// NameOf returns the literal interned for sym. Looking up a symbol the
// provider never allocated is a programmer error and panics.
func (p *SymbolProvider) NameOf(sym *Symbol) string {
	if sym == nil {
		panic("sexpr: NameOf called with a nil symbol")
	}
	name, ok := p.byIndex[sym.Index]
	if !ok {
		panic(fmt.Sprintf("sexpr: no literal registered for symbol index %d", sym.Index))
	}
	return name
}

// Len returns the number of interned literals.
func (p *SymbolProvider) Len() int {
	return len(p.byLiteral)
}
