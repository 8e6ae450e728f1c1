package sexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternIsIdempotentAndBijective(t *testing.T) {
	p := NewSymbolProvider()
	a := p.Intern("foo", false)
	b := p.Intern("foo", false)
	assert.Same(t, a, b, "interning the same literal twice returns the same Symbol")
	assert.Equal(t, "foo", p.NameOf(a))
}

func TestInternIndexSignConvention(t *testing.T) {
	p := NewSymbolProvider()
	builtin := p.Intern("(", true)
	user := p.Intern("x", false)
	assert.LessOrEqual(t, builtin.Index, int32(0))
	assert.Greater(t, user.Index, int32(0))
}

func TestDefaultSeedProducesConventionalIndices(t *testing.T) {
	p := NewSeededSymbolProvider(DefaultSeed(), true)
	assert.Equal(t, int32(0), p.Intern("", true).Index)
	assert.Equal(t, int32(-1), p.Intern("(", true).Index)
	assert.Equal(t, int32(-2), p.Intern(")", true).Index)
	assert.Equal(t, int32(-3), p.Intern("`", true).Index)
	assert.Equal(t, int32(-4), p.Intern("params", true).Index)
	assert.Equal(t, int32(-5), p.Intern("this", true).Index)
	assert.Equal(t, int32(-6), p.Intern("let", true).Index)
	assert.Equal(t, int32(-7), p.Intern("=>", true).Index)
}

func TestHardenedSeedUnguessableLiterals(t *testing.T) {
	a := HardenedSeed()
	b := HardenedSeed()
	assert.NotEqual(t, a[4].Literal, b[4].Literal, "two hardened seeds should not collide")
	assert.NotEqual(t, "params", a[4].Literal)
	assert.NotEqual(t, "this", a[5].Literal)
}

func TestNameOfUnknownSymbolPanics(t *testing.T) {
	p := NewSymbolProvider()
	assert.Panics(t, func() { p.NameOf(NewSymbol(99)) })
}

func TestNameOfNilPanics(t *testing.T) {
	p := NewSymbolProvider()
	assert.Panics(t, func() { p.NameOf(nil) })
}

func TestSeedStrictModeRejectsMismatch(t *testing.T) {
	// Reinterning "x" as a builtin after it was already interned as a user
	// symbol returns the original (wrong) index, which strict mode rejects.
	bad := []SeedEntry{{"x", false}, {"x", true}}
	require.Panics(t, func() { NewSeededSymbolProvider(bad, true) })
}

func TestSeedNonStrictModeAcceptsAnyPrefix(t *testing.T) {
	bad := []SeedEntry{{"x", false}, {"x", true}}
	require.NotPanics(t, func() { NewSeededSymbolProvider(bad, false) })
}
