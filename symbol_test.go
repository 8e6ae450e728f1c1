package sexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolIdentityIsPointerEquality(t *testing.T) {
	a := NewSymbol(5)
	b := NewSymbol(5)
	assert.NotSame(t, a, b, "distinct allocations with the same index must not be the same symbol")
	assert.True(t, a == a)
}

func TestSymbolBuiltinVsUser(t *testing.T) {
	require.True(t, NewSymbol(0).IsBuiltin())
	require.True(t, NewSymbol(-3).IsBuiltin())
	require.False(t, NewSymbol(0).IsUser())
	require.True(t, NewSymbol(1).IsUser())
	require.False(t, NewSymbol(1).IsBuiltin())
}

func TestIsDispatchBuiltin(t *testing.T) {
	p := NewSeededSymbolProvider(DefaultSeed(), true)
	let := p.Intern("let", true)
	this := p.Intern("this", true)
	params := p.Intern("params", true)
	user := p.Intern("xyz", false)

	assert.True(t, IsDispatchBuiltin(let), "Let is below BuiltinThreshold")
	assert.False(t, IsDispatchBuiltin(this), "This is the threshold itself, not below it")
	assert.False(t, IsDispatchBuiltin(params), "Params sits above the threshold")
	assert.False(t, IsDispatchBuiltin(user))
	assert.False(t, IsDispatchBuiltin(nil))
}
