package debug

import (
	"testing"

	"github.com/sexprlang/sexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakpointStoreSetAndMatch(t *testing.T) {
	store := NewBreakpointStore()
	node := sexpr.NewList(sexpr.NewAtom(int64(1)))

	bp := store.Set(node, nil)
	assert.Equal(t, 1, bp.ID)
	assert.True(t, bp.Enabled)

	matched := store.Match(nil, node)
	require.NotNil(t, matched)
	assert.Equal(t, bp.ID, matched.ID)
	assert.Equal(t, 1, matched.Hits())

	other := sexpr.NewList(sexpr.NewAtom(int64(1)))
	assert.Nil(t, store.Match(nil, other), "breakpoints key on node identity, not structural equality")

	assert.Nil(t, store.Match(nil, sexpr.NewAtom(int64(1))), "a non-list expression never matches")
}

func TestBreakpointStoreConditionGatesMatch(t *testing.T) {
	store := NewBreakpointStore()
	node := sexpr.NewList(sexpr.NewAtom(int64(1)))
	allow := false
	store.Set(node, func(env *sexpr.Environment, expr sexpr.Node) bool { return allow })

	assert.Nil(t, store.Match(nil, node))
	allow = true
	assert.NotNil(t, store.Match(nil, node))
}

func TestBreakpointStoreRemove(t *testing.T) {
	store := NewBreakpointStore()
	node := sexpr.NewList(sexpr.NewAtom(int64(1)))
	store.Set(node, nil)

	store.Remove(node)
	assert.Nil(t, store.Match(nil, node))
}

func TestBreakpointStoreDisabledNeverMatches(t *testing.T) {
	store := NewBreakpointStore()
	node := sexpr.NewList(sexpr.NewAtom(int64(1)))
	bp := store.Set(node, nil)
	bp.Enabled = false

	assert.Nil(t, store.Match(nil, node))
}

func TestBreakpointStoreClear(t *testing.T) {
	store := NewBreakpointStore()
	a := sexpr.NewList(sexpr.NewAtom(int64(1)))
	b := sexpr.NewList(sexpr.NewAtom(int64(2)))
	store.Set(a, nil)
	store.Set(b, nil)
	require.Len(t, store.All(), 2)

	store.Clear()
	assert.Empty(t, store.All())
}
