package sexpr

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenize is a minimal Tokenizer used only by this file's tests: it
// recognizes the three structural literals, decimal integers, and bare-word
// identifiers made of letters, digits, '=' and '>' (so the lambda literal
// => lexes as a word), skipping spaces between tokens.
func testTokenize(env *Environment, input string, offset int) (Node, int) {
	start := offset
	for offset < len(input) && input[offset] == ' ' {
		offset++
	}
	skipped := offset - start
	if offset >= len(input) {
		return nil, 0
	}
	switch input[offset] {
	case '(':
		return NewAtom(env.Provider.Intern("(", true)), skipped + 1
	case ')':
		return NewAtom(env.Provider.Intern(")", true)), skipped + 1
	case '`':
		return NewAtom(env.Provider.Intern("`", true)), skipped + 1
	}
	r := rune(input[offset])
	if unicode.IsDigit(r) {
		end := offset
		for end < len(input) && unicode.IsDigit(rune(input[end])) {
			end++
		}
		n := 0
		for _, c := range input[offset:end] {
			n = n*10 + int(c-'0')
		}
		return NewAtom(n), skipped + (end - offset)
	}
	if unicode.IsLetter(r) || r == '=' || r == '>' {
		end := offset
		for end < len(input) && (unicode.IsLetter(rune(input[end])) || unicode.IsDigit(rune(input[end])) || input[end] == '=' || input[end] == '>') {
			end++
		}
		word := input[offset:end]
		return NewAtom(env.Provider.Intern(word, false)), skipped + (end - offset)
	}
	return NewAtom(env.Provider.Intern("", true)), 0
}

func newTestEnv() *Environment {
	p := NewSeededSymbolProvider(DefaultSeed(), true)
	return NewRootEnvironment(p)
}

func TestParseAtom(t *testing.T) {
	env := newTestEnv()
	node, err := Parse(env, testTokenize, "42")
	require.NoError(t, err)
	assert.Equal(t, NewAtom(42), node)
}

func TestParseEmptyList(t *testing.T) {
	env := newTestEnv()
	node, err := Parse(env, testTokenize, "()")
	require.NoError(t, err)
	assert.Same(t, EmptyList, node)
}

func TestParseNestedList(t *testing.T) {
	env := newTestEnv()
	node, err := Parse(env, testTokenize, "(a (b c) 3)")
	require.NoError(t, err)
	list, ok := node.(*List)
	require.True(t, ok)
	require.Len(t, list.Items, 3)
	inner, ok := list.Items[1].(*List)
	require.True(t, ok)
	assert.Len(t, inner.Items, 2)
}

func TestParseQuoteProducesTwoElementList(t *testing.T) {
	env := newTestEnv()
	node, err := Parse(env, testTokenize, "`x")
	require.NoError(t, err)
	list, ok := node.(*List)
	require.True(t, ok)
	require.Len(t, list.Items, 2)
	sym := list.Items[0].(Atom).AsSymbol()
	require.NotNil(t, sym)
	assert.Equal(t, int32(-3), sym.Index)
}

func TestParseTrailingInputIsAnError(t *testing.T) {
	env := newTestEnv()
	_, err := Parse(env, testTokenize, "1 2")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseUnexpectedClosingParen(t *testing.T) {
	env := newTestEnv()
	_, err := Parse(env, testTokenize, ")")
	require.Error(t, err)
}

func TestParseUnterminatedListIsAnError(t *testing.T) {
	env := newTestEnv()
	_, err := Parse(env, testTokenize, "(a b")
	require.Error(t, err)
}

func TestParseUnrecognizedCharacterReportsRune(t *testing.T) {
	env := newTestEnv()
	_, err := Parse(env, testTokenize, "(a #)")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, '#', perr.Rune)
}

func TestParseSharesSymbolsAcrossCalls(t *testing.T) {
	env := newTestEnv()
	a, err := Parse(env, testTokenize, "(a a)")
	require.NoError(t, err)
	listA := a.(*List)

	b, err := Parse(env, testTokenize, "a")
	require.NoError(t, err)
	symA := b.(Atom).AsSymbol()
	symInListA := listA.Items[0].(Atom).AsSymbol()
	assert.Same(t, symA, symInListA, "interning the same literal across separate Parse calls yields the same Symbol")
}
