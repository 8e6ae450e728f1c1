package sexpr

import "unicode"

// Tokenizer is the external seam a derived interpreter supplies. Given
// the parser's root environment (so literals can be interned
// against the shared SymbolProvider), the full input, and a byte offset,
// it returns the next token and how many bytes of input it consumed --
// including any whitespace or comment bytes silently skipped before the
// match. A nil token with matchLen 0 signals end-of-input. A token wrapping
// the Unknown symbol with matchLen 0 signals an unrecognized character at
// or after offset; the parser reports the first non-whitespace rune at or
// after offset, and that rune's offset, in the resulting ParseError.
type Tokenizer func(ctx *Environment, input string, offset int) (tok Node, matchLen int)

// Parser is a recursive-descent consumer of the token stream produced by a
// Tokenizer. It implements the grammar:
//
//	sexpr  := quoted | list | atom
//	quoted := QUOTE sexpr
//	list   := OPEN sexpr* CLOSE
//	atom   := any non-structural token
type Parser struct {
	env      *Environment
	tokenize Tokenizer
	input    string
	offset   int

	bufValid bool
	bufTok   Node
	bufAt    int
}

// NewParser returns a Parser that reads input starting at offset 0, using
// tokenize to produce tokens and env (and its shared SymbolProvider) to
// resolve the reserved structural symbols.
func NewParser(env *Environment, tokenize Tokenizer, input string) *Parser {
	return &Parser{env: env, tokenize: tokenize, input: input}
}

// peek returns the next token without consuming it, caching it until
// advance is called. ok is false at end-of-input.
func (p *Parser) peek() (tok Node, at int, ok bool, err error) {
	if p.bufValid {
		return p.bufTok, p.bufAt, true, nil
	}
	at = p.offset
	tok, n := p.tokenize(p.env, p.input, p.offset)
	if tok == nil && n == 0 {
		return nil, at, false, nil
	}
	if n == 0 {
		r := runeAt(p.input, at)
		for unicode.IsSpace(r) {
			at += len(string(r))
			r = runeAt(p.input, at)
		}
		return nil, at, false, newUnexpectedRuneError(at, r)
	}
	p.bufValid, p.bufTok, p.bufAt = true, tok, at
	p.offset = at + n
	return tok, at, true, nil
}

// advance consumes the token last returned by peek.
func (p *Parser) advance() {
	p.bufValid = false
}

func runeAt(s string, offset int) rune {
	for _, r := range s[offset:] {
		return r
	}
	return 0
}

func (p *Parser) isStructural(tok Node, index int32) bool {
	a, ok := tok.(Atom)
	if !ok {
		return false
	}
	sym := a.AsSymbol()
	return sym != nil && sym.Index == index
}

// parseSExpr parses exactly one S-expression starting at the parser's
// current position.
func (p *Parser) parseSExpr() (Node, error) {
	tok, at, ok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newOffsetError(at, "unexpected end of input")
	}
	switch {
	case p.isStructural(tok, quoteIndex):
		p.advance()
		inner, err := p.parseSExpr()
		if err != nil {
			return nil, err
		}
		return NewList(NewAtom(quoteSymbol(p.env)), inner), nil
	case p.isStructural(tok, openIndex):
		p.advance()
		return p.parseList()
	case p.isStructural(tok, closeIndex):
		return nil, newOffsetError(at, "unexpected closing paren")
	default:
		p.advance()
		return tok, nil
	}
}

func (p *Parser) parseList() (Node, error) {
	var items []Node
	for {
		tok, at, ok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newOffsetError(at, "unexpected end of input inside list")
		}
		if p.isStructural(tok, closeIndex) {
			p.advance()
			if len(items) == 0 {
				return EmptyList, nil
			}
			return NewList(items...), nil
		}
		item, err := p.parseSExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func quoteSymbol(env *Environment) *Symbol {
	return env.Provider.Intern("`", true)
}

// Parse parses exactly one top-level S-expression out of input, using env's
// shared SymbolProvider to resolve structural symbols, and requires that no
// non-whitespace input remains afterward.
func Parse(env *Environment, tokenize Tokenizer, input string) (Node, error) {
	p := NewParser(env, tokenize, input)
	expr, err := p.parseSExpr()
	if err != nil {
		return nil, err
	}
	_, at, ok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, newOffsetError(at, "trailing input after top-level expression")
	}
	return expr, nil
}
