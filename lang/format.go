package lang

import (
	"strconv"
	"strings"

	"github.com/sexprlang/sexpr"
)

// Format renders node as the surface syntax Tokenize accepts, resolving
// symbols through provider. It is used by builtinPrint and the repl
// package, and is meant for eyeballing values, not round-tripping through
// Parse (strings are not re-quoted or escaped).
func Format(provider *sexpr.SymbolProvider, node sexpr.Node) string {
	var b strings.Builder
	formatInto(&b, provider, node)
	return b.String()
}

func formatInto(b *strings.Builder, provider *sexpr.SymbolProvider, node sexpr.Node) {
	switch v := node.(type) {
	case sexpr.Atom:
		formatAtom(b, provider, v)
	case *sexpr.List:
		formatList(b, provider, v)
	case sexpr.Closure:
		b.WriteString("#<closure>")
	case *sexpr.BuiltinCell:
		b.WriteString("#<builtin>")
	default:
		b.WriteString("#<unknown>")
	}
}

func formatAtom(b *strings.Builder, provider *sexpr.SymbolProvider, a sexpr.Atom) {
	if sexpr.IsNil(a) {
		b.WriteString("nil")
		return
	}
	if sym := a.AsSymbol(); sym != nil {
		b.WriteString(provider.NameOf(sym))
		return
	}
	switch v := a.Value.(type) {
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case int:
		b.WriteString(strconv.Itoa(v))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case string:
		b.WriteByte('"')
		b.WriteString(v)
		b.WriteByte('"')
	default:
		b.WriteString(strconv.Quote(strings.TrimSpace(strconvUnknown(v))))
	}
}

func strconvUnknown(v interface{}) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

func formatList(b *strings.Builder, provider *sexpr.SymbolProvider, l *sexpr.List) {
	b.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		formatInto(b, provider, item)
	}
	b.WriteByte(')')
}
