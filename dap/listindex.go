package dap

import "github.com/sexprlang/sexpr"

// ListIndex enumerates every *sexpr.List in root (root's own top-level list
// included) in pre-order, depth-first, left-to-right. This core attaches no
// source line to a Node, so a DAP client's "line" has nothing to key a
// breakpoint on directly. Instead the dap package treats the 1-based
// position of a list in this walk as its "line": the Nth list-expression
// encountered while reading the program top to bottom is addressable as
// line N. This is stable for one parsed tree and requires no change to the
// parser or the debug package's node-identity-keyed breakpoints.
func ListIndex(root sexpr.Node) []*sexpr.List {
	var out []*sexpr.List
	walkLists(root, &out)
	return out
}

func walkLists(n sexpr.Node, out *[]*sexpr.List) {
	list, ok := n.(*sexpr.List)
	if !ok {
		return
	}
	*out = append(*out, list)
	for _, item := range list.Items {
		walkLists(item, out)
	}
}
