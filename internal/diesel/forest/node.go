// Package forest walks a completed Result's back-pointer graph into one or
// more derivation trees, resolving ambiguity with a configurable stack of
// Reducers and invoking each production's bound reduction action bottom-up.
package forest

import (
	"github.com/scala-steward/diesel-core/internal/diesel/grammar"
	"github.com/scala-steward/diesel-core/internal/diesel/marker"
	"github.com/scala-steward/diesel-core/internal/diesel/types"
)

// GenericNode is one node of a derivation tree: a NonTerminal node carries a
// production, its children, and the Value its bound action computed;
// a Terminal node carries the Token it was built from. Every node knows its
// absolute offset and length in the source text and the Context its action
// (if any) populated with markers/styles.
type GenericNode struct {
	Terminal bool

	// Symbol is the grammar symbol this node derives: a nonterminal name, or
	// a terminal ID for Terminal nodes.
	Symbol string

	// Production is the production this node was reduced from. Empty for
	// Terminal nodes.
	Production grammar.Production

	Children []*GenericNode
	Parent   *GenericNode

	// Token is set only for Terminal nodes.
	Token types.Token

	// Inserted is true for a Terminal node synthesized by an insertion
	// repair: it has zero length and is excluded from the args a parent's
	// reduction action receives, though its marker still propagates.
	Inserted bool

	// Value is the value computed by this node's bound ReduceFunc, or the
	// Token's lexeme for an un-bound Terminal node.
	Value interface{}

	// Ambiguity is non-nil if more than one candidate derivation reached
	// this node's span before reducers ran.
	Ambiguity *Ambiguity

	Context marker.Context

	Offset int
	Length int
}

// Elements returns Children, satisfying util.Container for tree-walking
// helpers that operate generically over containers.
func (n *GenericNode) Elements() []*GenericNode {
	return n.Children
}

// Walk visits n and every descendant, pre-order, left to right.
func (n *GenericNode) Walk(visit func(*GenericNode)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// GenericTree is the result of resolving one success state (or one
// DslElement-tagged completion, for a sub-tree query) to a single
// derivation: its root node plus every marker collected anywhere in the
// tree, aggregated in source order for convenient reporting.
type GenericTree struct {
	Root *GenericNode

	// Markers is every marker attached anywhere in the tree, in source
	// order (stable on ties, by the order reduction actions ran).
	Markers []*marker.Marker

	// Value is Root.Value, provided directly since it's what most callers
	// actually want.
	Value interface{}
}

// Dump renders the tree as an indented symbol-and-span listing, for trace
// and debugging output.
func (t *GenericTree) Dump() string {
	var b []byte
	var walk func(n *GenericNode, depth int)
	walk = func(n *GenericNode, depth int) {
		for i := 0; i < depth; i++ {
			b = append(b, ' ', ' ')
		}
		if n.Terminal {
			b = append(b, []byte(n.Symbol+" "+quoteLexeme(n)+"\n")...)
		} else {
			b = append(b, []byte(n.Symbol+"\n")...)
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if t.Root != nil {
		walk(t.Root, 0)
	}
	return string(b)
}

// FlattenStyles walks the whole tree and resolves the styles attached to
// every node's Context into a single non-overlapping, source-ordered list,
// using each node's actual depth in the tree so a deeper node's style wins
// an overlap with an ancestor's regardless of the depth value the action
// happened to pass to Context.AddMarker's sibling, Styles.Add.
func (t *GenericTree) FlattenStyles() []marker.Style {
	var all marker.Styles
	var walk func(n *GenericNode, depth int)
	walk = func(n *GenericNode, depth int) {
		for _, it := range n.Context.Styles.Items() {
			all.Add(it.Offset, it.Length, it.Name, depth)
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if t.Root != nil {
		walk(t.Root, 0)
	}
	return all.Flatten()
}

func quoteLexeme(n *GenericNode) string {
	if n.Token == nil {
		return `""`
	}
	return "\"" + n.Token.Lexeme() + "\""
}
