package forest

import (
	"errors"

	"github.com/scala-steward/diesel-core/internal/diesel/earley"
	"github.com/scala-steward/diesel-core/internal/diesel/grammar"
	"github.com/scala-steward/diesel-core/internal/diesel/marker"
	"github.com/scala-steward/diesel-core/internal/diesel/types"
)

// ErrTooManyTrees is returned by ToTree when, after every configured Reducer
// has run, more than one candidate derivation still survives at the success
// state. Under the default reducer stack (which ends in SelectOne) this
// never happens; it is reachable only when a caller configures a custom
// stack that doesn't collapse to one.
var ErrTooManyTrees = errors.New("forest: more than one tree survived reduction")

// ErrNoDerivation is returned by ToTree/ToTrees when the result never
// reached the success state at all, even through error recovery -- there is
// no best-effort tree to build.
var ErrNoDerivation = errors.New("forest: no derivation reached the success state")

// Navigator walks one Result's back-pointer graph into GenericTrees. A
// Navigator is reusable across Results sharing its Grammar, but not safe to
// drive two ToTrees calls over two different Results concurrently.
type Navigator struct {
	g        *grammar.Grammar
	reducers []Reducer

	tokens []types.Token
}

// New returns a Navigator over g using the default reducer stack.
func New(g *grammar.Grammar) *Navigator {
	return &Navigator{g: g, reducers: DefaultReducers()}
}

// SetReducers replaces the reducer stack. Passing a stack that doesn't end
// in something equivalent to SelectOne may cause ToTree to return
// ErrTooManyTrees on an ambiguous grammar; use ToTrees to accept more than
// one survivor.
func (n *Navigator) SetReducers(reducers []Reducer) {
	n.reducers = reducers
}

// ToTree resolves res's success state to a single GenericTree. It returns
// ErrTooManyTrees if, after reduction, more than one candidate survives.
func (n *Navigator) ToTree(res *earley.Result, axiomName string) (*GenericTree, error) {
	trees, err := n.ToTrees(res, axiomName)
	if err != nil {
		return nil, err
	}
	if len(trees) > 1 {
		return nil, ErrTooManyTrees
	}
	return trees[0], nil
}

// ToTrees resolves res's success state to every surviving candidate
// derivation under the configured reducer stack (more than one only if a
// custom stack was configured that doesn't collapse ambiguity). The success
// state is resolved regardless of whether reaching it required error
// recovery, so a best-effort tree carrying recovery markers can still be
// built when res.Success is false.
func (n *Navigator) ToTrees(res *earley.Result, axiomName string) ([]*GenericTree, error) {
	startRule := "\x00start"
	startProd := grammar.Production{axiomName}
	sc, ok := res.SuccessState(startRule, startProd)
	if !ok {
		return nil, ErrNoDerivation
	}

	n.tokens = res.Tokens
	candidates := n.expandNonTerminal(sc)

	trees := make([]*GenericTree, len(candidates))
	for i, c := range candidates {
		// the synthetic start node has exactly one child: the axiom node
		// itself. Unwrap it so callers see a tree rooted at their axiom.
		root := c.node
		if len(root.Children) == 1 {
			root = root.Children[0]
			root.Parent = nil
		}
		trees[i] = &GenericTree{Root: root, Markers: collectMarkers(root), Value: root.Value}
	}

	return trees, nil
}

func collectMarkers(n *GenericNode) []*marker.Marker {
	var out []*marker.Marker
	n.Walk(func(gn *GenericNode) {
		out = append(out, gn.Context.Markers...)
	})
	return out
}
