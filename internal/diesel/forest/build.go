package forest

import (
	"github.com/scala-steward/diesel-core/internal/diesel/earley"
	"github.com/scala-steward/diesel-core/internal/diesel/marker"
	"github.com/scala-steward/diesel-core/internal/diesel/types"
)

// expandNonTerminal resolves a completed StateContext (Dot == len(Prod)) to
// every surviving candidate node for its (NonTerminal, Begin, End) span,
// after running this Navigator's reducer stack. It invokes the production's
// bound reduction action, if any, once per surviving candidate.
func (n *Navigator) expandNonTerminal(sc *earley.StateContext) []*candidate {
	raw := n.rawChildSets(sc)

	built := make([]*candidate, len(raw))
	for i, rc := range raw {
		built[i] = n.makeNode(sc, rc)
	}

	reduced := n.runReducers(built)

	if len(built) > 1 {
		amb := &Ambiguity{branchCount: len(built), abortedBranchCount: len(built) - len(reduced)}
		for _, c := range reduced {
			c.node.Ambiguity = amb
		}
	}

	return reduced
}

// rawChild is one candidate child (already-resolved node) contributed by a
// single BackPtr's causal item, with the incremental error count it adds.
type rawChild struct {
	node   *GenericNode
	errors int
}

// rawSet is one candidate assignment of children (in left-to-right order)
// for a NonTerminal's production, built up Dot position by Dot position.
type rawSet struct {
	children []*GenericNode
	errors   int
}

// rawChildSets enumerates every candidate left-to-right child assignment for
// sc's production by walking its BackPtrs back through decreasing Dot
// positions, crossing each predecessor's candidate sets with the new
// child(ren) the BackPtr's causal item contributes.
func (n *Navigator) rawChildSets(sc *earley.StateContext) []rawSet {
	if len(sc.BackPtrs) == 0 {
		return []rawSet{{}}
	}

	var all []rawSet
	for _, bp := range sc.BackPtrs {
		var predSets []rawSet
		if bp.Predecessor == nil {
			predSets = []rawSet{{}}
		} else {
			predSets = n.rawChildSets(bp.Predecessor)
		}

		children := n.resolveCausal(bp.Causal)
		for _, ps := range predSets {
			for _, ch := range children {
				merged := make([]*GenericNode, len(ps.children)+1)
				copy(merged, ps.children)
				merged[len(ps.children)] = ch.node
				all = append(all, rawSet{children: merged, errors: ps.errors + ch.errors})
			}
		}
	}
	return all
}

// resolveCausal builds the candidate node(s) a single BackPtr's causal value
// contributes: one node for a scan or a repair, or every surviving candidate
// of a nested nonterminal completion.
func (n *Navigator) resolveCausal(causal interface{}) []rawChild {
	switch c := causal.(type) {
	case *earley.StateContext:
		nested := n.expandNonTerminal(c)
		out := make([]rawChild, len(nested))
		for i, cand := range nested {
			out[i] = rawChild{node: cand.node, errors: cand.errors}
		}
		return out

	case earley.TokenValue:
		tok := n.tokens[c.Pos]
		return []rawChild{{node: n.terminalNode(tok, false), errors: 0}}

	case earley.InsertedTokenValue:
		node := n.syntheticTerminalNode(c.TerminalID, c.Pos, true)
		node.Context.AddMarker(marker.NewKind(node.Offset, 0, marker.Warning, marker.InsertedToken, c.TerminalID))
		return []rawChild{{node: node, errors: 1}}

	case earley.DeletedTokenValue:
		tok := n.tokens[c.Pos]
		node := n.terminalNode(tok, true)
		node.Context.AddMarker(marker.NewKind(tok.Offset(), tok.EndOffset()-tok.Offset(), marker.Warning, marker.MissingToken, tok.Lexeme()))
		return []rawChild{{node: node, errors: 1}}

	case earley.MutationTokenValue:
		tok := n.tokens[c.Pos]
		node := n.terminalNode(tok, false)
		node.Context.AddMarker(marker.NewKind(tok.Offset(), tok.EndOffset()-tok.Offset(), marker.Warning, marker.TokenMutation, c.TerminalID, tok.Lexeme()))
		return []rawChild{{node: node, errors: 1}}

	default:
		return nil
	}
}

func (n *Navigator) terminalNode(t types.Token, deleted bool) *GenericNode {
	node := &GenericNode{
		Terminal: true,
		Symbol:   t.Class().ID(),
		Token:    t,
		Offset:   t.Offset(),
		Length:   t.EndOffset() - t.Offset(),
		Value:    t.Lexeme(),
		Inserted: deleted,
	}
	if style := t.Style(); style != "" {
		node.Context.Styles.Add(node.Offset, node.Length, style, 0)
	}
	return node
}

// syntheticTerminalNode builds the zero-width node for an insertion repair.
func (n *Navigator) syntheticTerminalNode(terminalID string, pos int, inserted bool) *GenericNode {
	offset := 0
	if pos < len(n.tokens) {
		offset = n.tokens[pos].Offset()
	}
	return &GenericNode{
		Terminal: true,
		Symbol:   terminalID,
		Offset:   offset,
		Length:   0,
		Inserted: inserted,
	}
}

// makeNode builds the NonTerminal GenericNode for one candidate child
// assignment of sc's production, merging each child's Context upward and
// invoking the production's bound action (if any) over the non-inserted
// children's values.
func (n *Navigator) makeNode(sc *earley.StateContext, rc rawSet) *candidate {
	begin := sc.State.Begin
	offset := 0
	if begin < len(n.tokens) {
		offset = n.tokens[begin].Offset()
	}
	end := 0
	if sc.State.End > 0 && sc.State.End-1 < len(n.tokens) {
		end = n.tokens[sc.State.End-1].EndOffset()
	} else {
		end = offset
	}

	node := &GenericNode{
		Symbol:     sc.State.NonTerminal,
		Production: sc.State.Prod,
		Children:   rc.children,
		Offset:     offset,
		Length:     end - offset,
	}
	for _, c := range rc.children {
		c.Parent = node
		node.Context.Merge(&c.Context)
	}

	var args []interface{}
	for _, c := range rc.children {
		if c.Inserted {
			continue
		}
		args = append(args, c.Value)
	}

	if b, ok := n.g.BindingFor(sc.State.NonTerminal, sc.State.Prod); ok && b.Action != nil {
		node.Value = b.Action(&node.Context, args)
	}

	return &candidate{node: node, errors: rc.errors + sc.SyntacticErrors}
}

// runReducers applies each configured Reducer in turn: within each Reducer's
// pass, every pair is folded through compare to find the best value, then
// close decides the surviving set that feeds the next Reducer.
func (n *Navigator) runReducers(candidates []*candidate) []*candidate {
	survivors := candidates
	for _, r := range n.reducers {
		if len(survivors) <= 1 {
			break
		}
		survivors = r.close(survivors)
	}
	return survivors
}
