package earley

import "github.com/scala-steward/diesel-core/internal/diesel/types"

// Chart is the set of states ending at one token position, plus the token
// that occupies that position (if any -- the final chart has none).
type Chart struct {
	Index  int
	States []*StateContext

	byKey        map[string]*StateContext
	byNextSymbol map[string][]*StateContext
}

func newChart(index int) *Chart {
	return &Chart{
		Index:        index,
		byKey:        map[string]*StateContext{},
		byNextSymbol: map[string][]*StateContext{},
	}
}

// Get returns the StateContext for s if this chart already contains it.
func (c *Chart) Get(s State) (*StateContext, bool) {
	sc, ok := c.byKey[s.key()]
	return sc, ok
}

// StatesExpecting returns every state in this chart whose NextSymbol is sym.
// This is the index completion uses to find every state a just-completed
// nonterminal can advance.
func (c *Chart) StatesExpecting(sym string) []*StateContext {
	return c.byNextSymbol[sym]
}

// insert adds a brand-new StateContext to the chart and indexes it. Callers
// must have already verified via Get that the state isn't present.
func (c *Chart) insert(sc *StateContext) {
	c.byKey[sc.State.key()] = sc
	c.States = append(c.States, sc)
	if sym, ok := sc.State.NextSymbol(); ok {
		c.byNextSymbol[sym] = append(c.byNextSymbol[sym], sc)
	}
}

// Result is the persistent record of one parse: the grammar and tokens it
// was run against, the chart built for each token position, and the
// diagnostics accumulated during recognition. It is mutated only during
// Recognizer.Parse; once Parse returns, it is read-only.
type Result struct {
	Tokens []types.Token
	Charts []*Chart

	// Success is strict: a derivation was found AND it required no
	// error-recovery repairs. A derivation reached only through recovery
	// still appears in the final chart (see SuccessState) so a best-effort
	// tree can be built from it, but Success is false for it.
	Success bool

	// ErrorTokens holds, in order, every token that matched no terminal of
	// the grammar (producing an UnknownToken marker and proceeding as if
	// the token were deleted).
	ErrorTokens []types.Token
}

// ChartAt returns the chart for token position i, or nil if i is out of
// range.
func (r *Result) ChartAt(i int) *Chart {
	if i < 0 || i >= len(r.Charts) {
		return nil
	}
	return r.Charts[i]
}

// SuccessState returns the completed start-rule state that marks a parse of
// the whole input (the synthetic "start -> axiom" rule the Recognizer seeds
// each parse with, completed, spanning every token), and whether it is
// present in the final chart. It returns a state regardless of whether
// reaching it required error recovery; check its SyntacticErrors to tell a
// clean derivation from a recovered one.
func (r *Result) SuccessState(startRule string, startProd []string) (*StateContext, bool) {
	last := len(r.Tokens) - 1
	if last < 0 {
		return nil, false
	}
	target := State{NonTerminal: startRule, Prod: startProd, Dot: len(startProd), Begin: 0, End: last}
	sc, ok := r.ChartAt(last).Get(target)
	return sc, ok
}
