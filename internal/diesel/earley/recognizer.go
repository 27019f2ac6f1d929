// Package earley implements the recognizer: a chart-based Earley parser with
// two-phase error recovery, operating over an immutable Grammar and a
// materialized token slice.
package earley

import (
	"fmt"

	"github.com/scala-steward/diesel-core/internal/dierr"
	"github.com/scala-steward/diesel-core/internal/diesel/grammar"
	"github.com/scala-steward/diesel-core/internal/diesel/types"
)

// startNonTerminal is the synthetic nonterminal every parse is seeded with:
// a single production naming the requested axiom, so that acceptance is
// simply "this production, completed, spanning every token" rather than a
// special case over the grammar's own axiom productions.
const startNonTerminal = "\x00start"

// Recognizer runs the Earley algorithm against one Grammar. It holds no
// per-parse state; Parse is safe to call repeatedly and concurrently from
// different goroutines as long as each call uses its own Result (see the
// concurrency model: the Grammar may be shared, a Result may not).
type Recognizer struct {
	g     *grammar.Grammar
	trace func(s string)
}

// New returns a Recognizer over g. g must have passed Validate.
func New(g *grammar.Grammar) *Recognizer {
	return &Recognizer{g: g}
}

// RegisterTraceListener installs a callback invoked with a human-readable
// description of every predict/scan/complete step and every error-recovery
// repair. Registering nil disables tracing.
func (r *Recognizer) RegisterTraceListener(listener func(s string)) {
	r.trace = listener
}

func (r *Recognizer) notifyTrace(format string, args ...interface{}) {
	if r.trace != nil {
		r.trace(fmt.Sprintf(format, args...))
	}
}

// Parse recognizes toks against axiomName (or the grammar's sole axiom, if
// axiomName is empty) and returns a Result. Parse never returns a non-nil
// error for a syntactic problem with the input -- those become markers and
// ErrorTokens on the Result, with Result.Success = false whenever reaching
// the completed derivation required any error recovery (the derivation
// itself is still reachable via Result.SuccessState, for a best-effort
// tree). It returns an error only for a configuration mistake: an empty
// grammar, or an axiom name that resolves to nothing.
func (r *Recognizer) Parse(toks []types.Token, axiomName string) (*Result, error) {
	axiom, err := r.resolveAxiom(axiomName)
	if err != nil {
		return nil, err
	}

	res := &Result{Tokens: toks}
	// one extra chart beyond the tokens themselves: scanOrRecover runs at
	// every token position including the last (the EOS token), and its
	// deletion/mutation repairs advance into chart i+1.
	res.Charts = make([]*Chart, len(toks)+1)
	for i := range res.Charts {
		res.Charts[i] = newChart(i)
	}

	startProd := grammar.Production{axiom}
	seed := State{NonTerminal: startNonTerminal, Prod: startProd, Dot: 0, Begin: 0, End: 0}
	r.addState(res, 0, seed, KindKernel, BackPtr{})

	queue := append([]*StateContext(nil), res.Charts[0].States...)
	for i := 0; i < len(toks); i++ {
		for len(queue) > 0 {
			s := queue[0]
			queue = queue[1:]
			added := r.step(res, i, s)
			queue = append(queue, added...)
		}

		// scanOrRecover must run at every position, including the last
		// (where the token is EOS): that is exactly where trailing-insertion
		// recovery needs to fire, since an insertion repair lands in this
		// same chart rather than the next one.
		r.scanOrRecover(res, i)
		queue = append(queue, res.Charts[i+1].States...)
	}

	if sc, ok := res.SuccessState(startNonTerminal, startProd); ok {
		res.Success = sc.SyntacticErrors == 0
	}
	return res, nil
}

func (r *Recognizer) resolveAxiom(name string) (string, error) {
	axioms := r.g.Axioms()
	if len(axioms) == 0 {
		return "", dierr.ErrEmptyGrammar
	}
	if name == "" {
		if def, ok := r.g.DefaultAxiom(); ok {
			return def, nil
		}
		return "", dierr.ErrAmbiguousAxiom
	}
	for _, a := range axioms {
		if a == name {
			return a, nil
		}
	}
	for _, a := range axioms {
		if len(a) >= len(name) && a[:len(name)] == name {
			return a, nil
		}
	}
	return "", dierr.ErrUnknownAxiom
}

// step performs one predict/scan/complete dispatch for state s at chart i,
// returning any newly-added states at chart i (scan results land at i+1 and
// are picked up by the outer loop instead).
func (r *Recognizer) step(res *Result, i int, s *StateContext) []*StateContext {
	if s.State.IsCompleted() {
		return r.complete(res, i, s)
	}

	sym, _ := s.State.NextSymbol()
	if grammar.IsTerminalSymbol(sym) {
		// terminals are handled in scanOrRecover once the whole chart has
		// settled, since scanning needs every predicted state, not just the
		// ones processed so far.
		return nil
	}
	return r.predict(res, i, s, sym)
}

// predict adds one new Kernel state per production of nonterminal sym,
// handling epsilon productions by immediately enqueuing their completed
// form so that states advancing over a nullable rule don't have to wait for
// a token to arrive.
func (r *Recognizer) predict(res *Result, i int, s *StateContext, sym string) []*StateContext {
	var added []*StateContext

	rule, ok := r.g.Rule(sym)
	if !ok {
		return nil
	}
	for _, prod := range rule.Productions {
		var seed grammar.Feature
		if b, ok := r.g.BindingFor(sym, prod); ok {
			seed = b.Feature
		}

		predicted := State{NonTerminal: sym, Prod: prod, Dot: 0, Begin: i, End: i}
		if sc, isNew := r.addStateWithFeature(res, i, predicted, KindKernel, seed, BackPtr{}); isNew {
			added = append(added, sc)
			r.notifyTrace("predict: %s", predicted.String())

			if prod.Equal(grammar.Epsilon) {
				completed := predicted
				completed.Dot = len(prod)
				if csc, isNewC := r.addStateWithFeature(res, i, completed, KindProcessed, seed, BackPtr{Predecessor: sc}); isNewC {
					added = append(added, csc)
				}
			}
		}
	}

	return added
}

// complete advances every state in charts[s.begin] that expects s's
// nonterminal, merging features and recording a BackPtr to s.
func (r *Recognizer) complete(res *Result, i int, s *StateContext) []*StateContext {
	var added []*StateContext

	origin := res.ChartAt(s.State.Begin)
	for _, t := range origin.StatesExpecting(s.State.NonTerminal) {
		advanced := t.State.Advance(i)

		kind := KindProcessed
		feature := t.Feature
		if t.Feature != nil {
			merged, ok := t.Feature.Merge(t.State.Dot, s.Feature)
			if !ok {
				kind = KindIncompatible
			} else {
				feature = merged
			}
		}

		sc, isNew := r.addStateWithFeature(res, i, advanced, kind, feature, BackPtr{Predecessor: t, Causal: s})
		if isNew {
			added = append(added, sc)
		}
		r.notifyTrace("complete: %s via %s -> %s", t.State.String(), s.State.String(), advanced.String())
	}

	return added
}

// scanOrRecover scans token i against every state in charts[i] whose
// NextSymbol is a matching terminal, advancing matches into charts[i+1]. If
// no state in charts[i] could advance over token i (a dead chart), the
// three error-recovery repairs are attempted for every terminal-expecting
// state instead.
func (r *Recognizer) scanOrRecover(res *Result, i int) {
	tok := res.Tokens[i]

	matchedAny := false
	var stuck []*StateContext

	for _, s := range res.Charts[i].States {
		sym, ok := s.State.NextSymbol()
		if !ok || !grammar.IsTerminalSymbol(sym) {
			continue
		}
		if sym == tok.Class().ID() {
			advanced := s.State.Advance(i + 1)
			r.addStateWithFeature(res, i+1, advanced, KindProcessed, s.Feature, BackPtr{Predecessor: s, Causal: TokenValue{Pos: i, Style: tok.Style()}})
			matchedAny = true
			r.notifyTrace("scan: %s on %q", s.State.String(), tok.Lexeme())
		} else {
			stuck = append(stuck, s)
		}
	}

	if matchedAny {
		return
	}

	if tok.Class().ID() == types.TokenError.ID() {
		res.ErrorTokens = append(res.ErrorTokens, tok)
	}

	for _, s := range stuck {
		sym, _ := s.State.NextSymbol()
		r.recover(res, i, s, sym, tok)
	}
}

// recover applies the three repair strategies -- insertion, deletion,
// mutation -- for a state stuck expecting terminal sym at position i.
func (r *Recognizer) recover(res *Result, i int, s *StateContext, sym string, tok types.Token) {
	// insertion: pretend sym appeared with zero width, advance without
	// consuming the token -- the repaired state lands in the same chart the
	// original token still occupies, so it can scan again normally.
	insAdvance := s.State.Advance(i)
	r.addStateWithFeature(res, i, insAdvance, KindErrorRecovery, s.Feature,
		BackPtr{Predecessor: s, Causal: InsertedTokenValue{Pos: i, TerminalID: sym}})
	r.notifyTrace("recover(insert %s): %s", sym, s.State.String())

	// deletion: consume the actual token and leave the dot where it was,
	// landing the (unchanged) state at i+1 so the next token gets another
	// chance against the same expectation.
	delState := s.State
	delState.End = i + 1
	r.addStateWithFeature(res, i+1, delState, KindErrorRecovery, s.Feature,
		BackPtr{Predecessor: s, Causal: DeletedTokenValue{Pos: i}})
	r.notifyTrace("recover(delete): %s", s.State.String())

	// mutation: consume the actual token as if it matched sym.
	mutAdvance := s.State.Advance(i + 1)
	r.addStateWithFeature(res, i+1, mutAdvance, KindErrorRecovery, s.Feature,
		BackPtr{Predecessor: s, Causal: MutationTokenValue{Pos: i, TerminalID: sym}})
	r.notifyTrace("recover(mutate %s): %s", sym, s.State.String())
}

// addState is addStateWithFeature with no feature carried (used for predict,
// where the state hasn't accumulated any feature yet).
func (r *Recognizer) addState(res *Result, chartIdx int, s State, kind Kind, bp BackPtr) (*StateContext, bool) {
	return r.addStateWithFeature(res, chartIdx, s, kind, nil, bp)
}

// addStateWithFeature is the idempotent addState operation from the
// algorithm: if s already exists in chart[chartIdx], merge the BackPtr and
// possibly improve kind/syntacticErrors; otherwise insert and return it as
// new so the caller enqueues it.
func (r *Recognizer) addStateWithFeature(res *Result, chartIdx int, s State, kind Kind, feature grammar.Feature, bp BackPtr) (*StateContext, bool) {
	chart := res.Charts[chartIdx]

	errDelta := 0
	if kind == KindErrorRecovery {
		errDelta = 1
	}
	newErrors := 0
	if bp.Predecessor != nil {
		newErrors = bp.Predecessor.SyntacticErrors + errDelta
	} else if s.Dot != 0 {
		newErrors = infErrors
	}

	existing, ok := chart.Get(s)
	if !ok {
		sc := &StateContext{
			State:           s,
			Kind:            kind,
			SyntacticErrors: newErrors,
			Feature:         feature,
		}
		if bp.Predecessor != nil || bp.Causal != nil {
			sc.BackPtrs = []BackPtr{bp}
		}
		chart.insert(sc)
		return sc, true
	}

	if kind > existing.Kind {
		existing.Kind = kind
	}

	switch {
	case newErrors < existing.SyntacticErrors:
		existing.SyntacticErrors = newErrors
		existing.BackPtrs = []BackPtr{bp}
		existing.Feature = feature
	case newErrors == existing.SyntacticErrors:
		existing.BackPtrs = append(existing.BackPtrs, bp)
	}

	return existing, false
}
