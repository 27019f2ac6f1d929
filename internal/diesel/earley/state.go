package earley

import (
	"fmt"

	"github.com/scala-steward/diesel-core/internal/diesel/grammar"
)

// State is an Earley item: a production with a dot position, plus the chart
// range it spans. begin is the chart index it started at; end is the chart
// index it currently reaches.
type State struct {
	NonTerminal string
	Prod        grammar.Production
	Dot         int
	Begin       int
	End         int
}

// IsCompleted returns whether the dot has reached the end of the production.
func (s State) IsCompleted() bool {
	return s.Dot >= len(s.Prod)
}

// NextSymbol returns the symbol immediately after the dot, and whether one
// exists (false if the state is completed).
func (s State) NextSymbol() (string, bool) {
	if s.IsCompleted() {
		return "", false
	}
	return s.Prod[s.Dot], true
}

// Advance returns a copy of s with the dot moved one position to the right
// and End set to newEnd.
func (s State) Advance(newEnd int) State {
	s2 := s
	s2.Dot++
	s2.End = newEnd
	return s2
}

// key is the identity of a state within a chart: states with the same key
// are the same Earley item and are merged rather than duplicated.
func (s State) key() string {
	return fmt.Sprintf("%s->%s.%d@%d:%d", s.NonTerminal, s.Prod.String(), s.Dot, s.Begin, s.End)
}

func (s State) String() string {
	left := s.Prod[:s.Dot]
	right := s.Prod[s.Dot:]
	return fmt.Sprintf("(%s -> %s . %s, %d, %d)", s.NonTerminal, left.String(), right.String(), s.Begin, s.End)
}

// Kind is the monotonically-improving classification of a StateContext.
// Once a better (lower-valued) Kind is observed for a state, it sticks.
type Kind int

const (
	KindKernel Kind = iota
	KindProcessed
	KindIncompatible
	KindErrorRecovery
)

func (k Kind) String() string {
	switch k {
	case KindKernel:
		return "kernel"
	case KindProcessed:
		return "processed"
	case KindIncompatible:
		return "incompatible"
	default:
		return "error-recovery"
	}
}

// TerminalItem is the causal half of a BackPtr recorded by a scan. Exactly
// one of the four variants is ever produced for a given scan.
type TerminalItem interface {
	isTerminalItem()
}

// TokenValue is the causal for an ordinary, unmodified scan.
type TokenValue struct {
	Pos   int
	Style string
}

func (TokenValue) isTerminalItem() {}

// InsertedTokenValue is the causal for an insertion repair: the terminal was
// synthesized with zero width because the actual input was missing it.
type InsertedTokenValue struct {
	Pos         int
	TerminalID  string
}

func (InsertedTokenValue) isTerminalItem() {}

// DeletedTokenValue is the causal for a deletion repair: the actual token at
// Pos was consumed and discarded rather than matched.
type DeletedTokenValue struct {
	Pos int
}

func (DeletedTokenValue) isTerminalItem() {}

// MutationTokenValue is the causal for a mutation repair: the actual token
// at Pos was accepted in place of the expected terminal.
type MutationTokenValue struct {
	Pos        int
	TerminalID string
}

func (MutationTokenValue) isTerminalItem() {}

// BackPtr records one way a state was reached: either a scan (Causal is a
// TerminalItem) or a complete (Causal is the *StateContext of the
// just-completed child).
type BackPtr struct {
	Predecessor *StateContext
	Causal      interface{}
}

// StateContext is the mutable record a Chart keeps for one State: its best
// known error count, its Kind, the Feature accumulated along its best
// derivations, and every BackPtr that achieves that best error count.
type StateContext struct {
	State           State
	Kind            Kind
	SyntacticErrors int
	Feature         grammar.Feature
	BackPtrs        []BackPtr
}

const infErrors = int(^uint(0) >> 1)
