// Package complete implements the completion engine: given a parsed
// Result and a cursor offset, it walks the incomplete Earley states at that
// offset and their continuations to enumerate admissible completions.
package complete

import "github.com/scala-steward/diesel-core/internal/diesel/types"

// Proposal is one suggested completion at a cursor.
type Proposal struct {
	// Element is the DslElement the proposal was generated for, if the
	// production carried one.
	Element types.DslElement

	Text string

	// Replace is the (offset, length) span the proposal's Text should
	// replace, typically the in-progress prefix token at the cursor.
	Replace Span

	UserData interface{}

	Documentation string

	// PredictorPaths records, for diagnostic/debugging use, the chain of
	// nonterminals the continuation walk descended through to reach this
	// proposal.
	PredictorPaths []string
}

// Span is a half-open (offset, length) range in source text.
type Span struct {
	Offset int
	Length int
}

// Provider lets a grammar author supply proposals for a DslElement directly
// rather than have the walk derive them from the grammar's terminals.
type Provider interface {
	Propose(ctx *Cursor, element types.DslElement) []Proposal
}

// ComputeFilter lets a grammar author prune which NonTerminal continuations
// the walk bothers expanding.
type ComputeFilter interface {
	ContinueVisit(element types.DslElement) bool
}

// Filter post-processes the full proposal list for one complete() call,
// given the cursor and (if available) the node of the reconstructed tree
// found at the cursor's chart index.
type Filter interface {
	Filter(ctx *Cursor, proposals []Proposal) []Proposal
}

// Cursor is the context passed to Providers and Filters: where completion
// was requested, and what the engine computed about that position.
type Cursor struct {
	Offset int
	Prefix string

	// ChartIndex is the index of the chart the continuation walk is
	// seeded from.
	ChartIndex int
}
