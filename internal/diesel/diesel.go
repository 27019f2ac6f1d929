// Package diesel wires the Grammar, Recognizer, Navigator, and Completion
// Processor into the single entrypoint an embedding application drives: an
// Engine over one immutable Grammar, exposing Parse and Predict.
package diesel

import (
	"fmt"
	"io"
	"strings"

	"github.com/scala-steward/diesel-core/internal/diesel/complete"
	"github.com/scala-steward/diesel-core/internal/diesel/earley"
	"github.com/scala-steward/diesel-core/internal/diesel/forest"
	"github.com/scala-steward/diesel-core/internal/diesel/grammar"
	"github.com/scala-steward/diesel-core/internal/diesel/marker"
	"github.com/scala-steward/diesel-core/internal/diesel/types"
	"github.com/scala-steward/diesel-core/internal/dierr"
)

// Lexer is the minimal surface Engine needs from a lexer: turn a rune
// stream into a types.TokenStream. *lex.lexerTemplate (from NewLexer)
// satisfies this without naming its own unexported type.
type Lexer interface {
	Lex(input io.Reader) (types.TokenStream, error)
}

// Engine ties one immutable Grammar to the Lexer that tokenizes its input
// and drives the Recognizer/Navigator/Processor pipeline over them. An
// Engine may be shared across goroutines; each Parse/Predict call builds
// its own Result and is independent of any other in-flight call.
type Engine struct {
	g   *grammar.Grammar
	lex Lexer
	rec *earley.Recognizer
	nav *forest.Navigator
	cp  *complete.Processor

	trace func(s string)
}

// New returns an Engine over g, tokenizing with lx. g should already have
// passed Validate.
func New(g *grammar.Grammar, lx Lexer) *Engine {
	rec := earley.New(g)
	return &Engine{
		g:   g,
		lex: lx,
		rec: rec,
		nav: forest.New(g),
		cp:  complete.New(g),
	}
}

// SetReducers replaces the Navigator's reducer stack.
func (e *Engine) SetReducers(reducers []forest.Reducer) {
	e.nav.SetReducers(reducers)
}

// RegisterTraceListener installs a callback invoked with a description of
// every Recognizer step, forwarded from the underlying Recognizer.
func (e *Engine) RegisterTraceListener(listener func(s string)) {
	e.trace = listener
	e.rec.RegisterTraceListener(listener)
}

// CompletionProcessor exposes the Engine's Processor so callers can
// register Providers, ComputeFilters, and Filters before calling Predict.
func (e *Engine) CompletionProcessor() *complete.Processor {
	return e.cp
}

// ResolveAxiom implements the facade's axiom lookup: an explicit name
// matches the axiom it's a prefix of; an empty name selects the first
// declared axiom; no match is a configuration error.
func (e *Engine) ResolveAxiom(name string) (string, error) {
	axioms := e.g.Axioms()
	if len(axioms) == 0 {
		return "", dierr.ErrEmptyGrammar
	}
	if name == "" {
		return axioms[0], nil
	}
	for _, a := range axioms {
		if a == name {
			return a, nil
		}
	}
	for _, a := range axioms {
		if strings.HasPrefix(a, name) {
			return a, nil
		}
	}
	return "", dierr.ErrUnknownAxiom
}

// ParseResult is the facade's parse() return value.
type ParseResult struct {
	Success bool
	Markers []*marker.Marker
	Styles  []marker.Style
	Value   interface{}

	Tree *forest.GenericTree
}

// Parse tokenizes text, recognizes it against axiomName's grammar (or the
// first declared axiom, if axiomName is empty), and resolves the result to
// a single derivation tree. A configuration mistake (unknown axiom, empty
// grammar) returns a non-nil error; any syntactic problem with text itself
// is reported through ParseResult.Markers with ParseResult.Success = false,
// never as an error.
func (e *Engine) Parse(text string, axiomName string) (*ParseResult, error) {
	axiom, err := e.ResolveAxiom(axiomName)
	if err != nil {
		return nil, err
	}

	stream, err := e.lex.Lex(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("lexing input: %w", err)
	}
	toks := types.DrainInput(stream)

	res, err := e.rec.Parse(toks, axiom)
	if err != nil {
		return nil, err
	}

	pr := &ParseResult{Success: res.Success}
	for _, et := range res.ErrorTokens {
		pr.Markers = append(pr.Markers, marker.NewKind(et.Offset(), et.EndOffset()-et.Offset(), marker.Error, marker.UnknownToken, et.Lexeme()))
	}

	// a best-effort tree is built even when Success is false at the strict
	// level: error recovery may still have reached the success state, and
	// that derivation carries its own InsertedToken/MissingToken/TokenMutation
	// markers. Only when recovery never reaches a success state at all is
	// there nothing to build.
	tree, err := e.nav.ToTree(res, axiom)
	if err != nil {
		if err == forest.ErrTooManyTrees || err == forest.ErrNoDerivation {
			pr.Success = false
			return pr, nil
		}
		return nil, dierr.Wrapf(err, "building derivation tree")
	}
	if tree == nil {
		pr.Success = false
		return pr, nil
	}

	pr.Tree = tree
	pr.Value = tree.Value
	pr.Markers = append(pr.Markers, tree.Markers...)
	pr.Styles = tree.FlattenStyles()
	if tree.Root != nil && tree.Root.Ambiguity.WasAmbiguous() {
		pr.Markers = append(pr.Markers, marker.NewKind(tree.Root.Offset, tree.Root.Length, marker.Warning, marker.Ambiguous))
	}

	return pr, nil
}

// PredictResult is the facade's predict() return value.
type PredictResult struct {
	Success   bool
	Proposals []complete.Proposal
}

// Predict tokenizes text, recognizes it against axiomName, and proposes the
// completions admissible at offset.
func (e *Engine) Predict(text string, offset int, axiomName string) (*PredictResult, error) {
	axiom, err := e.ResolveAxiom(axiomName)
	if err != nil {
		return nil, err
	}

	stream, err := e.lex.Lex(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("lexing input: %w", err)
	}
	toks := types.DrainInput(stream)

	res, err := e.rec.Parse(toks, axiom)
	if err != nil {
		return nil, err
	}

	proposals := e.cp.Complete(res, offset, axiom)
	return &PredictResult{Success: true, Proposals: proposals}, nil
}
