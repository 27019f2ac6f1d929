// Package dierr holds the errors returned across configuration boundaries of
// the parsing engine: building a bad Grammar, asking the facade to parse
// against an axiom it doesn't know, handing a lexer a pattern that doesn't
// compile. These are programmer/config mistakes, not recoverable input
// errors -- a syntax error in the text being parsed is a Marker on the
// Result, never a Go error.
package dierr

import "fmt"

// Error is a message plus zero or more wrapped causes. It is compatible with
// errors.Is and errors.As via Unwrap.
type Error struct {
	msg   string
	cause error
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New returns a new Error with the given message.
func New(msg string) error {
	return &Error{msg: msg}
}

// Newf returns a new Error with a formatted message.
func Newf(format string, a ...interface{}) error {
	return &Error{msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new Error with the given message that wraps cause.
func Wrap(cause error, msg string) error {
	return &Error{msg: msg, cause: cause}
}

// Wrapf returns a new Error with a formatted message that wraps cause.
func Wrapf(cause error, format string, a ...interface{}) error {
	return &Error{msg: fmt.Sprintf(format, a...), cause: cause}
}

var (
	// ErrUnknownAxiom is returned when a caller names an axiom that the
	// Grammar has no rule for.
	ErrUnknownAxiom = New("not a known axiom of the grammar")

	// ErrEmptyGrammar is returned when a Grammar with no rules is given to a
	// Recognizer or CompletionProcessor.
	ErrEmptyGrammar = New("grammar has no rules")

	// ErrMalformedGrammar is returned when Grammar.Validate finds a
	// production referencing a nonterminal with no rule, or any other
	// structural defect that prevents recognition from starting.
	ErrMalformedGrammar = New("grammar is not well-formed")

	// ErrAmbiguousAxiom is returned when Parse/Predict is called without
	// naming an axiom and the grammar defines more than one candidate rule
	// that could serve as one.
	ErrAmbiguousAxiom = New("multiple axioms defined; axiom must be specified")

	// ErrNoSuchState is returned when a BackPtrIterator or continuation walk
	// is asked to resume from a state that the Chart it was built from does
	// not contain.
	ErrNoSuchState = New("no such state in chart")
)
