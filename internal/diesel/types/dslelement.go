package types

// DslElement is a user-facing tag attached to a Production by a
// grammar-builder DSL (out of scope for this module; only the tag survives).
// It lets per-construct CompletionProviders and CompletionFilters recognize
// "the IF statement" or "the JSON array" regardless of how many productions
// the grammar author split it into.
type DslElement interface {
	// Name returns the user-facing name of the grammar construct, e.g.
	// "if-statement" or "array-literal".
	Name() string
}

// simpleElement is the zero-dependency DslElement used when a grammar builder
// has nothing richer to attach.
type simpleElement string

func (e simpleElement) Name() string { return string(e) }

// NewDslElement wraps a name as a DslElement.
func NewDslElement(name string) DslElement {
	return simpleElement(name)
}
