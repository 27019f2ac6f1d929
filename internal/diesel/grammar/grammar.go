// Package grammar holds the vocabulary a Grammar is built from: terminals,
// rules, productions, and the optional feature/element/action bindings a
// grammar-builder DSL can attach to a production without changing its shape.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scala-steward/diesel-core/internal/diesel/marker"
	"github.com/scala-steward/diesel-core/internal/diesel/types"
	"github.com/scala-steward/diesel-core/internal/util"
)

// Production is an ordered sequence of symbols. By convention a symbol whose
// name is identical to its own lower-cased form is a terminal (it names a
// TokenClass ID); any other symbol is a nonterminal (it names a Rule).
type Production []string

var (
	// Epsilon is the production with a single empty symbol, representing a
	// nonterminal that derives the empty string.
	Epsilon = Production{""}
)

// IsTerminalSymbol returns whether sym refers to a terminal under the
// lowercase-is-terminal convention.
func IsTerminalSymbol(sym string) bool {
	return strings.ToLower(sym) == sym
}

// Copy returns a deep copy of the production.
func (p Production) Copy() Production {
	p2 := make(Production, len(p))
	copy(p2, p)
	return p2
}

// Equal returns whether p and o hold the same symbols in the same order.
func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		otherSlice, ok := o.([]string)
		if !ok {
			return false
		}
		other = Production(otherSlice)
	}
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Production) String() string {
	if p.Equal(Epsilon) {
		return "ε"
	}
	return strings.Join(p, " ")
}

// HasSymbol returns whether sym appears anywhere in the production.
func (p Production) HasSymbol(sym string) bool {
	for _, s := range p {
		if s == sym {
			return true
		}
	}
	return false
}

// Rule is a single nonterminal and every alternative production it expands
// to.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Copy returns a deep copy of the rule.
func (r Rule) Copy() Rule {
	r2 := Rule{NonTerminal: r.NonTerminal, Productions: make([]Production, len(r.Productions))}
	for i := range r.Productions {
		r2.Productions[i] = r.Productions[i].Copy()
	}
	return r2
}

// Feature is an opaque piece of semantic information a grammar can merge
// onto a completed production as the Recognizer performs a complete
// operation. Feature values travel with a State's completed child and are
// combined when two candidate completions cover the same span.
//
// Merge combines the Feature of a just-completed child (at the given
// position within the parent production) with an already-accumulated
// Feature for the parent. It returns the merged Feature and whether the
// merge succeeded; a false return marks the derivation incompatible and the
// State carrying it is dropped rather than kept as a candidate parse.
type Feature interface {
	Merge(position int, other Feature) (Feature, bool)
}

// Binding attaches a DslElement tag, a Feature seed, and a reduction action
// to one production of one rule, without changing the shape of Production
// itself -- grammars that don't use a builder DSL never pay for this.
type Binding struct {
	NonTerminal string
	Production  Production
	Element     types.DslElement
	Action      ReduceFunc

	// Feature, if non-nil, seeds the feature carried by a State predicted
	// from this production, before any child's feature has been merged into
	// it via Feature.Merge.
	Feature Feature
}

// ReduceFunc computes the value attached to a completed nonterminal node from
// the values of its non-inserted children, in left-to-right order. ctx is the
// node's own Context; the action may attach markers/styles to it or set
// ctx.Abort before returning.
type ReduceFunc func(ctx *marker.Context, args []interface{}) interface{}

// Grammar is a context-free grammar: a set of terminals drawn from a
// TokenClass vocabulary, a set of rules, and zero or more axioms a Recognizer
// may be asked to parse from.
type Grammar struct {
	rules    map[string]Rule
	ruleOrd  []string
	terms    map[string]types.TokenClass
	termOrd  []string
	bindings []Binding
	axioms   []string
	defaults map[string]string
}

// Term returns the TokenClass registered under id, and whether it exists.
func (g Grammar) Term(id string) (types.TokenClass, bool) {
	if g.terms == nil {
		return nil, false
	}
	t, ok := g.terms[id]
	return t, ok
}

// Terminals returns every registered terminal ID in registration order.
func (g Grammar) Terminals() []string {
	return append([]string(nil), g.termOrd...)
}

// AddTerm registers a terminal with the given TokenClass, keyed by id. A
// second call with the same id replaces the class registered under it.
func (g *Grammar) AddTerm(id string, class types.TokenClass) {
	if g.terms == nil {
		g.terms = map[string]types.TokenClass{}
	}
	if _, exists := g.terms[id]; !exists {
		g.termOrd = append(g.termOrd, id)
	}
	g.terms[id] = class
}

// SetDefaultValue registers the literal text the CompletionProcessor should
// propose for terminal id when no CompletionProvider overrides it, e.g. "if"
// for a keyword terminal or "0" for a placeholder numeric literal.
func (g *Grammar) SetDefaultValue(id, value string) {
	if g.defaults == nil {
		g.defaults = map[string]string{}
	}
	g.defaults[id] = value
}

// DefaultValueOf returns the registered default text for terminal id, and
// whether one was registered.
func (g Grammar) DefaultValueOf(id string) (string, bool) {
	v, ok := g.defaults[id]
	return v, ok
}

// Rule returns the Rule for the given nonterminal, and whether it exists.
func (g Grammar) Rule(nonTerminal string) (Rule, bool) {
	if g.rules == nil {
		return Rule{}, false
	}
	r, ok := g.rules[nonTerminal]
	return r, ok
}

// Rules returns every rule of the grammar, in the order their nonterminal
// was first added.
func (g Grammar) Rules() []Rule {
	rules := make([]Rule, 0, len(g.ruleOrd))
	for _, nt := range g.ruleOrd {
		rules = append(rules, g.rules[nt])
	}
	return rules
}

// AddRule appends prod as an alternative production of nonTerminal, creating
// the rule if this is the first production seen for it.
func (g *Grammar) AddRule(nonTerminal string, prod Production) {
	if g.rules == nil {
		g.rules = map[string]Rule{}
	}
	r, ok := g.rules[nonTerminal]
	if !ok {
		r = Rule{NonTerminal: nonTerminal}
		g.ruleOrd = append(g.ruleOrd, nonTerminal)
	}
	r.Productions = append(r.Productions, prod)
	g.rules[nonTerminal] = r
}

// Bind attaches b to the grammar. A production may carry at most one
// Binding; a later Bind call for the same (NonTerminal, Production) pair
// replaces the earlier one.
func (g *Grammar) Bind(b Binding) {
	for i := range g.bindings {
		if g.bindings[i].NonTerminal == b.NonTerminal && g.bindings[i].Production.Equal(b.Production) {
			g.bindings[i] = b
			return
		}
	}
	g.bindings = append(g.bindings, b)
}

// BindingFor returns the Binding registered for the given production of
// nonTerminal, if any.
func (g Grammar) BindingFor(nonTerminal string, prod Production) (Binding, bool) {
	for _, b := range g.bindings {
		if b.NonTerminal == nonTerminal && b.Production.Equal(prod) {
			return b, true
		}
	}
	return Binding{}, false
}

// AddAxiom marks nonTerminal as a valid top-level start symbol for Parse and
// Predict.
func (g *Grammar) AddAxiom(nonTerminal string) {
	for _, a := range g.axioms {
		if a == nonTerminal {
			return
		}
	}
	g.axioms = append(g.axioms, nonTerminal)
}

// Axioms returns every nonterminal registered with AddAxiom.
func (g Grammar) Axioms() []string {
	return append([]string(nil), g.axioms...)
}

// DefaultAxiom returns the grammar's sole axiom, and whether exactly one is
// registered. Callers that don't name an axiom explicitly use this to decide
// whether the call is unambiguous.
func (g Grammar) DefaultAxiom() (string, bool) {
	if len(g.axioms) == 1 {
		return g.axioms[0], true
	}
	return "", false
}

// Validate checks that the grammar is well-formed: it has at least one
// terminal and one rule, and every nonterminal symbol referenced by a
// production has a rule of its own.
func (g Grammar) Validate() error {
	if len(g.termOrd) == 0 {
		return fmt.Errorf("grammar has no terminals defined")
	}
	if len(g.ruleOrd) == 0 {
		return fmt.Errorf("grammar has no rules defined")
	}

	for _, nt := range g.ruleOrd {
		r := g.rules[nt]
		for _, prod := range r.Productions {
			if prod.Equal(Epsilon) {
				continue
			}
			for _, sym := range prod {
				if IsTerminalSymbol(sym) {
					if _, ok := g.terms[sym]; !ok {
						return fmt.Errorf("rule %q production %q uses undefined terminal %q", nt, prod, sym)
					}
				} else {
					if _, ok := g.rules[sym]; !ok {
						return fmt.Errorf("rule %q production %q uses undefined nonterminal %q", nt, prod, sym)
					}
				}
			}
		}
	}

	for _, a := range g.axioms {
		if _, ok := g.rules[a]; !ok {
			return fmt.Errorf("axiom %q is not a defined rule", a)
		}
	}

	return nil
}

// Nullable returns the set of nonterminals that can derive the empty string,
// computed as the least fixed point over the grammar's productions: a
// nonterminal is nullable if it has an epsilon production, or a production
// made entirely of already-known-nullable nonterminals.
func (g Grammar) Nullable() util.KeySet[string] {
	nullable := util.NewKeySet[string]()

	changed := true
	for changed {
		changed = false
		for _, nt := range g.ruleOrd {
			if nullable.Has(nt) {
				continue
			}
			r := g.rules[nt]
			for _, prod := range r.Productions {
				if prod.Equal(Epsilon) {
					nullable.Add(nt)
					changed = true
					break
				}
				allNullable := true
				for _, sym := range prod {
					if IsTerminalSymbol(sym) || !nullable.Has(sym) {
						allNullable = false
						break
					}
				}
				if allNullable {
					nullable.Add(nt)
					changed = true
					break
				}
			}
		}
	}

	return nullable
}

// FIRST computes the FIRST set of sym: the set of terminal IDs (plus "" for
// epsilon, if sym is nullable) that can begin some string derived from sym.
// It is used by the Recognizer's error-recovery heuristics and by
// CompletionProcessor to prune which productions are worth proposing.
func (g Grammar) FIRST(sym string) util.KeySet[string] {
	nullable := g.Nullable()
	memo := map[string]util.KeySet[string]{}
	return g.first(sym, nullable, memo, util.NewKeySet[string]())
}

func (g Grammar) first(sym string, nullable util.KeySet[string], memo map[string]util.KeySet[string], inProgress util.KeySet[string]) util.KeySet[string] {
	if s, ok := memo[sym]; ok {
		return s
	}
	if IsTerminalSymbol(sym) {
		return util.KeySetOf([]string{sym})
	}
	if inProgress.Has(sym) {
		return util.NewKeySet[string]()
	}
	inProgress.Add(sym)

	set := util.NewKeySet[string]()
	r, ok := g.rules[sym]
	if !ok {
		return set
	}
	for _, prod := range r.Productions {
		if prod.Equal(Epsilon) {
			set.Add("")
			continue
		}
		allNullableSoFar := true
		for _, s := range prod {
			sFirst := g.first(s, nullable, memo, inProgress)
			for _, t := range sFirst.Elements() {
				if t != "" {
					set.Add(t)
				}
			}
			if !sFirst.Has("") {
				allNullableSoFar = false
				break
			}
		}
		if allNullableSoFar {
			set.Add("")
		}
	}

	memo[sym] = set
	return set
}

// FOLLOW computes the FOLLOW set of nonTerminal: the set of terminal IDs
// (plus "$" for end-of-input, if nonTerminal can be the last symbol derived
// from an axiom) that can immediately follow it in some derivation.
func (g Grammar) FOLLOW(nonTerminal string) util.KeySet[string] {
	follow := map[string]util.KeySet[string]{}
	for _, nt := range g.ruleOrd {
		follow[nt] = util.NewKeySet[string]()
	}
	for _, a := range g.axioms {
		follow[a].Add(types.TokenEndOfText.ID())
	}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.ruleOrd {
			r := g.rules[nt]
			for _, prod := range r.Productions {
				for i, sym := range prod {
					if IsTerminalSymbol(sym) {
						continue
					}
					before := follow[sym].Len()

					rest := prod[i+1:]
					restNullable := true
					for _, s := range rest {
						sFirst := g.FIRST(s)
						for _, t := range sFirst.Elements() {
							if t != "" {
								follow[sym].Add(t)
							}
						}
						if !sFirst.Has("") {
							restNullable = false
							break
						}
					}
					if restNullable {
						for _, t := range follow[nt].Elements() {
							follow[sym].Add(t)
						}
					}

					if follow[sym].Len() != before {
						changed = true
					}
				}
			}
		}
	}

	return follow[nonTerminal]
}

// String renders the grammar in the same "NT -> a b | c" notation used by
// trace dumps and error messages, rules sorted by nonterminal name for
// reproducibility.
func (g Grammar) String() string {
	nts := append([]string(nil), g.ruleOrd...)
	sort.Strings(nts)

	var sb strings.Builder
	for i, nt := range nts {
		r := g.rules[nt]
		parts := make([]string, len(r.Productions))
		for j, p := range r.Productions {
			parts[j] = p.String()
		}
		sb.WriteString(fmt.Sprintf("%s -> %s", nt, strings.Join(parts, " | ")))
		if i+1 < len(nts) {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
