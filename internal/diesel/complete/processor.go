package complete

import (
	"strings"

	"github.com/scala-steward/diesel-core/internal/diesel/earley"
	"github.com/scala-steward/diesel-core/internal/diesel/grammar"
)

// DefaultDelimiters is the delimiter set consulted by chart selection when
// none is configured: the cursor sitting just after one of these characters
// is treated as the start of a fresh token rather than the middle of one.
const DefaultDelimiters = ":(){}.,+-*/[];"

// Processor is the completion engine: given a Result, it proposes the set of
// terminals admissible at a cursor offset.
type Processor struct {
	g           *grammar.Grammar
	delimiters  string
	providers   map[string]Provider
	computeFilt map[string]ComputeFilter
	filters     []Filter

	// byText holds every candidate proposal generated by the most recent
	// Complete call, keyed by Text, before the first-proposal-per-text
	// collapse that Complete's own return value applies. Dedup-by-text
	// collision is lossy by design -- the first proposal with a given text
	// wins the returned slice -- so callers that need the element/replace/
	// userData of a discarded duplicate read it back from here.
	byText map[string][]Proposal
}

// New returns a Processor over g using DefaultDelimiters.
func New(g *grammar.Grammar) *Processor {
	return &Processor{g: g, delimiters: DefaultDelimiters}
}

// SetDelimiters replaces the delimiter set used by chart selection.
func (p *Processor) SetDelimiters(delims string) {
	p.delimiters = delims
}

// RegisterProvider installs a Provider for every production whose
// DslElement has the given name, overriding the grammar-derived expansion.
func (p *Processor) RegisterProvider(elementName string, provider Provider) {
	if p.providers == nil {
		p.providers = map[string]Provider{}
	}
	p.providers[elementName] = provider
}

// RegisterComputeFilter installs a ComputeFilter for the given DslElement
// name, pruning continuation expansion into that element's productions.
func (p *Processor) RegisterComputeFilter(elementName string, filter ComputeFilter) {
	if p.computeFilt == nil {
		p.computeFilt = map[string]ComputeFilter{}
	}
	p.computeFilt[elementName] = filter
}

// AddFilter appends a post-processing Filter run over the full proposal
// list before Complete returns.
func (p *Processor) AddFilter(f Filter) {
	p.filters = append(p.filters, f)
}

// Complete proposes completions for a cursor at offset into res's source,
// seeded from axiomName's synthetic start state where dot == 0.
func (p *Processor) Complete(res *earley.Result, offset int, axiomName string) []Proposal {
	chartIdx := p.selectChart(res, offset)
	chart := res.ChartAt(chartIdx)
	if chart == nil {
		return nil
	}

	prefix, replace := p.computePrefix(res, offset, chartIdx)
	cursor := &Cursor{Offset: offset, Prefix: prefix, ChartIndex: chartIdx}

	byText := map[string][]Proposal{}
	var proposals []Proposal

	for _, sc := range chart.States {
		if sc.Kind == earley.KindErrorRecovery {
			continue
		}
		if sc.State.Dot == 0 && sc.State.NonTerminal != axiomName {
			continue
		}
		p.walk(cursor, sc.State, nil, replace, &proposals, byText)
	}

	p.byText = byText

	for _, f := range p.filters {
		proposals = f.Filter(cursor, proposals)
	}

	return proposals
}

// ProposalsByText returns every candidate proposal generated by the most
// recent Complete call, keyed by Text and in generation order, including
// texts that collided and lost the dedup collapse. Returns nil if Complete
// has not yet been called.
func (p *Processor) ProposalsByText() map[string][]Proposal {
	return p.byText
}

// selectChart implements chartAtOrAfterOffset plus the delimiter rule: a
// cursor right after a delimiter character starts a fresh token, so it
// selects the chart strictly after the one that would otherwise match.
func (p *Processor) selectChart(res *earley.Result, offset int) int {
	idx := p.chartAtOrAfterOffset(res, offset)
	if offset > 0 && offset-1 < len(res.Tokens) {
		// offset-1 must name a character, not a token; approximate via the
		// lexeme of whichever token covers it, since Token carries no
		// independent rune buffer.
		if ch := p.charBefore(res, offset); ch != 0 && strings.ContainsRune(p.delimiters, ch) {
			return idx + 1
		}
	}
	return idx
}

func (p *Processor) charBefore(res *earley.Result, offset int) rune {
	for _, t := range res.Tokens {
		if t.Offset() < offset && offset <= t.EndOffset() {
			lex := t.Lexeme()
			pos := offset - 1 - t.Offset()
			runes := []rune(lex)
			if pos >= 0 && pos < len(runes) {
				return runes[pos]
			}
		}
	}
	return 0
}

func (p *Processor) chartAtOrAfterOffset(res *earley.Result, offset int) int {
	for i, t := range res.Tokens {
		if t.Offset() >= offset {
			return i
		}
	}
	return len(res.Charts) - 1
}

// computePrefix finds the in-progress token text preceding offset, or an
// errorToken ending exactly at offset, and returns it plus the default
// replace span that text implies.
func (p *Processor) computePrefix(res *earley.Result, offset, chartIdx int) (string, Span) {
	for _, t := range res.Tokens {
		if t.Offset() <= offset && offset <= t.EndOffset() {
			prefix := t.Lexeme()
			if n := offset - t.Offset(); n >= 0 && n <= len(prefix) {
				prefix = prefix[:n]
			}
			return prefix, Span{Offset: offset - len(prefix), Length: len(prefix)}
		}
	}
	for _, et := range res.ErrorTokens {
		if et.EndOffset() == offset {
			prefix := et.Lexeme()
			return prefix, Span{Offset: offset - len(prefix), Length: len(prefix)}
		}
	}
	return "", Span{Offset: offset, Length: 0}
}

// walk performs the continuation walk from one prediction state, emitting
// proposals for terminal continuations and recursing into nonterminal ones.
func (p *Processor) walk(cursor *Cursor, s earley.State, visited map[string]bool, replace Span, out *[]Proposal, byText map[string][]Proposal) {
	sym, ok := s.NextSymbol()
	if !ok {
		return
	}

	binding, _ := p.g.BindingFor(s.NonTerminal, s.Prod)

	if grammar.IsTerminalSymbol(sym) {
		text := p.terminalRunText(s)
		if text == "" {
			return
		}
		prop := Proposal{
			Element: binding.Element,
			Text:    text,
			Replace: replace,
		}
		if len(byText[text]) == 0 {
			*out = append(*out, prop)
		}
		byText[text] = append(byText[text], prop)
		return
	}

	if visited == nil {
		visited = map[string]bool{}
	}
	if visited[sym] {
		return
	}
	visited[sym] = true

	rule, ok := p.g.Rule(sym)
	if !ok {
		return
	}

	for _, prod := range rule.Productions {
		pb, _ := p.g.BindingFor(sym, prod)

		if pb.Element != nil {
			if provider, ok := p.providers[pb.Element.Name()]; ok {
				for _, prop := range provider.Propose(cursor, pb.Element) {
					if prop.Text == "" {
						continue
					}
					if prop.Replace == (Span{}) {
						prop.Replace = replace
					}
					if len(byText[prop.Text]) == 0 {
						*out = append(*out, prop)
					}
					byText[prop.Text] = append(byText[prop.Text], prop)
				}
				continue
			}
			if cf, ok := p.computeFilt[pb.Element.Name()]; ok && !cf.ContinueVisit(pb.Element) {
				continue
			}
		}

		next := earley.State{NonTerminal: sym, Prod: prod, Dot: 0, Begin: s.End, End: s.End}
		p.walk(cursor, next, cloneVisited(visited), replace, out, byText)
	}
}

// terminalRunText concatenates the default values of s's next symbol and
// every subsequent terminal in the same production, space-separated, up to
// the first nonterminal or the end of the production.
func (p *Processor) terminalRunText(s earley.State) string {
	var parts []string
	for i := s.Dot; i < len(s.Prod); i++ {
		sym := s.Prod[i]
		if !grammar.IsTerminalSymbol(sym) {
			break
		}
		val, ok := p.g.DefaultValueOf(sym)
		if !ok {
			if i == s.Dot {
				return ""
			}
			break
		}
		parts = append(parts, val)
	}
	return strings.Join(parts, " ")
}

func cloneVisited(v map[string]bool) map[string]bool {
	c := make(map[string]bool, len(v))
	for k := range v {
		c[k] = true
	}
	return c
}
