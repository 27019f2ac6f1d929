package complete_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scala-steward/diesel-core/internal/diesel/complete"
	"github.com/scala-steward/diesel-core/internal/diesel/demo"
	"github.com/scala-steward/diesel-core/internal/diesel/earley"
	"github.com/scala-steward/diesel-core/internal/diesel/types"
)

func recognize(t *testing.T, text string) *earley.Result {
	t.Helper()

	stream, err := demo.NewLexer().Lex(strings.NewReader(text))
	if err != nil {
		t.Fatalf("lexing %q: %s", text, err)
	}
	toks := types.DrainInput(stream)

	res, err := earley.New(demo.NewGrammar()).Parse(toks, "E")
	if err != nil {
		t.Fatalf("parsing %q: %s", text, err)
	}
	return res
}

func textsOf(proposals []complete.Proposal) []string {
	var out []string
	for _, p := range proposals {
		out = append(out, p.Text)
	}
	return out
}

func Test_Processor_Complete_afterOperator(t *testing.T) {
	assert := assert.New(t)

	res := recognize(t, "1 + ")
	p := complete.New(demo.NewGrammar())

	proposals := p.Complete(res, len("1 + "), "E")

	// after a binary operator the grammar expects another E, which starts
	// with a number or an open paren.
	assert.Contains(textsOf(proposals), "(")
}

func Test_Processor_Complete_atStart(t *testing.T) {
	assert := assert.New(t)

	res := recognize(t, "")
	p := complete.New(demo.NewGrammar())

	proposals := p.Complete(res, 0, "E")
	assert.Contains(textsOf(proposals), "(")
}

func Test_Processor_Complete_dedupesByText(t *testing.T) {
	assert := assert.New(t)

	res := recognize(t, "1 ")
	p := complete.New(demo.NewGrammar())

	proposals := p.Complete(res, len("1 "), "E")

	seen := map[string]int{}
	for _, prop := range proposals {
		seen[prop.Text]++
	}
	for text, count := range seen {
		assert.Equalf(1, count, "text %q appeared more than once in Complete's result", text)
	}
}

func Test_Processor_ProposalsByText_keepsDuplicates(t *testing.T) {
	assert := assert.New(t)

	res := recognize(t, "1 ")
	p := complete.New(demo.NewGrammar())

	proposals := p.Complete(res, len("1 "), "E")
	byText := p.ProposalsByText()

	// every proposal Complete returned must be retrievable through the full
	// map, and every text the map records must also appear in that slice
	// (first-proposal-per-text collapse, not loss of a distinct text).
	for _, prop := range proposals {
		assert.Contains(byText, prop.Text)
		assert.NotEmpty(byText[prop.Text])
	}
}

func Test_Processor_Complete_cursorAfterClosingDelimiterAtEOF(t *testing.T) {
	assert := assert.New(t)

	text := "(1+2)"
	res := recognize(t, text)
	p := complete.New(demo.NewGrammar())

	// a cursor right after the closing paren, with nothing following it,
	// selects the chart one past the last one the recognizer built; there is
	// nothing to propose there.
	proposals := p.Complete(res, len(text), "E")
	assert.Nil(proposals)
}
