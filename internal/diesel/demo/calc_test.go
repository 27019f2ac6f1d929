package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewEngine_evaluatesExpressions(t *testing.T) {
	testCases := []struct {
		name   string
		text   string
		expect float64
	}{
		{name: "addition", text: "2 + 3", expect: 5},
		{name: "multiplication", text: "2 * 3", expect: 6},
		{name: "parens override", text: "(2 + 3) * 4", expect: 20},
		{name: "decimal literal", text: "1.5 + 1.5", expect: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			eng := NewEngine()
			res, err := eng.Parse(tc.text, "E")
			if !assert.NoError(err) {
				return
			}
			if !assert.True(res.Success) {
				return
			}
			assert.Equal(tc.expect, res.Value)
		})
	}
}

func Test_NewEngine_divisionByZeroAborts(t *testing.T) {
	assert := assert.New(t)

	eng := NewEngine()
	res, err := eng.Parse("1 / 0", "E")
	if !assert.NoError(err) {
		return
	}

	assert.True(res.Success)
	assert.True(res.Tree.Root.Context.Abort)
}

func Test_NewLexer_discardsWhitespace(t *testing.T) {
	assert := assert.New(t)

	eng := NewEngine()
	res, err := eng.Parse("   1   +   2   ", "E")
	if !assert.NoError(err) {
		return
	}
	assert.True(res.Success)
	assert.Equal(3.0, res.Value)
}

func Test_NewGrammar_hasSingleAxiom(t *testing.T) {
	assert := assert.New(t)

	g := NewGrammar()
	assert.Equal([]string{"E"}, g.Axioms())
}
