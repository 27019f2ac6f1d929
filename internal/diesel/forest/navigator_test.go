package forest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scala-steward/diesel-core/internal/diesel/demo"
	"github.com/scala-steward/diesel-core/internal/diesel/earley"
	"github.com/scala-steward/diesel-core/internal/diesel/forest"
	"github.com/scala-steward/diesel-core/internal/diesel/grammar"
	"github.com/scala-steward/diesel-core/internal/diesel/types"
)

func parse(t *testing.T, text string) (*grammar.Grammar, *earley.Result) {
	t.Helper()

	g := demo.NewGrammar()

	stream, err := demo.NewLexer().Lex(strings.NewReader(text))
	if err != nil {
		t.Fatalf("lexing %q: %s", text, err)
	}
	toks := types.DrainInput(stream)

	res, err := earley.New(g).Parse(toks, "E")
	if err != nil {
		t.Fatalf("parsing %q: %s", text, err)
	}
	if !res.Success {
		t.Fatalf("parsing %q: did not succeed", text)
	}

	return g, res
}

func Test_Navigator_ToTree_singleNumber(t *testing.T) {
	assert := assert.New(t)

	g, res := parse(t, "42")
	tree, err := forest.New(g).ToTree(res, "E")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(42.0, tree.Value)
}

func Test_Navigator_ToTree_arithmetic(t *testing.T) {
	testCases := []struct {
		name   string
		text   string
		expect float64
	}{
		{name: "parenthesized precedence", text: "(1 + 2) * 3", expect: 9},
		{name: "subtraction", text: "5 - 2", expect: 3},
		{name: "division", text: "10 / 2", expect: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, res := parse(t, tc.text)
			tree, err := forest.New(g).ToTree(res, "E")
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, tree.Value)
		})
	}
}

func Test_Navigator_ToTree_ambiguousHasAmbiguousRoot(t *testing.T) {
	assert := assert.New(t)

	g, res := parse(t, "1 + 2 * 3")
	tree, err := forest.New(g).ToTree(res, "E")
	if !assert.NoError(err) {
		return
	}

	assert.NotNil(tree.Root)
	assert.True(tree.Root.Ambiguity.WasAmbiguous())
}

func Test_Navigator_ToTree_divisionByZeroAborts(t *testing.T) {
	assert := assert.New(t)

	g, res := parse(t, "1 / 0")
	tree, err := forest.New(g).ToTree(res, "E")
	if !assert.NoError(err) {
		return
	}

	assert.NotNil(tree)
	assert.True(tree.Root.Context.Abort)
}

func Test_Navigator_ToTree_notSuccessful(t *testing.T) {
	assert := assert.New(t)

	g := demo.NewGrammar()
	res := &earley.Result{Success: false}

	_, err := forest.New(g).ToTree(res, "E")
	assert.Error(err)
}
