package grammar

import (
	"strings"
	"testing"

	"github.com/scala-steward/diesel-core/internal/diesel/types"
	"github.com/stretchr/testify/assert"
)

// testing terminals
var (
	testTCNumber = types.MakeDefaultClass("int")
)

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		rules     []Rule
		terminals []types.TokenClass
		expectErr bool
	}{
		{
			name:      "empty grammar",
			expectErr: true,
		},
		{
			name: "no rules in grammar",
			terminals: []types.TokenClass{
				testTCNumber,
			},
			expectErr: true,
		},
		{
			name: "no terms in grammar",
			rules: []Rule{{
				NonTerminal: "S",
				Productions: []Production{
					{"S"},
				},
			}},
			expectErr: true,
		},
		{
			name: "single rule grammar",
			rules: []Rule{
				{
					NonTerminal: "S",
					Productions: []Production{
						{strings.ToLower(testTCNumber.ID())},
					},
				},
			},
			terminals: []types.TokenClass{
				testTCNumber,
			},
		},
		{
			name: "production references undefined nonterminal",
			rules: []Rule{
				{
					NonTerminal: "S",
					Productions: []Production{
						{"A", strings.ToLower(testTCNumber.ID())},
					},
				},
			},
			terminals: []types.TokenClass{
				testTCNumber,
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := Grammar{}
			for _, term := range tc.terminals {
				g.AddTerm(term.ID(), term)
			}
			for _, r := range tc.rules {
				for _, alts := range r.Productions {
					g.AddRule(r.NonTerminal, alts)
				}
			}

			actual := g.Validate()

			if tc.expectErr {
				assert.Error(actual)
			} else {
				assert.NoError(actual)
			}
		})
	}
}

func Test_Grammar_Nullable(t *testing.T) {
	testCases := []struct {
		name      string
		terminals []string
		rules     []string
		expect    []string
	}{
		{
			name:      "no nullable nonterminals",
			terminals: []string{"a"},
			rules:     []string{"S -> a"},
			expect:    nil,
		},
		{
			name:      "direct epsilon production",
			terminals: []string{"a"},
			rules:     []string{"S -> a | "},
			expect:    []string{"S"},
		},
		{
			name:      "nullable transitively through another nonterminal",
			terminals: []string{"a"},
			rules: []string{
				"S -> A a",
				"A -> ",
			},
			expect: []string{"A"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := setupGrammar(tc.terminals, tc.rules)

			actual := g.Nullable()

			for _, nt := range tc.expect {
				assert.Truef(actual.Has(nt), "expected %q to be nullable", nt)
			}
			assert.Equal(len(tc.expect), actual.Len())
		})
	}
}

func Test_Grammar_FIRST(t *testing.T) {
	g := setupGrammar(
		[]string{"a", "b"},
		[]string{
			"S -> A b",
			"A -> a | ",
		},
	)

	assert := assert.New(t)

	first := g.FIRST("S")
	assert.True(first.Has("a"))
	assert.True(first.Has("b"))
}

func Test_Grammar_FOLLOW(t *testing.T) {
	g := setupGrammar(
		[]string{"a", "b"},
		[]string{
			"S -> A b",
			"A -> a | ",
		},
	)
	g.AddAxiom("S")

	assert := assert.New(t)

	follow := g.FOLLOW("A")
	assert.True(follow.Has("b"))
}

// setupGrammar builds a Grammar from a list of terminal token class names and
// rules of the form "NT -> sym sym | sym", with a blank alternative ("NT -> a
// | ") meaning an epsilon production.
func setupGrammar(terminals []string, rules []string) Grammar {
	g := Grammar{}

	for _, term := range terminals {
		class := types.MakeDefaultClass(term)
		g.AddTerm(class.ID(), class)
	}
	for _, r := range rules {
		nt, prods := mustParseRule(r)
		for _, alts := range prods {
			g.AddRule(nt, alts)
		}
	}

	return g
}

func mustParseRule(s string) (string, []Production) {
	sides := strings.SplitN(s, "->", 2)
	if len(sides) != 2 {
		panic("not a rule of form 'NT -> alts': " + s)
	}
	nt := strings.TrimSpace(sides[0])

	altStrs := strings.Split(sides[1], "|")
	prods := make([]Production, 0, len(altStrs))
	for _, alt := range altStrs {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			prods = append(prods, Epsilon)
			continue
		}
		prods = append(prods, Production(strings.Fields(alt)))
	}

	return nt, prods
}
