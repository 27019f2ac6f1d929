// Package demo wires together a small arithmetic grammar exercising
// ambiguity (E -> E + E | E * E | ... with no precedence declared) and a
// matching lexer, for use as an end-to-end example of an Engine: Parse,
// Predict, and the ambiguity marker all have something to exercise here
// that a single-rule grammar wouldn't show.
package demo

import (
	"strconv"

	"github.com/scala-steward/diesel-core/internal/diesel"
	"github.com/scala-steward/diesel-core/internal/diesel/grammar"
	"github.com/scala-steward/diesel-core/internal/diesel/lex"
	"github.com/scala-steward/diesel-core/internal/diesel/marker"
	"github.com/scala-steward/diesel-core/internal/diesel/types"
)

const (
	tcNumber = "num"
	tcPlus   = "plus"
	tcMinus  = "minus"
	tcStar   = "star"
	tcSlash  = "slash"
	tcLParen = "lparen"
	tcRParen = "rparen"
)

// NewLexer returns the lexer for the calculator grammar: integers, the four
// arithmetic operators, and parens, with whitespace discarded.
func NewLexer() diesel.Lexer {
	lx := lex.NewLexer(true)

	lx.RegisterClass(types.MakeDefaultClass(tcNumber), "")
	lx.RegisterClass(types.MakeDefaultClass(tcPlus), "")
	lx.RegisterClass(types.MakeDefaultClass(tcMinus), "")
	lx.RegisterClass(types.MakeDefaultClass(tcStar), "")
	lx.RegisterClass(types.MakeDefaultClass(tcSlash), "")
	lx.RegisterClass(types.MakeDefaultClass(tcLParen), "")
	lx.RegisterClass(types.MakeDefaultClass(tcRParen), "")

	lx.RegisterStyle(tcNumber, "number")
	lx.RegisterStyle(tcPlus, "operator")
	lx.RegisterStyle(tcMinus, "operator")
	lx.RegisterStyle(tcStar, "operator")
	lx.RegisterStyle(tcSlash, "operator")

	mustAdd := func(pat string, act lex.Action) {
		if err := lx.AddPattern(pat, act, ""); err != nil {
			panic("demo calc lexer: " + err.Error())
		}
	}

	mustAdd(`\s+`, lex.Discard())
	mustAdd(`[0-9]+(\.[0-9]+)?`, lex.LexAs(tcNumber))
	mustAdd(`\+`, lex.LexAs(tcPlus))
	mustAdd(`-`, lex.LexAs(tcMinus))
	mustAdd(`\*`, lex.LexAs(tcStar))
	mustAdd(`/`, lex.LexAs(tcSlash))
	mustAdd(`\(`, lex.LexAs(tcLParen))
	mustAdd(`\)`, lex.LexAs(tcRParen))

	return lx
}

// NewGrammar returns a deliberately ambiguous arithmetic grammar: it has no
// precedence or associativity rules of its own, so "1 + 2 * 3" parses both
// as "1 + (2 * 3)" and "(1 + 2) * 3". A Parse of such input still succeeds,
// picking one tree via the Navigator's default reducers, but the tree's
// root carries an Ambiguous marker.
func NewGrammar() *grammar.Grammar {
	g := &grammar.Grammar{}

	g.AddTerm(tcNumber, types.MakeDefaultClass(tcNumber))
	g.AddTerm(tcPlus, types.MakeDefaultClass(tcPlus))
	g.AddTerm(tcMinus, types.MakeDefaultClass(tcMinus))
	g.AddTerm(tcStar, types.MakeDefaultClass(tcStar))
	g.AddTerm(tcSlash, types.MakeDefaultClass(tcSlash))
	g.AddTerm(tcLParen, types.MakeDefaultClass(tcLParen))
	g.AddTerm(tcRParen, types.MakeDefaultClass(tcRParen))

	addBin := func(op string) {
		prod := grammar.Production{"E", op, "E"}
		g.AddRule("E", prod)
		g.Bind(grammar.Binding{
			NonTerminal: "E",
			Production:  prod,
			Action:      reduceBinOp,
		})
	}

	addBin(tcPlus)
	addBin(tcMinus)
	addBin(tcStar)
	addBin(tcSlash)

	parenProd := grammar.Production{tcLParen, "E", tcRParen}
	g.AddRule("E", parenProd)
	g.Bind(grammar.Binding{
		NonTerminal: "E",
		Production:  parenProd,
		Action: func(ctx *marker.Context, args []interface{}) interface{} {
			return args[1]
		},
	})

	numProd := grammar.Production{tcNumber}
	g.AddRule("E", numProd)
	g.Bind(grammar.Binding{
		NonTerminal: "E",
		Production:  numProd,
		Action: func(ctx *marker.Context, args []interface{}) interface{} {
			n, err := strconv.ParseFloat(args[0].(string), 64)
			if err != nil {
				ctx.AddMarker(marker.NewKind(0, 0, marker.Error, marker.UnknownToken, args[0].(string)))
				return 0.0
			}
			return n
		},
	})

	g.AddAxiom("E")

	return g
}

func reduceBinOp(ctx *marker.Context, args []interface{}) interface{} {
	left, lok := args[0].(float64)
	right, rok := args[2].(float64)
	if !lok || !rok {
		return 0.0
	}
	op := args[1].(string)
	switch op {
	case "+":
		return left + right
	case "-":
		return left - right
	case "*":
		return left * right
	case "/":
		if right == 0 {
			ctx.Abort = true
			return 0.0
		}
		return left / right
	default:
		return 0.0
	}
}

// NewEngine returns an Engine over the calculator grammar and lexer, ready
// for Parse and Predict calls against axiom "E".
func NewEngine() *diesel.Engine {
	return diesel.New(NewGrammar(), NewLexer())
}
