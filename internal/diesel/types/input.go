package types

// Eos is the token class every lexer must emit exactly once, as the last
// token of a stream. The Recognizer never steps past it.
const Eos = TokenEndOfText

// DrainInput reads every token from stream, in order, stopping once it
// produces a token of class Eos (inclusive). The engine is not designed for
// incremental or streaming sources (see Non-goals), so the Recognizer
// operates over the materialized slice rather than the stream directly; this
// is the one place that boundary is crossed.
func DrainInput(stream TokenStream) []Token {
	var toks []Token
	for stream.HasNext() {
		t := stream.Next()
		toks = append(toks, t)
		if t.Class().ID() == Eos.ID() {
			break
		}
	}
	if len(toks) == 0 || toks[len(toks)-1].Class().ID() != Eos.ID() {
		toks = append(toks, EosToken(endOffsetOf(toks)))
	}
	return toks
}

func endOffsetOf(toks []Token) int {
	if len(toks) == 0 {
		return 0
	}
	return toks[len(toks)-1].EndOffset()
}

// eosToken is the zero-width synthetic Token DrainInput appends when a
// stream ends without ever producing one of class Eos itself.
type eosToken struct {
	offset int
}

// EosToken returns a zero-width Token of class Eos positioned at offset.
func EosToken(offset int) Token {
	return eosToken{offset: offset}
}

func (t eosToken) Class() TokenClass { return Eos }
func (t eosToken) Lexeme() string    { return "" }
func (t eosToken) Offset() int       { return t.offset }
func (t eosToken) EndOffset() int    { return t.offset }
func (t eosToken) Style() string     { return "" }
func (t eosToken) LinePos() int      { return 0 }
func (t eosToken) Line() int         { return 0 }
func (t eosToken) FullLine() string  { return "" }
func (t eosToken) String() string    { return "$" }
