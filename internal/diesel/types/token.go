// Package types holds the vocabulary shared by every subsystem of the parsing
// engine: tokens and the classes that categorize them, the stream a lexer
// produces them on, and the DslElement tag a grammar-builder attaches to a
// production.
package types

// Token is a lexeme read from text, combined with the TokenClass it was
// recognized as, the position it occupies in the source, and whatever style
// hint the lexer attached to it.
//
// Offset and length are in runes of source text, not in token count; they are
// what the Recognizer and Navigator use to stamp GenericNode offset/length
// per the offset-length invariant.
type Token interface {
	// Class returns the TokenClass of the Token.
	Class() TokenClass

	// Lexeme returns the text that was lexed as the TokenClass of the Token, as
	// it appears in the source text.
	Lexeme() string

	// Offset returns the 0-indexed rune offset into the source text at which
	// the token begins.
	Offset() int

	// EndOffset returns Offset() plus the rune length of Lexeme(). It is
	// tracked separately rather than computed so that synthesized tokens
	// (insertions) can report zero width regardless of lexeme length.
	EndOffset() int

	// Style is the style hint the lexer assigned to this token, if any. An
	// empty string means no style was assigned.
	Style() string

	// LinePos returns the 1-indexed character-of-line that the token appears
	// on in the source text.
	LinePos() int

	// Line returns the 1-indexed line number of the line that the token appears
	// on in the source text.
	Line() int

	// FullLine returns the full of text of the line in source that the token
	// appears on, including both anything that came before the token as well as
	// after it on the line.
	FullLine() string

	// String is the string representation.
	String() string
}
