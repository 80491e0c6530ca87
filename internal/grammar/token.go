package grammar

import "scad/internal/source"

// TokenKind represents the category of a source token.
type TokenKind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid TokenKind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// SpecialIdent represents a '$'-prefixed special variable.
	SpecialIdent

	// KwModule represents the 'module' keyword.
	KwModule // module
	// KwFunction represents the 'function' keyword.
	KwFunction // function
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwEcho represents the 'echo' keyword.
	KwEcho // echo
	// KwAssert represents the 'assert' keyword.
	KwAssert // assert
	// KwInclude represents the 'include' keyword.
	KwInclude // include
	// KwUse represents the 'use' keyword.
	KwUse // use
	// KwTrue represents the 'true' literal keyword.
	KwTrue // true
	// KwFalse represents the 'false' literal keyword.
	KwFalse // false
	// KwUndef represents the 'undef' literal keyword.
	KwUndef // undef

	// Number represents an integer or floating-point literal.
	Number
	// String represents a double-quoted string literal.
	String
	// PathLit represents an angle-bracket path after include/use.
	PathLit

	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the star operator token.
	Star // *
	// Slash represents the slash operator token.
	Slash // /
	// Percent represents the percent operator token.
	Percent // %
	// Caret represents the exponentiation operator token.
	Caret // ^
	// Assign represents the assign operator token.
	Assign // =
	// EqEq represents the equality operator token.
	EqEq // ==
	// Bang represents the logical-not operator token.
	Bang // !
	// BangEq represents the inequality operator token.
	BangEq // !=
	// Lt represents the less-than operator token.
	Lt // <
	// LtEq represents the less-or-equal operator token.
	LtEq // <=
	// Gt represents the greater-than operator token.
	Gt // >
	// GtEq represents the greater-or-equal operator token.
	GtEq // >=
	// AndAnd represents the logical-and operator token.
	AndAnd // &&
	// OrOr represents the logical-or operator token.
	OrOr // ||
	// Question represents the conditional operator token.
	Question // ?
	// Colon represents the colon token.
	Colon // :
	// Semicolon represents the semicolon token.
	Semicolon // ;
	// Comma represents the comma token.
	Comma // ,
	// Dot represents the dot token.
	Dot // .
	// Hash represents the debug-modifier token.
	Hash // #
	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
	// LBracket represents the left bracket token.
	LBracket // [
	// RBracket represents the right bracket token.
	RBracket // ]
)

var kindStrings = map[TokenKind]string{
	Invalid:      "invalid",
	EOF:          "end of file",
	Ident:        "identifier",
	SpecialIdent: "special variable",
	KwModule:     "module",
	KwFunction:   "function",
	KwFor:        "for",
	KwIf:         "if",
	KwElse:       "else",
	KwEcho:       "echo",
	KwAssert:     "assert",
	KwInclude:    "include",
	KwUse:        "use",
	KwTrue:       "true",
	KwFalse:      "false",
	KwUndef:      "undef",
	Number:       "number",
	String:       "string",
	PathLit:      "path",
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	Slash:        "/",
	Percent:      "%",
	Caret:        "^",
	Assign:       "=",
	EqEq:         "==",
	Bang:         "!",
	BangEq:       "!=",
	Lt:           "<",
	LtEq:         "<=",
	Gt:           ">",
	GtEq:         ">=",
	AndAnd:       "&&",
	OrOr:         "||",
	Question:     "?",
	Colon:        ":",
	Semicolon:    ";",
	Comma:        ",",
	Dot:          ".",
	Hash:         "#",
	LParen:       "(",
	RParen:       ")",
	LBrace:       "{",
	RBrace:       "}",
	LBracket:     "[",
	RBracket:     "]",
}

// String returns the operator glyph for punctuation kinds and a
// human-readable name for the rest.
func (k TokenKind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return "unknown"
}

var keywords = map[string]TokenKind{
	"module":   KwModule,
	"function": KwFunction,
	"for":      KwFor,
	"if":       KwIf,
	"else":     KwElse,
	"echo":     KwEcho,
	"assert":   KwAssert,
	"include":  KwInclude,
	"use":      KwUse,
	"true":     KwTrue,
	"false":    KwFalse,
	"undef":    KwUndef,
}

// LookupKeyword returns the keyword kind for ident, if it is one.
// Keywords are case-sensitive; only lowercase spellings are recognized.
func LookupKeyword(ident string) (TokenKind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Token represents a single source token with its location.
type Token struct {
	Kind TokenKind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, boolean, string, or
// undef literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, KwTrue, KwFalse, KwUndef:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwModule, KwFunction, KwFor, KwIf, KwElse, KwEcho, KwAssert,
		KwInclude, KwUse, KwTrue, KwFalse, KwUndef:
		return true
	default:
		return false
	}
}

// IsModifier reports whether the token can open a module instantiation
// as one of the '#', '!', '%', '*' modifiers.
func (t Token) IsModifier() bool {
	switch t.Kind {
	case Hash, Bang, Percent, Star:
		return true
	default:
		return false
	}
}
