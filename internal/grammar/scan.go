package grammar

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"scad/internal/diag"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword scans an identifier and classifies keywords.
// Token.Text is exactly the source slice.
func (lx *Lexer) scanIdentOrKeyword() Token {
	start := lx.cursor.mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return Token{Kind: Invalid, Span: lx.cursor.spanFrom(start)}
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return lx.scanOperatorOrPunct()
		}
		lx.cursor.bump()
		for isIdentContinueByte(lx.cursor.peek()) {
			lx.cursor.bump()
		}
	} else {
		if !isIdentStartRune(r) {
			return lx.scanOperatorOrPunct()
		}
		lx.bumpRune()
		for {
			r2, sz2 := lx.peekRune()
			if sz2 == 0 || !isIdentContinueRune(r2) {
				break
			}
			lx.bumpRune()
		}
	}

	sp := lx.cursor.spanFrom(start)
	text := lx.text(sp)
	if k, ok := LookupKeyword(text); ok {
		return Token{Kind: k, Span: sp, Text: text}
	}
	return Token{Kind: Ident, Span: sp, Text: text}
}

// scanSpecialIdent scans a '$'-prefixed special variable like $fn.
func (lx *Lexer) scanSpecialIdent() Token {
	start := lx.cursor.mark()
	lx.cursor.bump() // '$'

	if !isIdentStartByte(lx.cursor.peek()) {
		sp := lx.cursor.spanFrom(start)
		lx.errAt(diag.SynExpectIdentifier, sp, "expected identifier after '$'")
		return Token{Kind: Invalid, Span: sp, Text: lx.text(sp)}
	}
	for isIdentContinueByte(lx.cursor.peek()) {
		lx.cursor.bump()
	}
	sp := lx.cursor.spanFrom(start)
	return Token{Kind: SpecialIdent, Span: sp, Text: lx.text(sp)}
}

// scanNumber scans decimal literals: 123, 1.5, .5, 1., 1e-3, 2.5e+10.
// Malformed exponents are reported and yield Invalid tokens.
func (lx *Lexer) scanNumber() Token {
	start := lx.cursor.mark()

	if lx.cursor.peek() == '.' {
		lx.cursor.bump()
		for isDec(lx.cursor.peek()) {
			lx.cursor.bump()
		}
	} else {
		for isDec(lx.cursor.peek()) {
			lx.cursor.bump()
		}
		if lx.cursor.peek() == '.' {
			lx.cursor.bump()
			for isDec(lx.cursor.peek()) {
				lx.cursor.bump()
			}
		}
	}

	if lx.cursor.peek() == 'e' || lx.cursor.peek() == 'E' {
		lx.cursor.bump()
		if lx.cursor.peek() == '+' || lx.cursor.peek() == '-' {
			lx.cursor.bump()
		}
		if !isDec(lx.cursor.peek()) {
			sp := lx.cursor.spanFrom(start)
			lx.errAt(diag.SynBadNumber, sp, "expected digit after exponent")
			return Token{Kind: Invalid, Span: sp, Text: lx.text(sp)}
		}
		for isDec(lx.cursor.peek()) {
			lx.cursor.bump()
		}
	}

	sp := lx.cursor.spanFrom(start)
	return Token{Kind: Number, Span: sp, Text: lx.text(sp)}
}

// scanString scans a double-quoted literal with backslash escapes. A
// newline or EOF inside the literal is reported as unterminated.
func (lx *Lexer) scanString() Token {
	start := lx.cursor.mark()
	lx.cursor.bump() // opening '"'

	for !lx.cursor.eof() {
		b := lx.cursor.peek()
		if b == '"' {
			lx.cursor.bump()
			sp := lx.cursor.spanFrom(start)
			return Token{Kind: String, Span: sp, Text: lx.text(sp)}
		}
		if b == '\\' {
			lx.cursor.bump()
			if lx.cursor.eof() {
				break
			}
			lx.cursor.bump()
			continue
		}
		if b == '\n' {
			sp := lx.cursor.spanFrom(start)
			lx.errAt(diag.SynUnterminatedString, sp, "unterminated string literal")
			return Token{Kind: Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.cursor.bump()
	}

	sp := lx.cursor.spanFrom(start)
	lx.errAt(diag.SynUnterminatedString, sp, "unterminated string literal")
	return Token{Kind: Invalid, Span: sp, Text: lx.text(sp)}
}

// scanPath scans an angle-bracket path after include/use. Text keeps the
// bare path without the brackets.
func (lx *Lexer) scanPath() Token {
	start := lx.cursor.mark()
	lx.cursor.bump() // '<'

	inner := lx.cursor.mark()
	for !lx.cursor.eof() && lx.cursor.peek() != '>' && lx.cursor.peek() != '\n' {
		lx.cursor.bump()
	}
	innerSpan := lx.cursor.spanFrom(inner)

	if !lx.cursor.eat('>') {
		sp := lx.cursor.spanFrom(start)
		lx.errAt(diag.SynExpectPath, sp, "unterminated include path, expected '>'")
		return Token{Kind: Invalid, Span: sp, Text: lx.text(innerSpan)}
	}
	return Token{Kind: PathLit, Span: lx.cursor.spanFrom(start), Text: lx.text(innerSpan)}
}

// scanOperatorOrPunct scans the operator and punctuation set, longest
// match first.
func (lx *Lexer) scanOperatorOrPunct() Token {
	start := lx.cursor.mark()

	emit := func(k TokenKind) Token {
		sp := lx.cursor.spanFrom(start)
		return Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}

	switch b := lx.cursor.bump(); b {
	case '+':
		return emit(Plus)
	case '-':
		return emit(Minus)
	case '*':
		return emit(Star)
	case '/':
		return emit(Slash)
	case '%':
		return emit(Percent)
	case '^':
		return emit(Caret)
	case '=':
		if lx.cursor.eat('=') {
			return emit(EqEq)
		}
		return emit(Assign)
	case '!':
		if lx.cursor.eat('=') {
			return emit(BangEq)
		}
		return emit(Bang)
	case '<':
		if lx.cursor.eat('=') {
			return emit(LtEq)
		}
		return emit(Lt)
	case '>':
		if lx.cursor.eat('=') {
			return emit(GtEq)
		}
		return emit(Gt)
	case '&':
		if lx.cursor.eat('&') {
			return emit(AndAnd)
		}
	case '|':
		if lx.cursor.eat('|') {
			return emit(OrOr)
		}
	case '?':
		return emit(Question)
	case ':':
		return emit(Colon)
	case ';':
		return emit(Semicolon)
	case ',':
		return emit(Comma)
	case '.':
		return emit(Dot)
	case '#':
		return emit(Hash)
	case '(':
		return emit(LParen)
	case ')':
		return emit(RParen)
	case '{':
		return emit(LBrace)
	case '}':
		return emit(RBrace)
	case '[':
		return emit(LBracket)
	case ']':
		return emit(RBracket)
	}

	sp := lx.cursor.spanFrom(start)
	lx.errAt(diag.SynUnexpectedToken, sp, fmt.Sprintf("unexpected character %q", lx.text(sp)))
	return Token{Kind: Invalid, Span: sp, Text: lx.text(sp)}
}

// peekRune reads the current position as a rune.
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.eof() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.peek()
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.off:])
	return r, sz
}

func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.off += usz
}

// ASCII fast path for identifiers; Unicode goes through the rune
// classifiers.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// isNumberAfterDot checks the ".5" case: a dot directly followed by a
// digit.
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.peek2()
	return ok && b0 == '.' && isDec(b1)
}
