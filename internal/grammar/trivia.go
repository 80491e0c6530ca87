package grammar

import "scad/internal/diag"

// skipTrivia consumes whitespace and comments before the next token.
// Comments never become tokens; node spans still cover them because a
// node's span runs from its first to its last token.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.eof() {
		b := lx.cursor.peek()

		// '\r' survives only in virtual files; Load normalizes CRLF.
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			lx.cursor.bump()
			continue
		}

		if b == '/' {
			if lx.skipComment() {
				continue
			}
		}

		break
	}
}

// skipComment consumes a // line comment or a /* */ block comment
// (nesting supported). An unterminated block comment is reported and
// truncated at EOF.
func (lx *Lexer) skipComment() bool {
	start := lx.cursor.mark()
	if !lx.cursor.eat('/') {
		return false
	}

	switch lx.cursor.peek() {
	case '/':
		for !lx.cursor.eof() && lx.cursor.peek() != '\n' {
			lx.cursor.bump()
		}
		return true

	case '*':
		lx.cursor.bump()
		depth := 1
		for !lx.cursor.eof() && depth > 0 {
			if b0, b1, ok := lx.cursor.peek2(); ok {
				if b0 == '/' && b1 == '*' {
					lx.cursor.bump()
					lx.cursor.bump()
					depth++
					continue
				}
				if b0 == '*' && b1 == '/' {
					lx.cursor.bump()
					lx.cursor.bump()
					depth--
					continue
				}
			}
			lx.cursor.bump()
		}
		if depth > 0 {
			lx.errAt(diag.SynUnterminatedComment, lx.cursor.spanFrom(start), "unterminated block comment")
		}
		return true

	default:
		// Not a comment; rescan '/' as an operator.
		lx.cursor.reset(start)
		return false
	}
}
