package recovery

import (
	"strings"

	"scad/internal/diag"
)

// UnclosedBracket inserts the closer for the innermost bracket still
// open at the error position.
type UnclosedBracket struct{}

// NewUnclosedBracket returns the default unclosed-bracket strategy.
func NewUnclosedBracket() *UnclosedBracket { return &UnclosedBracket{} }

func (*UnclosedBracket) Name() string  { return "unclosed-bracket" }
func (*UnclosedBracket) Priority() int { return PriorityUnclosedBracket }

// CanHandle accepts the dedicated unclosed-delimiter codes plus any
// syntax error whose message names a missing closer.
func (*UnclosedBracket) CanHandle(e *diag.Error) bool {
	if e == nil {
		return false
	}
	switch e.Code {
	case diag.SynUnclosedParen, diag.SynUnclosedBracket, diag.SynUnclosedBrace:
		return true
	}
	if !e.Code.IsSyntax() {
		return false
	}
	m := strings.ToLower(e.Message)
	return strings.Contains(m, "unclosed") || strings.Contains(m, "missing closing")
}

// Recover re-scans the error's line up to the error column with a
// bracket stack over (){}[] and inserts the closer matching the
// innermost open bracket at the error position. Bracket characters
// inside string literals do not count. Nothing unmatched, or a closer
// already sitting at the error position, yields nothing.
func (*UnclosedBracket) Recover(e *diag.Error, src string) (string, error) {
	line, col := errorPos(e)
	start, end, ok := lineSpan(src, line)
	if !ok {
		return "", nil
	}
	text := src[start:end]
	limit := len(text)
	if col > 0 && int(col)-1 < limit {
		limit = int(col) - 1
	}

	var stack []byte
	inString := false
	for i := 0; i < limit; i++ {
		c := text[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if len(stack) > 0 && stack[len(stack)-1] == openerOf(c) {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) == 0 {
		return "", nil
	}

	at := start + limit
	closer := closerOf(stack[len(stack)-1])
	if at < len(src) && src[at] == closer {
		// The fix is already in place.
		return "", nil
	}
	return Insert(at, string(closer)).Apply(src)
}

func (*UnclosedBracket) Suggestion(e *diag.Error) string {
	if e == nil {
		return ""
	}
	switch e.Code {
	case diag.SynUnclosedParen:
		return "insert the missing ')'"
	case diag.SynUnclosedBracket:
		return "insert the missing ']'"
	case diag.SynUnclosedBrace:
		return "insert the missing '}'"
	}
	return "close the unmatched bracket"
}

func openerOf(close byte) byte {
	switch close {
	case ')':
		return '('
	case ']':
		return '['
	case '}':
		return '{'
	}
	return 0
}

func closerOf(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}
	return 0
}
