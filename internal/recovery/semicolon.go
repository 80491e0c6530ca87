package recovery

import (
	"strings"

	"scad/internal/diag"
)

// MissingSemicolon restores the terminator a statement lost at the end
// of its line.
type MissingSemicolon struct{}

// NewMissingSemicolon returns the default missing-semicolon strategy.
func NewMissingSemicolon() *MissingSemicolon { return &MissingSemicolon{} }

func (*MissingSemicolon) Name() string  { return "missing-semicolon" }
func (*MissingSemicolon) Priority() int { return PriorityMissingSemicolon }

// CanHandle accepts the dedicated code plus any syntax error whose
// message mentions a semicolon.
func (*MissingSemicolon) CanHandle(e *diag.Error) bool {
	if e == nil {
		return false
	}
	if e.Code == diag.SynMissingSemicolon {
		return true
	}
	return e.Code.IsSyntax() && strings.Contains(strings.ToLower(e.Message), "semicolon")
}

// Recover appends ';' at the end of the code on the offending line,
// before any trailing comment. A line that already ends with ';' or
// holds nothing but a comment has no safe insertion point and yields
// nothing.
func (*MissingSemicolon) Recover(e *diag.Error, src string) (string, error) {
	line, _ := errorPos(e)
	start, end, ok := lineSpan(src, line)
	if !ok {
		return "", nil
	}
	text := src[start:end]
	code := strings.TrimRight(text[:codeEnd(text)], " \t")
	if code == "" || strings.HasSuffix(code, ";") {
		return "", nil
	}
	return Insert(start+len(code), ";").Apply(src)
}

func (*MissingSemicolon) Suggestion(e *diag.Error) string {
	return "add ';' at the end of the statement"
}

// codeEnd returns the length of the code part of a line: everything
// before a "//" or "/*" that is not inside a string literal.
func codeEnd(line string) int {
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
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
		case '/':
			if i+1 < len(line) && (line[i+1] == '/' || line[i+1] == '*') {
				return i
			}
		}
	}
	return len(line)
}
