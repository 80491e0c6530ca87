package astbuild

import (
	"strconv"
	"strings"
	"unicode"

	"scad/internal/ast"
	"scad/internal/source"
)

// literalFromRaw coerces default-value text into a literal by lexical
// shape: number first, then boolean or undef, else string.
func literalFromRaw(raw string, sp source.Span) *ast.Literal {
	t := strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return &ast.Literal{LitKind: ast.LitNumber, Number: f, Raw: t, Loc: sp}
	}
	switch t {
	case "true", "false":
		return &ast.Literal{LitKind: ast.LitBool, Bool: t == "true", Raw: t, Loc: sp}
	case "undef":
		return &ast.Literal{LitKind: ast.LitUndef, Raw: t, Loc: sp}
	}
	return &ast.Literal{LitKind: ast.LitString, Str: unquoteString(t), Raw: t, Loc: sp}
}

// exprFromText applies the same ordering to bare text: numeric parse
// first, then the boolean keywords, else an identifier reference.
// Anything more structured than that returns nil.
func exprFromText(text string, sp source.Span) ast.Expr {
	t := strings.TrimSpace(text)
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return &ast.Literal{LitKind: ast.LitNumber, Number: f, Raw: t, Loc: sp}
	}
	if t == "true" || t == "false" {
		return &ast.Literal{LitKind: ast.LitBool, Bool: t == "true", Raw: t, Loc: sp}
	}
	if isIdentText(t) {
		return &ast.Variable{Name: t, Loc: sp}
	}
	return nil
}

// numericRange resolves a range's bounds when all parts are literal
// numbers, including signed ones.
func numericRange(r *ast.Range) ([2]float64, *float64, bool) {
	start, ok := numericValue(r.Start)
	if !ok {
		return [2]float64{}, nil, false
	}
	end, ok := numericValue(r.End)
	if !ok {
		return [2]float64{}, nil, false
	}
	if r.Step == nil {
		return [2]float64{start, end}, nil, true
	}
	step, ok := numericValue(r.Step)
	if !ok {
		return [2]float64{}, nil, false
	}
	return [2]float64{start, end}, &step, true
}

// numericValue resolves a literal number, looking through a unary sign.
func numericValue(e ast.Expr) (float64, bool) {
	switch x := e.(type) {
	case *ast.Literal:
		if x.LitKind == ast.LitNumber {
			return x.Number, true
		}
	case *ast.Unary:
		v, ok := numericValue(x.Operand)
		if !ok {
			return 0, false
		}
		switch x.Op {
		case ast.UnaryNeg:
			return -v, true
		case ast.UnaryPos:
			return v, true
		}
	}
	return 0, false
}

func isIdentText(s string) bool {
	for i, r := range s {
		ok := r == '_' || unicode.IsLetter(r) ||
			(i == 0 && r == '$') ||
			(i > 0 && unicode.IsDigit(r))
		if !ok {
			return false
		}
	}
	return s != ""
}

// unquoteString strips the surrounding quotes from string literal text
// and resolves the escape sequences the lexer accepted.
func unquoteString(raw string) string {
	s := raw
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			// '\\', '"', and unknown escapes keep the escaped byte.
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
