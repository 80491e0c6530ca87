package recovery

import (
	"fmt"
	"strconv"
	"strings"

	"scad/internal/diag"
)

// Oracle supplies the type knowledge this layer does not have. The
// front end never implements one; hosts with a type system inject
// theirs when constructing the strategy.
type Oracle interface {
	// GetType names the type of a literal's source text.
	GetType(value string) string
	// IsAssignable reports whether a value of type from can stand where
	// type to is expected.
	IsAssignable(from, to string) bool
	// FindCommonType names a type both operands convert to, or "".
	FindCommonType(a, b string) string
}

// TypeMismatch converts a mis-typed literal in place. It is not part of
// the default chain: hosts opt in by registering it with their Oracle.
type TypeMismatch struct {
	oracle Oracle
}

// NewTypeMismatch returns the strategy bound to oracle, which may be nil
// to restrict recovery to the static conversion table.
func NewTypeMismatch(oracle Oracle) *TypeMismatch {
	return &TypeMismatch{oracle: oracle}
}

func (*TypeMismatch) Name() string  { return "type-mismatch" }
func (*TypeMismatch) Priority() int { return PriorityTypeMismatch }

func (*TypeMismatch) CanHandle(e *diag.Error) bool {
	if e == nil {
		return false
	}
	switch e.Code {
	case diag.TypeMismatch, diag.TypeInvalidOperation, diag.TypeInvalidArguments:
		return true
	}
	return false
}

func (s *TypeMismatch) Recover(e *diag.Error, src string) (string, error) {
	if e == nil {
		return "", nil
	}
	switch e.Code {
	case diag.TypeMismatch:
		return s.recoverLiteral(e, src)
	case diag.TypeInvalidOperation:
		return s.recoverBinaryOperation(e, src)
	case diag.TypeInvalidArguments:
		return s.recoverFunctionArguments(e, src)
	}
	return "", nil
}

// recoverLiteral rewrites the literal recorded on the error context into
// the expected type at its exact source position.
func (s *TypeMismatch) recoverLiteral(e *diag.Error, src string) (string, error) {
	ctx := e.Context
	if ctx == nil || ctx.Value == "" || ctx.Expected == "" {
		return "", nil
	}
	from := ctx.Found
	if from == "" && s.oracle != nil {
		from = s.oracle.GetType(ctx.Value)
	}
	if from == "" {
		return "", nil
	}
	if s.oracle != nil && s.oracle.IsAssignable(from, ctx.Expected) {
		// Already assignable; the reported mismatch needs no edit.
		return "", nil
	}

	converted, ok := convertLiteral(ctx.Value, from, ctx.Expected)
	if !ok {
		return "", nil
	}
	off, okOff := offsetOf(src, ctx.Line, ctx.Column)
	if !okOff {
		return "", nil
	}
	fixed, err := Replace(off, ctx.Value, converted).Apply(src)
	if err != nil {
		return "", nil
	}
	return fixed, nil
}

// recoverBinaryOperation would rewrite operands toward
// Oracle.FindCommonType. The conversion semantics were never settled,
// so this path proposes nothing.
func (s *TypeMismatch) recoverBinaryOperation(e *diag.Error, src string) (string, error) {
	return "", nil
}

// recoverFunctionArguments is unimplemented for the same reason.
func (s *TypeMismatch) recoverFunctionArguments(e *diag.Error, src string) (string, error) {
	return "", nil
}

func (s *TypeMismatch) Suggestion(e *diag.Error) string {
	if e == nil || e.Context == nil {
		return ""
	}
	ctx := e.Context
	if ctx.Found != "" && ctx.Expected != "" {
		return fmt.Sprintf("convert the %s value to %s", ctx.Found, ctx.Expected)
	}
	return "check the operand types"
}

// convertLiteral maps a literal's source text between the scalar types
// using the static round-trip table.
func convertLiteral(text, from, to string) (string, bool) {
	from = strings.ToLower(from)
	to = strings.ToLower(to)
	if from == to {
		return "", false
	}
	switch {
	case (from == "number" || from == "boolean") && to == "string":
		return `"` + text + `"`, true
	case from == "string" && to == "number":
		inner := strings.Trim(text, `"`)
		if _, err := strconv.ParseFloat(inner, 64); err != nil {
			return "", false
		}
		return inner, true
	case from == "string" && to == "boolean":
		inner := strings.Trim(text, `"`)
		if inner == "true" || inner == "false" {
			return inner, true
		}
		return "", false
	case from == "number" && to == "boolean":
		if text == "0" {
			return "false", true
		}
		return "true", true
	case from == "boolean" && to == "number":
		switch text {
		case "true":
			return "1", true
		case "false":
			return "0", true
		}
		return "", false
	}
	return "", false
}
