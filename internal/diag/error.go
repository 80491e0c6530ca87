package diag

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
)

const maxStackDepth = 16

// Error is the central diagnostic record. It satisfies the error interface
// so ERROR/FATAL records can propagate through ordinary Go error returns.
type Error struct {
	Message  string
	Code     Code
	Severity Severity
	Context  *Context

	stack []uintptr
}

// New constructs an Error with an explicit severity and code.
func New(sev Severity, code Code, msg string, ctx *Context) *Error {
	e := &Error{
		Message:  msg,
		Code:     code,
		Severity: sev,
		Context:  ctx,
	}
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(2, pcs)
	e.stack = pcs[:n]
	return e
}

// NewSyntaxError pins severity ERROR; a zero code defaults to the band's
// generic SYNTAX_ERROR.
func NewSyntaxError(msg string, code Code, ctx *Context) *Error {
	if code == UnknownCode {
		code = SynError
	}
	return New(SevError, code, msg, ctx)
}

// NewTypeError pins severity ERROR within the type band.
func NewTypeError(msg string, code Code, ctx *Context) *Error {
	if code == UnknownCode {
		code = TypeError
	}
	return New(SevError, code, msg, ctx)
}

// NewReferenceError pins severity ERROR within the reference band.
func NewReferenceError(msg string, code Code, ctx *Context) *Error {
	if code == UnknownCode {
		code = RefError
	}
	return New(SevError, code, msg, ctx)
}

// NewValidationError pins severity WARNING: validation findings flag
// suspicious but runnable input.
func NewValidationError(msg string, code Code, ctx *Context) *Error {
	if code == UnknownCode {
		code = ValError
	}
	return New(SevWarning, code, msg, ctx)
}

// NewASTError pins severity ERROR within the AST-construction band.
func NewASTError(msg string, code Code, ctx *Context) *Error {
	if code == UnknownCode {
		code = ASTError
	}
	return New(SevError, code, msg, ctx)
}

// NewInternalError pins severity FATAL: internal faults stop the session.
func NewInternalError(msg string, code Code, ctx *Context) *Error {
	if code == UnknownCode {
		code = InternalError
	}
	return New(SevFatal, code, msg, ctx)
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.FormattedMessage()
}

// FormattedMessage renders the record as
//
//	SEVERITY [line:column] [CODE]: message
//
// dropping the bracketed location when the context records none.
func (e *Error) FormattedMessage() string {
	var b strings.Builder
	b.WriteString(e.Severity.String())
	if e.Context.HasLocation() {
		fmt.Fprintf(&b, " [%d:%d]", e.Context.Line, e.Context.Column)
	}
	fmt.Fprintf(&b, " [%s]: %s", e.Code.String(), e.Message)
	return b.String()
}

// StackTrace resolves the call stack captured at construction.
func (e *Error) StackTrace() []string {
	if len(e.stack) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(e.stack)
	out := make([]string, 0, len(e.stack))
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			out = append(out, fmt.Sprintf("%s (%s:%d)", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}
	return out
}

type errorJSON struct {
	Name     string   `json:"name"`
	Message  string   `json:"message"`
	Code     string   `json:"code"`
	Severity string   `json:"severity"`
	Context  *Context `json:"context,omitempty"`
	Stack    []string `json:"stack,omitempty"`
}

// MarshalJSON emits the stable cross-boundary projection:
// name, message, code, severity, context, stack.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorJSON{
		Name:     e.Code.SubtypeName(),
		Message:  e.Message,
		Code:     e.Code.String(),
		Severity: e.Severity.String(),
		Context:  e.Context,
		Stack:    e.StackTrace(),
	})
}
