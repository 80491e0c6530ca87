package diag

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormattedMessageWithLocation(t *testing.T) {
	e := NewSyntaxError("missing semicolon", SynMissingSemicolon, &Context{Line: 3, Column: 14})
	want := "ERROR [3:14] [MISSING_SEMICOLON]: missing semicolon"
	if got := e.FormattedMessage(); got != want {
		t.Errorf("FormattedMessage() = %q, want %q", got, want)
	}
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestFormattedMessageWithoutLocation(t *testing.T) {
	e := NewInternalError("lexer state corrupted", 0, nil)
	want := "FATAL [INTERNAL_ERROR]: lexer state corrupted"
	if got := e.FormattedMessage(); got != want {
		t.Errorf("FormattedMessage() = %q, want %q", got, want)
	}

	// A context without a line behaves the same as no context.
	e = NewTypeError("bad operand", TypeMismatch, &Context{Found: "string"})
	want = "ERROR [TYPE_MISMATCH]: bad operand"
	if got := e.FormattedMessage(); got != want {
		t.Errorf("FormattedMessage() = %q, want %q", got, want)
	}
}

func TestConstructorDefaults(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		code    Code
		sev     Severity
		subtype string
	}{
		{"syntax", NewSyntaxError("m", 0, nil), SynError, SevError, "SyntaxError"},
		{"syntax explicit", NewSyntaxError("m", SynUnclosedParen, nil), SynUnclosedParen, SevError, "SyntaxError"},
		{"type", NewTypeError("m", 0, nil), TypeError, SevError, "TypeError"},
		{"reference", NewReferenceError("m", 0, nil), RefError, SevError, "ReferenceError"},
		{"validation", NewValidationError("m", 0, nil), ValError, SevWarning, "ValidationError"},
		{"ast", NewASTError("m", 0, nil), ASTError, SevError, "ASTError"},
		{"internal", NewInternalError("m", 0, nil), InternalError, SevFatal, "InternalError"},
	}
	for _, tt := range tests {
		if tt.err.Code != tt.code {
			t.Errorf("%s: code = %v, want %v", tt.name, tt.err.Code, tt.code)
		}
		if tt.err.Severity != tt.sev {
			t.Errorf("%s: severity = %v, want %v", tt.name, tt.err.Severity, tt.sev)
		}
		if got := tt.err.Code.SubtypeName(); got != tt.subtype {
			t.Errorf("%s: subtype = %q, want %q", tt.name, got, tt.subtype)
		}
	}
}

func TestStackTraceCaptured(t *testing.T) {
	e := New(SevError, SynError, "boom", nil)
	frames := e.StackTrace()
	if len(frames) == 0 {
		t.Fatal("expected at least one stack frame")
	}
	found := false
	for _, fr := range frames {
		if strings.Contains(fr, "TestStackTraceCaptured") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("stack trace does not mention the caller:\n%s", strings.Join(frames, "\n"))
	}
}

func TestErrorMarshalJSON(t *testing.T) {
	e := NewReferenceError("unknown variable 'wdith'", RefUndefinedVariable, &Context{
		Line:        2,
		Column:      7,
		Found:       "wdith",
		Suggestions: []string{"width"},
	})
	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Name     string `json:"name"`
		Message  string `json:"message"`
		Code     string `json:"code"`
		Severity string `json:"severity"`
		Context  *struct {
			Line        uint32   `json:"line"`
			Column      uint32   `json:"column"`
			Found       string   `json:"found"`
			Suggestions []string `json:"suggestions"`
		} `json:"context"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Name != "ReferenceError" {
		t.Errorf("name = %q, want %q", decoded.Name, "ReferenceError")
	}
	if decoded.Code != "UNDEFINED_VARIABLE" {
		t.Errorf("code = %q, want %q", decoded.Code, "UNDEFINED_VARIABLE")
	}
	if decoded.Severity != "ERROR" {
		t.Errorf("severity = %q, want %q", decoded.Severity, "ERROR")
	}
	if decoded.Context == nil {
		t.Fatal("context missing from JSON")
	}
	if decoded.Context.Line != 2 || decoded.Context.Column != 7 {
		t.Errorf("context position = %d:%d, want 2:7", decoded.Context.Line, decoded.Context.Column)
	}
	if len(decoded.Context.Suggestions) != 1 || decoded.Context.Suggestions[0] != "width" {
		t.Errorf("suggestions = %v, want [width]", decoded.Context.Suggestions)
	}
}

func TestContextClone(t *testing.T) {
	orig := &Context{Line: 1, Column: 2, Suggestions: []string{"a", "b"}}
	cp := orig.Clone()
	cp.Suggestions[0] = "z"
	cp.Line = 9
	if orig.Suggestions[0] != "a" {
		t.Error("Clone shares the suggestions slice")
	}
	if orig.Line != 1 {
		t.Error("Clone shares scalar fields")
	}
	if (*Context)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
