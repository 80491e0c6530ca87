package diag

import "testing"

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{SynError, "SYN100"},
		{SynMissingSemicolon, "SYN102"},
		{SynUnclosedBracket, "SYN104"},
		{TypeMismatch, "TYP201"},
		{RefUndefinedVariable, "REF301"},
		{ValBadParameterCount, "VAL401"},
		{ASTNodeConstruction, "AST501"},
		{InternalNotImplemented, "INT901"},
		{UnknownCode, "E000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("Code(%d).ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCodeString(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{SynError, "SYNTAX_ERROR"},
		{SynMissingSemicolon, "MISSING_SEMICOLON"},
		{SynUnclosedBracket, "UNCLOSED_BRACKET"},
		{SynBadForHeader, "BAD_FOR_HEADER"},
		{TypeMismatch, "TYPE_MISMATCH"},
		{RefUndefinedVariable, "UNDEFINED_VARIABLE"},
		{ValDuplicateParameter, "DUPLICATE_PARAMETER"},
		{ASTUnsupportedNode, "UNSUPPORTED_NODE_TYPE"},
		{InternalError, "INTERNAL_ERROR"},
		{Code(9999), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("Code(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCodeBands(t *testing.T) {
	if !SynMissingSemicolon.IsSyntax() {
		t.Error("SynMissingSemicolon should be in the syntax band")
	}
	if SynMissingSemicolon.IsType() {
		t.Error("SynMissingSemicolon should not be in the type band")
	}
	if !TypeMismatch.IsType() {
		t.Error("TypeMismatch should be in the type band")
	}
	if !RefUndefinedVariable.IsReference() {
		t.Error("RefUndefinedVariable should be in the reference band")
	}
	if !ValBadParameterValue.IsValidation() {
		t.Error("ValBadParameterValue should be in the validation band")
	}
	if !ASTBadRange.IsAST() {
		t.Error("ASTBadRange should be in the AST band")
	}
	if !InternalError.IsInternal() {
		t.Error("InternalError should be in the internal band")
	}
}

func TestCodeSubtypeName(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{SynUnexpectedToken, "SyntaxError"},
		{TypeInvalidOperation, "TypeError"},
		{RefUndefinedModule, "ReferenceError"},
		{ValBadParameterCount, "ValidationError"},
		{ASTNodeConstruction, "ASTError"},
		{InternalNotImplemented, "InternalError"},
		{UnknownCode, "ParserError"},
	}
	for _, tt := range tests {
		if got := tt.code.SubtypeName(); got != tt.want {
			t.Errorf("Code(%d).SubtypeName() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCodeTitlesComplete(t *testing.T) {
	codes := []Code{
		SynError, SynUnexpectedToken, SynMissingSemicolon, SynUnclosedParen,
		SynUnclosedBracket, SynUnclosedBrace, SynUnterminatedString,
		SynUnterminatedComment, SynBadNumber, SynUnexpectedEOF,
		SynExpectExpression, SynExpectIdentifier, SynExpectPath, SynBadForHeader,
		TypeError, TypeMismatch, TypeInvalidOperation, TypeInvalidArguments,
		RefError, RefUndefinedVariable, RefUndefinedFunction, RefUndefinedModule,
		ValError, ValBadParameterCount, ValBadParameterValue, ValDuplicateParameter,
		ASTError, ASTNodeConstruction, ASTUnsupportedNode, ASTBadRange,
		InternalError, InternalNotImplemented,
	}
	for _, code := range codes {
		if code.Title() == "" {
			t.Errorf("Code(%d) %s has no title", code, code)
		}
		if code.String() == "UNKNOWN" {
			t.Errorf("Code(%d) has no name", code)
		}
	}
}
