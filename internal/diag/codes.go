package diag

import (
	"fmt"
)

// Code identifies one diagnosable problem. Codes are partitioned into
// numeric bands so that the band alone classifies the error family:
//
//	100-199  syntax
//	200-299  type
//	300-399  reference
//	400-499  validation
//	500-599  AST construction
//	900-999  internal
type Code uint16

const (
	UnknownCode Code = 0

	// Syntax (100s)
	SynError               Code = 100
	SynUnexpectedToken     Code = 101
	SynMissingSemicolon    Code = 102
	SynUnclosedParen       Code = 103
	SynUnclosedBracket     Code = 104
	SynUnclosedBrace       Code = 105
	SynUnterminatedString  Code = 106
	SynUnterminatedComment Code = 107
	SynBadNumber           Code = 108
	SynUnexpectedEOF       Code = 109
	SynExpectExpression    Code = 110
	SynExpectIdentifier    Code = 111
	SynExpectPath          Code = 112
	SynBadForHeader        Code = 113

	// Type (200s)
	TypeError            Code = 200
	TypeMismatch         Code = 201
	TypeInvalidOperation Code = 202
	TypeInvalidArguments Code = 203

	// Reference (300s)
	RefError             Code = 300
	RefUndefinedVariable Code = 301
	RefUndefinedFunction Code = 302
	RefUndefinedModule   Code = 303

	// Validation (400s)
	ValError              Code = 400
	ValBadParameterCount  Code = 401
	ValBadParameterValue  Code = 402
	ValDuplicateParameter Code = 403

	// AST construction (500s)
	ASTError            Code = 500
	ASTNodeConstruction Code = 501
	ASTUnsupportedNode  Code = 502
	ASTBadRange         Code = 503

	// Internal (900s)
	InternalError          Code = 900
	InternalNotImplemented Code = 901
)

// codeName carries the stable SCREAMING_SNAKE identifier used in formatted
// messages, JSON payloads, and strategy matching. Renaming an entry is a
// breaking change for downstream consumers.
var codeName = map[Code]string{
	UnknownCode: "UNKNOWN",

	SynError:               "SYNTAX_ERROR",
	SynUnexpectedToken:     "UNEXPECTED_TOKEN",
	SynMissingSemicolon:    "MISSING_SEMICOLON",
	SynUnclosedParen:       "UNCLOSED_PAREN",
	SynUnclosedBracket:     "UNCLOSED_BRACKET",
	SynUnclosedBrace:       "UNCLOSED_BRACE",
	SynUnterminatedString:  "UNTERMINATED_STRING",
	SynUnterminatedComment: "UNTERMINATED_COMMENT",
	SynBadNumber:           "BAD_NUMBER",
	SynUnexpectedEOF:       "UNEXPECTED_EOF",
	SynExpectExpression:    "EXPECTED_EXPRESSION",
	SynExpectIdentifier:    "EXPECTED_IDENTIFIER",
	SynExpectPath:          "EXPECTED_PATH",
	SynBadForHeader:        "BAD_FOR_HEADER",

	TypeError:            "TYPE_ERROR",
	TypeMismatch:         "TYPE_MISMATCH",
	TypeInvalidOperation: "INVALID_OPERATION",
	TypeInvalidArguments: "INVALID_ARGUMENTS",

	RefError:             "REFERENCE_ERROR",
	RefUndefinedVariable: "UNDEFINED_VARIABLE",
	RefUndefinedFunction: "UNDEFINED_FUNCTION",
	RefUndefinedModule:   "UNDEFINED_MODULE",

	ValError:              "VALIDATION_ERROR",
	ValBadParameterCount:  "INVALID_PARAMETER_COUNT",
	ValBadParameterValue:  "INVALID_PARAMETER_VALUE",
	ValDuplicateParameter: "DUPLICATE_PARAMETER",

	ASTError:            "AST_ERROR",
	ASTNodeConstruction: "NODE_CONSTRUCTION_FAILED",
	ASTUnsupportedNode:  "UNSUPPORTED_NODE_TYPE",
	ASTBadRange:         "MALFORMED_RANGE",

	InternalError:          "INTERNAL_ERROR",
	InternalNotImplemented: "NOT_IMPLEMENTED",
}

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	SynError:               "Syntax error",
	SynUnexpectedToken:     "Unexpected token",
	SynMissingSemicolon:    "Missing semicolon",
	SynUnclosedParen:       "Unclosed parenthesis",
	SynUnclosedBracket:     "Unclosed bracket",
	SynUnclosedBrace:       "Unclosed brace",
	SynUnterminatedString:  "Unterminated string literal",
	SynUnterminatedComment: "Unterminated block comment",
	SynBadNumber:           "Malformed number literal",
	SynUnexpectedEOF:       "Unexpected end of file",
	SynExpectExpression:    "Expected an expression",
	SynExpectIdentifier:    "Expected an identifier",
	SynExpectPath:          "Expected an angle-bracketed path",
	SynBadForHeader:        "Malformed for-loop header",

	TypeError:            "Type error",
	TypeMismatch:         "Type mismatch",
	TypeInvalidOperation: "Invalid operation for operand types",
	TypeInvalidArguments: "Invalid arguments",

	RefError:             "Reference error",
	RefUndefinedVariable: "Undefined variable",
	RefUndefinedFunction: "Undefined function",
	RefUndefinedModule:   "Undefined module",

	ValError:              "Validation error",
	ValBadParameterCount:  "Wrong number of parameters",
	ValBadParameterValue:  "Invalid parameter value",
	ValDuplicateParameter: "Duplicate parameter name",

	ASTError:            "AST construction error",
	ASTNodeConstruction: "Failed to construct AST node",
	ASTUnsupportedNode:  "Unsupported node type",
	ASTBadRange:         "Malformed range expression",

	InternalError:          "Internal error",
	InternalNotImplemented: "Not implemented",
}

// ID renders a compact band-prefixed identifier like SYN102, used by the
// short and SARIF formats.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 100 && ic < 200:
		return fmt.Sprintf("SYN%03d", ic)
	case ic >= 200 && ic < 300:
		return fmt.Sprintf("TYP%03d", ic)
	case ic >= 300 && ic < 400:
		return fmt.Sprintf("REF%03d", ic)
	case ic >= 400 && ic < 500:
		return fmt.Sprintf("VAL%03d", ic)
	case ic >= 500 && ic < 600:
		return fmt.Sprintf("AST%03d", ic)
	case ic >= 900 && ic < 1000:
		return fmt.Sprintf("INT%03d", ic)
	}
	return "E000"
}

// String returns the stable SCREAMING_SNAKE name for the code.
func (c Code) String() string {
	if name, ok := codeName[c]; ok {
		return name
	}
	return codeName[UnknownCode]
}

// Title returns the human-readable description for the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) IsSyntax() bool     { return c >= 100 && c < 200 }
func (c Code) IsType() bool       { return c >= 200 && c < 300 }
func (c Code) IsReference() bool  { return c >= 300 && c < 400 }
func (c Code) IsValidation() bool { return c >= 400 && c < 500 }
func (c Code) IsAST() bool        { return c >= 500 && c < 600 }
func (c Code) IsInternal() bool   { return c >= 900 && c < 1000 }

// SubtypeName maps the code's band to the error subtype name reported in
// JSON payloads.
func (c Code) SubtypeName() string {
	switch {
	case c.IsSyntax():
		return "SyntaxError"
	case c.IsType():
		return "TypeError"
	case c.IsReference():
		return "ReferenceError"
	case c.IsValidation():
		return "ValidationError"
	case c.IsAST():
		return "ASTError"
	case c.IsInternal():
		return "InternalError"
	}
	return "ParserError"
}
