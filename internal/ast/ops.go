package ast

// BinaryOp is the closed binary operator set.
type BinaryOp uint8

const (
	// OpInvalid is the zero value; ParseBinaryOp never returns it with ok.
	OpInvalid BinaryOp = iota
	OpOr               // ||
	OpAnd              // &&
	OpEq               // ==
	OpNe               // !=
	OpLt               // <
	OpLe               // <=
	OpGt               // >
	OpGe               // >=
	OpAdd              // +
	OpSub              // -
	OpMul              // *
	OpDiv              // /
	OpMod              // %
	OpPow              // ^
)

var binaryOpStrings = map[BinaryOp]string{
	OpOr:  "||",
	OpAnd: "&&",
	OpEq:  "==",
	OpNe:  "!=",
	OpLt:  "<",
	OpLe:  "<=",
	OpGt:  ">",
	OpGe:  ">=",
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpMod: "%",
	OpPow: "^",
}

var binaryOpByText = func() map[string]BinaryOp {
	m := make(map[string]BinaryOp, len(binaryOpStrings))
	for op, s := range binaryOpStrings {
		m[s] = op
	}
	return m
}()

// String returns the operator's source glyph.
func (op BinaryOp) String() string {
	if s, ok := binaryOpStrings[op]; ok {
		return s
	}
	return "invalid"
}

// ParseBinaryOp maps operator source text into the closed set.
func ParseBinaryOp(text string) (BinaryOp, bool) {
	op, ok := binaryOpByText[text]
	return op, ok
}

// UnaryOp is the closed prefix operator set.
type UnaryOp uint8

const (
	// UnaryInvalid is the zero value; ParseUnaryOp never returns it with ok.
	UnaryInvalid UnaryOp = iota
	UnaryNot              // !
	UnaryNeg              // -
	UnaryPos              // +
)

var unaryOpStrings = map[UnaryOp]string{
	UnaryNot: "!",
	UnaryNeg: "-",
	UnaryPos: "+",
}

// String returns the operator's source glyph.
func (op UnaryOp) String() string {
	if s, ok := unaryOpStrings[op]; ok {
		return s
	}
	return "invalid"
}

// ParseUnaryOp maps prefix operator source text into the closed set.
func ParseUnaryOp(text string) (UnaryOp, bool) {
	switch text {
	case "!":
		return UnaryNot, true
	case "-":
		return UnaryNeg, true
	case "+":
		return UnaryPos, true
	default:
		return UnaryInvalid, false
	}
}

// LitKind discriminates literal values.
type LitKind uint8

const (
	// LitNumber is a numeric literal; Literal.Number holds the value.
	LitNumber LitKind = iota
	// LitBool is true or false; Literal.Bool holds the value.
	LitBool
	// LitString is a quoted string; Literal.Str holds the unquoted value.
	LitString
	// LitUndef is the undef literal.
	LitUndef
)

var litKindNames = map[LitKind]string{
	LitNumber: "number",
	LitBool:   "boolean",
	LitString: "string",
	LitUndef:  "undef",
}

func (k LitKind) String() string {
	if s, ok := litKindNames[k]; ok {
		return s
	}
	return "unknown"
}
