package ast

// StmtKind discriminates the statement union.
type StmtKind uint8

const (
	// StmtInvalid is the zero value; no constructed node carries it.
	StmtInvalid StmtKind = iota
	// StmtAssignment is a top-level or block-level `name = expr;`.
	StmtAssignment
	// StmtModuleInstantiation is a call-shaped statement like `cube(5);`.
	StmtModuleInstantiation
	// StmtModuleDefinition is a `module name(params) body` definition.
	StmtModuleDefinition
	// StmtFunctionDefinition is a `function name(params) = expr;` definition.
	StmtFunctionDefinition
	// StmtForLoop is a `for (bindings) body` loop.
	StmtForLoop
	// StmtIf is an `if (cond) body [else body]` statement.
	StmtIf
	// StmtEcho is an `echo(args);` statement.
	StmtEcho
	// StmtAssert is an `assert(args);` statement.
	StmtAssert
	// StmtInclude is an `include <path>` directive.
	StmtInclude
	// StmtUse is a `use <path>` directive.
	StmtUse
	// StmtBlock is a standalone braced statement group.
	StmtBlock
)

var stmtKindNames = map[StmtKind]string{
	StmtInvalid:             "invalid",
	StmtAssignment:          "assignment",
	StmtModuleInstantiation: "module_instantiation",
	StmtModuleDefinition:    "module_definition",
	StmtFunctionDefinition:  "function_definition",
	StmtForLoop:             "for_loop",
	StmtIf:                  "if",
	StmtEcho:                "echo",
	StmtAssert:              "assert",
	StmtInclude:             "include",
	StmtUse:                 "use",
	StmtBlock:               "block",
}

func (k StmtKind) String() string {
	if s, ok := stmtKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ExprKind discriminates the expression union.
type ExprKind uint8

const (
	// ExprInvalid is the zero value; no constructed node carries it.
	ExprInvalid ExprKind = iota
	// ExprLiteral is a number, boolean, string, or undef literal.
	ExprLiteral
	// ExprVariable is a reference to a named or `$`-special variable.
	ExprVariable
	// ExprBinary is a binary operation.
	ExprBinary
	// ExprUnary is a prefix operation.
	ExprUnary
	// ExprConditional is a `cond ? a : b` expression.
	ExprConditional
	// ExprArray is a `[a, b, c]` vector literal.
	ExprArray
	// ExprFunctionCall is a `name(args)` call.
	ExprFunctionCall
	// ExprRange is a `[start:end]` or `[start:step:end]` literal.
	ExprRange
	// ExprIndex is a `value[index]` access.
	ExprIndex
)

var exprKindNames = map[ExprKind]string{
	ExprInvalid:      "invalid",
	ExprLiteral:      "literal",
	ExprVariable:     "variable",
	ExprBinary:       "binary",
	ExprUnary:        "unary",
	ExprConditional:  "conditional",
	ExprArray:        "array",
	ExprFunctionCall: "function_call",
	ExprRange:        "range",
	ExprIndex:        "index",
}

func (k ExprKind) String() string {
	if s, ok := exprKindNames[k]; ok {
		return s
	}
	return "unknown"
}
