package cst

// Node kinds. The grammar produces exactly this vocabulary; the AST
// builder dispatches on it.
const (
	KindSourceFile = "source_file"

	// Statements.
	KindAssignment          = "assignment"
	KindModuleInstantiation = "module_instantiation"
	KindModuleDefinition    = "module_definition"
	KindFunctionDefinition  = "function_definition"
	KindForStatement        = "for_statement"
	KindIfStatement         = "if_statement"
	KindEchoStatement       = "echo_statement"
	KindAssertStatement     = "assert_statement"
	KindIncludeStatement    = "include_statement"
	KindUseStatement        = "use_statement"
	KindBlock               = "block"
	KindEmptyStatement      = "empty_statement"

	// Expressions.
	KindBinaryExpression        = "binary_expression"
	KindUnaryExpression         = "unary_expression"
	KindConditionalExpression   = "conditional_expression"
	KindParenthesizedExpression = "parenthesized_expression"
	KindVectorExpression        = "vector_expression"
	KindRangeExpression         = "range_expression"
	KindIndexExpression         = "index_expression"
	KindCallExpression          = "call_expression"

	// Leaves.
	KindIdentifier      = "identifier"
	KindSpecialVariable = "special_variable"
	KindNumber          = "number"
	KindString          = "string"
	KindBoolean         = "boolean"
	KindUndef           = "undef"
	KindPathLiteral     = "path_literal"
	KindModifier        = "modifier"

	// Support nodes.
	KindParameters  = "parameters"
	KindParameter   = "parameter"
	KindArguments   = "arguments"
	KindArgument    = "argument"
	KindForBindings = "for_bindings"
	KindForBinding  = "for_binding"

	// Resilience nodes.
	KindError   = "ERROR"
	KindMissing = "MISSING"
)

// Field names. A field attaches a role to one child of a node.
const (
	FieldOperator    = "operator"
	FieldLeft        = "left"
	FieldRight       = "right"
	FieldCondition   = "condition"
	FieldConsequence = "consequence"
	FieldAlternative = "alternative"
	FieldBody        = "body"
	FieldParameters  = "parameters"
	FieldArguments   = "arguments"
	FieldName        = "name"
	FieldValue       = "value"
	FieldVariable    = "variable"
	FieldRange       = "range"
	FieldIterators   = "iterators"
	FieldFunction    = "function"
	FieldModifier    = "modifier"
	FieldOperand     = "operand"
	FieldObject      = "object"
	FieldIndex       = "index"
	FieldPath        = "path"
)
