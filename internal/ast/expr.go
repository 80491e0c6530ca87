package ast

import "scad/internal/source"

// Node is anything in the tree that carries a source span.
type Node interface {
	Span() source.Span
}

// Expr is the sealed expression union. Concrete types: Literal,
// Variable, Binary, Unary, Conditional, Array, FunctionCall, Range,
// Index.
type Expr interface {
	Node
	Kind() ExprKind
	exprNode()
}

// Literal is a number, boolean, string, or undef literal. Raw keeps the
// original source text.
type Literal struct {
	LitKind LitKind
	Number  float64
	Bool    bool
	Str     string
	Raw     string
	Loc     source.Span
}

func (n *Literal) Span() source.Span { return n.Loc }
func (n *Literal) Kind() ExprKind    { return ExprLiteral }
func (n *Literal) exprNode()         {}

// Variable references a named variable, including `$`-specials.
type Variable struct {
	Name string
	Loc  source.Span
}

func (n *Variable) Span() source.Span { return n.Loc }
func (n *Variable) Kind() ExprKind    { return ExprVariable }
func (n *Variable) exprNode()         {}

// Binary is a binary operation over two operands.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Loc   source.Span
}

func (n *Binary) Span() source.Span { return n.Loc }
func (n *Binary) Kind() ExprKind    { return ExprBinary }
func (n *Binary) exprNode()         {}

// Unary is a prefix operation.
type Unary struct {
	Op      UnaryOp
	Operand Expr
	Loc     source.Span
}

func (n *Unary) Span() source.Span { return n.Loc }
func (n *Unary) Kind() ExprKind    { return ExprUnary }
func (n *Unary) exprNode()         {}

// Conditional is `Cond ? Then : Else`.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
	Loc  source.Span
}

func (n *Conditional) Span() source.Span { return n.Loc }
func (n *Conditional) Kind() ExprKind    { return ExprConditional }
func (n *Conditional) exprNode()         {}

// Array is a `[a, b, c]` vector literal.
type Array struct {
	Elements []Expr
	Loc      source.Span
}

func (n *Array) Span() source.Span { return n.Loc }
func (n *Array) Kind() ExprKind    { return ExprArray }
func (n *Array) exprNode()         {}

// Range is `[Start:End]` or `[Start:Step:End]`; Step is nil for the
// two-part form.
type Range struct {
	Start Expr
	Step  Expr
	End   Expr
	Loc   source.Span
}

func (n *Range) Span() source.Span { return n.Loc }
func (n *Range) Kind() ExprKind    { return ExprRange }
func (n *Range) exprNode()         {}

// Index is `Object[IndexExpr]`.
type Index struct {
	Object    Expr
	IndexExpr Expr
	Loc       source.Span
}

func (n *Index) Span() source.Span { return n.Loc }
func (n *Index) Kind() ExprKind    { return ExprIndex }
func (n *Index) exprNode()         {}

// FunctionCall is `Name(args)` with positional and named arguments.
type FunctionCall struct {
	Name string
	Args []Argument
	Loc  source.Span
}

func (n *FunctionCall) Span() source.Span { return n.Loc }
func (n *FunctionCall) Kind() ExprKind    { return ExprFunctionCall }
func (n *FunctionCall) exprNode()         {}

// Argument is one call or instantiation argument; Name is empty for
// positional arguments.
type Argument struct {
	Name  string
	Value Expr
	Loc   source.Span
}

func (a Argument) Span() source.Span { return a.Loc }
