package ast

import "scad/internal/source"

// Stmt is the sealed statement union. Concrete types: Assignment,
// ModuleInstantiation, ModuleDefinition, FunctionDefinition, ForLoop,
// If, Echo, Assert, Include, Use, Block.
type Stmt interface {
	Node
	Kind() StmtKind
	stmtNode()
}

// Assignment is `Name = Value;`. Name keeps the `$` prefix for special
// variables.
type Assignment struct {
	Name  string
	Value Expr
	Loc   source.Span
}

func (n *Assignment) Span() source.Span { return n.Loc }
func (n *Assignment) Kind() StmtKind    { return StmtAssignment }
func (n *Assignment) stmtNode()         {}

// ModuleInstantiation is a call-shaped statement, optionally prefixed by
// one of the `# ! % *` modifiers and optionally carrying child
// statements (a single child or a flattened block).
type ModuleInstantiation struct {
	Name     string
	Modifier string // "", "#", "!", "%", or "*"
	Args     []Argument
	Children []Stmt
	Loc      source.Span
}

func (n *ModuleInstantiation) Span() source.Span { return n.Loc }
func (n *ModuleInstantiation) Kind() StmtKind    { return StmtModuleInstantiation }
func (n *ModuleInstantiation) stmtNode()         {}

// Parameter is one formal parameter of a module or function definition.
// Default is nil when the parameter has no default; otherwise it is a
// literal coerced from the default's source text by lexical shape
// (number, then boolean, else string).
type Parameter struct {
	Name    string
	Default *Literal
	Loc     source.Span
}

func (p Parameter) Span() source.Span { return p.Loc }

// ModuleDefinition is `module Name(Params) body`; Body is the flattened
// statement list.
type ModuleDefinition struct {
	Name   string
	Params []Parameter
	Body   []Stmt
	Loc    source.Span
}

func (n *ModuleDefinition) Span() source.Span { return n.Loc }
func (n *ModuleDefinition) Kind() StmtKind    { return StmtModuleDefinition }
func (n *ModuleDefinition) stmtNode()         {}

// FunctionDefinition is `function Name(Params) = Body;`.
type FunctionDefinition struct {
	Name   string
	Params []Parameter
	Body   Expr
	Loc    source.Span
}

func (n *FunctionDefinition) Span() source.Span { return n.Loc }
func (n *FunctionDefinition) Kind() StmtKind    { return StmtFunctionDefinition }
func (n *FunctionDefinition) stmtNode()         {}

// ForLoopVariable is one loop iterator. When the bounds are numeric
// literals, Range holds [start,end] and Step the optional middle value;
// otherwise RangeExpr holds the general iterated expression and
// Range/Step are unset.
type ForLoopVariable struct {
	Variable  string
	Range     [2]float64
	Step      *float64
	RangeExpr Expr
	Loc       source.Span
}

func (v ForLoopVariable) Span() source.Span { return v.Loc }

// IsNumeric reports whether the iterator carries extracted numeric
// bounds rather than a general expression.
func (v ForLoopVariable) IsNumeric() bool { return v.RangeExpr == nil }

// ForLoop is `for (Variables) body`.
type ForLoop struct {
	Variables []ForLoopVariable
	Body      []Stmt
	Loc       source.Span
}

func (n *ForLoop) Span() source.Span { return n.Loc }
func (n *ForLoop) Kind() StmtKind    { return StmtForLoop }
func (n *ForLoop) stmtNode()         {}

// If is `if (Cond) body [else body]`; Else is nil when absent.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
	Loc  source.Span
}

func (n *If) Span() source.Span { return n.Loc }
func (n *If) Kind() StmtKind    { return StmtIf }
func (n *If) stmtNode()         {}

// Echo is `echo(Args);`.
type Echo struct {
	Args []Argument
	Loc  source.Span
}

func (n *Echo) Span() source.Span { return n.Loc }
func (n *Echo) Kind() StmtKind    { return StmtEcho }
func (n *Echo) stmtNode()         {}

// Assert is `assert(Args);`.
type Assert struct {
	Args []Argument
	Loc  source.Span
}

func (n *Assert) Span() source.Span { return n.Loc }
func (n *Assert) Kind() StmtKind    { return StmtAssert }
func (n *Assert) stmtNode()         {}

// Include is `include <Path>`.
type Include struct {
	Path string
	Loc  source.Span
}

func (n *Include) Span() source.Span { return n.Loc }
func (n *Include) Kind() StmtKind    { return StmtInclude }
func (n *Include) stmtNode()         {}

// Use is `use <Path>`.
type Use struct {
	Path string
	Loc  source.Span
}

func (n *Use) Span() source.Span { return n.Loc }
func (n *Use) Kind() StmtKind    { return StmtUse }
func (n *Use) stmtNode()         {}

// Block is a standalone braced statement group.
type Block struct {
	Stmts []Stmt
	Loc   source.Span
}

func (n *Block) Span() source.Span { return n.Loc }
func (n *Block) Kind() StmtKind    { return StmtBlock }
func (n *Block) stmtNode()         {}
