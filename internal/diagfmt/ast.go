package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"scad/internal/ast"
	"scad/internal/source"
)

// ASTNode is a stable projection of one AST node for dumps. Fields that
// do not apply to a node's kind stay empty and are omitted from JSON.
type ASTNode struct {
	Type     string    `json:"type"`
	Name     string    `json:"name,omitempty"`
	Op       string    `json:"op,omitempty"`
	LitKind  string    `json:"lit_kind,omitempty"`
	Value    string    `json:"value,omitempty"`
	Modifier string    `json:"modifier,omitempty"`
	Path     string    `json:"path,omitempty"`
	Span     *SpanInfo `json:"span,omitempty"`
	Params   []ASTNode `json:"params,omitempty"`
	Args     []ASTNode `json:"args,omitempty"`
	Children []ASTNode `json:"children,omitempty"`
}

// SpanInfo is a node's byte range, with line/column filled in when the
// projection has a FileSet to resolve against.
type SpanInfo struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
	Line  uint32 `json:"line,omitempty"`
	Col   uint32 `json:"col,omitempty"`
}

// ASTOptions controls the projection.
type ASTOptions struct {
	WithSpans bool
	FileSet   *source.FileSet
}

// ASTJSON writes the statements as one indented JSON tree under a
// source_file root.
func ASTJSON(w io.Writer, stmts []ast.Stmt, opts ASTOptions) error {
	root := ASTNode{Type: "source_file", Children: BuildASTNodes(stmts, opts)}
	if opts.WithSpans && len(stmts) > 0 {
		cover := stmts[0].Span()
		for _, s := range stmts[1:] {
			cover = cover.Cover(s.Span())
		}
		root.Span = spanInfo(cover, opts)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}

// ASTTree writes the statements as an indented box-drawing tree.
func ASTTree(w io.Writer, stmts []ast.Stmt, opts ASTOptions) error {
	if _, err := fmt.Fprintln(w, "source_file"); err != nil {
		return err
	}
	return writeTreeLevel(w, BuildASTNodes(stmts, opts), "")
}

func writeTreeLevel(w io.Writer, nodes []ASTNode, prefix string) error {
	for i, n := range nodes {
		connector, childPrefix := "├─ ", prefix+"│  "
		if i == len(nodes)-1 {
			connector, childPrefix = "└─ ", prefix+"   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, connector, astLabel(n)); err != nil {
			return err
		}
		if err := writeTreeLevel(w, branchNodes(n), childPrefix); err != nil {
			return err
		}
	}
	return nil
}

// branchNodes flattens a node's groups into display order: parameters,
// then arguments, then children.
func branchNodes(n ASTNode) []ASTNode {
	if len(n.Params) == 0 && len(n.Args) == 0 {
		return n.Children
	}
	out := make([]ASTNode, 0, len(n.Params)+len(n.Args)+len(n.Children))
	out = append(out, n.Params...)
	out = append(out, n.Args...)
	out = append(out, n.Children...)
	return out
}

func astLabel(n ASTNode) string {
	var b strings.Builder
	b.WriteString(n.Type)
	switch {
	case n.Name != "":
		b.WriteByte(' ')
		b.WriteString(n.Modifier)
		b.WriteString(n.Name)
	case n.Op != "":
		fmt.Fprintf(&b, " %q", n.Op)
	case n.Path != "":
		fmt.Fprintf(&b, " <%s>", n.Path)
	}
	if n.LitKind != "" {
		b.WriteByte(' ')
		b.WriteString(n.LitKind)
	}
	if n.Value != "" {
		b.WriteByte(' ')
		b.WriteString(n.Value)
	}
	if n.Span != nil {
		if n.Span.Line > 0 {
			fmt.Fprintf(&b, " (span: %d-%d @ %d:%d)", n.Span.Start, n.Span.End, n.Span.Line, n.Span.Col)
		} else {
			fmt.Fprintf(&b, " (span: %d-%d)", n.Span.Start, n.Span.End)
		}
	}
	return b.String()
}

// BuildASTNodes projects a statement list. Bodies recurse through the
// same projection, so the result is the whole subtree.
func BuildASTNodes(stmts []ast.Stmt, opts ASTOptions) []ASTNode {
	if len(stmts) == 0 {
		return nil
	}
	nodes := make([]ASTNode, 0, len(stmts))
	for _, s := range stmts {
		nodes = append(nodes, stmtNode(s, opts))
	}
	return nodes
}

func stmtNode(s ast.Stmt, opts ASTOptions) ASTNode {
	if s == nil {
		return ASTNode{Type: "invalid"}
	}
	kind := s.Kind().String()
	switch n := s.(type) {
	case *ast.Assignment:
		return ASTNode{
			Type:     kind,
			Name:     n.Name,
			Span:     spanInfo(n.Loc, opts),
			Children: []ASTNode{exprNode(n.Value, opts)},
		}
	case *ast.ModuleInstantiation:
		return ASTNode{
			Type:     kind,
			Name:     n.Name,
			Modifier: n.Modifier,
			Span:     spanInfo(n.Loc, opts),
			Args:     argNodes(n.Args, opts),
			Children: BuildASTNodes(n.Children, opts),
		}
	case *ast.ModuleDefinition:
		return ASTNode{
			Type:     kind,
			Name:     n.Name,
			Span:     spanInfo(n.Loc, opts),
			Params:   paramNodes(n.Params, opts),
			Children: BuildASTNodes(n.Body, opts),
		}
	case *ast.FunctionDefinition:
		return ASTNode{
			Type:     kind,
			Name:     n.Name,
			Span:     spanInfo(n.Loc, opts),
			Params:   paramNodes(n.Params, opts),
			Children: []ASTNode{exprNode(n.Body, opts)},
		}
	case *ast.ForLoop:
		children := make([]ASTNode, 0, len(n.Variables)+len(n.Body))
		for _, v := range n.Variables {
			children = append(children, loopVarNode(v, opts))
		}
		children = append(children, BuildASTNodes(n.Body, opts)...)
		return ASTNode{Type: kind, Span: spanInfo(n.Loc, opts), Children: children}
	case *ast.If:
		children := []ASTNode{
			exprNode(n.Cond, opts),
			{Type: "then", Children: BuildASTNodes(n.Then, opts)},
		}
		if n.Else != nil {
			children = append(children, ASTNode{Type: "else", Children: BuildASTNodes(n.Else, opts)})
		}
		return ASTNode{Type: kind, Span: spanInfo(n.Loc, opts), Children: children}
	case *ast.Echo:
		return ASTNode{Type: kind, Span: spanInfo(n.Loc, opts), Args: argNodes(n.Args, opts)}
	case *ast.Assert:
		return ASTNode{Type: kind, Span: spanInfo(n.Loc, opts), Args: argNodes(n.Args, opts)}
	case *ast.Include:
		return ASTNode{Type: kind, Path: n.Path, Span: spanInfo(n.Loc, opts)}
	case *ast.Use:
		return ASTNode{Type: kind, Path: n.Path, Span: spanInfo(n.Loc, opts)}
	case *ast.Block:
		return ASTNode{Type: kind, Span: spanInfo(n.Loc, opts), Children: BuildASTNodes(n.Stmts, opts)}
	}
	return ASTNode{Type: kind, Span: spanInfo(s.Span(), opts)}
}

func exprNode(e ast.Expr, opts ASTOptions) ASTNode {
	if e == nil {
		return ASTNode{Type: "invalid"}
	}
	kind := e.Kind().String()
	switch n := e.(type) {
	case *ast.Literal:
		node := ASTNode{Type: kind, LitKind: n.LitKind.String(), Span: spanInfo(n.Loc, opts)}
		if n.LitKind != ast.LitUndef {
			node.Value = literalValue(n)
		}
		return node
	case *ast.Variable:
		return ASTNode{Type: kind, Name: n.Name, Span: spanInfo(n.Loc, opts)}
	case *ast.Binary:
		return ASTNode{
			Type:     kind,
			Op:       n.Op.String(),
			Span:     spanInfo(n.Loc, opts),
			Children: []ASTNode{exprNode(n.Left, opts), exprNode(n.Right, opts)},
		}
	case *ast.Unary:
		return ASTNode{
			Type:     kind,
			Op:       n.Op.String(),
			Span:     spanInfo(n.Loc, opts),
			Children: []ASTNode{exprNode(n.Operand, opts)},
		}
	case *ast.Conditional:
		return ASTNode{
			Type: kind,
			Span: spanInfo(n.Loc, opts),
			Children: []ASTNode{
				exprNode(n.Cond, opts),
				exprNode(n.Then, opts),
				exprNode(n.Else, opts),
			},
		}
	case *ast.Array:
		children := make([]ASTNode, 0, len(n.Elements))
		for _, el := range n.Elements {
			children = append(children, exprNode(el, opts))
		}
		return ASTNode{Type: kind, Span: spanInfo(n.Loc, opts), Children: children}
	case *ast.Range:
		children := []ASTNode{exprNode(n.Start, opts)}
		if n.Step != nil {
			children = append(children, exprNode(n.Step, opts))
		}
		children = append(children, exprNode(n.End, opts))
		return ASTNode{Type: kind, Span: spanInfo(n.Loc, opts), Children: children}
	case *ast.Index:
		return ASTNode{
			Type:     kind,
			Span:     spanInfo(n.Loc, opts),
			Children: []ASTNode{exprNode(n.Object, opts), exprNode(n.IndexExpr, opts)},
		}
	case *ast.FunctionCall:
		return ASTNode{Type: kind, Name: n.Name, Span: spanInfo(n.Loc, opts), Args: argNodes(n.Args, opts)}
	}
	return ASTNode{Type: kind, Span: spanInfo(e.Span(), opts)}
}

func argNodes(args []ast.Argument, opts ASTOptions) []ASTNode {
	if len(args) == 0 {
		return nil
	}
	out := make([]ASTNode, len(args))
	for i, a := range args {
		out[i] = ASTNode{
			Type:     "argument",
			Name:     a.Name,
			Span:     spanInfo(a.Loc, opts),
			Children: []ASTNode{exprNode(a.Value, opts)},
		}
	}
	return out
}

func paramNodes(params []ast.Parameter, opts ASTOptions) []ASTNode {
	if len(params) == 0 {
		return nil
	}
	out := make([]ASTNode, len(params))
	for i, p := range params {
		node := ASTNode{Type: "parameter", Name: p.Name, Span: spanInfo(p.Loc, opts)}
		if p.Default != nil {
			node.Children = []ASTNode{exprNode(p.Default, opts)}
		}
		out[i] = node
	}
	return out
}

func loopVarNode(v ast.ForLoopVariable, opts ASTOptions) ASTNode {
	node := ASTNode{Type: "loop_variable", Name: v.Variable, Span: spanInfo(v.Loc, opts)}
	if v.IsNumeric() {
		node.Value = formatNumericRange(v)
	} else {
		node.Children = []ASTNode{exprNode(v.RangeExpr, opts)}
	}
	return node
}

func formatNumericRange(v ast.ForLoopVariable) string {
	start := strconv.FormatFloat(v.Range[0], 'g', -1, 64)
	end := strconv.FormatFloat(v.Range[1], 'g', -1, 64)
	if v.Step != nil {
		return "[" + start + ":" + strconv.FormatFloat(*v.Step, 'g', -1, 64) + ":" + end + "]"
	}
	return "[" + start + ":" + end + "]"
}

// literalValue prefers the literal's original source text and falls back
// to rendering the decoded value.
func literalValue(lit *ast.Literal) string {
	if lit.Raw != "" {
		return lit.Raw
	}
	switch lit.LitKind {
	case ast.LitNumber:
		return strconv.FormatFloat(lit.Number, 'g', -1, 64)
	case ast.LitBool:
		return strconv.FormatBool(lit.Bool)
	case ast.LitString:
		return strconv.Quote(lit.Str)
	case ast.LitUndef:
		return "undef"
	}
	return ""
}

func spanInfo(sp source.Span, opts ASTOptions) *SpanInfo {
	if !opts.WithSpans {
		return nil
	}
	info := &SpanInfo{Start: sp.Start, End: sp.End}
	if opts.FileSet != nil {
		pos, _ := opts.FileSet.Resolve(sp)
		info.Line = pos.Line
		info.Col = pos.Col
	}
	return info
}
