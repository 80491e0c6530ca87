package astbuild

import (
	"strings"

	"scad/internal/ast"
	"scad/internal/cst"
)

// Builder lowers CST nodes into AST nodes. It needs the original source
// bytes to read token text.
type Builder struct {
	src []byte
}

// NewBuilder returns a builder over the given source bytes.
func NewBuilder(src []byte) *Builder {
	return &Builder{src: src}
}

// Build converts a parsed tree into its file-level statement list.
// Statements whose shape cannot be understood are dropped; Build itself
// never fails.
func Build(tree *cst.Tree) []ast.Stmt {
	b := NewBuilder(tree.Source())
	return b.statements(tree.Root())
}

// Visit lowers one CST node into its AST counterpart. It returns nil
// when the node kind is unrecognized or a required part is absent; it
// never panics and raises no diagnostics.
func (b *Builder) Visit(n *cst.Node) ast.Node {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case cst.KindAssignment, cst.KindModuleInstantiation,
		cst.KindModuleDefinition, cst.KindFunctionDefinition,
		cst.KindForStatement, cst.KindIfStatement,
		cst.KindEchoStatement, cst.KindAssertStatement,
		cst.KindIncludeStatement, cst.KindUseStatement, cst.KindBlock:
		if s := b.buildStmt(n); s != nil {
			return s
		}
	default:
		if e := b.buildExpr(n); e != nil {
			return e
		}
	}
	return nil
}

// field resolves a role on n, preferring explicit field labels and
// falling back to the positional shim for unlabeled trees.
func (b *Builder) field(n *cst.Node, name string) *cst.Node {
	if c := n.FieldByName(name); c != nil {
		return c
	}
	return positionalChild(n, name)
}

func (b *Builder) text(n *cst.Node) string {
	return n.Text(b.src)
}

// nameText returns the identifier text of a name-bearing leaf, or ""
// when the node cannot serve as a name.
func (b *Builder) nameText(n *cst.Node) string {
	if n == nil || n.IsMissing() {
		return ""
	}
	switch n.Kind() {
	case cst.KindIdentifier, cst.KindSpecialVariable:
		return b.text(n)
	default:
		return ""
	}
}

// pathText returns an include path with the angle brackets stripped.
func (b *Builder) pathText(n *cst.Node) string {
	if n == nil || n.IsMissing() {
		return ""
	}
	t := b.text(n)
	if len(t) >= 2 && t[0] == '<' && t[len(t)-1] == '>' {
		t = t[1 : len(t)-1]
	}
	return strings.TrimSpace(t)
}

// statements visits every named child of n and keeps the ones that
// lower to statements. ERROR runs and MISSING markers lower to nil and
// fall away here.
func (b *Builder) statements(n *cst.Node) []ast.Stmt {
	if n == nil {
		return nil
	}
	var out []ast.Stmt
	for i := 0; i < n.NamedChildCount(); i++ {
		if s, ok := b.Visit(n.NamedChild(i)).(ast.Stmt); ok {
			out = append(out, s)
		}
	}
	return out
}

// body flattens a statement used as a body: a block contributes its
// children, anything else contributes itself.
func (b *Builder) body(n *cst.Node) []ast.Stmt {
	if n == nil {
		return nil
	}
	if n.Kind() == cst.KindBlock {
		return b.statements(n)
	}
	if s, ok := b.Visit(n).(ast.Stmt); ok {
		return []ast.Stmt{s}
	}
	return nil
}
