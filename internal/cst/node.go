package cst

import (
	"strings"

	"scad/internal/source"
)

// Tree is one parse result: a root node over one file's content.
type Tree struct {
	file source.FileID
	src  []byte
	root *Node
}

// NewTree creates an empty tree for the given file content.
func NewTree(file source.FileID, src []byte) *Tree {
	return &Tree{file: file, src: src}
}

// SetRoot installs the root node. The grammar calls this once.
func (t *Tree) SetRoot(root *Node) {
	t.root = root
}

// Root returns the root node, nil before SetRoot.
func (t *Tree) Root() *Node {
	return t.root
}

// Source returns the file content the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.src
}

// File returns the FileID the tree belongs to.
func (t *Tree) File() source.FileID {
	return t.file
}

// HasError reports whether any node in the tree is an ERROR or MISSING.
func (t *Tree) HasError() bool {
	return t.root != nil && t.root.HasError()
}

// Node is one CST node. Rule nodes (statements, expressions, support
// nodes) are named; token nodes (operators, punctuation, keywords) are
// anonymous. Either may carry a field role on its parent.
type Node struct {
	kind     string
	span     source.Span
	field    string
	named    bool
	missing  bool
	hasErr   bool
	parent   *Node
	children []*Node
}

// NewNode creates a named rule node.
func NewNode(kind string, span source.Span) *Node {
	return &Node{kind: kind, span: span, named: true}
}

// NewToken creates an anonymous token node (punctuation, operator,
// keyword).
func NewToken(kind string, span source.Span) *Node {
	return &Node{kind: kind, span: span, named: false}
}

// NewError creates an ERROR node covering span.
func NewError(span source.Span) *Node {
	return &Node{kind: KindError, span: span, named: true, hasErr: true}
}

// NewMissing creates a zero-width MISSING node standing in for a
// required token of the given kind at offset.
func NewMissing(kind string, file source.FileID, offset uint32) *Node {
	return &Node{
		kind:    kind,
		span:    source.Span{File: file, Start: offset, End: offset},
		named:   true,
		missing: true,
		hasErr:  true,
	}
}

// AddChild appends c as the next child.
func (n *Node) AddChild(c *Node) {
	n.attach(c)
}

// AddField appends c as the next child under the given field name.
func (n *Node) AddField(field string, c *Node) {
	c.field = field
	n.attach(c)
}

func (n *Node) attach(c *Node) {
	c.parent = n
	n.children = append(n.children, c)
	if c.hasErr {
		for p := n; p != nil && !p.hasErr; p = p.parent {
			p.hasErr = true
		}
	}
}

// SetSpan replaces the node's span. The grammar widens spans as children
// arrive; a node's final span always covers all of its children.
func (n *Node) SetSpan(span source.Span) {
	n.span = span
}

// Kind returns the node's kind string.
func (n *Node) Kind() string {
	return n.kind
}

// Span returns the byte span the node covers.
func (n *Node) Span() source.Span {
	return n.span
}

// StartByte returns the span's inclusive start offset.
func (n *Node) StartByte() uint32 {
	return n.span.Start
}

// EndByte returns the span's exclusive end offset.
func (n *Node) EndByte() uint32 {
	return n.span.End
}

// Text slices the node's covered text out of src. src must be the same
// content the tree was parsed from.
func (n *Node) Text(src []byte) string {
	if n.missing || n.span.Start >= n.span.End || int(n.span.End) > len(src) {
		return ""
	}
	return string(src[n.span.Start:n.span.End])
}

// Parent returns the node's parent, nil at the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// ChildCount returns the number of children, anonymous tokens included.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the i-th child, nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// NamedChildCount returns the number of named (rule) children.
func (n *Node) NamedChildCount() int {
	count := 0
	for _, c := range n.children {
		if c.named {
			count++
		}
	}
	return count
}

// NamedChild returns the i-th named child, nil when out of range.
func (n *Node) NamedChild(i int) *Node {
	if i < 0 {
		return nil
	}
	for _, c := range n.children {
		if !c.named {
			continue
		}
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

// FieldByName returns the first child attached under the field name,
// nil when the node has no such field.
func (n *Node) FieldByName(field string) *Node {
	for _, c := range n.children {
		if c.field == field {
			return c
		}
	}
	return nil
}

// FieldsByName returns every child attached under the field name, in
// order.
func (n *Node) FieldsByName(field string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.field == field {
			out = append(out, c)
		}
	}
	return out
}

// FieldNameOf returns the field name n occupies on its parent, "" when
// unfielded.
func (n *Node) FieldNameOf() string {
	return n.field
}

// IsNamed reports whether the node is a rule node rather than an
// anonymous token.
func (n *Node) IsNamed() bool {
	return n.named
}

// IsError reports whether the node is an ERROR node.
func (n *Node) IsError() bool {
	return n.kind == KindError
}

// IsMissing reports whether the node is a zero-width MISSING stand-in.
func (n *Node) IsMissing() bool {
	return n.missing
}

// HasError reports whether the node or any descendant is an ERROR or
// MISSING node.
func (n *Node) HasError() bool {
	return n.hasErr
}

// String renders the named subtree as an s-expression, fields prefixed
// with their names:
//
//	(binary_expression left: (identifier) operator: "+" right: (number))
func (n *Node) String() string {
	var b strings.Builder
	n.sexp(&b, false)
	return b.String()
}

func (n *Node) sexp(b *strings.Builder, withField bool) {
	if withField && n.field != "" {
		b.WriteString(n.field)
		b.WriteString(": ")
	}
	if !n.named {
		b.WriteByte('"')
		b.WriteString(n.kind)
		b.WriteByte('"')
		return
	}
	b.WriteByte('(')
	if n.missing {
		b.WriteString("MISSING ")
	}
	b.WriteString(n.kind)
	for _, c := range n.children {
		if !c.named && c.field == "" {
			continue
		}
		b.WriteByte(' ')
		c.sexp(b, true)
	}
	b.WriteByte(')')
}
