package astbuild

import (
	"strconv"

	"scad/internal/ast"
	"scad/internal/cst"
)

// expr is buildExpr with a nil guard, for fields that may be absent.
func (b *Builder) expr(n *cst.Node) ast.Expr {
	if n == nil {
		return nil
	}
	return b.buildExpr(n)
}

func (b *Builder) buildExpr(n *cst.Node) ast.Expr {
	switch n.Kind() {
	case cst.KindNumber:
		return b.numberLiteral(n)
	case cst.KindString:
		return b.stringLiteral(n)
	case cst.KindBoolean:
		t := b.text(n)
		return &ast.Literal{LitKind: ast.LitBool, Bool: t == "true", Raw: t, Loc: n.Span()}
	case cst.KindUndef:
		return &ast.Literal{LitKind: ast.LitUndef, Raw: b.text(n), Loc: n.Span()}
	case cst.KindIdentifier, cst.KindSpecialVariable:
		name := b.text(n)
		if name == "" {
			return nil
		}
		return &ast.Variable{Name: name, Loc: n.Span()}
	case cst.KindParenthesizedExpression:
		// Parentheses are transparent: the inner expression is the node.
		return b.expr(b.field(n, cst.FieldValue))
	case cst.KindBinaryExpression:
		return b.binary(n)
	case cst.KindUnaryExpression:
		return b.unary(n)
	case cst.KindConditionalExpression:
		return b.conditional(n)
	case cst.KindVectorExpression:
		return b.vector(n)
	case cst.KindRangeExpression:
		return b.rangeExpr(n)
	case cst.KindIndexExpression:
		return b.index(n)
	case cst.KindCallExpression:
		return b.call(n)
	default:
		return nil
	}
}

func (b *Builder) numberLiteral(n *cst.Node) ast.Expr {
	t := b.text(n)
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return nil
	}
	return &ast.Literal{LitKind: ast.LitNumber, Number: f, Raw: t, Loc: n.Span()}
}

func (b *Builder) stringLiteral(n *cst.Node) ast.Expr {
	t := b.text(n)
	return &ast.Literal{LitKind: ast.LitString, Str: unquoteString(t), Raw: t, Loc: n.Span()}
}

func (b *Builder) binary(n *cst.Node) ast.Expr {
	opNode := b.field(n, cst.FieldOperator)
	if opNode == nil {
		return nil
	}
	op, ok := ast.ParseBinaryOp(b.text(opNode))
	if !ok {
		return nil
	}
	left := b.expr(b.field(n, cst.FieldLeft))
	right := b.expr(b.field(n, cst.FieldRight))
	if left == nil || right == nil {
		return nil
	}
	return &ast.Binary{Op: op, Left: left, Right: right, Loc: n.Span()}
}

func (b *Builder) unary(n *cst.Node) ast.Expr {
	opNode := b.field(n, cst.FieldOperator)
	if opNode == nil {
		return nil
	}
	op, ok := ast.ParseUnaryOp(b.text(opNode))
	if !ok {
		return nil
	}
	operand := b.expr(b.field(n, cst.FieldOperand))
	if operand == nil {
		return nil
	}
	return &ast.Unary{Op: op, Operand: operand, Loc: n.Span()}
}

func (b *Builder) conditional(n *cst.Node) ast.Expr {
	cond := b.expr(b.field(n, cst.FieldCondition))
	then := b.expr(b.field(n, cst.FieldConsequence))
	els := b.expr(b.field(n, cst.FieldAlternative))
	if cond == nil || then == nil || els == nil {
		return nil
	}
	return &ast.Conditional{Cond: cond, Then: then, Else: els, Loc: n.Span()}
}

func (b *Builder) vector(n *cst.Node) ast.Expr {
	arr := &ast.Array{Loc: n.Span()}
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.IsMissing() || c.IsError() {
			continue
		}
		if e := b.expr(c); e != nil {
			arr.Elements = append(arr.Elements, e)
		}
	}
	return arr
}

func (b *Builder) rangeExpr(n *cst.Node) ast.Expr {
	var parts []*cst.Node
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.IsMissing() || c.IsError() {
			continue
		}
		parts = append(parts, c)
	}

	rng := &ast.Range{Loc: n.Span()}
	switch len(parts) {
	case 2:
		rng.Start = b.expr(parts[0])
		rng.End = b.expr(parts[1])
	case 3:
		rng.Start = b.expr(parts[0])
		rng.Step = b.expr(parts[1])
		rng.End = b.expr(parts[2])
		if rng.Step == nil {
			return nil
		}
	default:
		return nil
	}
	if rng.Start == nil || rng.End == nil {
		return nil
	}
	return rng
}

func (b *Builder) index(n *cst.Node) ast.Expr {
	object := b.expr(b.field(n, cst.FieldObject))
	idx := b.expr(b.field(n, cst.FieldIndex))
	if object == nil || idx == nil {
		return nil
	}
	return &ast.Index{Object: object, IndexExpr: idx, Loc: n.Span()}
}

// call lowers a call expression. Only plain named calls exist in the
// language, so the callee must be an identifier.
func (b *Builder) call(n *cst.Node) ast.Expr {
	name := b.nameText(b.field(n, cst.FieldFunction))
	if name == "" {
		return nil
	}
	return &ast.FunctionCall{
		Name: name,
		Args: b.arguments(b.field(n, cst.FieldArguments)),
		Loc:  n.Span(),
	}
}

// arguments lowers an argument list. Junk runs that recovery isolated
// inside the list, and arguments without a usable value, are skipped.
func (b *Builder) arguments(n *cst.Node) []ast.Argument {
	if n == nil {
		return nil
	}
	var out []ast.Argument
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() != cst.KindArgument {
			continue
		}
		value := b.expr(b.field(c, cst.FieldValue))
		if value == nil {
			continue
		}
		arg := ast.Argument{Value: value, Loc: c.Span()}
		if nm := b.field(c, cst.FieldName); nm != nil {
			arg.Name = b.nameText(nm)
		}
		out = append(out, arg)
	}
	return out
}
