package astbuild

import (
	"strconv"
	"strings"

	"scad/internal/ast"
	"scad/internal/cst"
	"scad/internal/source"
)

func (b *Builder) buildStmt(n *cst.Node) ast.Stmt {
	switch n.Kind() {
	case cst.KindAssignment:
		return b.assignment(n)
	case cst.KindModuleInstantiation:
		return b.instantiation(n)
	case cst.KindModuleDefinition:
		return b.moduleDefinition(n)
	case cst.KindFunctionDefinition:
		return b.functionDefinition(n)
	case cst.KindForStatement:
		return b.forLoop(n)
	case cst.KindIfStatement:
		return b.ifStatement(n)
	case cst.KindEchoStatement:
		return &ast.Echo{Args: b.arguments(b.field(n, cst.FieldArguments)), Loc: n.Span()}
	case cst.KindAssertStatement:
		return &ast.Assert{Args: b.arguments(b.field(n, cst.FieldArguments)), Loc: n.Span()}
	case cst.KindIncludeStatement:
		path := b.pathText(b.field(n, cst.FieldPath))
		if path == "" {
			return nil
		}
		return &ast.Include{Path: path, Loc: n.Span()}
	case cst.KindUseStatement:
		path := b.pathText(b.field(n, cst.FieldPath))
		if path == "" {
			return nil
		}
		return &ast.Use{Path: path, Loc: n.Span()}
	case cst.KindBlock:
		return &ast.Block{Stmts: b.statements(n), Loc: n.Span()}
	default:
		return nil
	}
}

func (b *Builder) assignment(n *cst.Node) ast.Stmt {
	name := b.nameText(b.field(n, cst.FieldName))
	if name == "" {
		return nil
	}
	value := b.expr(b.field(n, cst.FieldValue))
	if value == nil {
		return nil
	}
	return &ast.Assignment{Name: name, Value: value, Loc: n.Span()}
}

func (b *Builder) instantiation(n *cst.Node) ast.Stmt {
	name := b.nameText(b.field(n, cst.FieldName))
	if name == "" {
		return nil
	}
	inst := &ast.ModuleInstantiation{Name: name, Loc: n.Span()}
	if mod := b.field(n, cst.FieldModifier); mod != nil {
		inst.Modifier = b.text(mod)
	}
	inst.Args = b.arguments(b.field(n, cst.FieldArguments))
	if body := b.field(n, cst.FieldBody); body != nil {
		inst.Children = b.body(body)
	}
	return inst
}

func (b *Builder) moduleDefinition(n *cst.Node) ast.Stmt {
	name := b.nameText(b.field(n, cst.FieldName))
	if name == "" {
		return nil
	}
	body := b.field(n, cst.FieldBody)
	if body == nil {
		return nil
	}
	return &ast.ModuleDefinition{
		Name:   name,
		Params: b.parameters(b.field(n, cst.FieldParameters)),
		Body:   b.body(body),
		Loc:    n.Span(),
	}
}

func (b *Builder) functionDefinition(n *cst.Node) ast.Stmt {
	name := b.nameText(b.field(n, cst.FieldName))
	if name == "" {
		return nil
	}
	value := b.expr(b.field(n, cst.FieldValue))
	if value == nil {
		return nil
	}
	return &ast.FunctionDefinition{
		Name:   name,
		Params: b.parameters(b.field(n, cst.FieldParameters)),
		Body:   value,
		Loc:    n.Span(),
	}
}

// parameters lowers a formal parameter list. Defaults are coerced by
// the lexical shape of their source text, not evaluated: number first,
// then boolean, else string, so a default like `r*2` stays the string
// "r*2".
func (b *Builder) parameters(n *cst.Node) []ast.Parameter {
	if n == nil {
		return nil
	}
	var out []ast.Parameter
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() != cst.KindParameter {
			continue
		}
		name := b.nameText(b.field(c, cst.FieldName))
		if name == "" {
			continue
		}
		p := ast.Parameter{Name: name, Loc: c.Span()}
		if def := b.field(c, cst.FieldValue); def != nil {
			p.Default = literalFromRaw(b.text(def), def.Span())
		}
		out = append(out, p)
	}
	return out
}

func (b *Builder) ifStatement(n *cst.Node) ast.Stmt {
	cond := b.expr(b.field(n, cst.FieldCondition))
	if cond == nil {
		return nil
	}
	cons := b.field(n, cst.FieldConsequence)
	if cons == nil {
		return nil
	}
	stmt := &ast.If{Cond: cond, Then: b.body(cons), Loc: n.Span()}
	if alt := b.field(n, cst.FieldAlternative); alt != nil {
		stmt.Else = b.body(alt)
	}
	return stmt
}

func (b *Builder) forLoop(n *cst.Node) ast.Stmt {
	iters := b.field(n, cst.FieldIterators)
	if iters == nil {
		return nil
	}
	body := b.field(n, cst.FieldBody)
	if body == nil {
		return nil
	}
	loop := &ast.ForLoop{Body: b.body(body), Loc: n.Span()}
	for i := 0; i < iters.NamedChildCount(); i++ {
		c := iters.NamedChild(i)
		if c.Kind() != cst.KindForBinding {
			continue
		}
		if v, ok := b.forVariable(c); ok {
			loop.Variables = append(loop.Variables, v)
		}
	}
	return loop
}

// forVariable extracts one loop iterator. Numeric [start:end] and
// [start:step:end] ranges are pulled into bounds with the step set
// aside; anything else keeps the lowered expression. When the
// structured shape cannot be understood, the binding's raw text is
// split on '=' and ':' as a last resort.
func (b *Builder) forVariable(n *cst.Node) (ast.ForLoopVariable, bool) {
	name := b.nameText(b.field(n, cst.FieldVariable))
	rangeNode := b.field(n, cst.FieldRange)
	if name != "" && rangeNode != nil {
		if value := b.expr(rangeNode); value != nil {
			v := ast.ForLoopVariable{Variable: name, Loc: n.Span()}
			if rng, ok := value.(*ast.Range); ok {
				if bounds, step, ok := numericRange(rng); ok {
					v.Range = bounds
					v.Step = step
					return v, true
				}
			}
			v.RangeExpr = value
			return v, true
		}
	}
	return forVariableFromText(b.text(n), n.Span())
}

// forVariableFromText salvages an iterator from raw source text of the
// shape "name = [start:step:end]", step optional, or "name = ident".
func forVariableFromText(text string, sp source.Span) (ast.ForLoopVariable, bool) {
	eq := strings.IndexByte(text, '=')
	if eq < 0 {
		return ast.ForLoopVariable{}, false
	}
	name := strings.TrimSpace(text[:eq])
	rest := strings.TrimSpace(text[eq+1:])
	if !isIdentText(name) || rest == "" {
		return ast.ForLoopVariable{}, false
	}

	v := ast.ForLoopVariable{Variable: name, Loc: sp}
	if strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]") && strings.Contains(rest, ":") {
		parts := strings.Split(rest[1:len(rest)-1], ":")
		nums := make([]float64, 0, len(parts))
		for _, part := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return ast.ForLoopVariable{}, false
			}
			nums = append(nums, f)
		}
		switch len(nums) {
		case 2:
			v.Range = [2]float64{nums[0], nums[1]}
			return v, true
		case 3:
			step := nums[1]
			v.Range = [2]float64{nums[0], nums[2]}
			v.Step = &step
			return v, true
		default:
			return ast.ForLoopVariable{}, false
		}
	}

	expr := exprFromText(rest, sp)
	if expr == nil {
		return ast.ForLoopVariable{}, false
	}
	v.RangeExpr = expr
	return v, true
}
