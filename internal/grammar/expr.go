package grammar

import (
	"fmt"

	"scad/internal/cst"
	"scad/internal/diag"
)

// parseExpr parses a full expression including the conditional suffix.
// It returns nil after reporting when no expression can be formed; the
// callers translate that into statement-level recovery.
func (p *Parser) parseExpr() *cst.Node {
	start := p.peek().Span.Start
	left := p.parseUnary()
	return p.parseExprFrom(left, start)
}

// parseExprFrom continues an expression whose first operand has already
// been parsed. The argument parser uses this after committing to a
// consumed identifier.
func (p *Parser) parseExprFrom(left *cst.Node, start uint32) *cst.Node {
	if left == nil {
		return nil
	}
	e := p.parseBinaryFrom(left, start, precOr)
	if e == nil {
		return nil
	}
	return p.parseConditionalSuffix(e, start)
}

// parseConditionalSuffix wraps cond in a conditional_expression when a
// '?' follows. The branches recurse through parseExpr, so nested
// conditionals associate to the right.
func (p *Parser) parseConditionalSuffix(cond *cst.Node, start uint32) *cst.Node {
	if !p.at(Question) {
		return cond
	}
	p.advance()

	n := cst.NewNode(cst.KindConditionalExpression, cond.Span())
	n.AddField(cst.FieldCondition, cond)

	cons := p.parseExpr()
	if cons == nil {
		return nil
	}
	n.AddField(cst.FieldConsequence, cons)

	if _, ok := p.expect(Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression"); !ok {
		return nil
	}

	alt := p.parseExpr()
	if alt == nil {
		return nil
	}
	n.AddField(cst.FieldAlternative, alt)

	n.SetSpan(p.span(start))
	return n
}

// parseBinaryFrom runs precedence climbing over binary operators at or
// above minPrec, with left as the accumulated left-hand side.
func (p *Parser) parseBinaryFrom(left *cst.Node, start uint32, minPrec int) *cst.Node {
	for {
		prec, rightAssoc := binaryPrec(p.peek().Kind)
		if prec == precNone || prec < minPrec {
			return left
		}
		opTok := p.advance()

		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}

		rStart := p.peek().Span.Start
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		right = p.parseBinaryFrom(right, rStart, nextMin)
		if right == nil {
			return nil
		}

		n := cst.NewNode(cst.KindBinaryExpression, p.span(start))
		n.AddField(cst.FieldLeft, left)
		n.AddField(cst.FieldOperator, cst.NewToken(opTok.Kind.String(), opTok.Span))
		n.AddField(cst.FieldRight, right)
		n.SetSpan(p.span(start))
		left = n
	}
}

func (p *Parser) parseUnary() *cst.Node {
	if !isUnaryOp(p.peek().Kind) {
		return p.parsePostfix()
	}
	op := p.advance()
	n := cst.NewNode(cst.KindUnaryExpression, op.Span)
	n.AddField(cst.FieldOperator, cst.NewToken(op.Kind.String(), op.Span))

	operand := p.parseUnary()
	if operand == nil {
		return nil
	}
	n.AddField(cst.FieldOperand, operand)

	n.SetSpan(p.span(op.Span.Start))
	return n
}

func (p *Parser) parsePostfix() *cst.Node {
	start := p.peek().Span.Start
	prim := p.parsePrimary()
	if prim == nil {
		return nil
	}
	return p.parsePostfixFrom(prim, start)
}

// parsePostfixFrom applies call and index suffixes to an already parsed
// primary expression.
func (p *Parser) parsePostfixFrom(node *cst.Node, start uint32) *cst.Node {
	for {
		switch {
		case p.at(LParen):
			n := cst.NewNode(cst.KindCallExpression, node.Span())
			n.AddField(cst.FieldFunction, node)
			n.AddField(cst.FieldArguments, p.parseArguments())
			n.SetSpan(p.span(start))
			node = n
		case p.at(LBracket):
			p.advance()
			n := cst.NewNode(cst.KindIndexExpression, node.Span())
			n.AddField(cst.FieldObject, node)
			idx := p.parseExpr()
			if idx == nil {
				return nil
			}
			n.AddField(cst.FieldIndex, idx)
			p.expectOrMissing(n, RBracket, diag.SynUnclosedBracket, "missing closing bracket ']'")
			n.SetSpan(p.span(start))
			node = n
		default:
			return node
		}
	}
}

func (p *Parser) parsePrimary() *cst.Node {
	switch tok := p.peek(); tok.Kind {
	case Number:
		p.advance()
		return cst.NewNode(cst.KindNumber, tok.Span)
	case String:
		p.advance()
		return cst.NewNode(cst.KindString, tok.Span)
	case KwTrue, KwFalse:
		p.advance()
		return cst.NewNode(cst.KindBoolean, tok.Span)
	case KwUndef:
		p.advance()
		return cst.NewNode(cst.KindUndef, tok.Span)
	case Ident:
		p.advance()
		return cst.NewNode(cst.KindIdentifier, tok.Span)
	case SpecialIdent:
		p.advance()
		return cst.NewNode(cst.KindSpecialVariable, tok.Span)
	case LParen:
		return p.parseParenExpr()
	case LBracket:
		return p.parseVectorOrRange()
	case EOF:
		p.reportSyntax(diag.SynUnexpectedEOF, p.diagnosticSpan(),
			"unexpected end of file, expected expression")
		return nil
	default:
		p.reportSyntax(diag.SynExpectExpression, p.diagnosticSpan(),
			fmt.Sprintf("expected expression, found %q", tok.Text))
		return nil
	}
}

func (p *Parser) parseParenExpr() *cst.Node {
	lp := p.advance() // '('
	n := cst.NewNode(cst.KindParenthesizedExpression, lp.Span)

	inner := p.parseExpr()
	if inner == nil {
		return nil
	}
	n.AddField(cst.FieldValue, inner)

	p.expectOrMissing(n, RParen, diag.SynUnclosedParen, "missing closing parenthesis ')'")
	n.SetSpan(p.span(lp.Span.Start))
	return n
}

// parseVectorOrRange disambiguates '[' by the token after the first
// element: a ':' makes it a range, anything else a vector.
func (p *Parser) parseVectorOrRange() *cst.Node {
	lb := p.advance() // '['
	start := lb.Span.Start

	if p.at(RBracket) {
		p.advance()
		return cst.NewNode(cst.KindVectorExpression, p.span(start))
	}

	first := p.parseExpr()
	if first == nil {
		return nil
	}

	if p.at(Colon) {
		n := cst.NewNode(cst.KindRangeExpression, lb.Span)
		n.AddChild(first)
		parts := 1
		for p.at(Colon) {
			p.advance()
			e := p.parseExpr()
			if e == nil {
				return nil
			}
			n.AddChild(e)
			parts++
		}
		if parts > 3 {
			p.reportSyntax(diag.SynError, p.span(start),
				"malformed range, expected [start:end] or [start:step:end]")
		}
		p.expectOrMissing(n, RBracket, diag.SynUnclosedBracket, "missing closing bracket ']'")
		n.SetSpan(p.span(start))
		return n
	}

	n := cst.NewNode(cst.KindVectorExpression, lb.Span)
	n.AddChild(first)
	for p.at(Comma) {
		p.advance()
		if p.at(RBracket) {
			break // trailing comma
		}
		e := p.parseExpr()
		if e == nil {
			return nil
		}
		n.AddChild(e)
	}
	p.expectOrMissing(n, RBracket, diag.SynUnclosedBracket, "missing closing bracket ']'")
	n.SetSpan(p.span(start))
	return n
}

// parseArguments parses a parenthesized argument list. The caller must
// have checked that the lookahead is '('. The returned node is never nil.
func (p *Parser) parseArguments() *cst.Node {
	lp := p.advance() // '('
	n := cst.NewNode(cst.KindArguments, lp.Span)

	for !p.at(RParen) && !p.at(EOF) {
		if arg := p.parseArgument(); arg != nil {
			n.AddChild(arg)
		} else {
			p.skipListJunk(n)
		}
		if p.at(Comma) {
			p.advance()
			continue
		}
		break
	}

	p.expectOrMissing(n, RParen, diag.SynUnclosedParen, "missing closing parenthesis ')'")
	n.SetSpan(p.span(lp.Span.Start))
	return n
}

// parseArgument parses one argument, either named (name '=' value) or a
// bare expression.
func (p *Parser) parseArgument() *cst.Node {
	if p.at(Ident) || p.at(SpecialIdent) {
		name := p.advance()
		nameKind := cst.KindIdentifier
		if name.Kind == SpecialIdent {
			nameKind = cst.KindSpecialVariable
		}

		if p.at(Assign) {
			p.advance()
			n := cst.NewNode(cst.KindArgument, name.Span)
			n.AddField(cst.FieldName, cst.NewNode(nameKind, name.Span))
			v := p.parseExpr()
			if v == nil {
				return nil
			}
			n.AddField(cst.FieldValue, v)
			n.SetSpan(p.span(name.Span.Start))
			return n
		}

		// The identifier begins a plain expression argument.
		left := p.parsePostfixFrom(cst.NewNode(nameKind, name.Span), name.Span.Start)
		expr := p.parseExprFrom(left, name.Span.Start)
		if expr == nil {
			return nil
		}
		n := cst.NewNode(cst.KindArgument, expr.Span())
		n.AddField(cst.FieldValue, expr)
		return n
	}

	v := p.parseExpr()
	if v == nil {
		return nil
	}
	n := cst.NewNode(cst.KindArgument, v.Span())
	n.AddField(cst.FieldValue, v)
	return n
}

// parseParameters parses a parenthesized parameter list of a module or
// function definition. The caller must have checked that the lookahead
// is '('. The returned node is never nil.
func (p *Parser) parseParameters() *cst.Node {
	lp := p.advance() // '('
	n := cst.NewNode(cst.KindParameters, lp.Span)

	for !p.at(RParen) && !p.at(EOF) {
		if param := p.parseParameter(); param != nil {
			n.AddChild(param)
		} else {
			p.skipListJunk(n)
		}
		if p.at(Comma) {
			p.advance()
			continue
		}
		break
	}

	p.expectOrMissing(n, RParen, diag.SynUnclosedParen, "missing closing parenthesis ')'")
	n.SetSpan(p.span(lp.Span.Start))
	return n
}

// parseParameter parses one formal parameter with an optional default.
func (p *Parser) parseParameter() *cst.Node {
	if !p.at(Ident) && !p.at(SpecialIdent) {
		p.reportSyntax(diag.SynExpectIdentifier, p.diagnosticSpan(), "expected parameter name")
		return nil
	}
	name := p.advance()
	nameKind := cst.KindIdentifier
	if name.Kind == SpecialIdent {
		nameKind = cst.KindSpecialVariable
	}

	n := cst.NewNode(cst.KindParameter, name.Span)
	n.AddField(cst.FieldName, cst.NewNode(nameKind, name.Span))

	if p.at(Assign) {
		p.advance()
		v := p.parseExpr()
		if v == nil {
			return nil
		}
		n.AddField(cst.FieldValue, v)
	}

	n.SetSpan(p.span(name.Span.Start))
	return n
}
