package grammar

import (
	"fmt"

	"scad/internal/cst"
	"scad/internal/diag"
	"scad/internal/source"
)

// Options configures a parse.
type Options struct {
	// MaxErrors caps the reported diagnostics; 0 means unlimited. Parsing
	// continues past the cap, reports are just dropped.
	MaxErrors uint
}

// Parser holds the state for parsing one file into a CST.
type Parser struct {
	lx       *Lexer
	file     *source.File
	opts     Options
	errs     []*diag.Error
	nerr     uint
	lastSpan source.Span
}

// Parse turns one file into a CST plus the syntax diagnostics found along
// the way. The tree is always complete: unparseable runs become ERROR
// nodes and absent required tokens become zero-width MISSING nodes, so a
// malformed file still produces a usable tree.
func Parse(file *source.File, opts Options) (*cst.Tree, []*diag.Error) {
	p := &Parser{
		file:     file,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	p.lx = NewLexer(file, LexOptions{Report: p.record})

	tree := cst.NewTree(file.ID, file.Content)
	tree.SetRoot(p.parseSourceFile())
	return tree, p.errs
}

func (p *Parser) record(e *diag.Error) {
	if e == nil {
		return
	}
	if e.Severity >= diag.SevError {
		p.nerr++
	}
	if p.opts.MaxErrors > 0 && p.nerr > p.opts.MaxErrors {
		return
	}
	p.errs = append(p.errs, e)
}

func (p *Parser) peek() Token {
	return p.lx.Peek()
}

func (p *Parser) at(k TokenKind) bool {
	return p.lx.Peek().Kind == k
}

// advance consumes the next token and remembers its span for diagnostics
// and node extents.
func (p *Parser) advance() Token {
	tok := p.lx.Next()
	if tok.Kind != EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan picks the best span to report at: the lookahead token,
// or the position right after the last consumed token at EOF.
func (p *Parser) diagnosticSpan() source.Span {
	t := p.peek()
	if t.Kind == EOF {
		return source.Span{File: p.file.ID, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return t.Span
}

// reportSyntax records a syntax diagnostic positioned at sp.
func (p *Parser) reportSyntax(code diag.Code, sp source.Span, msg string) {
	lc := p.file.Position(sp.Start)
	b := diag.BuildSyntax(code, msg).
		AtPos(lc).
		WithLength(sp.Len()).
		WithSource(p.file.GetLine(lc.Line))
	if t := p.peek(); t.Kind != EOF && t.Text != "" {
		b.WithFound(t.Text)
	}
	p.record(b.Err())
}

// expect consumes the next token iff it has the wanted kind; otherwise it
// reports and leaves the stream untouched.
func (p *Parser) expect(k TokenKind, code diag.Code, msg string) (Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.reportSyntax(code, sp, msg)
	return Token{Kind: Invalid, Span: sp}, false
}

// expectOrMissing is expect for closing tokens: on failure it attaches a
// zero-width MISSING stand-in to parent so the tree stays complete.
func (p *Parser) expectOrMissing(parent *cst.Node, k TokenKind, code diag.Code, msg string) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	sp := p.diagnosticSpan()
	p.reportSyntax(code, sp, msg)
	parent.AddChild(cst.NewMissing(k.String(), p.file.ID, sp.Start))
	return false
}

// span builds a node span from a start offset to the end of the last
// consumed token.
func (p *Parser) span(start uint32) source.Span {
	end := p.lastSpan.End
	if end < start {
		end = start
	}
	return source.Span{File: p.file.ID, Start: start, End: end}
}

func (p *Parser) parseSourceFile() *cst.Node {
	root := cst.NewNode(cst.KindSourceFile, source.Span{
		File: p.file.ID,
		End:  p.lx.cursor.limit,
	})
	for !p.at(EOF) {
		start := p.peek().Span.Start
		if stmt := p.parseStatement(); stmt != nil {
			root.AddChild(stmt)
			continue
		}
		p.recoverInto(root, start)
	}
	return root
}

func isSyncPoint(k TokenKind) bool {
	switch k {
	case Semicolon, RBrace, LBrace, Ident, SpecialIdent,
		KwModule, KwFunction, KwFor, KwIf, KwEcho, KwAssert, KwInclude, KwUse:
		return true
	default:
		return false
	}
}

// recoverInto skips tokens after a failed statement until a
// synchronization point and wraps the skipped run (plus whatever the
// failed parse already consumed since start) in an ERROR node.
func (p *Parser) recoverInto(parent *cst.Node, start uint32) {
	for !p.at(EOF) {
		k := p.peek().Kind
		if p.lastSpan.End > start && isSyncPoint(k) {
			if k == Semicolon {
				p.advance()
			}
			break
		}
		p.advance()
	}
	end := p.lastSpan.End
	if end > start {
		parent.AddChild(cst.NewError(source.Span{File: p.file.ID, Start: start, End: end}))
	}
}

func (p *Parser) parseStatement() *cst.Node {
	switch p.peek().Kind {
	case KwModule:
		return p.parseModuleDefinition()
	case KwFunction:
		return p.parseFunctionDefinition()
	case KwFor:
		return p.parseForStatement()
	case KwIf:
		return p.parseIfStatement()
	case KwEcho:
		return p.parseEchoStatement()
	case KwAssert:
		return p.parseAssertStatement()
	case KwInclude, KwUse:
		return p.parseIncludeUse()
	case LBrace:
		return p.parseBlock()
	case Semicolon:
		tok := p.advance()
		return cst.NewNode(cst.KindEmptyStatement, tok.Span)
	case Hash, Bang, Percent, Star:
		return p.parseModifiedInstantiation()
	case Ident, SpecialIdent:
		name := p.advance()
		if p.at(Assign) {
			return p.parseAssignment(name)
		}
		if name.Kind == Ident && p.at(LParen) {
			return p.parseInstantiation(nil, name)
		}
		p.reportSyntax(diag.SynUnexpectedToken, p.diagnosticSpan(),
			fmt.Sprintf("expected '=' or '(' after %q", name.Text))
		return nil
	default:
		p.reportSyntax(diag.SynUnexpectedToken, p.diagnosticSpan(),
			fmt.Sprintf("unexpected token %q", p.peek().Text))
		return nil
	}
}

// terminateStatement consumes the trailing semicolon or, when it is
// absent, reports right after the last token and attaches a MISSING ';'.
func (p *Parser) terminateStatement(n *cst.Node, what string) {
	if p.at(Semicolon) {
		p.advance()
		return
	}
	off := p.lastSpan.End
	sp := source.Span{File: p.file.ID, Start: off, End: off}
	p.reportSyntax(diag.SynMissingSemicolon, sp, "missing semicolon after "+what)
	n.AddChild(cst.NewMissing(";", p.file.ID, off))
}

func (p *Parser) parseAssignment(name Token) *cst.Node {
	start := name.Span.Start
	n := cst.NewNode(cst.KindAssignment, name.Span)

	nameKind := cst.KindIdentifier
	if name.Kind == SpecialIdent {
		nameKind = cst.KindSpecialVariable
	}
	n.AddField(cst.FieldName, cst.NewNode(nameKind, name.Span))

	p.advance() // '='

	value := p.parseExpr()
	if value == nil {
		return nil
	}
	n.AddField(cst.FieldValue, value)

	p.terminateStatement(n, "assignment")
	n.SetSpan(p.span(start))
	return n
}

// canStartChild reports whether the token can begin the child statement
// of a module instantiation.
func canStartChild(t Token) bool {
	switch t.Kind {
	case Ident, LBrace, KwFor, KwIf, KwEcho, KwAssert, Hash, Bang, Percent, Star:
		return true
	default:
		return false
	}
}

func (p *Parser) parseModifiedInstantiation() *cst.Node {
	modTok := p.advance()
	mod := cst.NewNode(cst.KindModifier, modTok.Span)
	if !p.at(Ident) {
		p.reportSyntax(diag.SynExpectIdentifier, p.diagnosticSpan(),
			fmt.Sprintf("expected module name after %q", modTok.Text))
		return nil
	}
	name := p.advance()
	return p.parseInstantiation(mod, name)
}

func (p *Parser) parseInstantiation(mod *cst.Node, name Token) *cst.Node {
	start := name.Span.Start
	if mod != nil {
		start = mod.Span().Start
	}

	n := cst.NewNode(cst.KindModuleInstantiation, name.Span)
	if mod != nil {
		n.AddField(cst.FieldModifier, mod)
	}
	n.AddField(cst.FieldName, cst.NewNode(cst.KindIdentifier, name.Span))

	if !p.at(LParen) {
		p.reportSyntax(diag.SynUnexpectedToken, p.diagnosticSpan(),
			fmt.Sprintf("expected '(' after module name %q", name.Text))
		return nil
	}
	n.AddField(cst.FieldArguments, p.parseArguments())

	switch {
	case p.at(Semicolon):
		p.advance()
	case canStartChild(p.peek()):
		child := p.parseStatement()
		if child == nil {
			return nil
		}
		n.AddField(cst.FieldBody, child)
	default:
		p.terminateStatement(n, "module instantiation")
	}

	n.SetSpan(p.span(start))
	return n
}

func (p *Parser) parseBlock() *cst.Node {
	lb := p.advance() // '{'
	n := cst.NewNode(cst.KindBlock, lb.Span)

	for !p.at(RBrace) && !p.at(EOF) {
		start := p.peek().Span.Start
		if stmt := p.parseStatement(); stmt != nil {
			n.AddChild(stmt)
			continue
		}
		p.recoverInto(n, start)
	}

	p.expectOrMissing(n, RBrace, diag.SynUnclosedBrace, "missing closing brace '}'")
	n.SetSpan(p.span(lb.Span.Start))
	return n
}

func (p *Parser) parseIfStatement() *cst.Node {
	kw := p.advance()
	n := cst.NewNode(cst.KindIfStatement, kw.Span)

	if _, ok := p.expect(LParen, diag.SynUnexpectedToken, "expected '(' after 'if'"); !ok {
		return nil
	}
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	n.AddField(cst.FieldCondition, cond)
	p.expectOrMissing(n, RParen, diag.SynUnclosedParen, "missing closing parenthesis ')'")

	cons := p.parseStatement()
	if cons == nil {
		return nil
	}
	n.AddField(cst.FieldConsequence, cons)

	if p.at(KwElse) {
		p.advance()
		alt := p.parseStatement()
		if alt == nil {
			return nil
		}
		n.AddField(cst.FieldAlternative, alt)
	}

	n.SetSpan(p.span(kw.Span.Start))
	return n
}

func (p *Parser) parseForStatement() *cst.Node {
	kw := p.advance()
	n := cst.NewNode(cst.KindForStatement, kw.Span)

	if _, ok := p.expect(LParen, diag.SynUnexpectedToken, "expected '(' after 'for'"); !ok {
		return nil
	}
	n.AddField(cst.FieldIterators, p.parseForBindings())
	p.expectOrMissing(n, RParen, diag.SynUnclosedParen, "missing closing parenthesis ')'")

	body := p.parseStatement()
	if body == nil {
		return nil
	}
	n.AddField(cst.FieldBody, body)

	n.SetSpan(p.span(kw.Span.Start))
	return n
}

func (p *Parser) parseForBindings() *cst.Node {
	start := p.peek().Span.Start
	n := cst.NewNode(cst.KindForBindings, p.diagnosticSpan())

	for !p.at(RParen) && !p.at(Semicolon) && !p.at(EOF) {
		if b := p.parseForBinding(); b != nil {
			n.AddChild(b)
		} else {
			p.skipListJunk(n)
		}
		if p.at(Comma) {
			p.advance()
			continue
		}
		break
	}

	n.SetSpan(p.span(start))
	return n
}

func (p *Parser) parseForBinding() *cst.Node {
	if !p.at(Ident) {
		p.reportSyntax(diag.SynBadForHeader, p.diagnosticSpan(),
			"expected iterator variable in for-loop header")
		return nil
	}
	name := p.advance()
	n := cst.NewNode(cst.KindForBinding, name.Span)
	n.AddField(cst.FieldVariable, cst.NewNode(cst.KindIdentifier, name.Span))

	if _, ok := p.expect(Assign, diag.SynBadForHeader, "expected '=' in for-loop header"); !ok {
		return nil
	}
	val := p.parseExpr()
	if val == nil {
		return nil
	}
	n.AddField(cst.FieldRange, val)

	n.SetSpan(p.span(name.Span.Start))
	return n
}

func (p *Parser) parseEchoStatement() *cst.Node {
	kw := p.advance()
	n := cst.NewNode(cst.KindEchoStatement, kw.Span)
	if !p.at(LParen) {
		p.reportSyntax(diag.SynUnexpectedToken, p.diagnosticSpan(), "expected '(' after 'echo'")
		return nil
	}
	n.AddField(cst.FieldArguments, p.parseArguments())
	p.terminateStatement(n, "echo statement")
	n.SetSpan(p.span(kw.Span.Start))
	return n
}

func (p *Parser) parseAssertStatement() *cst.Node {
	kw := p.advance()
	n := cst.NewNode(cst.KindAssertStatement, kw.Span)
	if !p.at(LParen) {
		p.reportSyntax(diag.SynUnexpectedToken, p.diagnosticSpan(), "expected '(' after 'assert'")
		return nil
	}
	n.AddField(cst.FieldArguments, p.parseArguments())
	p.terminateStatement(n, "assert statement")
	n.SetSpan(p.span(kw.Span.Start))
	return n
}

func (p *Parser) parseIncludeUse() *cst.Node {
	kw := p.advance()
	kind := cst.KindIncludeStatement
	if kw.Kind == KwUse {
		kind = cst.KindUseStatement
	}
	n := cst.NewNode(kind, kw.Span)

	switch {
	case p.at(PathLit):
		tok := p.advance()
		n.AddField(cst.FieldPath, cst.NewNode(cst.KindPathLiteral, tok.Span))
	case p.at(Invalid):
		// The lexer already reported the unterminated path.
		tok := p.advance()
		n.AddChild(cst.NewError(tok.Span))
	default:
		p.reportSyntax(diag.SynExpectPath, p.diagnosticSpan(),
			fmt.Sprintf("expected '<path>' after %q", kw.Text))
		n.AddChild(cst.NewMissing("path", p.file.ID, p.diagnosticSpan().Start))
	}

	n.SetSpan(p.span(kw.Span.Start))
	return n
}

func (p *Parser) parseModuleDefinition() *cst.Node {
	kw := p.advance()
	n := cst.NewNode(cst.KindModuleDefinition, kw.Span)

	if p.at(Ident) {
		name := p.advance()
		n.AddField(cst.FieldName, cst.NewNode(cst.KindIdentifier, name.Span))
	} else {
		p.reportSyntax(diag.SynExpectIdentifier, p.diagnosticSpan(), "expected module name after 'module'")
		n.AddChild(cst.NewMissing("identifier", p.file.ID, p.diagnosticSpan().Start))
	}

	if !p.at(LParen) {
		p.reportSyntax(diag.SynUnexpectedToken, p.diagnosticSpan(), "expected '(' after module name")
		return nil
	}
	n.AddField(cst.FieldParameters, p.parseParameters())

	body := p.parseStatement()
	if body == nil {
		return nil
	}
	n.AddField(cst.FieldBody, body)

	n.SetSpan(p.span(kw.Span.Start))
	return n
}

func (p *Parser) parseFunctionDefinition() *cst.Node {
	kw := p.advance()
	n := cst.NewNode(cst.KindFunctionDefinition, kw.Span)

	if p.at(Ident) {
		name := p.advance()
		n.AddField(cst.FieldName, cst.NewNode(cst.KindIdentifier, name.Span))
	} else {
		p.reportSyntax(diag.SynExpectIdentifier, p.diagnosticSpan(), "expected function name after 'function'")
		n.AddChild(cst.NewMissing("identifier", p.file.ID, p.diagnosticSpan().Start))
	}

	if !p.at(LParen) {
		p.reportSyntax(diag.SynUnexpectedToken, p.diagnosticSpan(), "expected '(' after function name")
		return nil
	}
	n.AddField(cst.FieldParameters, p.parseParameters())

	p.expectOrMissing(n, Assign, diag.SynUnexpectedToken, "expected '=' in function definition")

	value := p.parseExpr()
	if value == nil {
		return nil
	}
	n.AddField(cst.FieldValue, value)

	p.terminateStatement(n, "function definition")
	n.SetSpan(p.span(kw.Span.Start))
	return n
}

// skipListJunk consumes tokens inside an argument or parameter list
// until the next separator and wraps them in an ERROR node.
func (p *Parser) skipListJunk(parent *cst.Node) {
	start := p.peek().Span.Start
	consumed := false
	for !p.at(EOF) && !p.at(Comma) && !p.at(RParen) && !p.at(Semicolon) && !p.at(RBrace) {
		p.advance()
		consumed = true
	}
	if consumed {
		parent.AddChild(cst.NewError(source.Span{File: p.file.ID, Start: start, End: p.lastSpan.End}))
	}
}
