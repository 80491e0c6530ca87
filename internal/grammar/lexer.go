package grammar

import (
	"scad/internal/diag"
	"scad/internal/source"
)

// LexOptions configures error reporting for a Lexer. Report may be nil;
// lexing then continues silently past bad input.
type LexOptions struct {
	Report func(*diag.Error)
}

// Lexer turns one file's content into a token stream. It never stops on
// bad input: malformed constructs produce Invalid tokens plus a reported
// diagnostic, and scanning continues.
type Lexer struct {
	file   *source.File
	cursor cursor
	opts   LexOptions
	look   *Token
	// After an include/use keyword the next '<' opens a path literal
	// instead of a less-than operator.
	pathNext bool
}

// NewLexer creates a lexer over the file's (already normalized) content.
func NewLexer(file *source.File, opts LexOptions) *Lexer {
	return &Lexer{
		file:   file,
		cursor: newCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token. After EOF it always returns
// EOF.
func (lx *Lexer) Next() Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.eof() {
		return Token{Kind: EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.peek()
	var tok Token

	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()

	case ch == '$':
		tok = lx.scanSpecialIdent()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString()

	case ch == '<' && lx.pathNext:
		tok = lx.scanPath()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	lx.pathNext = tok.Kind == KwInclude || tok.Kind == KwUse
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.off, End: lx.cursor.off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

// errAt reports a lexical diagnostic positioned at the span's start.
func (lx *Lexer) errAt(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Report == nil {
		return
	}
	lc := lx.file.Position(sp.Start)
	e := diag.BuildSyntax(code, msg).
		AtPos(lc).
		WithLength(sp.Len()).
		WithSource(lx.file.GetLine(lc.Line)).
		Err()
	lx.opts.Report(e)
}
