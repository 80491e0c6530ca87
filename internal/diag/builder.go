package diag

import "scad/internal/source"

// Builder accumulates an Error and its context fluently before handing it
// to a Handler. Producers that attach several context fields read better
// through it than through struct literals.
type Builder struct {
	err *Error
}

// Build starts a builder with an explicit severity and code.
func Build(sev Severity, code Code, msg string) *Builder {
	return &Builder{err: New(sev, code, msg, &Context{})}
}

// BuildSyntax starts a syntax-band builder at severity ERROR.
func BuildSyntax(code Code, msg string) *Builder {
	return &Builder{err: NewSyntaxError(msg, code, &Context{})}
}

// BuildReference starts a reference-band builder at severity ERROR.
func BuildReference(code Code, msg string) *Builder {
	return &Builder{err: NewReferenceError(msg, code, &Context{})}
}

// At records the 1-based line and column.
func (b *Builder) At(line, col uint32) *Builder {
	b.err.Context.Line = line
	b.err.Context.Column = col
	return b
}

// AtPos records position from a resolved line/column pair.
func (b *Builder) AtPos(lc source.LineCol) *Builder {
	b.err.Context.Line = lc.Line
	b.err.Context.Column = lc.Col
	return b
}

// Span records position and length from a span resolved against fs.
func (b *Builder) Span(fs *source.FileSet, sp source.Span) *Builder {
	start, _ := fs.Resolve(sp)
	b.err.Context.Line = start.Line
	b.err.Context.Column = start.Col
	b.err.Context.Length = sp.Len()
	return b
}

// WithLength records the extent of the offending text in bytes.
func (b *Builder) WithLength(n uint32) *Builder {
	b.err.Context.Length = n
	return b
}

// WithSource attaches the offending source line.
func (b *Builder) WithSource(line string) *Builder {
	b.err.Context.Source = line
	return b
}

// WithExpected records what the producer was looking for.
func (b *Builder) WithExpected(what string) *Builder {
	b.err.Context.Expected = what
	return b
}

// WithFound records what was actually present.
func (b *Builder) WithFound(what string) *Builder {
	b.err.Context.Found = what
	return b
}

// WithNodeType records the CST node kind involved.
func (b *Builder) WithNodeType(kind string) *Builder {
	b.err.Context.NodeType = kind
	return b
}

// Err returns the accumulated error.
func (b *Builder) Err() *Error {
	return b.err
}
