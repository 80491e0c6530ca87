// Package fuzztests houses Go fuzz harnesses for the front end: raw
// bytes go through the lexer, the parser, and the AST builder, and
// nothing is allowed to panic, hang, or produce a tree whose spans
// escape the file. The harnesses seed from testdata plus a handful of
// inputs that exercise error recovery.
package fuzztests
