// Package astbuild lowers concrete syntax trees into the typed AST.
//
// The Builder walks cst nodes by kind and field name and produces ast
// values. Lowering is total but lossy: trivia disappears, parentheses
// are transparent, and any node whose required parts are absent lowers
// to nil rather than to a partial value. The builder never reports and
// never panics; resilience diagnostics stay with the parser.
package astbuild
