// Package cst defines the concrete syntax tree the grammar parser
// produces and the AST builder consumes.
//
// The tree is token-faithful: every node carries the byte span of the
// source text it covers, nothing is desugared, and malformed input still
// yields a complete tree (ERROR nodes absorb unparseable runs, zero-width
// MISSING nodes stand in for required-but-absent tokens).
//
// Nodes expose a read-only surface: kind, span, raw text, indexed and
// named children, and field lookup. The mutating methods (AddChild,
// AddField, SetSpan, and friends) exist for the grammar package while it
// builds the tree; once Parse returns, the tree is immutable by contract
// and safe to share between readers.
package cst
