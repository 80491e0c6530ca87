// Package grammar tokenizes and parses source text into the concrete
// syntax tree defined by package cst.
//
// The parser is resilient: it never fails. Unparseable token runs are
// wrapped in ERROR nodes, required tokens that are absent become
// zero-width MISSING nodes, and every diagnostic is reported through
// package diag while the parse keeps going. Comments and whitespace are
// skipped as trivia; node spans still cover them because spans are byte
// ranges over the original text.
package grammar
