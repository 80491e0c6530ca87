// Package diagfmt renders collected diagnostics for people and tools.
//
// Four formats: pretty (colored headers, source snippets with caret
// underlines, help lines), short (one grep-friendly line per error),
// json (the stable machine projection), and sarif (a minimal SARIF
// 2.1.0 run for CI upload). Formatting never mutates the errors it
// renders.
package diagfmt
