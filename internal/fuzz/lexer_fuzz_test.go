package fuzztests

import (
	"testing"

	"scad/internal/diag"
	"scad/internal/grammar"
	"scad/internal/source"
)

const maxFuzzInput = 1 << 16 // 64 KiB

// FuzzLexerTokens drives the lexer over arbitrary bytes. Any input must
// tokenize to EOF without panicking; malformed constructs only produce
// Invalid tokens plus diagnostics.
func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(_ *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = append([]byte(nil), input[:maxFuzzInput]...)
		} else {
			input = append([]byte(nil), input...)
		}

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.scad", input))

		lx := grammar.NewLexer(file, grammar.LexOptions{
			Report: func(*diag.Error) {},
		})
		for {
			tok := lx.Next()
			if tok.Kind == grammar.EOF {
				break
			}
		}
	})
}
