package fuzztests

import (
	"testing"
	"time"

	"scad/internal/astbuild"
	"scad/internal/grammar"
	"scad/internal/source"
	"scad/internal/testkit"
)

// parseTimeout flags inputs that send recovery into a loop. A clean run
// parses 64 KiB in well under a millisecond.
const parseTimeout = 5 * time.Second

// FuzzParseBuildsTree checks the full front end on arbitrary bytes: the
// parse must complete, the builder must accept the tree, and every AST
// span must stay inside its statement and file.
func FuzzParseBuildsTree(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = append([]byte(nil), input[:maxFuzzInput]...)
		} else {
			input = append([]byte(nil), input...)
		}

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.scad", input))

		tree, _ := grammar.Parse(file, grammar.Options{MaxErrors: 128})
		stmts := astbuild.Build(tree)

		if err := testkit.CheckSpanInvariants(stmts, file); err != nil {
			t.Fatalf("span invariant violated: %v\ninput (%d bytes): %q",
				err, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzParseNoHang watches for inputs where recovery stops making
// progress. The parser runs in a goroutine and must finish before the
// timeout.
func FuzzParseNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// Shapes that stress the recovery paths: dropped semicolons, runs of
	// unclosed brackets, modifier chains, and a stray closer.
	f.Add([]byte("cube(10)\nsphere(5)\n"))
	f.Add([]byte("x = 1\ny = 2\n"))
	f.Add([]byte("module m() { cube(1); "))
	f.Add([]byte("translate([1, 2, 3) cube();\n"))
	f.Add([]byte("for (i = [0:10) cube(i);\n"))
	f.Add([]byte("]\n"))
	f.Add([]byte("#!%*cube(1);\n"))
	f.Add([]byte("((((((((((\n"))

	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = append([]byte(nil), input[:maxFuzzInput]...)
		} else {
			input = append([]byte(nil), input...)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.scad", input))
			tree, _ := grammar.Parse(file, grammar.Options{MaxErrors: 128})
			_ = astbuild.Build(tree)
		}()

		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser hang: no result after %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
