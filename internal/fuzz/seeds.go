package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// 64 KiB keeps single corpus entries from dominating a fuzz run.
const maxSeedBytes = 64 << 10

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addLanguageSeeds(f)
}

// addTestdataSeeds walks the repository testdata tree and feeds every
// *.scad file, well-formed or not, into the corpus.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".scad" {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

// addLanguageSeeds covers each statement form once so coverage-guided
// mutation starts from every corner of the grammar.
func addLanguageSeeds(f *testing.F) {
	seeds := []string{
		"",
		"cube(10);\n",
		"x = 1 + 2 * 3;\n",
		"v = [1, 2, 3][1];\n",
		"r = [0 : 0.5 : 10];\n",
		"flag = true ? \"yes\" : \"no\";\n",
		"module box(w, h = 1) { cube([w, w, h]); }\nbox(3);\n",
		"function area(r) = 3.14159 * r * r;\n",
		"for (i = [0:5]) translate([i * 10, 0, 0]) sphere(2);\n",
		"if (x > 0) { cube(x); } else { sphere(1); }\n",
		"include <lib/shapes.scad>\nuse <util.scad>\n",
		"echo(\"value\", x);\nassert(x != undef);\n",
		"#cube(1);\n!sphere(2);\n%cylinder(h = 3);\n*cube(4);\n",
		"difference() { cube(10); translate([2, 2, -1]) cylinder(h = 12, d = 3); }\n",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
