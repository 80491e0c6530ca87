package diagfmt

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ColorMode controls ANSI styling in rendered output.
type ColorMode uint8

const (
	// ColorAuto enables color only when the sink is a terminal.
	ColorAuto ColorMode = iota
	// ColorAlways forces color on regardless of the sink.
	ColorAlways
	// ColorNever forces color off.
	ColorNever
)

// ParseColorMode maps --color flag values onto a mode.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always", "on":
		return ColorAlways, nil
	case "never", "off":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
}

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	}
	return "auto"
}

// Enabled resolves the mode against a sink. ColorAuto probes the sink
// for a terminal; the explicit modes ignore it.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
