package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"scad/internal/diag"
)

// PrettyOptions configures the human-readable renderer.
type PrettyOptions struct {
	// Color switches ANSI styling on. Resolve ColorMode against the
	// sink before calling; the renderer itself never probes terminals.
	Color bool
	// MaxWidth truncates source snippets to a display width, 0 meaning
	// unlimited.
	MaxWidth int
}

type palette struct {
	severities map[diag.Severity]*color.Color
	location   *color.Color
	gutter     *color.Color
	help       *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		severities: map[diag.Severity]*color.Color{
			diag.SevDebug:   color.New(color.FgHiBlack),
			diag.SevInfo:    color.New(color.FgCyan),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevFatal:   color.New(color.FgRed, color.Bold),
		},
		location: color.New(color.Bold),
		gutter:   color.New(color.FgBlue),
		help:     color.New(color.FgGreen),
	}
	for _, c := range p.severities {
		setColorMode(c, enabled)
	}
	setColorMode(p.location, enabled)
	setColorMode(p.gutter, enabled)
	setColorMode(p.help, enabled)
	return p
}

// setColorMode pins the instance on or off so the package-global TTY
// autodetection in fatih/color cannot flip output between runs.
func setColorMode(c *color.Color, enabled bool) {
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

func (p *palette) severity(sev diag.Severity) *color.Color {
	if c, ok := p.severities[sev]; ok {
		return c
	}
	return p.location
}

// Pretty renders errs for path: a severity-colored header, the
// position, the offending source line with a caret underline sized by
// display width, then help lines for any suggestions.
func Pretty(w io.Writer, path string, errs []*diag.Error, opts PrettyOptions) error {
	pal := newPalette(opts.Color)
	printed := false
	for _, e := range errs {
		if e == nil {
			continue
		}
		if printed {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyOne(w, pal, path, e, opts); err != nil {
			return err
		}
		printed = true
	}
	return nil
}

func prettyOne(w io.Writer, pal *palette, path string, e *diag.Error, opts PrettyOptions) error {
	sev := pal.severity(e.Severity)
	header := fmt.Sprintf("%s[%s]", strings.ToLower(e.Severity.String()), e.Code.ID())
	if _, err := fmt.Fprintf(w, "%s: %s\n", sev.Sprint(header), e.Message); err != nil {
		return err
	}

	c := e.Context
	switch {
	case c.HasLocation():
		loc := fmt.Sprintf("%s:%d:%d", path, c.Line, c.Column)
		if _, err := fmt.Fprintf(w, "  %s %s\n", pal.gutter.Sprint("-->"), pal.location.Sprint(loc)); err != nil {
			return err
		}
	case path != "":
		if _, err := fmt.Fprintf(w, "  %s %s\n", pal.gutter.Sprint("-->"), pal.location.Sprint(path)); err != nil {
			return err
		}
	}

	if c.HasLocation() && c.Source != "" {
		if err := prettySnippet(w, pal, e, opts); err != nil {
			return err
		}
	}
	for _, hint := range hints(c) {
		if _, err := fmt.Fprintf(w, "  %s %s\n", pal.help.Sprint("help:"), hint); err != nil {
			return err
		}
	}
	return nil
}

// prettySnippet prints the source line with a gutter and the caret
// line under it. Widths come from go-runewidth so wide runes keep the
// caret aligned.
func prettySnippet(w io.Writer, pal *palette, e *diag.Error, opts PrettyOptions) error {
	c := e.Context
	line := strings.ReplaceAll(strings.TrimRight(c.Source, "\r\n"), "\t", " ")
	if opts.MaxWidth > 0 {
		line = runewidth.Truncate(line, opts.MaxWidth, "...")
	}
	gutter := fmt.Sprintf("%4d", c.Line)
	if _, err := fmt.Fprintf(w, "%s %s %s\n", pal.gutter.Sprint(gutter), pal.gutter.Sprint("|"), line); err != nil {
		return err
	}

	col, err := safecast.Conv[int](c.Column)
	if err != nil || col < 1 {
		return nil
	}
	prefix := line
	if col-1 < len(line) {
		prefix = line[:col-1]
	}
	pad := runewidth.StringWidth(prefix)

	length, err := safecast.Conv[int](c.Length)
	if err != nil || length < 1 {
		length = 1
	}
	marker := "^" + strings.Repeat("~", length-1)
	_, err = fmt.Fprintf(w, "     %s %s%s\n",
		pal.gutter.Sprint("|"), strings.Repeat(" ", pad), pal.severity(e.Severity).Sprint(marker))
	return err
}

// hints flattens the context's advisory fields into help lines.
func hints(c *diag.Context) []string {
	if c == nil {
		return nil
	}
	var out []string
	if c.Suggestion != "" {
		out = append(out, c.Suggestion)
	} else if len(c.Suggestions) > 0 {
		quoted := make([]string, len(c.Suggestions))
		for i, s := range c.Suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		out = append(out, "did you mean "+strings.Join(quoted, ", ")+"?")
	}
	if c.HelpURL != "" {
		out = append(out, "see "+c.HelpURL)
	}
	return out
}
