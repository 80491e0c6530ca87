package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"scad/internal/diag"
)

// Short renders one grep-friendly line per error:
// path:line:col: severity[ID]: message. Errors without a position drop
// the line and column.
func Short(w io.Writer, path string, errs []*diag.Error) error {
	for _, e := range errs {
		if e == nil {
			continue
		}
		sev := strings.ToLower(e.Severity.String())
		var err error
		if e.Context.HasLocation() {
			_, err = fmt.Fprintf(w, "%s:%d:%d: %s[%s]: %s\n",
				path, e.Context.Line, e.Context.Column, sev, e.Code.ID(), e.Message)
		} else {
			_, err = fmt.Fprintf(w, "%s: %s[%s]: %s\n", path, sev, e.Code.ID(), e.Message)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
