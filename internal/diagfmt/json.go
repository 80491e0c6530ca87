package diagfmt

import (
	"encoding/json"
	"io"

	"scad/internal/diag"
)

// JSON writes the stable machine projection: a JSON array of the
// errors' canonical marshaled forms. A nil slice encodes as [].
func JSON(w io.Writer, errs []*diag.Error) error {
	out := errs
	if out == nil {
		out = []*diag.Error{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
