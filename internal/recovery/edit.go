package recovery

import (
	"fmt"
	"strings"

	"scad/internal/diag"
)

// Edit is one span-addressed text change: the bytes at [Start,End),
// which must still equal Old, are replaced by New. A zero-width span is
// an insertion.
type Edit struct {
	Start int
	End   int
	Old   string
	New   string
}

// Insert builds a zero-width edit at a byte offset.
func Insert(at int, text string) Edit {
	return Edit{Start: at, End: at, New: text}
}

// Replace builds an edit that swaps old for new at a byte offset.
func Replace(at int, old, new string) Edit {
	return Edit{Start: at, End: at + len(old), Old: old, New: new}
}

// Apply patches src, verifying the span still holds Old so a stale
// position never corrupts unrelated text.
func (ed Edit) Apply(src string) (string, error) {
	if ed.Start < 0 || ed.End < ed.Start || ed.End > len(src) {
		return "", fmt.Errorf("edit span [%d,%d) outside source of %d bytes", ed.Start, ed.End, len(src))
	}
	if got := src[ed.Start:ed.End]; got != ed.Old {
		return "", fmt.Errorf("source drifted at offset %d: expected %q, found %q", ed.Start, ed.Old, got)
	}
	return src[:ed.Start] + ed.New + src[ed.End:], nil
}

// errorPos extracts the 1-based position recorded on e, 0 meaning none.
func errorPos(e *diag.Error) (line, col uint32) {
	if e == nil || e.Context == nil {
		return 0, 0
	}
	return e.Context.Line, e.Context.Column
}

// lineSpan returns the byte range of the 1-based line in src, the
// newline and any trailing '\r' excluded.
func lineSpan(src string, line uint32) (start, end int, ok bool) {
	if line == 0 {
		return 0, 0, false
	}
	for cur := uint32(1); cur < line; cur++ {
		nl := strings.IndexByte(src[start:], '\n')
		if nl < 0 {
			return 0, 0, false
		}
		start += nl + 1
	}
	end = len(src)
	if nl := strings.IndexByte(src[start:], '\n'); nl >= 0 {
		end = start + nl
	}
	if end > start && src[end-1] == '\r' {
		end--
	}
	return start, end, true
}

// offsetOf converts a 1-based line/column into a byte offset. Columns
// may point one past the end of the line for end-of-line insertions.
func offsetOf(src string, line, col uint32) (int, bool) {
	start, end, ok := lineSpan(src, line)
	if !ok || col == 0 {
		return 0, false
	}
	off := start + int(col) - 1
	if off > end {
		return 0, false
	}
	return off, true
}
