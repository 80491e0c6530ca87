package diag

import (
	"fmt"
	"strings"
)

// FormatErrorList renders errors into a stable one-line-per-entry
// representation suitable for golden comparisons:
//
//	SEVERITY CODE line:col message
//
// Entries are sorted deterministically; suggestions append as indented
// help lines when requested. Errors without a recorded location render
// with 0:0.
func FormatErrorList(errs []*Error, includeSuggestions bool) string {
	if len(errs) == 0 {
		return ""
	}

	sorted := append([]*Error(nil), errs...)
	SortErrors(sorted)

	var b strings.Builder
	for i, e := range sorted {
		line, col := locationOf(e)
		fmt.Fprintf(&b, "%s %s %d:%d %s", e.Severity, e.Code.ID(), line, col, sanitizeMessage(e.Message))
		if includeSuggestions && e.Context != nil {
			for _, s := range e.Context.Suggestions {
				b.WriteString("\n  help: did you mean '")
				b.WriteString(s)
				b.WriteString("'?")
			}
		}
		if i < len(sorted)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
