package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic. Values are ordered:
// comparisons like sev >= SevError are meaningful.
type Severity uint8

const (
	// SevDebug is for trace-level detail that only matters when debugging
	// the front end itself.
	SevDebug Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for findings that do not block parsing.
	SevWarning
	// SevError is for findings that degrade the resulting tree.
	SevError
	// SevFatal is for findings after which the session should stop.
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevDebug:
		return "DEBUG"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevFatal:
		return "FATAL"
	}
	return "UNKNOWN"
}

// ParseSeverity maps a case-insensitive severity name to its value.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return SevDebug, nil
	case "INFO":
		return SevInfo, nil
	case "WARNING", "WARN":
		return SevWarning, nil
	case "ERROR":
		return SevError, nil
	case "FATAL":
		return SevFatal, nil
	}
	return SevInfo, fmt.Errorf("unknown severity %q", s)
}
