package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata for the scad CLI. All of these can be overridden at
// build time via -ldflags.
var (
	// Number is the plain semantic version, safe for machine output.
	Number = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Number with each component tinted, for the version
// command. A version that does not split as major.minor.patch comes
// back verbatim.
func Colored() string {
	rest := Number
	suffix := ""
	if i := strings.IndexAny(rest, "-+"); i >= 0 {
		suffix = rest[i:]
		rest = rest[:i]
	}
	parts := strings.Split(rest, ".")
	if len(parts) != 3 {
		return Number
	}
	return majorColor.Sprint(parts[0]) + "." +
		minorColor.Sprint(parts[1]) + "." +
		patchColor.Sprint(parts[2]) + suffix
}
