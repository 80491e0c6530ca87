// Package logging provides the session logger for the parser front end.
//
// A Logger filters on the five diagnostic severities before doing any
// formatting work, so suppressed messages cost nothing. Output lines are
// optionally prefixed with an ISO-8601 timestamp and a bracketed severity
// tag, and go to a pluggable io.Writer sink (stderr by default).
//
// Loggers are per-session: a diag.Handler forwards every report through
// the Logger it was constructed with, and the Logger applies its own
// threshold independently of the handler's collection threshold. There is
// no package-level logger.
package logging
