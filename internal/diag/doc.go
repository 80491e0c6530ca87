// Package diag defines the error model shared by every front-end phase.
//
// # Purpose
//
//   - Provide deterministic, serialisable records (Error, Context) that
//     capture findings from lexing, CST parsing, and AST construction.
//   - Offer the per-session Handler that collects, filters, forwards, and
//     optionally rethrows those records.
//   - Keep the model decoupled from rendering (internal/diagfmt) and from
//     correction machinery (internal/recovery).
//
// # Data model
//
// Error is the central record. It carries:
//
//   - Severity – five ordered levels (DEBUG, INFO, WARNING, ERROR, FATAL)
//     defined in severity.go.
//   - Code – compact numeric identifier (codes.go) partitioned into bands:
//     syntax 100s, type 200s, reference 300s, validation 400s, AST
//     construction 500s, internal 900s. Code.String() is the stable
//     SCREAMING_SNAKE name; Code.ID() the compact band-prefixed form.
//   - Message – human oriented text; keep it short and actionable.
//   - Context – optional positional and explanatory detail (context.go).
//     Line and column are 1-based; suggestions feed quick-fix UIs.
//
// Constructor families (NewSyntaxError, NewTypeError, NewReferenceError,
// NewValidationError, NewASTError, NewInternalError) pin the severity for
// their band so call sites cannot drift.
//
// # Handler
//
// Handler is per parse session, never shared and never a singleton. Report
// appends to its chronological list when the severity reaches the
// configured minimum, always forwards to the session logger (which applies
// its own threshold), and returns the error itself when ThrowErrors is set
// and the severity is ERROR or above; the caller decides whether to
// propagate. Recovery is delegated through the Recoverer interface so this
// package stays free of correction logic.
//
// # Consumers
//
//   - internal/diagfmt renders []*Error as pretty/short/json/sarif.
//   - internal/recovery analyses records and proposes source corrections.
//   - internal/driver owns the per-file session wiring.
//
// Keep the model deterministic and side-effect free: every field must
// serialise stably so diagnostics can be cached and compared in tests.
package diag
