package diag

import (
	"fmt"
	"sort"
)

// Logger consumes the messages a Handler forwards. internal/logging
// provides the standard implementation; tests substitute their own.
type Logger interface {
	Log(sev Severity, msg string)
}

// Recoverer is the handler's hook into a recovery strategy registry.
type Recoverer interface {
	AttemptRecovery(e *Error, src string) string
	RecoverySuggestions(e *Error) []string
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// ThrowErrors makes Report return the error itself for severities at
	// or above ERROR, after recording it.
	ThrowErrors bool
	// MinSeverity is the collection threshold: reports below it are
	// forwarded to the logger but not kept.
	MinSeverity Severity
	// IncludeSource keeps Context.Source on collected errors. When false
	// the source line is stripped at report time.
	IncludeSource bool
	// AttemptRecovery enables delegation to the registry; when false,
	// AttemptRecovery is a no-op returning "".
	AttemptRecovery bool
	// MaxErrors caps the collected list; 0 means no cap. Reports past the
	// cap are counted as dropped but still logged and still throw.
	MaxErrors int
	// Dedup suppresses exact repeats (code, severity, position, message).
	Dedup bool
}

// DefaultHandlerOptions collects INFO and above, throws nothing, and keeps
// source context.
func DefaultHandlerOptions() HandlerOptions {
	return HandlerOptions{
		MinSeverity:   SevInfo,
		IncludeSource: true,
	}
}

type handlerDedupKey struct {
	code Code
	sev  Severity
	line uint32
	col  uint32
	msg  string
}

// Handler orchestrates error collection, filtering, throwing policy, and
// recovery delegation for one parse session. Each session owns its own
// Handler, Logger, and Recoverer; none of them are shared or global.
type Handler struct {
	opts    HandlerOptions
	logger  Logger
	rec     Recoverer
	errors  []*Error
	dropped int
	seen    map[handlerDedupKey]struct{}
}

// NewHandler creates a Handler. logger and rec may be nil; a nil logger
// silences forwarding and a nil rec disables recovery.
func NewHandler(opts HandlerOptions, logger Logger, rec Recoverer) *Handler {
	h := &Handler{
		opts:   opts,
		logger: logger,
		rec:    rec,
		errors: make([]*Error, 0, 16),
	}
	if opts.Dedup {
		h.seen = make(map[handlerDedupKey]struct{})
	}
	return h
}

// Report records e according to the handler's policy. The error is
// collected iff its severity reaches MinSeverity, always forwarded to the
// logger (which applies its own threshold), and returned as a non-nil
// error iff ThrowErrors is set and the severity is ERROR or above.
func (h *Handler) Report(e *Error) error {
	if e == nil {
		return nil
	}

	if !h.opts.IncludeSource && e.Context != nil {
		e.Context.Source = ""
	}

	if h.opts.Dedup {
		key := handlerDedupKey{code: e.Code, sev: e.Severity, msg: e.Message}
		if e.Context != nil {
			key.line = e.Context.Line
			key.col = e.Context.Column
		}
		if _, dup := h.seen[key]; dup {
			return nil
		}
		h.seen[key] = struct{}{}
	}

	if e.Severity >= h.opts.MinSeverity {
		if h.opts.MaxErrors > 0 && len(h.errors) >= h.opts.MaxErrors {
			h.dropped++
		} else {
			h.errors = append(h.errors, e)
		}
	}

	if h.logger != nil {
		h.logger.Log(e.Severity, e.FormattedMessage())
	}

	if h.opts.ThrowErrors && e.Severity >= SevError {
		return e
	}
	return nil
}

// AttemptRecovery delegates to the registry when enabled. It returns the
// candidate corrected source, or "" when recovery is disabled or failed.
func (h *Handler) AttemptRecovery(e *Error, src string) string {
	if !h.opts.AttemptRecovery || h.rec == nil || e == nil {
		return ""
	}
	out := h.rec.AttemptRecovery(e, src)
	if out == "" {
		h.log(SevDebug, fmt.Sprintf("recovery failed for [%s]", e.Code))
	} else {
		h.log(SevInfo, fmt.Sprintf("recovered from [%s]", e.Code))
	}
	return out
}

// RecoverySuggestions returns the advisory suggestions every capable
// strategy offers for e.
func (h *Handler) RecoverySuggestions(e *Error) []string {
	if h.rec == nil || e == nil {
		return nil
	}
	return h.rec.RecoverySuggestions(e)
}

// Errors returns the collected list in report order. The slice is the
// handler's own; callers must not modify it.
func (h *Handler) Errors() []*Error {
	return h.errors
}

// ErrorsBySeverity returns collected errors at or above min, preserving
// report order.
func (h *Handler) ErrorsBySeverity(min Severity) []*Error {
	out := make([]*Error, 0, len(h.errors))
	for _, e := range h.errors {
		if e.Severity >= min {
			out = append(out, e)
		}
	}
	return out
}

// HasCriticalErrors reports whether any collected error is ERROR or above.
func (h *Handler) HasCriticalErrors() bool {
	for _, e := range h.errors {
		if e.Severity >= SevError {
			return true
		}
	}
	return false
}

// ClearErrors empties the collected list. Logger, registry, and dedup
// state are untouched.
func (h *Handler) ClearErrors() {
	h.errors = h.errors[:0]
	h.dropped = 0
}

// Dropped returns how many reports were discarded by the MaxErrors cap.
func (h *Handler) Dropped() int {
	return h.dropped
}

func (h *Handler) log(sev Severity, msg string) {
	if h.logger != nil {
		h.logger.Log(sev, msg)
	}
}

// SortErrors orders a slice by position, then severity (descending), then
// code, then message: the deterministic order used for display. Collected
// handler lists stay chronological; sort a copy for rendering.
func SortErrors(errs []*Error) {
	sort.SliceStable(errs, func(i, j int) bool {
		ei, ej := errs[i], errs[j]
		li, ci := locationOf(ei)
		lj, cj := locationOf(ej)
		if li != lj {
			return li < lj
		}
		if ci != cj {
			return ci < cj
		}
		if ei.Severity != ej.Severity {
			return ei.Severity > ej.Severity
		}
		if ei.Code != ej.Code {
			return ei.Code < ej.Code
		}
		return ei.Message < ej.Message
	})
}

// DedupErrors removes exact repeats (code, severity, position, message),
// keeping first occurrences in order.
func DedupErrors(errs []*Error) []*Error {
	seen := make(map[handlerDedupKey]struct{}, len(errs))
	out := make([]*Error, 0, len(errs))
	for _, e := range errs {
		key := handlerDedupKey{code: e.Code, sev: e.Severity, msg: e.Message}
		if e.Context != nil {
			key.line = e.Context.Line
			key.col = e.Context.Column
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

func locationOf(e *Error) (line, col uint32) {
	if e.Context == nil {
		return 0, 0
	}
	return e.Context.Line, e.Context.Column
}
