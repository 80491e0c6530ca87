package recovery

import "scad/internal/diag"

// Registry is an ordered chain of recovery strategies. Each parse
// session owns its own registry; there is no shared default instance.
type Registry struct {
	strategies []Strategy
}

// Registry plugs into the diagnostic handler's recovery hook.
var _ diag.Recoverer = (*Registry)(nil)

// NewRegistry returns a registry preloaded with the default chain:
// missing semicolon, unclosed bracket, unknown identifier. The
// type-mismatch strategy is never auto-registered because it needs an
// injected type oracle.
func NewRegistry() *Registry {
	r := &Registry{}
	r.RegisterMultiple(
		NewMissingSemicolon(),
		NewUnclosedBracket(),
		NewUnknownIdentifier(),
	)
	return r
}

// Register appends s to the chain.
func (r *Registry) Register(s Strategy) {
	if s != nil {
		r.strategies = append(r.strategies, s)
	}
}

// RegisterMultiple appends strategies preserving argument order.
func (r *Registry) RegisterMultiple(ss ...Strategy) {
	for _, s := range ss {
		r.Register(s)
	}
}

// Unregister removes the first strategy with the given name and reports
// whether one was found.
func (r *Registry) Unregister(name string) bool {
	for i, s := range r.strategies {
		if s.Name() == name {
			r.strategies = append(r.strategies[:i], r.strategies[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every strategy.
func (r *Registry) Clear() {
	r.strategies = r.strategies[:0]
}

// Strategies returns a copy of the chain in registration order.
func (r *Registry) Strategies() []Strategy {
	return append([]Strategy(nil), r.strategies...)
}

// Clone copies the currently registered chain into a new registry. The
// clone does not re-add defaults, so clearing or reordering it leaves
// the original untouched and vice versa.
func (r *Registry) Clone() *Registry {
	return &Registry{strategies: append([]Strategy(nil), r.strategies...)}
}

// AttemptRecovery walks the chain in registration order and returns the
// first candidate source that is non-empty and differs from src. A
// strategy's internal failure is swallowed and the chain moves on. ""
// means no strategy could help.
func (r *Registry) AttemptRecovery(e *diag.Error, src string) string {
	if e == nil {
		return ""
	}
	for _, s := range r.strategies {
		if !s.CanHandle(e) {
			continue
		}
		out, err := s.Recover(e, src)
		if err != nil {
			continue
		}
		if out != "" && out != src {
			return out
		}
	}
	return ""
}

// RecoverySuggestions aggregates hints from every capable strategy, not
// just the first. This is the presentation path; it never touches the
// source.
func (r *Registry) RecoverySuggestions(e *diag.Error) []string {
	if e == nil {
		return nil
	}
	var out []string
	for _, s := range r.strategies {
		if !s.CanHandle(e) {
			continue
		}
		if hint := s.Suggestion(e); hint != "" {
			out = append(out, hint)
		}
	}
	return out
}
