package recovery

import "scad/internal/diag"

// Strategy is one pluggable correction rule in the recovery chain.
type Strategy interface {
	// Name identifies the strategy for registration bookkeeping.
	Name() string

	// Priority is advisory metadata. The chain runs in registration
	// order regardless; the value only records where a strategy is
	// meant to sit.
	Priority() int

	// CanHandle reports whether the strategy understands e.
	CanHandle(e *diag.Error) bool

	// Recover returns a candidate corrected source, or "" when there is
	// nothing to do. A non-nil error means the strategy itself failed;
	// the registry swallows it and moves on to the next strategy.
	Recover(e *diag.Error, src string) (string, error)

	// Suggestion returns a human-readable hint for e, or "".
	Suggestion(e *diag.Error) string
}

// Default chain priorities, highest first.
const (
	PriorityMissingSemicolon  = 100
	PriorityUnclosedBracket   = 90
	PriorityUnknownIdentifier = 80
	PriorityTypeMismatch      = 70
)
