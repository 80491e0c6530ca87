// Package recovery proposes automatic source corrections for diagnosed
// errors.
//
// A Registry holds an ordered chain of strategies. AttemptRecovery walks
// the chain in registration order and returns the first candidate source
// a capable strategy produces; RecoverySuggestions instead aggregates
// advisory hints from every capable strategy. Results are candidates
// only: nothing here verifies that a patch resolves the original error,
// callers re-parse to confirm.
package recovery
