package recovery

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"scad/internal/diag"
)

// Near-miss suggestions stay within two edits and never exceed three
// candidates.
const (
	maxEditDistance = 2
	maxSuggestions  = 3
)

// IdentKind classifies a known identifier for suggestion ranking.
type IdentKind uint8

const (
	IdentVariable IdentKind = iota
	IdentFunction
	IdentModule
)

func (k IdentKind) String() string {
	switch k {
	case IdentVariable:
		return "variable"
	case IdentFunction:
		return "function"
	case IdentModule:
		return "module"
	}
	return "identifier"
}

type knownIdent struct {
	name string
	kind IdentKind
}

// ScopeTable holds the identifiers a caller's symbol resolver knows,
// keyed by a colon-joined scope path such as "shapes:ring". The empty
// path is the global scope. The table does not model shadowing; it is a
// flat per-scope candidate pool.
type ScopeTable struct {
	scopes map[string][]knownIdent
}

// NewScopeTable returns an empty table.
func NewScopeTable() *ScopeTable {
	return &ScopeTable{scopes: make(map[string][]knownIdent)}
}

// Add records name under the given scope path.
func (t *ScopeTable) Add(scopePath, name string, kind IdentKind) {
	if name == "" {
		return
	}
	t.scopes[scopePath] = append(t.scopes[scopePath], knownIdent{name: name, kind: kind})
}

// AddGlobal records name in the global scope.
func (t *ScopeTable) AddGlobal(name string, kind IdentKind) {
	t.Add("", name, kind)
}

func (t *ScopeTable) entries(scopePath string) []knownIdent {
	return t.scopes[scopePath]
}

// UnknownIdentifier suggests and substitutes near-miss identifiers by
// Levenshtein distance over the caller-populated scope table.
type UnknownIdentifier struct {
	table *ScopeTable
}

// NewUnknownIdentifier returns the strategy with an empty scope table;
// the caller's resolver populates it via Table.
func NewUnknownIdentifier() *UnknownIdentifier {
	return &UnknownIdentifier{table: NewScopeTable()}
}

// Table exposes the scope table for population.
func (s *UnknownIdentifier) Table() *ScopeTable { return s.table }

func (s *UnknownIdentifier) Name() string  { return "unknown-identifier" }
func (s *UnknownIdentifier) Priority() int { return PriorityUnknownIdentifier }

var (
	undefinedMsgRe = regexp.MustCompile(`undefined (?:variable|function|module)`)
	quotedIdentRe  = regexp.MustCompile(`['"]([$A-Za-z_][A-Za-z0-9_]*)['"]`)
)

// CanHandle accepts the dedicated undefined-symbol codes plus any
// reference error whose message reads like one.
func (s *UnknownIdentifier) CanHandle(e *diag.Error) bool {
	if e == nil {
		return false
	}
	switch e.Code {
	case diag.RefUndefinedVariable, diag.RefUndefinedFunction, diag.RefUndefinedModule:
		return true
	}
	if !e.Code.IsReference() {
		return false
	}
	m := strings.ToLower(e.Message)
	return strings.Contains(m, "is not defined") || undefinedMsgRe.MatchString(m)
}

// Recover substitutes the best candidate at the recorded position after
// verifying the text there still matches the misspelled identifier.
// Every qualifying name is recorded on the error's context so the
// presentation layer can offer the full list.
func (s *UnknownIdentifier) Recover(e *diag.Error, src string) (string, error) {
	ident := offendingIdentifier(e)
	if ident == "" {
		return "", nil
	}
	cands := s.candidates(ident, scopeOf(e))
	if len(cands) == 0 {
		return "", nil
	}

	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.name
	}
	if e.Context != nil {
		e.Context.Suggestions = names
	}

	line, col := errorPos(e)
	off, ok := offsetOf(src, line, col)
	if !ok {
		return "", nil
	}
	fixed, err := Replace(off, ident, names[0]).Apply(src)
	if err != nil {
		// The source no longer matches the recorded position.
		return "", nil
	}
	return fixed, nil
}

func (s *UnknownIdentifier) Suggestion(e *diag.Error) string {
	ident := offendingIdentifier(e)
	if ident == "" {
		return ""
	}
	cands := s.candidates(ident, scopeOf(e))
	if len(cands) == 0 {
		return ""
	}
	quoted := make([]string, len(cands))
	for i, c := range cands {
		quoted[i] = fmt.Sprintf("%q", c.name)
	}
	return "did you mean " + strings.Join(quoted, ", ") + "?"
}

type candidate struct {
	name string
	kind IdentKind
	dist int
}

// candidates ranks near misses from the error's scope and then the
// global scope: distance ascending, variables before other kinds on
// ties, then name, capped at maxSuggestions.
func (s *UnknownIdentifier) candidates(ident, scopePath string) []candidate {
	seen := make(map[string]struct{})
	var out []candidate
	collect := func(entries []knownIdent) {
		for _, k := range entries {
			if k.name == ident {
				continue
			}
			if _, dup := seen[k.name]; dup {
				continue
			}
			d := fuzzy.LevenshteinDistance(ident, k.name)
			if d > maxEditDistance {
				continue
			}
			seen[k.name] = struct{}{}
			out = append(out, candidate{name: k.name, kind: k.kind, dist: d})
		}
	}
	if scopePath != "" {
		collect(s.table.entries(scopePath))
	}
	collect(s.table.entries(""))

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].dist != out[j].dist {
			return out[i].dist < out[j].dist
		}
		iVar := out[i].kind == IdentVariable
		jVar := out[j].kind == IdentVariable
		if iVar != jVar {
			return iVar
		}
		return out[i].name < out[j].name
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// offendingIdentifier pulls the misspelled name from the error context,
// falling back to the first quoted identifier in the message.
func offendingIdentifier(e *diag.Error) string {
	if e == nil {
		return ""
	}
	if e.Context != nil && e.Context.Found != "" {
		return e.Context.Found
	}
	if m := quotedIdentRe.FindStringSubmatch(e.Message); m != nil {
		return m[1]
	}
	return ""
}

// scopeOf reads the colon-joined scope path the reporter recorded on the
// error, "" meaning global.
func scopeOf(e *diag.Error) string {
	if e == nil || e.Context == nil {
		return ""
	}
	return e.Context.Location
}
