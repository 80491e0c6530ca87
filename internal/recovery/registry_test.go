package recovery

import (
	"errors"
	"testing"

	"scad/internal/diag"
)

// stubStrategy scripts chain behavior for registry tests.
type stubStrategy struct {
	name    string
	handles bool
	out     string
	err     error
	hint    string
	calls   int
}

func (s *stubStrategy) Name() string               { return s.name }
func (s *stubStrategy) Priority() int              { return 0 }
func (s *stubStrategy) CanHandle(*diag.Error) bool { return s.handles }
func (s *stubStrategy) Recover(*diag.Error, string) (string, error) {
	s.calls++
	return s.out, s.err
}
func (s *stubStrategy) Suggestion(*diag.Error) string { return s.hint }

func anyError() *diag.Error {
	return diag.BuildSyntax(diag.SynError, "unexpected token").At(1, 1).Err()
}

func names(ss []Strategy) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Name()
	}
	return out
}

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry()
	got := r.Strategies()
	want := []string{"missing-semicolon", "unclosed-bracket", "unknown-identifier"}
	if len(got) != len(want) {
		t.Fatalf("default chain = %v, want %v", names(got), want)
	}
	for i, s := range got {
		if s.Name() != want[i] {
			t.Errorf("strategy[%d] = %q, want %q", i, s.Name(), want[i])
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Priority() < got[i].Priority() {
			t.Errorf("default chain priorities out of order at %d: %d < %d",
				i, got[i-1].Priority(), got[i].Priority())
		}
	}
}

func TestAttemptRecoveryFirstWins(t *testing.T) {
	first := &stubStrategy{name: "first", handles: true, out: "fixed by first"}
	second := &stubStrategy{name: "second", handles: true, out: "fixed by second"}
	r := &Registry{}
	r.RegisterMultiple(first, second)

	if got := r.AttemptRecovery(anyError(), "broken"); got != "fixed by first" {
		t.Errorf("AttemptRecovery = %q, want %q", got, "fixed by first")
	}
	if second.calls != 0 {
		t.Errorf("second strategy ran %d times, want 0", second.calls)
	}
}

func TestAttemptRecoverySwallowsFailures(t *testing.T) {
	failing := &stubStrategy{name: "failing", handles: true, err: errors.New("strategy exploded")}
	unchanged := &stubStrategy{name: "unchanged", handles: true, out: "broken"}
	uninterested := &stubStrategy{name: "uninterested"}
	winner := &stubStrategy{name: "winner", handles: true, out: "fixed"}
	r := &Registry{}
	r.RegisterMultiple(failing, unchanged, uninterested, winner)

	if got := r.AttemptRecovery(anyError(), "broken"); got != "fixed" {
		t.Errorf("AttemptRecovery = %q, want %q", got, "fixed")
	}
	if failing.calls != 1 {
		t.Errorf("failing strategy ran %d times, want 1", failing.calls)
	}
	if unchanged.calls != 1 {
		t.Errorf("unchanged strategy ran %d times, want 1", unchanged.calls)
	}
	if uninterested.calls != 0 {
		t.Errorf("uninterested strategy ran %d times, want 0", uninterested.calls)
	}
}

func TestAttemptRecoveryExhausted(t *testing.T) {
	r := &Registry{}
	r.Register(&stubStrategy{name: "noop", handles: true})
	if got := r.AttemptRecovery(anyError(), "broken"); got != "" {
		t.Errorf("AttemptRecovery = %q, want empty", got)
	}
	if got := r.AttemptRecovery(nil, "broken"); got != "" {
		t.Errorf("AttemptRecovery(nil) = %q, want empty", got)
	}
}

func TestRegistryMutation(t *testing.T) {
	r := NewRegistry()
	if !r.Unregister("unclosed-bracket") {
		t.Fatal("Unregister of a registered strategy returned false")
	}
	if r.Unregister("unclosed-bracket") {
		t.Fatal("Unregister removed the same strategy twice")
	}
	if got := names(r.Strategies()); len(got) != 2 {
		t.Fatalf("chain after Unregister = %v, want 2 strategies", got)
	}

	r.Clear()
	if got := r.Strategies(); len(got) != 0 {
		t.Fatalf("chain after Clear = %v, want empty", names(got))
	}

	r.RegisterMultiple(NewUnclosedBracket(), NewMissingSemicolon())
	got := names(r.Strategies())
	if len(got) != 2 || got[0] != "unclosed-bracket" || got[1] != "missing-semicolon" {
		t.Errorf("RegisterMultiple order = %v", got)
	}
}

func TestRegistryClone(t *testing.T) {
	r := NewRegistry()
	c := r.Clone()
	r.Clear()
	if n := len(c.Strategies()); n != 3 {
		t.Errorf("clone has %d strategies after clearing the original, want 3", n)
	}

	empty := (&Registry{}).Clone()
	if n := len(empty.Strategies()); n != 0 {
		t.Errorf("clone of an empty registry has %d strategies, want 0", n)
	}
}

func TestRecoverySuggestionsAggregate(t *testing.T) {
	r := &Registry{}
	r.RegisterMultiple(
		&stubStrategy{name: "a", handles: true, hint: "try a"},
		&stubStrategy{name: "b", hint: "try b"},
		&stubStrategy{name: "c", handles: true, hint: "try c"},
		&stubStrategy{name: "d", handles: true},
	)
	got := r.RecoverySuggestions(anyError())
	want := []string{"try a", "try c"}
	if len(got) != len(want) {
		t.Fatalf("RecoverySuggestions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("suggestion[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if r.RecoverySuggestions(nil) != nil {
		t.Error("RecoverySuggestions(nil) returned a non-nil slice")
	}
}

// The registry is what parse sessions hand to their diagnostic handler;
// the whole flow runs through the handler's recovery gate.
func TestHandlerDelegation(t *testing.T) {
	opts := diag.DefaultHandlerOptions()
	opts.AttemptRecovery = true
	h := diag.NewHandler(opts, nil, NewRegistry())

	src := "cube(10)\nsphere(5);"
	e := semicolonError(1, 9)
	if got, want := h.AttemptRecovery(e, src), "cube(10);\nsphere(5);"; got != want {
		t.Errorf("handler AttemptRecovery = %q, want %q", got, want)
	}

	cold := diag.NewHandler(diag.DefaultHandlerOptions(), nil, NewRegistry())
	if got := cold.AttemptRecovery(e, src); got != "" {
		t.Errorf("AttemptRecovery with the option off = %q, want empty", got)
	}
}
