package recovery

import (
	"strings"
	"testing"
)

func TestEditReplace(t *testing.T) {
	got, err := Replace(4, "old", "new").Apply("abc old xyz")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if want := "abc new xyz"; got != want {
		t.Errorf("Apply = %q, want %q", got, want)
	}
}

func TestEditInsert(t *testing.T) {
	cases := []struct {
		name string
		at   int
		want string
	}{
		{"front", 0, "Xabcdef"},
		{"middle", 3, "abcXdef"},
		{"end", 6, "abcdefX"},
	}
	for _, tc := range cases {
		got, err := Insert(tc.at, "X").Apply("abcdef")
		if err != nil {
			t.Fatalf("%s: Apply: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: Apply = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestEditDriftDetected(t *testing.T) {
	_, err := Replace(0, "zzz", "x").Apply("abc def")
	if err == nil || !strings.Contains(err.Error(), "drifted") {
		t.Fatalf("Apply error = %v, want drift", err)
	}
}

func TestEditOutOfRange(t *testing.T) {
	cases := []Edit{
		Insert(-1, "x"),
		Insert(4, "x"),
		Replace(2, "ab", "x"),
	}
	for _, ed := range cases {
		if _, err := ed.Apply("abc"); err == nil {
			t.Errorf("Apply(%+v) succeeded, want range error", ed)
		}
	}
}

func TestLineSpan(t *testing.T) {
	src := "ab\ncd\r\nef"
	cases := []struct {
		line  uint32
		start int
		end   int
		ok    bool
	}{
		{0, 0, 0, false},
		{1, 0, 2, true},
		{2, 3, 5, true},
		{3, 7, 9, true},
		{4, 0, 0, false},
	}
	for _, tc := range cases {
		start, end, ok := lineSpan(src, tc.line)
		if ok != tc.ok || start != tc.start || end != tc.end {
			t.Errorf("lineSpan(%d) = (%d, %d, %v), want (%d, %d, %v)",
				tc.line, start, end, ok, tc.start, tc.end, tc.ok)
		}
	}
}

func TestOffsetOf(t *testing.T) {
	src := "ab\ncd\nef"
	cases := []struct {
		line uint32
		col  uint32
		off  int
		ok   bool
	}{
		{1, 1, 0, true},
		{2, 1, 3, true},
		{2, 2, 4, true},
		{2, 3, 5, true},
		{2, 4, 0, false},
		{2, 0, 0, false},
		{9, 1, 0, false},
	}
	for _, tc := range cases {
		off, ok := offsetOf(src, tc.line, tc.col)
		if ok != tc.ok || off != tc.off {
			t.Errorf("offsetOf(%d, %d) = (%d, %v), want (%d, %v)",
				tc.line, tc.col, off, ok, tc.off, tc.ok)
		}
	}
}
