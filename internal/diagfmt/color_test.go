package diagfmt

import (
	"bytes"
	"testing"
)

func TestParseColorMode(t *testing.T) {
	cases := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{"auto", ColorAuto, false},
		{"", ColorAuto, false},
		{"always", ColorAlways, false},
		{"on", ColorAlways, false},
		{"never", ColorNever, false},
		{"off", ColorNever, false},
		{"rainbow", ColorAuto, true},
	}
	for _, tc := range cases {
		got, err := ParseColorMode(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseColorMode(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColorMode(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColorMode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestColorModeString(t *testing.T) {
	cases := map[ColorMode]string{
		ColorAuto:   "auto",
		ColorAlways: "always",
		ColorNever:  "never",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mode, got, want)
		}
	}
}

func TestColorModeEnabled(t *testing.T) {
	var buf bytes.Buffer
	if !ColorAlways.Enabled(&buf) {
		t.Error("ColorAlways should ignore the sink")
	}
	if ColorNever.Enabled(&buf) {
		t.Error("ColorNever should ignore the sink")
	}
	// A plain buffer is not a terminal.
	if ColorAuto.Enabled(&buf) {
		t.Error("ColorAuto should stay off for non-file sinks")
	}
}
