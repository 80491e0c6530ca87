package diag

import "testing"

func TestSeverityOrdering(t *testing.T) {
	ordered := []Severity{SevDebug, SevInfo, SevWarning, SevError, SevFatal}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1] >= ordered[i] {
			t.Errorf("expected %s < %s", ordered[i-1], ordered[i])
		}
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SevDebug, "DEBUG"},
		{SevInfo, "INFO"},
		{SevWarning, "WARNING"},
		{SevError, "ERROR"},
		{SevFatal, "FATAL"},
		{Severity(200), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    Severity
		wantErr bool
	}{
		{"debug", SevDebug, false},
		{"INFO", SevInfo, false},
		{"Warning", SevWarning, false},
		{"warn", SevWarning, false},
		{" error ", SevError, false},
		{"FATAL", SevFatal, false},
		{"verbose", SevInfo, true},
		{"", SevInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSeverity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
