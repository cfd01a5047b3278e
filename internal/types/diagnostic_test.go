package types

import "testing"

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Severity: SeverityWarning, Code: DiagZeroPinCell, Message: "cell C3 has no pins"}
	want := "[warning] zero-pin-cell: cell C3 has no pins"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDiagnosticConfigShouldReport(t *testing.T) {
	cfg := DiagnosticConfig{Disabled: []string{DiagUnusedMasterCell}}

	if cfg.ShouldReport(DiagUnusedMasterCell) {
		t.Error("expected disabled code to be suppressed")
	}
	if !cfg.ShouldReport(DiagZeroPinCell) {
		t.Error("expected non-disabled code to be reported")
	}
}

func TestDiagnosticConfigShouldFail(t *testing.T) {
	tests := []struct {
		name string
		cfg  DiagnosticConfig
		sev  Severity
		want bool
	}{
		{"zero FailAt never fails", DiagnosticConfig{}, SeverityError, false},
		{"below threshold passes", DiagnosticConfig{FailAt: SeverityError}, SeverityWarning, false},
		{"at threshold fails", DiagnosticConfig{FailAt: SeverityError}, SeverityError, true},
		{"above threshold fails", DiagnosticConfig{FailAt: SeverityWarning}, SeverityError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ShouldFail(tt.sev); got != tt.want {
				t.Errorf("ShouldFail(%v) = %v, want %v", tt.sev, got, tt.want)
			}
		})
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}
