package model

import "testing"

// TestStatusString tests the String method of Status.
func TestStatusString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status Status
		want   string
	}{
		{"pass", StatusPass, "PASS"},
		{"fail", StatusFail, "FAIL"},
		{"skip", StatusSkip, "SKIP"},
		{"error", StatusError, "ERROR"},
		{"unknown", Status(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.status.String(); got != tt.want {
				t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

// TestStatusIsTerminalFailure verifies which statuses count against a run.
func TestStatusIsTerminalFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"pass is not a failure", StatusPass, false},
		{"skip is not a failure", StatusSkip, false},
		{"fail is a failure", StatusFail, true},
		{"error is a failure", StatusError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsTerminalFailure(); got != tt.want {
				t.Errorf("Status(%d).IsTerminalFailure() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
