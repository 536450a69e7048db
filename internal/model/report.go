package model

import (
	"time"

	"github.com/google/uuid"
)

// CheckReport is the main verification result structure.
// It accumulates the outcome of every check executed against one
// Knowledge Engine target during a single run.
//
// Design decision: We use a single struct holding a flat result list rather
// than per-suite sub-structs to simplify serialization, database storage,
// and run-to-run comparison.
type CheckReport struct {
	// Target is the engine base URL this run verified.
	Target string `json:"target"`

	// RunID uniquely identifies this verification run. It is also attached
	// to submitted documents so engine-side artifacts can be traced back.
	RunID string `json:"run_id"`

	// DateChecked is the timestamp when the run started.
	DateChecked time.Time `json:"date_checked"`

	// EngineReachable is true if the engine status endpoint responded.
	EngineReachable bool `json:"engine_reachable"`

	// EngineVersion is the version string reported by the status endpoint.
	EngineVersion string `json:"engine_version,omitempty"`

	// Features lists the feature flags advertised by the engine.
	Features []string `json:"features,omitempty"`

	// Results contains every individual check outcome in execution order.
	Results []CheckResult `json:"results,omitempty"`

	// === Status Summary ===

	// PassCount is the number of passing checks.
	PassCount int `json:"pass_count"`

	// FailCount is the number of failed assertions.
	FailCount int `json:"fail_count"`

	// SkipCount is the number of checks skipped due to unmet preconditions.
	SkipCount int `json:"skip_count"`

	// ErrorCount is the number of checks that could not complete.
	ErrorCount int `json:"error_count"`

	// === Run State ===

	// PerformedSuites lists the suites that were actually executed.
	PerformedSuites []string `json:"performed_suites,omitempty"`

	// TimedOut is true if the run was terminated due to timeout.
	TimedOut bool `json:"timed_out"`

	// Error contains any error that aborted the run.
	// Only set if the run failed before all suites could execute.
	Error error `json:"-"` // Excluded from JSON

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// CheckResult represents a single check outcome.
type CheckResult struct {
	// Suite is the name of the suite that produced this result.
	Suite string `json:"suite"`

	// Type is the check type identifier.
	// This maps to the checkInfoMapping in severity.go.
	Type string `json:"type"`

	// Name is a short human-readable description of what was checked.
	Name string `json:"name"`

	// Status is the check outcome.
	Status Status `json:"status"`

	// StatusText is the human-readable status.
	StatusText string `json:"status_text"`

	// Severity grades how serious a non-pass outcome is.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Detail explains the observed behavior.
	Detail string `json:"detail,omitempty"`

	// Expected describes the asserted condition.
	Expected string `json:"expected,omitempty"`

	// Actual describes what the engine actually returned.
	Actual string `json:"actual,omitempty"`

	// Impact explains why a non-pass outcome matters.
	Impact string `json:"impact,omitempty"`

	// Recommendation provides guidance on how to address a non-pass outcome.
	Recommendation string `json:"recommendation,omitempty"`

	// Endpoint is the API path the check exercised.
	Endpoint string `json:"endpoint,omitempty"`

	// Duration is how long the check took, including job polling.
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// NewCheckReport creates a new report for the given engine target.
func NewCheckReport(target string) *CheckReport {
	return &CheckReport{
		Target:      target,
		RunID:       uuid.NewString(),
		DateChecked: time.Now(),
	}
}

// AddResult appends a check result, fills in grading metadata from the
// check type, and updates the status counters.
func (r *CheckReport) AddResult(result CheckResult) {
	info := GetCheckInfo(result.Type)
	result.Severity = info.Severity
	result.SeverityText = info.Severity.String()
	result.StatusText = result.Status.String()

	// Impact and recommendation only matter for non-pass outcomes;
	// attaching them to passes would bloat stored reports.
	if result.Status == StatusFail || result.Status == StatusError {
		result.Impact = info.Impact
		result.Recommendation = info.Recommendation
	}

	r.Results = append(r.Results, result)

	switch result.Status {
	case StatusPass:
		r.PassCount++
	case StatusFail:
		r.FailCount++
	case StatusSkip:
		r.SkipCount++
	case StatusError:
		r.ErrorCount++
	}
}

// TotalChecks returns the total number of recorded check results.
func (r *CheckReport) TotalChecks() int {
	return len(r.Results)
}

// Passed reports whether the run is green: no failures, no errors,
// and no run-level error.
func (r *CheckReport) Passed() bool {
	return r.FailCount == 0 && r.ErrorCount == 0 && r.Error == nil && !r.TimedOut
}

// ResultsByStatus returns results filtered by status.
func (r *CheckReport) ResultsByStatus(status Status) []CheckResult {
	var out []CheckResult
	for _, res := range r.Results {
		if res.Status == status {
			out = append(out, res)
		}
	}
	return out
}

// ResultsBySuite returns results filtered by suite name.
func (r *CheckReport) ResultsBySuite(suite string) []CheckResult {
	var out []CheckResult
	for _, res := range r.Results {
		if res.Suite == suite {
			out = append(out, res)
		}
	}
	return out
}

// SuiteNames returns the distinct suite names in result order.
func (r *CheckReport) SuiteNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, res := range r.Results {
		if !seen[res.Suite] {
			seen[res.Suite] = true
			names = append(names, res.Suite)
		}
	}
	return names
}

// HighestSeverityFailure returns the most severe status among failed and
// errored checks. Returns SeverityInfo and false when the run is green.
func (r *CheckReport) HighestSeverityFailure() (Severity, bool) {
	highest := SeverityInfo
	found := false
	for _, res := range r.Results {
		if !res.Status.IsTerminalFailure() {
			continue
		}
		found = true
		if res.Severity > highest {
			highest = res.Severity
		}
	}
	return highest, found
}
