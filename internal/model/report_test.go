package model

import (
	"errors"
	"testing"
	"time"
)

// TestNewCheckReport tests report construction.
func TestNewCheckReport(t *testing.T) {
	t.Parallel()

	report := NewCheckReport("http://engine.internal:8001")

	t.Run("target is set", func(t *testing.T) {
		t.Parallel()
		if report.Target != "http://engine.internal:8001" {
			t.Errorf("unexpected target %q", report.Target)
		}
	})

	t.Run("run id is generated", func(t *testing.T) {
		t.Parallel()
		if report.RunID == "" {
			t.Error("expected non-empty run id")
		}
	})

	t.Run("run ids are unique", func(t *testing.T) {
		t.Parallel()
		other := NewCheckReport("http://engine.internal:8001")
		if other.RunID == report.RunID {
			t.Error("expected distinct run ids for distinct reports")
		}
	})

	t.Run("date checked is recent", func(t *testing.T) {
		t.Parallel()
		if time.Since(report.DateChecked) > time.Minute {
			t.Errorf("unexpected date checked %v", report.DateChecked)
		}
	})

	t.Run("counters start at zero", func(t *testing.T) {
		t.Parallel()
		if report.PassCount != 0 || report.FailCount != 0 || report.SkipCount != 0 || report.ErrorCount != 0 {
			t.Error("expected zeroed counters on a new report")
		}
	})
}

// TestAddResult tests that AddResult fills grading metadata and updates counters.
func TestAddResult(t *testing.T) {
	t.Parallel()

	t.Run("pass increments pass count", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.AddResult(CheckResult{
			Suite:  "status",
			Type:   "engine_status",
			Name:   "engine reachable",
			Status: StatusPass,
		})

		if report.PassCount != 1 {
			t.Errorf("expected pass count 1, got %d", report.PassCount)
		}
		if report.TotalChecks() != 1 {
			t.Errorf("expected 1 result, got %d", report.TotalChecks())
		}
	})

	t.Run("fail increments fail count and attaches impact", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.AddResult(CheckResult{
			Suite:  "chunking",
			Type:   "chunk_count",
			Name:   "articles per topic",
			Status: StatusFail,
		})

		if report.FailCount != 1 {
			t.Errorf("expected fail count 1, got %d", report.FailCount)
		}

		res := report.Results[0]
		if res.Impact == "" {
			t.Error("expected impact to be attached to a failed result")
		}
		if res.Recommendation == "" {
			t.Error("expected recommendation to be attached to a failed result")
		}
		if res.Severity != SeverityHigh {
			t.Errorf("expected SeverityHigh, got %v", res.Severity)
		}
	})

	t.Run("pass does not attach impact", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.AddResult(CheckResult{
			Suite:  "chunking",
			Type:   "chunk_count",
			Name:   "articles per topic",
			Status: StatusPass,
		})

		if report.Results[0].Impact != "" {
			t.Error("expected no impact on a passing result")
		}
	})

	t.Run("status and severity text are filled", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.AddResult(CheckResult{
			Suite:  "status",
			Type:   "engine_status",
			Status: StatusError,
		})

		res := report.Results[0]
		if res.StatusText != "ERROR" {
			t.Errorf("expected status text ERROR, got %q", res.StatusText)
		}
		if res.SeverityText != "CRITICAL" {
			t.Errorf("expected severity text CRITICAL, got %q", res.SeverityText)
		}
	})

	t.Run("skip and error update their counters", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.AddResult(CheckResult{Suite: "qa", Type: "qa_flags", Status: StatusSkip})
		report.AddResult(CheckResult{Suite: "qa", Type: "qa_badges", Status: StatusError})

		if report.SkipCount != 1 {
			t.Errorf("expected skip count 1, got %d", report.SkipCount)
		}
		if report.ErrorCount != 1 {
			t.Errorf("expected error count 1, got %d", report.ErrorCount)
		}
	})
}

// TestReportPassed tests the run-level pass condition.
func TestReportPassed(t *testing.T) {
	t.Parallel()

	t.Run("empty report passes", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		if !report.Passed() {
			t.Error("expected a report with no results to pass")
		}
	})

	t.Run("passes and skips keep the run green", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.AddResult(CheckResult{Suite: "status", Type: "engine_status", Status: StatusPass})
		report.AddResult(CheckResult{Suite: "qa", Type: "qa_flags", Status: StatusSkip})

		if !report.Passed() {
			t.Error("expected report with only passes and skips to pass")
		}
	})

	t.Run("a failure makes the run red", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.AddResult(CheckResult{Suite: "chunking", Type: "chunk_count", Status: StatusFail})

		if report.Passed() {
			t.Error("expected report with a failure not to pass")
		}
	})

	t.Run("an error makes the run red", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.AddResult(CheckResult{Suite: "status", Type: "engine_status", Status: StatusError})

		if report.Passed() {
			t.Error("expected report with an error not to pass")
		}
	})

	t.Run("a run-level error makes the run red", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.Error = errors.New("connection refused")

		if report.Passed() {
			t.Error("expected report with a run-level error not to pass")
		}
	})

	t.Run("a timeout makes the run red", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.TimedOut = true

		if report.Passed() {
			t.Error("expected timed out report not to pass")
		}
	})
}

// TestResultsByStatus tests filtering results by status.
func TestResultsByStatus(t *testing.T) {
	t.Parallel()

	report := NewCheckReport("http://engine:8001")
	report.AddResult(CheckResult{Suite: "status", Type: "engine_status", Status: StatusPass})
	report.AddResult(CheckResult{Suite: "chunking", Type: "chunk_count", Status: StatusFail})
	report.AddResult(CheckResult{Suite: "chunking", Type: "chunk_headings", Status: StatusFail})
	report.AddResult(CheckResult{Suite: "qa", Type: "qa_flags", Status: StatusSkip})

	if got := len(report.ResultsByStatus(StatusPass)); got != 1 {
		t.Errorf("expected 1 passing result, got %d", got)
	}
	if got := len(report.ResultsByStatus(StatusFail)); got != 2 {
		t.Errorf("expected 2 failed results, got %d", got)
	}
	if got := len(report.ResultsByStatus(StatusError)); got != 0 {
		t.Errorf("expected 0 errored results, got %d", got)
	}
}

// TestResultsBySuite tests filtering results by suite.
func TestResultsBySuite(t *testing.T) {
	t.Parallel()

	report := NewCheckReport("http://engine:8001")
	report.AddResult(CheckResult{Suite: "status", Type: "engine_status", Status: StatusPass})
	report.AddResult(CheckResult{Suite: "chunking", Type: "chunk_count", Status: StatusPass})
	report.AddResult(CheckResult{Suite: "chunking", Type: "chunk_headings", Status: StatusPass})

	if got := len(report.ResultsBySuite("chunking")); got != 2 {
		t.Errorf("expected 2 chunking results, got %d", got)
	}
	if got := len(report.ResultsBySuite("review")); got != 0 {
		t.Errorf("expected 0 review results, got %d", got)
	}
}

// TestSuiteNames tests the distinct suite listing.
func TestSuiteNames(t *testing.T) {
	t.Parallel()

	report := NewCheckReport("http://engine:8001")
	report.AddResult(CheckResult{Suite: "status", Type: "engine_status", Status: StatusPass})
	report.AddResult(CheckResult{Suite: "chunking", Type: "chunk_count", Status: StatusPass})
	report.AddResult(CheckResult{Suite: "chunking", Type: "chunk_headings", Status: StatusPass})
	report.AddResult(CheckResult{Suite: "qa", Type: "qa_flags", Status: StatusSkip})

	names := report.SuiteNames()
	want := []string{"status", "chunking", "qa"}
	if len(names) != len(want) {
		t.Fatalf("expected %d suite names, got %d (%v)", len(want), len(names), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("expected suite %q at position %d, got %q", name, i, names[i])
		}
	}
}

// TestHighestSeverityFailure tests severity escalation across results.
func TestHighestSeverityFailure(t *testing.T) {
	t.Parallel()

	t.Run("green run has no failure severity", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.AddResult(CheckResult{Suite: "status", Type: "engine_status", Status: StatusPass})

		if _, found := report.HighestSeverityFailure(); found {
			t.Error("expected no failure severity on a green run")
		}
	})

	t.Run("returns highest among mixed failures", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.AddResult(CheckResult{Suite: "structure", Type: "figure_caption", Status: StatusFail})
		report.AddResult(CheckResult{Suite: "chunking", Type: "chunk_count", Status: StatusFail})
		report.AddResult(CheckResult{Suite: "structure", Type: "toc_anchors", Status: StatusFail})

		severity, found := report.HighestSeverityFailure()
		if !found {
			t.Fatal("expected a failure severity")
		}
		if severity != SeverityHigh {
			t.Errorf("expected SeverityHigh, got %v", severity)
		}
	})

	t.Run("errors count toward failure severity", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.AddResult(CheckResult{Suite: "status", Type: "engine_status", Status: StatusError})

		severity, found := report.HighestSeverityFailure()
		if !found {
			t.Fatal("expected a failure severity")
		}
		if severity != SeverityCritical {
			t.Errorf("expected SeverityCritical, got %v", severity)
		}
	})

	t.Run("skips do not count toward failure severity", func(t *testing.T) {
		t.Parallel()

		report := NewCheckReport("http://engine:8001")
		report.AddResult(CheckResult{Suite: "qa", Type: "qa_flags", Status: StatusSkip})

		if _, found := report.HighestSeverityFailure(); found {
			t.Error("expected skips to be ignored")
		}
	})
}
