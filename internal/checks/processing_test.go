package checks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// TestProcessingSuite tests the core ingest checks end to end against a
// simulated engine.
func TestProcessingSuite(t *testing.T) {
	t.Parallel()

	t.Run("happy path passes all checks", func(t *testing.T) {
		t.Parallel()

		client, report := newSuiteHarness(t, newFakeEngine())
		suite := NewProcessingSuite(Options{JobTimeout: time.Second})

		if err := suite.Run(context.Background(), client, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.PassCount != 3 {
			t.Errorf("expected 3 passing checks, got %d (results: %+v)", report.PassCount, report.Results)
		}
		if report.FailCount != 0 || report.ErrorCount != 0 {
			t.Errorf("expected green run, got %d fails %d errors", report.FailCount, report.ErrorCount)
		}
	})

	t.Run("failed job fails completion and skips persistence", func(t *testing.T) {
		t.Parallel()

		fake := newFakeEngine()
		fake.failJobs = true
		client, report := newSuiteHarness(t, fake)
		suite := NewProcessingSuite(Options{JobTimeout: time.Second})

		if err := suite.Run(context.Background(), client, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.FailCount != 1 {
			t.Errorf("expected 1 failure, got %d", report.FailCount)
		}
		if report.SkipCount != 1 {
			t.Errorf("expected 1 skip, got %d", report.SkipCount)
		}

		failures := report.ResultsByStatus(model.StatusFail)
		if len(failures) != 1 || failures[0].Type != "process_complete" {
			t.Errorf("expected process_complete failure, got %+v", failures)
		}
	})

	t.Run("rejected submission skips downstream checks", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad payload", http.StatusBadRequest)
		}))
		defer server.Close()

		client, err := engine.New(server.URL)
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		report := model.NewCheckReport(server.URL)
		suite := NewProcessingSuite(Options{JobTimeout: time.Second})

		if err := suite.Run(context.Background(), client, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.ErrorCount != 1 {
			t.Errorf("expected 1 errored check, got %d", report.ErrorCount)
		}
		if report.SkipCount != 2 {
			t.Errorf("expected 2 skipped checks, got %d", report.SkipCount)
		}
	})
}
