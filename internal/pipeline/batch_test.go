package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kescan/kescan/internal/model"
)

// okFactory builds a pipeline with one no-op step for every target.
func okFactory(_ string) (*Pipeline, error) {
	p := New(WithLogger(quietLogger()))
	p.AddStep(&mockStep{name: "noop"})
	return p, nil
}

// TestProcessBatch tests concurrent multi-target verification.
func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("returns a report per target, index aligned", func(t *testing.T) {
		t.Parallel()

		targets := []string{
			"http://a:8001",
			"http://b:8001",
			"http://c:8001",
		}

		bp := NewBatchProcessor(okFactory, WithBatchLogger(quietLogger()))
		reports, err := bp.ProcessBatch(context.Background(), targets)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(reports) != len(targets) {
			t.Fatalf("expected %d reports, got %d", len(targets), len(reports))
		}
		for i, target := range targets {
			if reports[i] == nil {
				t.Fatalf("missing report for target %d", i)
			}
			if reports[i].Target != target {
				t.Errorf("report %d has target %q, want %q", i, reports[i].Target, target)
			}
		}
	})

	t.Run("factory error is stored on the report", func(t *testing.T) {
		t.Parallel()

		factoryErr := errors.New("invalid target URL")
		factory := func(target string) (*Pipeline, error) {
			if target == "http://bad" {
				return nil, factoryErr
			}
			return okFactory(target)
		}

		bp := NewBatchProcessor(factory, WithBatchLogger(quietLogger()))
		reports, err := bp.ProcessBatch(context.Background(), []string{"http://ok:8001", "http://bad"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if reports[0].Error != nil {
			t.Errorf("expected first report clean, got %v", reports[0].Error)
		}
		if !errors.Is(reports[1].Error, factoryErr) {
			t.Errorf("expected factory error on second report, got %v", reports[1].Error)
		}
	})

	t.Run("a failing target does not abort the batch", func(t *testing.T) {
		t.Parallel()

		factory := func(target string) (*Pipeline, error) {
			p := New(WithLogger(quietLogger()))
			if target == "http://failing:8001" {
				p.AddStep(&mockStep{name: "broken", err: errors.New("engine unreachable")})
			} else {
				p.AddStep(&mockStep{name: "noop"})
			}
			return p, nil
		}

		bp := NewBatchProcessor(factory, WithBatchLogger(quietLogger()))
		reports, err := bp.ProcessBatch(context.Background(),
			[]string{"http://failing:8001", "http://ok:8001"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if reports[0].Error == nil {
			t.Error("expected error on failing target's report")
		}
		if reports[1].Error != nil {
			t.Errorf("expected clean report for second target, got %v", reports[1].Error)
		}
	})

	t.Run("empty target list yields empty results", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(okFactory, WithBatchLogger(quietLogger()))
		reports, err := bp.ProcessBatch(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reports) != 0 {
			t.Errorf("expected no reports, got %d", len(reports))
		}
	})
}

// TestProcessBatchWithCallback tests streaming result delivery.
func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	targets := []string{"http://a:8001", "http://b:8001"}

	var mu sync.Mutex
	seen := make(map[int]string)

	bp := NewBatchProcessor(okFactory, WithBatchLogger(quietLogger()), WithConcurrency(2))
	err := bp.ProcessBatchWithCallback(context.Background(), targets,
		func(report *model.CheckReport, index int) {
			mu.Lock()
			seen[index] = report.Target
			mu.Unlock()
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("expected 2 callbacks, got %d", len(seen))
	}
	for i, target := range targets {
		if seen[i] != target {
			t.Errorf("callback %d got target %q, want %q", i, seen[i], target)
		}
	}
}

// TestWithConcurrency tests the concurrency option guard.
func TestWithConcurrency(t *testing.T) {
	t.Parallel()

	t.Run("positive value is applied", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(okFactory, WithConcurrency(8), WithBatchLogger(quietLogger()))
		if bp.concurrency != 8 {
			t.Errorf("expected concurrency 8, got %d", bp.concurrency)
		}
	})

	t.Run("non-positive value keeps the default", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(okFactory, WithConcurrency(0), WithBatchLogger(quietLogger()))
		if bp.concurrency != 4 {
			t.Errorf("expected default concurrency 4, got %d", bp.concurrency)
		}
	})
}
