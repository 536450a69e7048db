package pipeline

import (
	"context"
	"testing"

	"github.com/kescan/kescan/internal/checks"
	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// recordingSuite is a minimal check suite that records one passing result.
type recordingSuite struct {
	name string
	ran  bool
}

func (s *recordingSuite) Name() string {
	return s.name
}

func (s *recordingSuite) Run(_ context.Context, _ *engine.Client, report *model.CheckReport) error {
	s.ran = true
	report.AddResult(model.CheckResult{
		Suite:  s.name,
		Type:   "engine_status",
		Name:   "synthetic check",
		Status: model.StatusPass,
	})
	return nil
}

// TestSuiteStep tests the suite-to-step adapter.
func TestSuiteStep(t *testing.T) {
	t.Parallel()

	client, err := engine.New("http://engine.internal:8001")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	suite := &recordingSuite{name: "status"}
	step := NewSuiteStep(suite, client, WithSuiteLogger(quietLogger()))

	if step.Name() != "status" {
		t.Errorf("expected step name status, got %q", step.Name())
	}

	report := model.NewCheckReport("http://engine.internal:8001")
	if err := step.Do(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !suite.ran {
		t.Error("expected wrapped suite to run")
	}
	if report.TotalChecks() != 1 {
		t.Errorf("expected 1 recorded check, got %d", report.TotalChecks())
	}
}

// TestDefaultPipeline tests the standard pipeline assembly.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	client, err := engine.New("http://engine.internal:8001")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	suites := []checks.Suite{
		&recordingSuite{name: "status"},
		&recordingSuite{name: "processing"},
	}

	p := DefaultPipeline(client, suites, WithLogger(quietLogger()), WithContinueOnError(true))

	if p.StepCount() != 2 {
		t.Fatalf("expected 2 steps, got %d", p.StepCount())
	}

	names := p.StepNames()
	if names[0] != "status" || names[1] != "processing" {
		t.Errorf("unexpected step names %v", names)
	}

	report := model.NewCheckReport("http://engine.internal:8001")
	if err := p.Execute(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalChecks() != 2 {
		t.Errorf("expected 2 recorded checks, got %d", report.TotalChecks())
	}
}
