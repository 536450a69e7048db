package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// requiredFeatures are the capability flags every complete engine deployment
// is expected to advertise. Missing flags are informational findings, not
// failures: cut-down deployments legitimately disable subsystems.
var requiredFeatures = []string{
	"chunking",
	"versioning",
	"qa_validation",
	"style_linting",
	"review_workflow",
}

// StatusSuite verifies the engine status endpoint: reachability, health
// indicator, and advertised capability flags.
type StatusSuite struct{}

// NewStatusSuite creates the engine status suite.
func NewStatusSuite() *StatusSuite {
	return &StatusSuite{}
}

// Name returns the suite name.
func (s *StatusSuite) Name() string {
	return "status"
}

// Run executes the status checks.
func (s *StatusSuite) Run(ctx context.Context, client *engine.Client, report *model.CheckReport) error {
	start := time.Now()

	status, err := client.Status(ctx)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "engine_status", "Engine status endpoint reachable", "/api/engine", err))
		// Without a reachable engine every later suite would just repeat
		// the same transport error. The pipeline's continueOnError policy
		// decides whether to keep going; we report the abort.
		return fmt.Errorf("engine unreachable: %w", err)
	}

	report.EngineReachable = true
	report.EngineVersion = status.Version
	report.Features = status.Features

	result := model.CheckResult{
		Suite:    s.Name(),
		Type:     "engine_status",
		Name:     "Engine status endpoint reachable",
		Endpoint: "/api/engine",
		Expected: `status "active"`,
		Actual:   fmt.Sprintf("status %q, version %q", status.Status, status.Version),
		Duration: time.Since(start),
	}
	if status.Status == "active" {
		result.Status = model.StatusPass
	} else {
		result.Status = model.StatusFail
		result.Detail = "engine responded but does not report itself active"
	}
	report.AddResult(result)

	// Feature advertisement
	advertised := make(map[string]bool, len(status.Features))
	for _, f := range status.Features {
		advertised[f] = true
	}

	var missing []string
	for _, f := range requiredFeatures {
		if !advertised[f] {
			missing = append(missing, f)
		}
	}

	featureResult := model.CheckResult{
		Suite:    s.Name(),
		Type:     "engine_features",
		Name:     "Expected feature flags advertised",
		Endpoint: "/api/engine",
		Expected: strings.Join(requiredFeatures, ", "),
		Actual:   strings.Join(status.Features, ", "),
	}
	if len(missing) == 0 {
		featureResult.Status = model.StatusPass
	} else {
		featureResult.Status = model.StatusFail
		featureResult.Detail = "missing feature flags: " + strings.Join(missing, ", ")
	}
	report.AddResult(featureResult)

	return nil
}
