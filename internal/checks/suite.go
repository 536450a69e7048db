package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// Suite defines the interface all verification suites implement.
// A suite groups related checks against one engine subsystem (processing,
// chunking, review, ...). Suites record their outcomes on the report and
// return an error only for failures that should abort the whole run.
type Suite interface {
	// Name returns the suite's name for selection and logging.
	Name() string

	// Run executes the suite's checks against the engine, recording
	// results on the report. Assertion failures are recorded, not
	// returned; the error return is reserved for run-level aborts.
	Run(ctx context.Context, client *engine.Client, report *model.CheckReport) error
}

// Options carries the knobs shared across suites.
type Options struct {
	// JobTimeout bounds waiting for one asynchronous processing job.
	JobTimeout time.Duration
}

// DefaultOptions returns suite options suitable for a local engine.
func DefaultOptions() Options {
	return Options{
		JobTimeout: 5 * time.Minute,
	}
}

// All returns every suite in execution order.
//
// Ordering matters: earlier suites create engine-side artifacts (articles,
// review runs, diagnostics entries) that later suites inspect. A suite whose
// material is missing records skips rather than failing, so running a
// subset via Select stays safe.
func All(opts Options) []Suite {
	return []Suite{
		NewStatusSuite(),
		NewProcessingSuite(opts),
		NewUploadSuite(opts),
		NewChunkingSuite(opts),
		NewStructureSuite(),
		NewQASuite(),
		NewStyleSuite(),
		NewVersioningSuite(opts),
		NewReviewSuite(opts),
		NewTrainingSuite(opts),
	}
}

// Names returns the names of all suites in execution order.
func Names() []string {
	suites := All(DefaultOptions())
	names := make([]string, len(suites))
	for i, s := range suites {
		names[i] = s.Name()
	}
	return names
}

// Select returns the suites matching the given names, preserving execution
// order. An empty selection returns all suites. Unknown names are an error
// so typos fail fast instead of silently skipping coverage.
func Select(names []string, opts Options) ([]Suite, error) {
	all := All(opts)
	if len(names) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(strings.TrimSpace(n))] = true
	}

	var out []Suite
	for _, s := range all {
		if wanted[s.Name()] {
			out = append(out, s)
			delete(wanted, s.Name())
		}
	}

	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for n := range wanted {
			unknown = append(unknown, n)
		}
		return nil, fmt.Errorf("unknown suite(s): %s (available: %s)",
			strings.Join(unknown, ", "), strings.Join(Names(), ", "))
	}

	return out, nil
}

// submissionMetadata builds the metadata attached to every document a suite
// submits, so engine-side artifacts can be traced to this run and suite.
func submissionMetadata(report *model.CheckReport, suite string) map[string]string {
	return map[string]string{
		engine.MetadataRunKey: report.RunID,
		"kescan_suite":        suite,
	}
}

// errorResult builds an error-status result for a check that could not
// complete, classifying the underlying engine error into the detail text.
func errorResult(suite, checkType, name, endpoint string, err error) model.CheckResult {
	return model.CheckResult{
		Suite:    suite,
		Type:     checkType,
		Name:     name,
		Status:   model.StatusError,
		Detail:   err.Error(),
		Endpoint: endpoint,
	}
}

// skipResult builds a skip-status result for a check whose precondition was
// not met.
func skipResult(suite, checkType, name, reason string) model.CheckResult {
	return model.CheckResult{
		Suite:  suite,
		Type:   checkType,
		Name:   name,
		Status: model.StatusSkip,
		Detail: reason,
	}
}
