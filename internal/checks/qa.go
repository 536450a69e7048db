package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// QASuite verifies the quality-assurance validation layer: every processing
// job from this run must have a QA report, failed reports must explain
// themselves with flags, and flagged articles must surface badges.
type QASuite struct{}

// NewQASuite creates the QA suite.
func NewQASuite() *QASuite {
	return &QASuite{}
}

// Name returns the suite name.
func (s *QASuite) Name() string {
	return "qa"
}

// Run executes the QA checks.
func (s *QASuite) Run(ctx context.Context, client *engine.Client, report *model.CheckReport) error {
	articles, err := client.ArticlesByRunID(ctx, report.RunID)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "qa_report_present", "Every processing job has a QA report", "/api/content-library", err))
		report.AddResult(skipResult(s.Name(), "qa_flags", "Failed QA reports carry explanatory flags", "run articles could not be listed"))
		report.AddResult(skipResult(s.Name(), "qa_badges", "QA-flagged articles carry badges", "run articles could not be listed"))
		return nil
	}
	if len(articles) == 0 {
		report.AddResult(skipResult(s.Name(), "qa_report_present", "Every processing job has a QA report", "no articles from this run"))
		report.AddResult(skipResult(s.Name(), "qa_flags", "Failed QA reports carry explanatory flags", "no articles from this run"))
		report.AddResult(skipResult(s.Name(), "qa_badges", "QA-flagged articles carry badges", "no articles from this run"))
		return nil
	}

	runJobs := make(map[string]bool)
	for _, a := range articles {
		if a.SourceJobID != "" {
			runJobs[a.SourceJobID] = true
		}
	}

	diag, err := client.QADiagnostics(ctx)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "qa_report_present", "Every processing job has a QA report", "/api/qa/diagnostics", err))
		report.AddResult(skipResult(s.Name(), "qa_flags", "Failed QA reports carry explanatory flags", "diagnostics unavailable"))
		report.AddResult(skipResult(s.Name(), "qa_badges", "QA-flagged articles carry badges", "diagnostics unavailable"))
		return nil
	}

	var runReports []engine.QAReport
	covered := make(map[string]bool)
	for _, r := range diag.Reports {
		if runJobs[r.JobID] {
			runReports = append(runReports, r)
			covered[r.JobID] = true
		}
	}

	var missing []string
	for jobID := range runJobs {
		if !covered[jobID] {
			missing = append(missing, jobID)
		}
	}

	presence := model.CheckResult{
		Suite:    s.Name(),
		Type:     "qa_report_present",
		Name:     "Every processing job has a QA report",
		Endpoint: "/api/qa/diagnostics",
		Expected: fmt.Sprintf("QA report for all %d jobs from this run", len(runJobs)),
		Actual:   fmt.Sprintf("%d of %d jobs covered", len(covered), len(runJobs)),
	}
	if len(missing) == 0 {
		presence.Status = model.StatusPass
	} else {
		presence.Status = model.StatusFail
		presence.Detail = "jobs without QA reports: " + strings.Join(missing, ", ")
	}
	report.AddResult(presence)

	if len(runReports) == 0 {
		report.AddResult(skipResult(s.Name(), "qa_flags", "Failed QA reports carry explanatory flags", "no QA reports for this run"))
		report.AddResult(skipResult(s.Name(), "qa_badges", "QA-flagged articles carry badges", "no QA reports for this run"))
		return nil
	}

	// A report that failed validation with no flags gives an operator
	// nothing to act on.
	var silent []string
	flaggedArticles := make(map[string]bool)
	for _, r := range runReports {
		if !r.Passed && len(r.Flags) == 0 {
			silent = append(silent, r.ID)
		}
		for _, f := range r.Flags {
			if f.ArticleID != "" {
				flaggedArticles[f.ArticleID] = true
			}
		}
	}

	flags := model.CheckResult{
		Suite:    s.Name(),
		Type:     "qa_flags",
		Name:     "Failed QA reports carry explanatory flags",
		Endpoint: "/api/qa/diagnostics",
		Expected: "every non-passing QA report lists at least one flag",
	}
	if len(silent) == 0 {
		flags.Status = model.StatusPass
		flags.Actual = fmt.Sprintf("%d reports inspected, all explained", len(runReports))
	} else {
		flags.Status = model.StatusFail
		flags.Actual = fmt.Sprintf("%d reports failed without flags", len(silent))
		flags.Detail = "unexplained QA failures: " + strings.Join(silent, ", ")
	}
	report.AddResult(flags)

	if len(flaggedArticles) == 0 {
		report.AddResult(skipResult(s.Name(), "qa_badges", "QA-flagged articles carry badges", "no articles were flagged by QA"))
		return nil
	}

	var unbadged []string
	for _, a := range articles {
		if flaggedArticles[a.ID] && len(a.Badges) == 0 {
			unbadged = append(unbadged, a.ID)
		}
	}

	badges := model.CheckResult{
		Suite:    s.Name(),
		Type:     "qa_badges",
		Name:     "QA-flagged articles carry badges",
		Endpoint: "/api/content-library",
		Expected: fmt.Sprintf("badges on all %d flagged articles", len(flaggedArticles)),
	}
	if len(unbadged) == 0 {
		badges.Status = model.StatusPass
		badges.Actual = "all flagged articles badged"
	} else {
		badges.Status = model.StatusFail
		badges.Actual = fmt.Sprintf("%d flagged articles without badges", len(unbadged))
		badges.Detail = "unbadged articles: " + strings.Join(unbadged, ", ")
	}
	report.AddResult(badges)

	return nil
}
