package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// StyleSuite verifies the style-linting layer: articles produced earlier in
// the run must have linter results in the diagnostics endpoint, and the
// rerun endpoint must accept a re-lint request for one of them.
type StyleSuite struct{}

// NewStyleSuite creates the style suite.
func NewStyleSuite() *StyleSuite {
	return &StyleSuite{}
}

// Name returns the suite name.
func (s *StyleSuite) Name() string {
	return "style"
}

// Run executes the style checks.
func (s *StyleSuite) Run(ctx context.Context, client *engine.Client, report *model.CheckReport) error {
	articles, err := client.ArticlesByRunID(ctx, report.RunID)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "style_diagnostics", "Run articles have style-linter results", "/api/content-library", err))
		report.AddResult(skipResult(s.Name(), "style_rerun", "Re-lint request is accepted for a run article", "run articles could not be listed"))
		return nil
	}
	if len(articles) == 0 {
		report.AddResult(skipResult(s.Name(), "style_diagnostics", "Run articles have style-linter results", "no articles from this run"))
		report.AddResult(skipResult(s.Name(), "style_rerun", "Re-lint request is accepted for a run article", "no articles from this run"))
		return nil
	}

	diag, err := client.StyleDiagnostics(ctx)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "style_diagnostics", "Run articles have style-linter results", "/api/style/diagnostics", err))
		report.AddResult(skipResult(s.Name(), "style_rerun", "Re-lint request is accepted for a run article", "diagnostics unavailable"))
		return nil
	}

	linted := make(map[string]bool, len(diag.Results))
	for _, r := range diag.Results {
		linted[r.ArticleID] = true
	}

	var unlinted []string
	for _, a := range articles {
		if !linted[a.ID] {
			unlinted = append(unlinted, a.ID)
		}
	}

	diagResult := model.CheckResult{
		Suite:    s.Name(),
		Type:     "style_diagnostics",
		Name:     "Run articles have style-linter results",
		Endpoint: "/api/style/diagnostics",
		Expected: fmt.Sprintf("linter result for all %d run articles", len(articles)),
		Actual:   fmt.Sprintf("%d of %d articles linted", len(articles)-len(unlinted), len(articles)),
	}
	if len(unlinted) == 0 {
		diagResult.Status = model.StatusPass
	} else {
		diagResult.Status = model.StatusFail
		diagResult.Detail = "articles without linter results: " + strings.Join(unlinted, ", ")
	}
	report.AddResult(diagResult)

	target := articles[0].ID
	resp, err := client.StyleRerun(ctx, target)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "style_rerun", "Re-lint request is accepted for a run article", "/api/style/rerun", err))
		return nil
	}

	rerunResult := model.CheckResult{
		Suite:    s.Name(),
		Type:     "style_rerun",
		Name:     "Re-lint request is accepted for a run article",
		Endpoint: "/api/style/rerun",
		Expected: "acknowledgement with a job id",
		Actual:   fmt.Sprintf("job %q status %q for article %s", resp.JobID, resp.Status, target),
	}
	if resp.JobID != "" {
		rerunResult.Status = model.StatusPass
	} else {
		rerunResult.Status = model.StatusFail
		rerunResult.Detail = "rerun acknowledgement carried no job id"
	}
	report.AddResult(rerunResult)

	return nil
}
