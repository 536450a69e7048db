package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/kescan/kescan/internal/corpus"
	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// ProcessingSuite verifies the core ingest path: a raw-text submission to
// /api/content/process must produce a completed job whose output article
// lands in the content library.
type ProcessingSuite struct {
	// jobTimeout bounds waiting for the processing job.
	jobTimeout time.Duration
}

// NewProcessingSuite creates the content-processing suite.
func NewProcessingSuite(opts Options) *ProcessingSuite {
	return &ProcessingSuite{jobTimeout: opts.JobTimeout}
}

// Name returns the suite name.
func (s *ProcessingSuite) Name() string {
	return "processing"
}

// Run executes the processing checks.
func (s *ProcessingSuite) Run(ctx context.Context, client *engine.Client, report *model.CheckReport) error {
	doc := corpus.SingleTopic()

	// Submit
	start := time.Now()
	resp, err := client.ProcessContent(ctx, &engine.ProcessRequest{
		Content:     doc.Content,
		Filename:    doc.Filename,
		ContentType: "text/markdown",
		Metadata:    submissionMetadata(report, s.Name()),
	})
	if err != nil {
		report.AddResult(errorResult(s.Name(), "process_submit", "Content processing accepts submission", "/api/content/process", err))
		report.AddResult(skipResult(s.Name(), "process_complete", "Processing job completes", "submission was rejected"))
		report.AddResult(skipResult(s.Name(), "article_persisted", "Article appears in content library", "submission was rejected"))
		return nil
	}
	report.AddResult(model.CheckResult{
		Suite:    s.Name(),
		Type:     "process_submit",
		Name:     "Content processing accepts submission",
		Status:   model.StatusPass,
		Endpoint: "/api/content/process",
		Actual:   fmt.Sprintf("job %s created with status %q", resp.JobID, resp.Status),
		Duration: time.Since(start),
	})

	// Wait for completion
	waitStart := time.Now()
	job, err := client.WaitForJob(ctx, resp.JobID, s.jobTimeout)
	completion := model.CheckResult{
		Suite:    s.Name(),
		Type:     "process_complete",
		Name:     "Processing job completes",
		Endpoint: "/api/jobs/" + resp.JobID,
		Expected: `terminal status "completed"`,
		Duration: time.Since(waitStart),
	}
	switch {
	case err == nil:
		completion.Status = model.StatusPass
		completion.Actual = fmt.Sprintf("completed, %d article(s)", len(job.ArticleIDs))
	case job != nil && job.Status == engine.JobFailed:
		completion.Status = model.StatusFail
		completion.Actual = "failed: " + job.ErrorMessage
	default:
		completion.Status = model.StatusError
		completion.Detail = err.Error()
	}
	report.AddResult(completion)

	if completion.Status != model.StatusPass {
		report.AddResult(skipResult(s.Name(), "article_persisted", "Article appears in content library", "processing job did not complete"))
		return nil
	}

	// Output persisted
	articles, err := client.ArticlesByRunID(ctx, report.RunID)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "article_persisted", "Article appears in content library", "/api/content-library", err))
		return nil
	}

	persisted := model.CheckResult{
		Suite:    s.Name(),
		Type:     "article_persisted",
		Name:     "Article appears in content library",
		Endpoint: "/api/content-library",
		Expected: "at least 1 article tagged with this run",
		Actual:   fmt.Sprintf("%d article(s)", len(articles)),
	}
	if len(articles) > 0 {
		persisted.Status = model.StatusPass
	} else {
		persisted.Status = model.StatusFail
		persisted.Detail = "job completed but no article carries this run's correlation id"
	}
	report.AddResult(persisted)

	return nil
}
