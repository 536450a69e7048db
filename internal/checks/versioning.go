package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/kescan/kescan/internal/corpus"
	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// VersioningSuite verifies the versioning engine: submitting the same source
// document twice must produce a version chain, with the second article
// superseding the first rather than duplicating it.
type VersioningSuite struct {
	jobTimeout time.Duration
}

// NewVersioningSuite creates the versioning suite.
func NewVersioningSuite(opts Options) *VersioningSuite {
	return &VersioningSuite{jobTimeout: opts.JobTimeout}
}

// Name returns the suite name.
func (s *VersioningSuite) Name() string {
	return "versioning"
}

// Run executes the versioning checks.
func (s *VersioningSuite) Run(ctx context.Context, client *engine.Client, report *model.CheckReport) error {
	doc := corpus.SingleTopic()
	meta := submissionMetadata(report, s.Name())

	// Same content, same filename, twice. The engine fingerprints sources,
	// so the second submission must land in the first one's version chain.
	var jobs []*engine.Job
	for i := 0; i < 2; i++ {
		resp, err := client.ProcessContent(ctx, &engine.ProcessRequest{
			Content:     doc.Content,
			Filename:    doc.Filename,
			ContentType: "text/markdown",
			Metadata:    meta,
		})
		if err != nil {
			report.AddResult(errorResult(s.Name(), "version_increment", "Resubmitted document increments its version", "/api/content/process", err))
			report.AddResult(skipResult(s.Name(), "version_diagnostics", "Version records exist for run articles", "submission was rejected"))
			report.AddResult(skipResult(s.Name(), "version_rerun", "Versioning recompute request is accepted", "submission was rejected"))
			return nil
		}
		job, err := client.WaitForJob(ctx, resp.JobID, s.jobTimeout)
		if err != nil {
			report.AddResult(errorResult(s.Name(), "version_increment", "Resubmitted document increments its version", "/api/jobs/"+resp.JobID, err))
			report.AddResult(skipResult(s.Name(), "version_diagnostics", "Version records exist for run articles", "processing job did not complete"))
			report.AddResult(skipResult(s.Name(), "version_rerun", "Versioning recompute request is accepted", "processing job did not complete"))
			return nil
		}
		jobs = append(jobs, job)
	}

	articles, err := client.ArticlesByRunID(ctx, report.RunID)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "version_increment", "Resubmitted document increments its version", "/api/content-library", err))
		return nil
	}

	// The second job's article must sit at version 2 of the chain.
	var second *engine.Article
	for i := range articles {
		if articles[i].SourceJobID == jobs[1].JobID {
			second = &articles[i]
			break
		}
	}

	increment := model.CheckResult{
		Suite:    s.Name(),
		Type:     "version_increment",
		Name:     "Resubmitted document increments its version",
		Endpoint: "/api/content-library",
		Expected: "second submission's article at version 2",
	}
	switch {
	case second == nil:
		increment.Status = model.StatusFail
		increment.Actual = "no article linked to the second submission"
		increment.Detail = "resubmission produced no traceable article"
	case second.VersionNumber == 2:
		increment.Status = model.StatusPass
		increment.Actual = fmt.Sprintf("article %s at version %d", second.ID, second.VersionNumber)
	default:
		increment.Status = model.StatusFail
		increment.Actual = fmt.Sprintf("article %s at version %d", second.ID, second.VersionNumber)
		increment.Detail = "identical source did not extend the existing version chain"
	}
	report.AddResult(increment)

	diag, err := client.VersioningDiagnostics(ctx)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "version_diagnostics", "Version records exist for run articles", "/api/versioning/diagnostics", err))
	} else {
		runArticles := make(map[string]bool, len(articles))
		for _, a := range articles {
			if a.Metadata["kescan_suite"] == s.Name() {
				runArticles[a.ID] = true
			}
		}
		recorded := 0
		var superseded bool
		for _, r := range diag.Records {
			if !runArticles[r.ArticleID] {
				continue
			}
			recorded++
			if r.Supersedes != "" {
				superseded = true
			}
		}

		diagResult := model.CheckResult{
			Suite:    s.Name(),
			Type:     "version_diagnostics",
			Name:     "Version records exist for run articles",
			Endpoint: "/api/versioning/diagnostics",
			Expected: "a record per submission, the second superseding the first",
			Actual:   fmt.Sprintf("%d records for %d run articles", recorded, len(runArticles)),
		}
		if recorded >= 2 && superseded {
			diagResult.Status = model.StatusPass
		} else {
			diagResult.Status = model.StatusFail
			diagResult.Detail = "version chain is incomplete in diagnostics"
		}
		report.AddResult(diagResult)
	}

	if second == nil {
		report.AddResult(skipResult(s.Name(), "version_rerun", "Versioning recompute request is accepted", "no article to recompute"))
		return nil
	}

	resp, err := client.VersioningRerun(ctx, second.ID)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "version_rerun", "Versioning recompute request is accepted", "/api/versioning/rerun", err))
		return nil
	}

	rerun := model.CheckResult{
		Suite:    s.Name(),
		Type:     "version_rerun",
		Name:     "Versioning recompute request is accepted",
		Endpoint: "/api/versioning/rerun",
		Expected: "acknowledgement with a job id",
		Actual:   fmt.Sprintf("job %q status %q for article %s", resp.JobID, resp.Status, second.ID),
	}
	if resp.JobID != "" {
		rerun.Status = model.StatusPass
	} else {
		rerun.Status = model.StatusFail
		rerun.Detail = "recompute acknowledgement carried no job id"
	}
	report.AddResult(rerun)

	return nil
}
