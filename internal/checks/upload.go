package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/kescan/kescan/internal/corpus"
	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// UploadSuite verifies the multipart file ingest path: an uploaded source
// file must produce a completed job and register the source in the asset
// store.
type UploadSuite struct {
	jobTimeout time.Duration
}

// NewUploadSuite creates the file-upload suite.
func NewUploadSuite(opts Options) *UploadSuite {
	return &UploadSuite{jobTimeout: opts.JobTimeout}
}

// Name returns the suite name.
func (s *UploadSuite) Name() string {
	return "upload"
}

// Run executes the upload checks.
func (s *UploadSuite) Run(ctx context.Context, client *engine.Client, report *model.CheckReport) error {
	doc := corpus.SingleTopic()
	// Distinct filename per run so the asset lookup cannot match a file
	// left behind by an earlier run.
	filename := fmt.Sprintf("kescan-upload-%s.md", report.RunID[:8])

	start := time.Now()
	resp, err := client.Upload(ctx, filename, []byte(doc.Content), submissionMetadata(report, s.Name()))
	if err != nil {
		report.AddResult(errorResult(s.Name(), "upload_submit", "Upload endpoint accepts multipart file", "/api/content/upload", err))
		report.AddResult(skipResult(s.Name(), "upload_complete", "Upload job completes", "upload was rejected"))
		report.AddResult(skipResult(s.Name(), "asset_registered", "Source file registered as asset", "upload was rejected"))
		return nil
	}
	report.AddResult(model.CheckResult{
		Suite:    s.Name(),
		Type:     "upload_submit",
		Name:     "Upload endpoint accepts multipart file",
		Status:   model.StatusPass,
		Endpoint: "/api/content/upload",
		Actual:   fmt.Sprintf("job %s created", resp.JobID),
		Duration: time.Since(start),
	})

	waitStart := time.Now()
	job, err := client.WaitForJob(ctx, resp.JobID, s.jobTimeout)
	completion := model.CheckResult{
		Suite:    s.Name(),
		Type:     "upload_complete",
		Name:     "Upload job completes",
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

	// Asset registration is checked even if the job failed: the upload
	// handler stores the source before processing begins.
	assets, err := client.Assets(ctx, filename)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "asset_registered", "Source file registered as asset", "/api/assets", err))
		return nil
	}

	registered := model.CheckResult{
		Suite:    s.Name(),
		Type:     "asset_registered",
		Name:     "Source file registered as asset",
		Endpoint: "/api/assets",
		Expected: fmt.Sprintf("asset with filename %q", filename),
		Actual:   fmt.Sprintf("%d matching asset(s)", len(assets.Assets)),
	}
	found := false
	for _, a := range assets.Assets {
		if a.Filename == filename {
			found = true
			break
		}
	}
	if found {
		registered.Status = model.StatusPass
	} else {
		registered.Status = model.StatusFail
		registered.Detail = "uploaded file is not listed in the asset registry"
	}
	report.AddResult(registered)

	return nil
}
