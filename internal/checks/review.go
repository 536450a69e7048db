package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/kescan/kescan/internal/corpus"
	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// ReviewSuite exercises the human-review workflow end to end: processed
// documents must enter the review queue, approve and reject decisions must
// stick, a rejected run must be requeueable, and extracted media must be
// retrievable per run.
type ReviewSuite struct {
	jobTimeout time.Duration
}

// NewReviewSuite creates the review suite.
func NewReviewSuite(opts Options) *ReviewSuite {
	return &ReviewSuite{jobTimeout: opts.JobTimeout}
}

// Name returns the suite name.
func (s *ReviewSuite) Name() string {
	return "review"
}

// Run executes the review workflow checks.
func (s *ReviewSuite) Run(ctx context.Context, client *engine.Client, report *model.CheckReport) error {
	// Two submissions: one to approve, one to reject and requeue. Figures
	// in the document feed the media check.
	approveRun, ok := s.submitForReview(ctx, client, report, "review_run_created", "Processed document enters the review queue")
	if !ok {
		report.AddResult(skipResult(s.Name(), "review_approve", "Approve decision is recorded", "no review run to decide on"))
		report.AddResult(skipResult(s.Name(), "review_reject", "Reject decision is recorded", "no review run to decide on"))
		report.AddResult(skipResult(s.Name(), "review_rerun", "Rejected run can be requeued", "no review run to requeue"))
		report.AddResult(skipResult(s.Name(), "review_media", "Extracted media is retrievable per run", "no review run to query"))
		return nil
	}

	created := model.CheckResult{
		Suite:    s.Name(),
		Type:     "review_run_created",
		Name:     "Processed document enters the review queue",
		Endpoint: "/api/review/runs",
		Expected: fmt.Sprintf("run in %q state", engine.ReviewPending),
		Actual:   fmt.Sprintf("run %s in %q state", approveRun.RunID, approveRun.ReviewStatus),
	}
	if approveRun.ReviewStatus == engine.ReviewPending {
		created.Status = model.StatusPass
	} else {
		created.Status = model.StatusFail
		created.Detail = "freshly processed run is not awaiting review"
	}
	report.AddResult(created)

	updated, err := client.Approve(ctx, approveRun.RunID, "approved by automated verification")
	if err != nil {
		report.AddResult(errorResult(s.Name(), "review_approve", "Approve decision is recorded", "/api/review/approve", err))
	} else {
		approve := model.CheckResult{
			Suite:    s.Name(),
			Type:     "review_approve",
			Name:     "Approve decision is recorded",
			Endpoint: "/api/review/approve",
			Expected: fmt.Sprintf("run %s in %q state", approveRun.RunID, engine.ReviewApproved),
			Actual:   fmt.Sprintf("run %s in %q state", updated.RunID, updated.ReviewStatus),
		}
		if updated.ReviewStatus == engine.ReviewApproved {
			approve.Status = model.StatusPass
		} else {
			approve.Status = model.StatusFail
			approve.Detail = "approve decision did not change the run's state"
		}
		report.AddResult(approve)
	}

	rejectRun, ok := s.submitForReview(ctx, client, report, "review_reject", "Reject decision is recorded")
	if !ok {
		report.AddResult(skipResult(s.Name(), "review_rerun", "Rejected run can be requeued", "no rejected run to requeue"))
	} else {
		rejected, err := client.Reject(ctx, rejectRun.RunID, "rejected by automated verification")
		if err != nil {
			report.AddResult(errorResult(s.Name(), "review_reject", "Reject decision is recorded", "/api/review/reject", err))
			report.AddResult(skipResult(s.Name(), "review_rerun", "Rejected run can be requeued", "reject decision failed"))
		} else {
			reject := model.CheckResult{
				Suite:    s.Name(),
				Type:     "review_reject",
				Name:     "Reject decision is recorded",
				Endpoint: "/api/review/reject",
				Expected: fmt.Sprintf("run %s in %q state", rejectRun.RunID, engine.ReviewRejected),
				Actual:   fmt.Sprintf("run %s in %q state", rejected.RunID, rejected.ReviewStatus),
			}
			if rejected.ReviewStatus == engine.ReviewRejected {
				reject.Status = model.StatusPass
			} else {
				reject.Status = model.StatusFail
				reject.Detail = "reject decision did not change the run's state"
			}
			report.AddResult(reject)

			resp, err := client.ReviewRerun(ctx, rejectRun.RunID)
			if err != nil {
				report.AddResult(errorResult(s.Name(), "review_rerun", "Rejected run can be requeued", "/api/review/rerun", err))
			} else {
				rerun := model.CheckResult{
					Suite:    s.Name(),
					Type:     "review_rerun",
					Name:     "Rejected run can be requeued",
					Endpoint: "/api/review/rerun",
					Expected: "acknowledgement with a new job id",
					Actual:   fmt.Sprintf("job %q status %q for run %s", resp.JobID, resp.Status, rejectRun.RunID),
				}
				if resp.JobID != "" {
					rerun.Status = model.StatusPass
				} else {
					rerun.Status = model.StatusFail
					rerun.Detail = "requeue acknowledgement carried no job id"
				}
				report.AddResult(rerun)
			}
		}
	}

	media, err := client.ReviewMedia(ctx, approveRun.RunID)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "review_media", "Extracted media is retrievable per run", "/api/review/media/"+approveRun.RunID, err))
		return nil
	}

	mediaResult := model.CheckResult{
		Suite:    s.Name(),
		Type:     "review_media",
		Name:     "Extracted media is retrievable per run",
		Endpoint: "/api/review/media/" + approveRun.RunID,
		Expected: "media items for a document with figures",
		Actual:   fmt.Sprintf("%d media items", len(media.Media)),
	}
	if len(media.Media) > 0 {
		mediaResult.Status = model.StatusPass
	} else {
		mediaResult.Status = model.StatusFail
		mediaResult.Detail = "figures in the source produced no retrievable media"
	}
	report.AddResult(mediaResult)

	return nil
}

// submitForReview processes a figure-bearing document and locates its entry
// in the review queue. Failures are recorded under the given check type.
func (s *ReviewSuite) submitForReview(ctx context.Context, client *engine.Client, report *model.CheckReport, checkType, checkName string) (*engine.ReviewRun, bool) {
	doc := corpus.MultiTopic(2)

	resp, err := client.ProcessContent(ctx, &engine.ProcessRequest{
		Content:     doc.Content,
		Filename:    doc.Filename,
		ContentType: "text/markdown",
		Metadata:    submissionMetadata(report, s.Name()),
	})
	if err != nil {
		report.AddResult(errorResult(s.Name(), checkType, checkName, "/api/content/process", err))
		return nil, false
	}

	job, err := client.WaitForJob(ctx, resp.JobID, s.jobTimeout)
	if err != nil {
		report.AddResult(errorResult(s.Name(), checkType, checkName, "/api/jobs/"+resp.JobID, err))
		return nil, false
	}

	runs, err := client.ReviewRuns(ctx)
	if err != nil {
		report.AddResult(errorResult(s.Name(), checkType, checkName, "/api/review/runs", err))
		return nil, false
	}

	for i := range runs.Runs {
		if runs.Runs[i].JobID == job.JobID {
			return &runs.Runs[i], true
		}
	}

	report.AddResult(model.CheckResult{
		Suite:    s.Name(),
		Type:     checkType,
		Name:     checkName,
		Status:   model.StatusFail,
		Endpoint: "/api/review/runs",
		Expected: fmt.Sprintf("review run for job %s", job.JobID),
		Actual:   fmt.Sprintf("%d runs, none matching", len(runs.Runs)),
		Detail:   "completed job never entered the review queue",
	})
	return nil, false
}
