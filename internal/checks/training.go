package checks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kescan/kescan/internal/corpus"
	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// TrainingSuite verifies the training-content path: a document submitted via
// the training endpoint must complete processing and yield persisted
// articles, same as the regular content path.
type TrainingSuite struct {
	jobTimeout time.Duration
}

// NewTrainingSuite creates the training suite.
func NewTrainingSuite(opts Options) *TrainingSuite {
	return &TrainingSuite{jobTimeout: opts.JobTimeout}
}

// Name returns the suite name.
func (s *TrainingSuite) Name() string {
	return "training"
}

// Run executes the training checks.
func (s *TrainingSuite) Run(ctx context.Context, client *engine.Client, report *model.CheckReport) error {
	doc := corpus.SingleTopic()

	resp, err := client.ProcessTraining(ctx, &engine.ProcessRequest{
		Content:     doc.Content,
		Filename:    doc.Filename,
		ContentType: "text/markdown",
		Metadata:    submissionMetadata(report, s.Name()),
	})
	if err != nil {
		report.AddResult(errorResult(s.Name(), "training_job", "Training submission completes processing", "/api/training/process", err))
		report.AddResult(skipResult(s.Name(), "training_articles", "Training submission persists articles", "submission was rejected"))
		return nil
	}

	start := time.Now()
	job, err := client.WaitForJob(ctx, resp.JobID, s.jobTimeout)

	jobResult := model.CheckResult{
		Suite:    s.Name(),
		Type:     "training_job",
		Name:     "Training submission completes processing",
		Endpoint: "/api/jobs/" + resp.JobID,
		Expected: engine.JobCompleted,
		Duration: time.Since(start),
	}
	switch {
	case err == nil:
		jobResult.Status = model.StatusPass
		jobResult.Actual = job.Status
	case errors.Is(err, engine.ErrJobFailed):
		jobResult.Status = model.StatusFail
		jobResult.Actual = engine.JobFailed
		jobResult.Detail = err.Error()
	default:
		jobResult.Status = model.StatusError
		jobResult.Detail = err.Error()
	}
	report.AddResult(jobResult)

	if err != nil {
		report.AddResult(skipResult(s.Name(), "training_articles", "Training submission persists articles", "training job did not complete"))
		return nil
	}

	articles, err := client.ArticlesByRunID(ctx, report.RunID)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "training_articles", "Training submission persists articles", "/api/content-library", err))
		return nil
	}

	count := 0
	for _, a := range articles {
		if a.SourceJobID == job.JobID {
			count++
		}
	}

	persisted := model.CheckResult{
		Suite:    s.Name(),
		Type:     "training_articles",
		Name:     "Training submission persists articles",
		Endpoint: "/api/content-library",
		Expected: "at least one article from the training job",
		Actual:   fmt.Sprintf("%d articles", count),
	}
	if count > 0 {
		persisted.Status = model.StatusPass
	} else {
		persisted.Status = model.StatusFail
		persisted.Detail = "completed training job left no articles in the library"
	}
	report.AddResult(persisted)

	return nil
}
