package engine

import (
	"context"
	"fmt"
	"time"
)

// Job retrieves the current state of a processing job.
func (c *Client) Job(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	if err := c.get(ctx, "/api/jobs/"+jobID, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// WaitForJob polls a job until it reaches a terminal state or the deadline
// expires. It returns the final job state for completed jobs, ErrJobFailed
// (with the final state) for failed jobs, and ErrJobTimeout when the
// deadline passes first.
//
// Design decision: Polling is bounded by a context deadline rather than a
// retry count because job duration depends on document size, not attempt
// arithmetic. The poll interval is fixed; an engine that needs backoff to
// survive status polls has bigger problems than this tool can detect.
func (c *Client) WaitForJob(ctx context.Context, jobID string, timeout time.Duration) (*Job, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	// Poll immediately before the first tick; short jobs finish fast and
	// waiting a full interval would slow every check.
	for {
		job, err := c.Job(ctx, jobID)
		if err != nil {
			// A deadline hit during the status request is a poll timeout,
			// not a transport defect.
			if ctx.Err() != nil {
				return nil, fmt.Errorf("job %s: %w", jobID, ErrJobTimeout)
			}
			return nil, err
		}

		switch job.Status {
		case JobCompleted:
			return job, nil
		case JobFailed:
			return job, fmt.Errorf("job %s: %w: %s", jobID, ErrJobFailed, job.ErrorMessage)
		}

		select {
		case <-ctx.Done():
			return job, fmt.Errorf("job %s stuck in %q: %w", jobID, job.Status, ErrJobTimeout)
		case <-ticker.C:
		}
	}
}
