package engine

import "context"

// ReviewRuns retrieves the human-review queue.
func (c *Client) ReviewRuns(ctx context.Context) (*ReviewRuns, error) {
	var runs ReviewRuns
	if err := c.get(ctx, "/api/review/runs", &runs); err != nil {
		return nil, err
	}
	return &runs, nil
}

// reviewDecision is the payload for approve/reject requests.
type reviewDecision struct {
	RunID   string `json:"run_id"`
	Comment string `json:"comment,omitempty"`
}

// Approve marks a review run as approved and returns its updated state.
func (c *Client) Approve(ctx context.Context, runID, comment string) (*ReviewRun, error) {
	var run ReviewRun
	if err := c.postJSON(ctx, "/api/review/approve", &reviewDecision{RunID: runID, Comment: comment}, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// Reject marks a review run as rejected and returns its updated state.
func (c *Client) Reject(ctx context.Context, runID, comment string) (*ReviewRun, error) {
	var run ReviewRun
	if err := c.postJSON(ctx, "/api/review/reject", &reviewDecision{RunID: runID, Comment: comment}, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ReviewRerun requeues processing for a review run and returns the new job
// acknowledgement.
func (c *Client) ReviewRerun(ctx context.Context, runID string) (*ProcessResponse, error) {
	body := map[string]string{"run_id": runID}
	var resp ProcessResponse
	if err := c.postJSON(ctx, "/api/review/rerun", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReviewMedia retrieves the media items extracted for a review run.
func (c *Client) ReviewMedia(ctx context.Context, runID string) (*MediaList, error) {
	var media MediaList
	if err := c.get(ctx, "/api/review/media/"+runID, &media); err != nil {
		return nil, err
	}
	return &media, nil
}
