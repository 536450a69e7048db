package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestReviewRuns tests review queue retrieval.
func TestReviewRuns(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/review/runs" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ReviewRuns{
			Runs: []ReviewRun{
				{RunID: "run-1", JobID: "job-1", ReviewStatus: ReviewPending},
				{RunID: "run-2", JobID: "job-2", ReviewStatus: ReviewApproved},
			},
			Total: 2,
		})
	}))
	defer server.Close()

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	runs, err := c.ReviewRuns(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runs.Total != 2 || len(runs.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %+v", runs)
	}
	if runs.Runs[0].ReviewStatus != ReviewPending {
		t.Errorf("expected pending run first, got %q", runs.Runs[0].ReviewStatus)
	}
}

// TestApprove tests the approve transition payload and response.
func TestApprove(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/review/approve" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if body["run_id"] != "run-1" {
			t.Errorf("expected run_id run-1, got %q", body["run_id"])
		}
		if body["comment"] != "looks good" {
			t.Errorf("expected comment, got %q", body["comment"])
		}

		json.NewEncoder(w).Encode(ReviewRun{
			RunID:        "run-1",
			ReviewStatus: ReviewApproved,
			Comment:      "looks good",
		})
	}))
	defer server.Close()

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	run, err := c.Approve(context.Background(), "run-1", "looks good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.ReviewStatus != ReviewApproved {
		t.Errorf("expected approved status, got %q", run.ReviewStatus)
	}
}

// TestReject tests the reject transition.
func TestReject(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/review/reject" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ReviewRun{RunID: "run-2", ReviewStatus: ReviewRejected})
	}))
	defer server.Close()

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	run, err := c.Reject(context.Background(), "run-2", "needs work")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.ReviewStatus != ReviewRejected {
		t.Errorf("expected rejected status, got %q", run.ReviewStatus)
	}
}

// TestReviewRerun tests requeueing a review run.
func TestReviewRerun(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/review/rerun" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if body["run_id"] != "run-2" {
			t.Errorf("expected run_id run-2, got %q", body["run_id"])
		}

		json.NewEncoder(w).Encode(ProcessResponse{JobID: "job-9", Status: JobPending})
	}))
	defer server.Close()

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	resp, err := c.ReviewRerun(context.Background(), "run-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.JobID != "job-9" {
		t.Errorf("expected new job id, got %q", resp.JobID)
	}
}

// TestReviewMedia tests media listing for a review run.
func TestReviewMedia(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/review/media/run-1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(MediaList{
			Media: []MediaItem{
				{ID: "m1", RunID: "run-1", Filename: "diagram.png"},
			},
			Total: 1,
		})
	}))
	defer server.Close()

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	media, err := c.ReviewMedia(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(media.Media) != 1 || media.Media[0].Filename != "diagram.png" {
		t.Errorf("unexpected media listing %+v", media)
	}
}
