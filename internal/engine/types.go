package engine

import "time"

// Job status values used by the engine's asynchronous job tracker.
const (
	// JobPending means the job is queued but no worker has picked it up.
	JobPending = "pending"

	// JobProcessing means a worker is actively running the pipeline stages.
	JobProcessing = "processing"

	// JobCompleted means the pipeline finished and output was persisted.
	JobCompleted = "completed"

	// JobFailed means the pipeline aborted; ErrorMessage carries the reason.
	JobFailed = "failed"
)

// EngineStatus is the payload of GET /api/engine.
type EngineStatus struct {
	// Status is the engine health indicator ("active" when healthy).
	Status string `json:"status"`

	// Version is the engine release version.
	Version string `json:"version"`

	// Features lists the advertised capability flags
	// (e.g. "chunking", "versioning", "qa_validation", "style_linting").
	Features []string `json:"features,omitempty"`

	// Message is an optional operator-facing status message.
	Message string `json:"message,omitempty"`
}

// Job is the payload of GET /api/jobs/{id}.
type Job struct {
	// JobID is the opaque identifier assigned at submission.
	JobID string `json:"job_id"`

	// Status is one of the Job* constants.
	Status string `json:"status"`

	// Stage is the pipeline stage currently executing, when processing.
	Stage string `json:"stage,omitempty"`

	// ArticleIDs lists the articles produced by a completed job.
	ArticleIDs []string `json:"article_ids,omitempty"`

	// ChunksCreated is the number of articles the chunker decided to emit.
	ChunksCreated int `json:"chunks_created,omitempty"`

	// ErrorMessage carries the failure reason for failed jobs.
	ErrorMessage string `json:"error_message,omitempty"`

	// CreatedAt is when the job was enqueued.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// CompletedAt is when the job reached a terminal state.
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// Terminal reports whether the job has reached a terminal state.
func (j *Job) Terminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

// ProcessRequest is the payload of POST /api/content/process and
// POST /api/training/process.
type ProcessRequest struct {
	// Content is the raw source document text (markdown or HTML).
	Content string `json:"content"`

	// Filename is the logical source name, used for format detection.
	Filename string `json:"filename"`

	// ContentType hints the source format ("text/markdown", "text/html").
	ContentType string `json:"content_type,omitempty"`

	// Metadata is attached verbatim to produced articles. kescan sets a
	// correlation id here so engine-side artifacts can be traced to a run.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ProcessResponse is the engine's acknowledgement of a processing submission.
type ProcessResponse struct {
	// JobID identifies the created job for status polling.
	JobID string `json:"job_id"`

	// Status is the initial job status, normally "pending".
	Status string `json:"status"`
}

// Article is one generated article as returned by GET /api/content-library.
type Article struct {
	// ID is the article's library identifier.
	ID string `json:"id"`

	// Title is the article title, derived from the source's H1.
	Title string `json:"title"`

	// Content is the generated article body HTML.
	Content string `json:"content"`

	// Badges lists QA quality badges attached to the article
	// (e.g. "coverage", "fidelity", "style").
	Badges []string `json:"badges,omitempty"`

	// ReviewStatus is the human-review state
	// ("pending_review", "approved", "rejected").
	ReviewStatus string `json:"review_status,omitempty"`

	// VersionNumber is the article's position in its version chain.
	VersionNumber int `json:"version_number,omitempty"`

	// SourceJobID links back to the processing job that produced the article.
	SourceJobID string `json:"source_job_id,omitempty"`

	// Metadata echoes the submission metadata.
	Metadata map[string]string `json:"metadata,omitempty"`

	// CreatedAt is when the article was persisted.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ContentLibrary is the payload of GET /api/content-library.
type ContentLibrary struct {
	// Articles is the article listing, newest first.
	Articles []Article `json:"articles"`

	// Total is the library size, which may exceed len(Articles) when the
	// engine paginates.
	Total int `json:"total"`
}

// Asset is one stored source file or extracted media item from GET /api/assets.
type Asset struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// AssetList is the payload of GET /api/assets.
type AssetList struct {
	Assets []Asset `json:"assets"`
	Total  int     `json:"total"`
}

// QAFlag is one validation finding inside a QA report.
type QAFlag struct {
	// Type identifies the rule ("coverage_gap", "fidelity_drift",
	// "placeholder_text").
	Type string `json:"type"`

	// Message is the human-readable description.
	Message string `json:"message,omitempty"`

	// ArticleID locates the flagged article.
	ArticleID string `json:"article_id,omitempty"`
}

// QAReport is the validation scoring for one processed document.
type QAReport struct {
	// ID is the report identifier, addressable via /api/qa/diagnostics/{id}.
	ID string `json:"id"`

	// JobID links the report to its processing job.
	JobID string `json:"job_id,omitempty"`

	// CoverageScore is the fraction of source content represented in output.
	CoverageScore float64 `json:"coverage_score"`

	// FidelityScore measures how faithfully output tracks the source.
	FidelityScore float64 `json:"fidelity_score"`

	// Flags lists unresolved validation findings.
	Flags []QAFlag `json:"flags,omitempty"`

	// Passed is the engine's own gate verdict for this report.
	Passed bool `json:"passed"`
}

// QADiagnostics is the payload of GET /api/qa/diagnostics.
type QADiagnostics struct {
	Reports []QAReport `json:"reports"`
	Total   int        `json:"total"`
}

// StyleResult is one style-linter run over a generated article.
type StyleResult struct {
	// ID is the diagnostic identifier, addressable via
	// /api/style/diagnostics/{id}.
	ID string `json:"id"`

	// ArticleID is the linted article.
	ArticleID string `json:"article_id,omitempty"`

	// Findings lists style rule violations.
	Findings []string `json:"findings,omitempty"`

	// ProcessedAt is when the linter ran.
	ProcessedAt time.Time `json:"processed_at,omitempty"`
}

// StyleDiagnostics is the payload of GET /api/style/diagnostics.
type StyleDiagnostics struct {
	Results []StyleResult `json:"results"`
	Total   int           `json:"total"`
}

// VersionRecord is one versioning-engine entry for a processed source.
type VersionRecord struct {
	// ID is the record identifier, addressable via
	// /api/versioning/diagnostics/{id}.
	ID string `json:"id"`

	// ArticleID is the versioned article.
	ArticleID string `json:"article_id,omitempty"`

	// SourceHash fingerprints the source document; identical sources share
	// a version chain.
	SourceHash string `json:"source_hash,omitempty"`

	// VersionNumber is the record's position in its chain, starting at 1.
	VersionNumber int `json:"version_number"`

	// Supersedes is the ID of the previous version, empty for the first.
	Supersedes string `json:"supersedes,omitempty"`
}

// VersioningDiagnostics is the payload of GET /api/versioning/diagnostics.
type VersioningDiagnostics struct {
	Records []VersionRecord `json:"records"`
	Total   int             `json:"total"`
}

// Review run status values.
const (
	// ReviewPending means the run awaits a human decision.
	ReviewPending = "pending_review"

	// ReviewApproved means a reviewer accepted the run's output.
	ReviewApproved = "approved"

	// ReviewRejected means a reviewer rejected the run's output.
	ReviewRejected = "rejected"
)

// ReviewRun is one processing run in the human-review queue.
type ReviewRun struct {
	// RunID identifies the review run.
	RunID string `json:"run_id"`

	// JobID links to the processing job under review.
	JobID string `json:"job_id,omitempty"`

	// ReviewStatus is one of the Review* constants.
	ReviewStatus string `json:"review_status"`

	// ArticleIDs lists the articles produced by the run.
	ArticleIDs []string `json:"article_ids,omitempty"`

	// Comment is the reviewer's decision note, if any.
	Comment string `json:"comment,omitempty"`

	// CreatedAt is when the run entered the queue.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ReviewRuns is the payload of GET /api/review/runs.
type ReviewRuns struct {
	Runs  []ReviewRun `json:"runs"`
	Total int         `json:"total"`
}

// MediaItem is one extracted media asset associated with a review run,
// from GET /api/review/media/{run_id}.
type MediaItem struct {
	ID          string `json:"id"`
	RunID       string `json:"run_id,omitempty"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	URL         string `json:"url,omitempty"`
}

// MediaList is the payload of GET /api/review/media/{run_id}.
type MediaList struct {
	Media []MediaItem `json:"media"`
	Total int         `json:"total"`
}
