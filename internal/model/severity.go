package model

// Severity represents how serious a failed check is for the content pipeline.
// A failed style lint and a failed QA gate are both failures, but they demand
// very different urgency from the engine's operators.
type Severity int

const (
	// SeverityInfo indicates informational checks with no direct quality impact.
	// Examples: feature flag advertisement, diagnostics listing shape.
	SeverityInfo Severity = iota

	// SeverityLow indicates minor issues with limited reader impact.
	// Examples: missing figure captions, style lint findings.
	SeverityLow

	// SeverityMedium indicates moderate issues that degrade article quality.
	// Examples: broken TOC anchors, flattened ordered lists, missing badges.
	SeverityMedium

	// SeverityHigh indicates serious pipeline defects.
	// Examples: wrong chunk counts, version numbers that fail to increment,
	// review transitions that do not stick.
	SeverityHigh

	// SeverityCritical indicates the pipeline is not producing output at all.
	// Examples: processing jobs that fail or hang, articles never reaching
	// the content library, an unreachable engine.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// CheckInfo contains metadata about a check type including severity,
// impact description, and remediation recommendation.
type CheckInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
}

// checkInfoMapping maps check types to their metadata.
// This centralized mapping ensures consistent grading across the application:
// a check reports what it observed, and this table decides how bad that is.
var checkInfoMapping = map[string]CheckInfo{
	// CRITICAL - pipeline produces no usable output
	"engine_status": {
		Severity:       SeverityCritical,
		Impact:         "The engine status endpoint is unreachable or unhealthy. No other check can produce meaningful results.",
		Recommendation: "Verify the engine process is running and the base URL and credentials are correct.",
	},
	"process_complete": {
		Severity:       SeverityCritical,
		Impact:         "A document processing job failed or never reached a terminal state. The core ingest pipeline is broken.",
		Recommendation: "Inspect the engine's job worker logs for the failing stage (extraction, chunking, or generation).",
	},
	"upload_complete": {
		Severity:       SeverityCritical,
		Impact:         "A multipart file upload job failed. File-based ingest is broken even if raw-text processing works.",
		Recommendation: "Check the upload handler's temporary storage and content-type detection.",
	},
	"article_persisted": {
		Severity:       SeverityCritical,
		Impact:         "A completed job produced no article in the content library. Output is being generated and then lost.",
		Recommendation: "Audit the persistence step between job completion and the content-library store.",
	},
	"training_job": {
		Severity:       SeverityCritical,
		Impact:         "A training-pipeline processing job failed to complete.",
		Recommendation: "Inspect the training processor's logs; it shares the job queue with content processing.",
	},

	// HIGH - output exists but core guarantees are violated
	"chunk_count": {
		Severity:       SeverityHigh,
		Impact:         "The engine split a source document into the wrong number of articles. Readers get merged or fragmented topics.",
		Recommendation: "Review the chunking thresholds against the document's H1 boundaries.",
	},
	"chunk_headings": {
		Severity:       SeverityHigh,
		Impact:         "A chunked article spans multiple top-level topics, defeating the purpose of chunking.",
		Recommendation: "Ensure the splitter treats every H1 as a hard article boundary.",
	},
	"version_increment": {
		Severity:       SeverityHigh,
		Impact:         "Reprocessing the same source did not increment the version number. Version history is unreliable.",
		Recommendation: "Check source fingerprinting in the versioning engine; identical sources must map to one chain.",
	},
	"review_approve": {
		Severity:       SeverityHigh,
		Impact:         "Approving a review run did not transition its status. Human QA decisions are being dropped.",
		Recommendation: "Verify the review store commits status transitions before responding.",
	},
	"review_reject": {
		Severity:       SeverityHigh,
		Impact:         "Rejecting a review run did not transition its status.",
		Recommendation: "Verify the review store commits status transitions before responding.",
	},
	"qa_flags": {
		Severity:       SeverityHigh,
		Impact:         "The QA report carries unresolved coverage or fidelity flags for a clean synthetic document.",
		Recommendation: "A clean input should produce a clean QA report; investigate the flagged validation rules.",
	},
	// MEDIUM - article quality degraded
	"body_h1": {
		Severity:       SeverityMedium,
		Impact:         "Article body HTML contains <h1> elements. Titles must live in metadata, not the body, or rendering double-titles articles.",
		Recommendation: "Demote body headings during generation; the article title is rendered by the library UI.",
	},
	"toc_anchors": {
		Severity:       SeverityMedium,
		Impact:         "Table-of-contents links point at heading ids that do not exist in the article body.",
		Recommendation: "Generate TOC anchors and heading ids in the same pass so they cannot drift.",
	},
	"ordered_lists": {
		Severity:       SeverityMedium,
		Impact:         "Procedural steps lost their <ol> structure. Numbered instructions render as prose.",
		Recommendation: "Preserve list markup through the HTML sanitizer.",
	},
	"code_blocks": {
		Severity:       SeverityMedium,
		Impact:         "Code samples are not wrapped in <pre><code>, losing whitespace and highlighting.",
		Recommendation: "Map fenced code blocks to <pre><code> during generation.",
	},
	"qa_badges": {
		Severity:       SeverityMedium,
		Impact:         "Processed articles are missing QA badges, so reviewers cannot see quality scores in the library.",
		Recommendation: "Attach the badge set when the QA stage publishes its report.",
	},
	"review_rerun": {
		Severity:       SeverityMedium,
		Impact:         "Requesting a review rerun did not requeue processing.",
		Recommendation: "Verify the rerun endpoint enqueues a new job and links it to the run.",
	},
	"style_rerun": {
		Severity:       SeverityMedium,
		Impact:         "A style rerun request produced no new diagnostics entry.",
		Recommendation: "Verify the style linter can be re-invoked per article.",
	},
	"version_rerun": {
		Severity:       SeverityMedium,
		Impact:         "A versioning rerun request produced no new diagnostics entry.",
		Recommendation: "Verify the versioning engine can be re-invoked per article.",
	},
	"training_articles": {
		Severity:       SeverityMedium,
		Impact:         "A completed training job produced no training articles.",
		Recommendation: "Audit the training pipeline's persistence step.",
	},
	"review_media": {
		Severity:       SeverityMedium,
		Impact:         "Media extracted during processing is not listed for its review run.",
		Recommendation: "Check the media store's association between assets and run ids.",
	},

	// LOW - cosmetic or advisory
	"figure_caption": {
		Severity:       SeverityLow,
		Impact:         "Images are not wrapped in <figure> with a <figcaption>.",
		Recommendation: "Wrap extracted images in figure markup during generation.",
	},
	"style_diagnostics": {
		Severity:       SeverityLow,
		Impact:         "Style diagnostics are missing or malformed for recent runs.",
		Recommendation: "Ensure the style linter records a diagnostic entry per processed article.",
	},
	"asset_registered": {
		Severity:       SeverityLow,
		Impact:         "An uploaded source file is not listed in the asset registry.",
		Recommendation: "Check the asset registration step of the upload handler.",
	},

	// INFO - advertisement and shape checks
	"engine_features": {
		Severity:       SeverityInfo,
		Impact:         "The engine does not advertise an expected feature flag. Downstream tooling may disable functionality.",
		Recommendation: "Confirm the feature set in the engine's status payload matches the deployment.",
	},
	"qa_report_present": {
		Severity:       SeverityInfo,
		Impact:         "QA diagnostics are not queryable for recent runs.",
		Recommendation: "Ensure the QA stage records a report per processed document.",
	},
	"version_diagnostics": {
		Severity:       SeverityInfo,
		Impact:         "Versioning diagnostics are not queryable for recent runs.",
		Recommendation: "Ensure the versioning engine records metadata per processed document.",
	},
	"review_run_created": {
		Severity:       SeverityInfo,
		Impact:         "Processing a document did not surface a review run in the runs listing.",
		Recommendation: "Confirm the review workflow is enabled for this deployment.",
	},
	"process_submit": {
		Severity:       SeverityInfo,
		Impact:         "The content processing endpoint rejected a well-formed submission.",
		Recommendation: "Compare the submission payload with the engine's expected schema.",
	},
	"upload_submit": {
		Severity:       SeverityInfo,
		Impact:         "The upload endpoint rejected a well-formed multipart submission.",
		Recommendation: "Compare the multipart form fields with the engine's expected schema.",
	},
}

// GetSeverity returns the severity level for a check type.
// Returns SeverityInfo if the check type is not in the mapping.
func GetSeverity(checkType string) Severity {
	if info, ok := checkInfoMapping[checkType]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetCheckInfo returns the full check information for a check type.
// Returns a default CheckInfo with SeverityInfo if the type is not in the mapping.
func GetCheckInfo(checkType string) CheckInfo {
	if info, ok := checkInfoMapping[checkType]; ok {
		return info
	}
	return CheckInfo{
		Severity:       SeverityInfo,
		Impact:         "Unknown check type. Review manually.",
		Recommendation: "Investigate the result and assess impact.",
	}
}
