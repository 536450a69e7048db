package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/kescan/kescan/internal/corpus"
	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// chunkingSections is the number of H1 topics in the chunking test document.
// Three topics produce a document large enough to force a split decision
// while keeping processing time reasonable.
const chunkingSections = 3

// ChunkingSuite verifies the engine's document splitting: a source document
// with several H1 topics must yield one article per topic, and no article
// may span multiple topics.
type ChunkingSuite struct {
	jobTimeout time.Duration
}

// NewChunkingSuite creates the chunking suite.
func NewChunkingSuite(opts Options) *ChunkingSuite {
	return &ChunkingSuite{jobTimeout: opts.JobTimeout}
}

// Name returns the suite name.
func (s *ChunkingSuite) Name() string {
	return "chunking"
}

// Run executes the chunking checks.
func (s *ChunkingSuite) Run(ctx context.Context, client *engine.Client, report *model.CheckReport) error {
	doc := corpus.MultiTopic(chunkingSections)

	resp, err := client.ProcessContent(ctx, &engine.ProcessRequest{
		Content:     doc.Content,
		Filename:    doc.Filename,
		ContentType: "text/markdown",
		Metadata:    submissionMetadata(report, s.Name()),
	})
	if err != nil {
		report.AddResult(errorResult(s.Name(), "chunk_count", "Multi-topic document splits into expected article count", "/api/content/process", err))
		report.AddResult(skipResult(s.Name(), "chunk_headings", "Each chunked article covers a single topic", "submission was rejected"))
		return nil
	}

	start := time.Now()
	job, err := client.WaitForJob(ctx, resp.JobID, s.jobTimeout)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "chunk_count", "Multi-topic document splits into expected article count", "/api/jobs/"+resp.JobID, err))
		report.AddResult(skipResult(s.Name(), "chunk_headings", "Each chunked article covers a single topic", "processing job did not complete"))
		return nil
	}

	articles, err := client.ArticlesByRunID(ctx, report.RunID)
	if err != nil {
		report.AddResult(errorResult(s.Name(), "chunk_count", "Multi-topic document splits into expected article count", "/api/content-library", err))
		return nil
	}

	// Only this suite's articles count; earlier suites tag the same run id.
	var chunked []engine.Article
	for _, a := range articles {
		if a.Metadata["kescan_suite"] == s.Name() {
			chunked = append(chunked, a)
		}
	}

	countResult := model.CheckResult{
		Suite:    s.Name(),
		Type:     "chunk_count",
		Name:     "Multi-topic document splits into expected article count",
		Endpoint: "/api/content-library",
		Expected: fmt.Sprintf("%d articles (one per H1 topic)", doc.ExpectedArticles()),
		Actual:   fmt.Sprintf("%d articles (job reported %d chunks)", len(chunked), job.ChunksCreated),
		Duration: time.Since(start),
	}
	if len(chunked) == doc.ExpectedArticles() {
		countResult.Status = model.StatusPass
	} else {
		countResult.Status = model.StatusFail
		countResult.Detail = "chunk boundaries do not match source H1 topics"
	}
	report.AddResult(countResult)

	if len(chunked) == 0 {
		report.AddResult(skipResult(s.Name(), "chunk_headings", "Each chunked article covers a single topic", "no chunked articles to inspect"))
		return nil
	}

	// Topic isolation: a correctly chunked article carries at most the one
	// H1 it was split on (and ideally zero, with the title demoted to
	// metadata). Two or more body H1s means topics were merged.
	merged := 0
	for _, a := range chunked {
		htmlDoc, err := parseArticleHTML(a.Content)
		if err != nil {
			report.AddResult(errorResult(s.Name(), "chunk_headings", "Each chunked article covers a single topic", "/api/content-library", err))
			return nil
		}
		if h1Count(htmlDoc) > 1 {
			merged++
		}
	}

	headingResult := model.CheckResult{
		Suite:    s.Name(),
		Type:     "chunk_headings",
		Name:     "Each chunked article covers a single topic",
		Endpoint: "/api/content-library",
		Expected: "no article with more than one top-level heading",
		Actual:   fmt.Sprintf("%d of %d articles span multiple topics", merged, len(chunked)),
	}
	if merged == 0 {
		headingResult.Status = model.StatusPass
	} else {
		headingResult.Status = model.StatusFail
		headingResult.Detail = "articles contain multiple H1 sections from the source document"
	}
	report.AddResult(headingResult)

	return nil
}
