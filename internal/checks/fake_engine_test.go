package checks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kescan/kescan/internal/corpus"
	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// fakeEngine simulates the engine's document pipeline in memory: submissions
// create jobs that complete on the first poll, completed jobs persist one
// article per H1 topic, and every completed job leaves the artifacts the
// downstream suites inspect (assets, QA reports, style results, version
// records, review runs, extracted media). Knobs flip individual behaviors to
// exercise each suite's failure paths.
type fakeEngine struct {
	mu             sync.Mutex
	jobs           map[string]engine.Job
	articles       []engine.Article
	assets         []engine.Asset
	qaReports      []engine.QAReport
	styleResults   []engine.StyleResult
	versionRecords []engine.VersionRecord
	reviewRuns     []engine.ReviewRun
	media          map[string][]engine.MediaItem
	chains         map[string]chainTip
	nextID         int

	// failJobs makes every created job report the failed state.
	failJobs bool

	// mergeChunks ignores H1 boundaries and emits one article spanning
	// every topic in the submission.
	mergeChunks bool

	// dropAssets makes the upload handler process files without recording
	// them in the asset registry.
	dropAssets bool

	// skipQAReports suppresses QA report creation for completed jobs.
	skipQAReports bool

	// flagArticles makes every QA report fail with one flag per article
	// and badges the flagged articles.
	flagArticles bool

	// omitBadges leaves QA-flagged articles without badges.
	omitBadges bool

	// silentQAFailures makes QA reports fail without any flags.
	silentQAFailures bool

	// skipStyleResults suppresses style-linter results for new articles.
	skipStyleResults bool

	// blankRerunJobs makes rerun acknowledgements carry an empty job id.
	blankRerunJobs bool

	// flatVersions pins every article at version 1 with no chain links.
	flatVersions bool

	// skipReviewQueue keeps completed jobs out of the review queue.
	skipReviewQueue bool

	// stickyReviews makes approve and reject decisions return the run
	// unchanged.
	stickyReviews bool
}

// chainTip tracks the newest version of one source fingerprint.
type chainTip struct {
	version   int
	articleID string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		jobs:   make(map[string]engine.Job),
		media:  make(map[string][]engine.MediaItem),
		chains: make(map[string]chainTip),
	}
}

func (f *fakeEngine) handler() http.Handler {
	mux := http.NewServeMux()

	processDoc := func(w http.ResponseWriter, r *http.Request) {
		var req engine.ProcessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.submit(w, req.Content, req.Metadata)
	}
	mux.HandleFunc("/api/content/process", processDoc)
	mux.HandleFunc("/api/training/process", processDoc)

	mux.HandleFunc("/api/content/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		files := r.MultipartForm.File["file"]
		if len(files) == 0 {
			http.Error(w, "missing file part", http.StatusBadRequest)
			return
		}
		src, err := files[0].Open()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		content, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		metadata := make(map[string]string)
		for k, vs := range r.MultipartForm.Value {
			if len(vs) > 0 {
				metadata[k] = vs[0]
			}
		}

		// The source is stored before processing begins, so a failed job
		// still leaves a registered asset.
		if !f.dropAssets {
			f.mu.Lock()
			f.nextID++
			f.assets = append(f.assets, engine.Asset{
				ID:       "asset-" + strconv.Itoa(f.nextID),
				Filename: files[0].Filename,
				Size:     int64(len(content)),
			})
			f.mu.Unlock()
		}

		f.submit(w, string(content), metadata)
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		job, ok := f.jobs[r.URL.Path[len("/api/jobs/"):]]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(job)
	})

	mux.HandleFunc("/api/content-library", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(engine.ContentLibrary{
			Articles: f.articles,
			Total:    len(f.articles),
		})
	})

	mux.HandleFunc("/api/assets", func(w http.ResponseWriter, r *http.Request) {
		filename := r.URL.Query().Get("filename")
		f.mu.Lock()
		defer f.mu.Unlock()
		var out []engine.Asset
		for _, a := range f.assets {
			if filename == "" || a.Filename == filename {
				out = append(out, a)
			}
		}
		json.NewEncoder(w).Encode(engine.AssetList{Assets: out, Total: len(out)})
	})

	mux.HandleFunc("/api/qa/diagnostics", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(engine.QADiagnostics{
			Reports: f.qaReports,
			Total:   len(f.qaReports),
		})
	})

	mux.HandleFunc("/api/style/diagnostics", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(engine.StyleDiagnostics{
			Results: f.styleResults,
			Total:   len(f.styleResults),
		})
	})
	mux.HandleFunc("/api/style/rerun", f.rerunAck)

	mux.HandleFunc("/api/versioning/diagnostics", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(engine.VersioningDiagnostics{
			Records: f.versionRecords,
			Total:   len(f.versionRecords),
		})
	})
	mux.HandleFunc("/api/versioning/rerun", f.rerunAck)

	mux.HandleFunc("/api/review/runs", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(engine.ReviewRuns{
			Runs:  f.reviewRuns,
			Total: len(f.reviewRuns),
		})
	})
	mux.HandleFunc("/api/review/approve", func(w http.ResponseWriter, r *http.Request) {
		f.decide(w, r, engine.ReviewApproved)
	})
	mux.HandleFunc("/api/review/reject", func(w http.ResponseWriter, r *http.Request) {
		f.decide(w, r, engine.ReviewRejected)
	})
	mux.HandleFunc("/api/review/rerun", f.rerunAck)
	mux.HandleFunc("/api/review/media/", func(w http.ResponseWriter, r *http.Request) {
		runID := r.URL.Path[len("/api/review/media/"):]
		f.mu.Lock()
		items := f.media[runID]
		f.mu.Unlock()
		json.NewEncoder(w).Encode(engine.MediaList{Media: items, Total: len(items)})
	})

	return mux
}

// submit registers a job and, unless failJobs is set, the downstream
// artifacts a completed job leaves behind.
func (f *fakeEngine) submit(w http.ResponseWriter, content string, metadata map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	jobID := "job-" + strconv.Itoa(f.nextID)

	if f.failJobs {
		f.jobs[jobID] = engine.Job{
			JobID:        jobID,
			Status:       engine.JobFailed,
			ErrorMessage: "synthetic stage failure",
		}
		json.NewEncoder(w).Encode(engine.ProcessResponse{JobID: jobID, Status: engine.JobPending})
		return
	}

	topics := strings.Count("\n"+content, "\n# ")
	if topics < 1 {
		topics = 1
	}

	version := 1
	var supersedes string
	if !f.flatVersions {
		if tip, ok := f.chains[content]; ok {
			version = tip.version + 1
			supersedes = tip.articleID
		}
	}

	count := topics
	if f.mergeChunks {
		count = 1
	}

	var articleIDs []string
	for i := 0; i < count; i++ {
		f.nextID++
		articleID := "article-" + strconv.Itoa(f.nextID)
		articleIDs = append(articleIDs, articleID)

		body := `<h2 id="intro">Intro</h2><p>Body.</p>`
		if f.mergeChunks {
			// Every topic crammed into one article, H1s intact.
			var parts []string
			for t := 0; t < topics; t++ {
				parts = append(parts, "<h1>Topic "+strconv.Itoa(t+1)+"</h1><p>Body.</p>")
			}
			body = strings.Join(parts, "")
		}

		article := engine.Article{
			ID:            articleID,
			Title:         "Generated Article",
			Content:       body,
			SourceJobID:   jobID,
			VersionNumber: version,
			Metadata:      metadata,
		}
		if f.flagArticles && !f.omitBadges {
			article.Badges = []string{"coverage"}
		}
		f.articles = append(f.articles, article)

		f.versionRecords = append(f.versionRecords, engine.VersionRecord{
			ID:            "ver-" + strconv.Itoa(f.nextID),
			ArticleID:     articleID,
			VersionNumber: version,
			Supersedes:    supersedes,
		})

		if !f.skipStyleResults {
			f.styleResults = append(f.styleResults, engine.StyleResult{
				ID:        "style-" + strconv.Itoa(f.nextID),
				ArticleID: articleID,
			})
		}
	}

	f.chains[content] = chainTip{version: version, articleID: articleIDs[len(articleIDs)-1]}

	if !f.skipQAReports {
		report := engine.QAReport{
			ID:            "qa-" + strconv.Itoa(f.nextID),
			JobID:         jobID,
			CoverageScore: 0.95,
			FidelityScore: 0.95,
			Passed:        true,
		}
		if f.flagArticles || f.silentQAFailures {
			report.Passed = false
		}
		if f.flagArticles {
			for _, id := range articleIDs {
				report.Flags = append(report.Flags, engine.QAFlag{
					Type:      "coverage_gap",
					Message:   "section not represented in output",
					ArticleID: id,
				})
			}
		}
		f.qaReports = append(f.qaReports, report)
	}

	if !f.skipReviewQueue {
		runID := "run-" + strconv.Itoa(f.nextID)
		f.reviewRuns = append(f.reviewRuns, engine.ReviewRun{
			RunID:        runID,
			JobID:        jobID,
			ReviewStatus: engine.ReviewPending,
			ArticleIDs:   articleIDs,
		})
		for i := 0; i < strings.Count(content, "!["); i++ {
			f.media[runID] = append(f.media[runID], engine.MediaItem{
				ID:       "media-" + strconv.Itoa(f.nextID) + "-" + strconv.Itoa(i),
				RunID:    runID,
				Filename: "figure-" + strconv.Itoa(i+1) + ".png",
			})
		}
	}

	f.jobs[jobID] = engine.Job{
		JobID:         jobID,
		Status:        engine.JobCompleted,
		ArticleIDs:    articleIDs,
		ChunksCreated: len(articleIDs),
	}

	json.NewEncoder(w).Encode(engine.ProcessResponse{JobID: jobID, Status: engine.JobPending})
}

// decide applies an approve or reject decision and returns the run's state.
func (f *fakeEngine) decide(w http.ResponseWriter, r *http.Request, status string) {
	var req struct {
		RunID string `json:"run_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.reviewRuns {
		if f.reviewRuns[i].RunID == req.RunID {
			if !f.stickyReviews {
				f.reviewRuns[i].ReviewStatus = status
			}
			json.NewEncoder(w).Encode(f.reviewRuns[i])
			return
		}
	}
	http.NotFound(w, r)
}

// rerunAck acknowledges a rerun request with a fresh job id.
func (f *fakeEngine) rerunAck(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	f.nextID++
	jobID := "job-" + strconv.Itoa(f.nextID)
	if f.blankRerunJobs {
		jobID = ""
	}
	f.mu.Unlock()
	json.NewEncoder(w).Encode(engine.ProcessResponse{JobID: jobID, Status: engine.JobPending})
}

// newSuiteHarness serves the fake engine and returns a fast-polling client
// with a fresh report targeting it.
func newSuiteHarness(t *testing.T, fake *fakeEngine) (*engine.Client, *model.CheckReport) {
	t.Helper()

	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	client, err := engine.New(server.URL, engine.WithPollInterval(5*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client, model.NewCheckReport(server.URL)
}

// seedArticles pushes one document through the pipeline under the report's
// run id, giving the diagnostics suites material to inspect.
func seedArticles(t *testing.T, client *engine.Client, report *model.CheckReport) {
	t.Helper()

	doc := corpus.SingleTopic()
	resp, err := client.ProcessContent(context.Background(), &engine.ProcessRequest{
		Content:     doc.Content,
		Filename:    doc.Filename,
		ContentType: "text/markdown",
		Metadata:    submissionMetadata(report, "processing"),
	})
	if err != nil {
		t.Fatalf("failed to seed articles: %v", err)
	}
	if _, err := client.WaitForJob(context.Background(), resp.JobID, time.Second); err != nil {
		t.Fatalf("seed job did not complete: %v", err)
	}
}
