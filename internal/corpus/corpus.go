package corpus

import (
	"bytes"
	"fmt"

	"github.com/nao1215/markdown"
)

// Spec describes the synthetic source document to generate.
// Every field is deterministic: the same spec always produces the same
// document, so checks can predict exactly what the engine should emit.
type Spec struct {
	// Title is the document title, emitted as the first H1.
	Title string

	// Sections is the number of top-level (H1) topics. The engine's chunker
	// treats H1 boundaries as article boundaries, so this is also the
	// expected article count.
	Sections int

	// Subsections is the number of H2 blocks per section.
	Subsections int

	// WithSteps adds a numbered procedure to each section.
	WithSteps bool

	// WithCode adds a fenced code sample to each section.
	WithCode bool

	// WithTable adds a reference table to each section.
	WithTable bool

	// WithFigures adds an image reference to each section.
	WithFigures bool
}

// Document is a generated synthetic source document.
type Document struct {
	// Filename is the logical source name submitted to the engine.
	Filename string

	// Content is the markdown source text.
	Content string

	// Spec echoes the generation parameters so checks can derive
	// expectations without re-parsing the content.
	Spec Spec
}

// ExpectedArticles returns the number of articles the engine should produce
// from this document: one per H1 section.
func (d *Document) ExpectedArticles() int {
	if d.Spec.Sections < 1 {
		return 1
	}
	return d.Spec.Sections
}

// topics is a fixed bank of section subjects. Using recognizable but
// obviously synthetic topics keeps generated libraries readable when a
// human inspects the engine after a failed run.
var topics = []string{
	"Configuring the Ingest Gateway",
	"Managing Processing Queues",
	"Tuning the Chunking Thresholds",
	"Operating the Review Workflow",
	"Publishing and Version Chains",
	"Monitoring Pipeline Health",
	"Recovering from Failed Jobs",
	"Archiving Generated Articles",
}

// sentences is a fixed bank of filler prose.
var sentences = []string{
	"The pipeline reads each source document once and never mutates the original upload.",
	"Operators should verify queue depth before changing concurrency settings.",
	"Each stage records its outcome so later stages can make informed decisions.",
	"Configuration changes take effect for new jobs only; running jobs keep their snapshot.",
	"When in doubt, rerun the stage rather than editing stored output by hand.",
}

// Generate builds a synthetic markdown document from the spec.
// Section and subsection text is drawn deterministically from fixed banks,
// so repeated generation with an identical spec yields byte-identical
// content. That property is what lets the versioning check assert that
// reprocessing the same source increments a single version chain.
func Generate(spec Spec) *Document {
	if spec.Sections < 1 {
		spec.Sections = 1
	}
	if spec.Subsections < 1 {
		spec.Subsections = 1
	}
	if spec.Title == "" {
		spec.Title = "Knowledge Engine Operations Guide"
	}

	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	for i := 0; i < spec.Sections; i++ {
		topic := topics[i%len(topics)]
		if i == 0 {
			topic = spec.Title
		}
		md.H1(topic)
		md.PlainText(sentences[i%len(sentences)])
		md.PlainText("")

		for j := 0; j < spec.Subsections; j++ {
			md.H2(fmt.Sprintf("%s: Part %d", topic, j+1))
			md.PlainText(sentences[(i+j+1)%len(sentences)])
			md.PlainText("")
		}

		if spec.WithSteps {
			md.H2("Procedure")
			md.OrderedList(
				"Open the engine dashboard and locate the affected job.",
				"Record the job identifier and the reported stage.",
				"Apply the configuration change described above.",
				"Requeue the job and confirm it reaches the completed state.",
			)
			md.PlainText("")
		}

		if spec.WithCode {
			md.H2("Example Request")
			md.CodeBlocks(markdown.SyntaxHighlight("bash"),
				fmt.Sprintf("curl -s \"$ENGINE_URL/api/jobs/%d\" | jq .status", i+1))
			md.PlainText("")
		}

		if spec.WithTable {
			md.H2("Reference")
			md.Table(markdown.TableSet{
				Header: []string{"Setting", "Default", "Notes"},
				Rows: [][]string{
					{"poll_interval", "3s", "Delay between status polls"},
					{"job_timeout", "5m", "Wall-clock bound per job"},
				},
			})
			md.PlainText("")
		}

		if spec.WithFigures {
			md.PlainTextf("![Pipeline overview diagram](https://assets.example.invalid/diagrams/stage-%d.png)", i+1)
			md.PlainText("")
		}
	}

	if err := md.Build(); err != nil {
		// bytes.Buffer writes cannot fail; Build only surfaces writer errors.
		panic(fmt.Sprintf("corpus: markdown build failed: %v", err))
	}

	return &Document{
		Filename: fmt.Sprintf("kescan-corpus-%d-sections.md", spec.Sections),
		Content:  buf.String(),
		Spec:     spec,
	}
}

// SingleTopic returns a small one-section document used by the basic
// processing and upload checks.
func SingleTopic() *Document {
	return Generate(Spec{
		Title:       "Single Topic Verification Document",
		Sections:    1,
		Subsections: 2,
		WithSteps:   true,
		WithCode:    true,
	})
}

// MultiTopic returns a document with the given number of H1 topics,
// exercising the chunker. Sections carry steps, code, tables, and figures
// so structure checks have material to assert on.
func MultiTopic(sections int) *Document {
	return Generate(Spec{
		Sections:    sections,
		Subsections: 2,
		WithSteps:   true,
		WithCode:    true,
		WithTable:   true,
		WithFigures: true,
	})
}
