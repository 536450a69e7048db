package report

import (
	"encoding/json"
	"io"

	"github.com/kescan/kescan/internal/model"
)

// JSONWriter renders reports as JSON for tool integration. Output is compact
// unless an indent option is applied.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output with an explicit prefix and indent
// string per nesting level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables two-space indented output.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter writing to output.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the report as a single JSON document.
func (w *JSONWriter) Write(report *model.CheckReport) (int, error) {
	return w.encode(report)
}

func (w *JSONWriter) encode(v any) (int, error) {
	marshal := json.Marshal
	if w.indent {
		marshal = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, w.indentPrefix, w.indentString)
		}
	}

	data, err := marshal(v)
	if err != nil {
		return 0, err
	}

	// Trailing newline so piped output stays line-oriented
	return w.output.Write(append(data, '\n'))
}

// JSONReport wraps a report with the tool version that produced it, keeping
// that output-only field out of the core model.
type JSONReport struct {
	// Version is the kescan version that generated this report.
	Version string `json:"version"`

	// Report is the full verification report.
	Report *model.CheckReport `json:"report"`
}

// NewJSONReport wraps report with version metadata.
func NewJSONReport(report *model.CheckReport, version string) *JSONReport {
	return &JSONReport{Version: version, Report: report}
}

// FullJSONWriter renders reports inside the JSONReport metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter
	version string
}

// NewFullJSONWriter creates a FullJSONWriter writing to output, stamping
// each report with version.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write renders the report wrapped with version metadata.
func (w *FullJSONWriter) Write(report *model.CheckReport) (int, error) {
	return w.encode(NewJSONReport(report, w.version))
}
