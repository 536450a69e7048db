package report

import (
	"io"

	"github.com/kescan/kescan/internal/model"
)

// Writer renders a verification report to some destination. Implementations
// cover terminal text, JSON, and markdown output.
type Writer interface {
	// Write renders the report, returning bytes written.
	Write(report *model.CheckReport) (int, error)
}

// MultiWriter fans one report out to several Writers, for example terminal
// plus file. io.MultiWriter cannot serve here because this Writer interface
// takes reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that renders to every provided Writer.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the report through each writer in order, stopping at the
// first error. The returned count sums all successful writes.
func (m *MultiWriter) Write(report *model.CheckReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
