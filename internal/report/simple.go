package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/kescan/kescan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Plain ASCII rather than ANSI colors keeps output pipeable and readable
// in any terminal.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.CheckReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeSuites(&sb, report)
	w.writeFailures(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CheckReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          KESCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Target:         %s\n", report.Target))
	sb.WriteString(fmt.Sprintf("Run ID:         %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Check Date:     %s\n", report.DateChecked.Format("2006-01-02 15:04:05 MST")))

	if report.EngineReachable {
		version := report.EngineVersion
		if version == "" {
			version = "unknown"
		}
		sb.WriteString(fmt.Sprintf("Engine Version: %s\n", version))
	} else {
		sb.WriteString("Engine Version: unreachable\n")
	}

	switch {
	case report.TimedOut:
		sb.WriteString("Status:         TIMED OUT (partial results)\n")
	case report.ErrorMessage != "":
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", report.ErrorMessage))
	case report.Passed():
		sb.WriteString("Status:         PASS\n")
	default:
		sb.WriteString("Status:         FAIL\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the status summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.CheckReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("STATUS SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  PASS:  %d\n", report.PassCount))
	sb.WriteString(fmt.Sprintf("  FAIL:  %d\n", report.FailCount))
	sb.WriteString(fmt.Sprintf("  SKIP:  %d\n", report.SkipCount))
	sb.WriteString(fmt.Sprintf("  ERROR: %d\n", report.ErrorCount))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  TOTAL: %d checks\n", report.TotalChecks()))

	if sev, found := report.HighestSeverityFailure(); found {
		sb.WriteString(fmt.Sprintf("  Highest failure severity: %s\n", sev.String()))
	}
	sb.WriteString("\n")
}

// writeSuites writes per-suite check outcomes.
func (w *SimpleWriter) writeSuites(sb *strings.Builder, report *model.CheckReport) {
	if report.TotalChecks() == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CHECKS BY SUITE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if report.TotalChecks() == 0 {
		sb.WriteString("  No checks executed\n\n")
		return
	}

	for _, suite := range report.SuiteNames() {
		sb.WriteString(fmt.Sprintf("[%s]\n", suite))
		for _, res := range report.ResultsBySuite(suite) {
			sb.WriteString(fmt.Sprintf("  %s %s\n", w.statusIndicator(res.Status), res.Name))
			if w.verbose && res.Detail != "" {
				sb.WriteString(fmt.Sprintf("        %s\n", res.Detail))
			}
		}
		sb.WriteString("\n")
	}
}

// writeFailures writes details for every failed or errored check.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, report *model.CheckReport) {
	failures := append(report.ResultsByStatus(model.StatusFail),
		report.ResultsByStatus(model.StatusError)...)
	if len(failures) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FAILURES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(failures) == 0 {
		sb.WriteString("  No failures\n\n")
		return
	}

	for _, res := range failures {
		sb.WriteString(fmt.Sprintf("  * [%s] %s (%s)\n", res.SeverityText, res.Name, res.Suite))
		if res.Expected != "" {
			sb.WriteString(fmt.Sprintf("    Expected: %s\n", res.Expected))
		}
		if res.Actual != "" {
			sb.WriteString(fmt.Sprintf("    Actual:   %s\n", res.Actual))
		}
		if res.Detail != "" {
			sb.WriteString(fmt.Sprintf("    Detail:   %s\n", res.Detail))
		}
		if res.Endpoint != "" {
			sb.WriteString(fmt.Sprintf("    Endpoint: %s\n", res.Endpoint))
		}
		if w.verbose {
			if res.Impact != "" {
				sb.WriteString(fmt.Sprintf("    Impact:   %s\n", res.Impact))
			}
			if res.Recommendation != "" {
				sb.WriteString(fmt.Sprintf("    Fix:      %s\n", res.Recommendation))
			}
		}
	}
	sb.WriteString("\n")
}

// statusIndicator returns a visual indicator for the check status.
func (w *SimpleWriter) statusIndicator(status model.Status) string {
	switch status {
	case model.StatusPass:
		return "[ok]"
	case model.StatusFail:
		return "[NG]"
	case model.StatusSkip:
		return "[--]"
	case model.StatusError:
		return "[!!]"
	default:
		return "[??]"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by kescan\n")
	sb.WriteString("https://github.com/kescan/kescan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
