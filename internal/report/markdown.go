package report

import (
	"io"
	"strconv"

	"github.com/kescan/kescan/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation, CI artifacts, and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CheckReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeSuites(md, report)
	w.writeFailures(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CheckReport) {
	md.H1("Kescan Report")
	md.PlainText("")

	version := report.EngineVersion
	if !report.EngineReachable {
		version = "unreachable"
	} else if version == "" {
		version = "unknown"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.Target + "`"},
			{"Run ID", "`" + report.RunID + "`"},
			{"Check Date", report.DateChecked.Format("2006-01-02 15:04:05 MST")},
			{"Engine Version", version},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.CheckReport) string {
	if report.TimedOut {
		return "⚠️ Timed Out (partial results)"
	}
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	if report.Passed() {
		return "✅ Pass"
	}
	return "❌ Fail"
}

// writeSummary writes the status summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.CheckReport) {
	md.H2("Status Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"✅ Pass", strconv.Itoa(report.PassCount)},
			{"❌ Fail", strconv.Itoa(report.FailCount)},
			{"⏭️ Skip", strconv.Itoa(report.SkipCount)},
			{"💥 Error", strconv.Itoa(report.ErrorCount)},
			{"**Total**", "**" + strconv.Itoa(report.TotalChecks()) + "**"},
		},
	})
	md.PlainText("")

	if report.TotalChecks() > 0 {
		w.writePieChart(md, report)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for the status distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.CheckReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Check Status Distribution"),
		piechart.WithShowData(true),
	)

	if report.PassCount > 0 {
		chart.LabelAndIntValue("Pass", uint64(report.PassCount))
	}
	if report.FailCount > 0 {
		chart.LabelAndIntValue("Fail", uint64(report.FailCount))
	}
	if report.SkipCount > 0 {
		chart.LabelAndIntValue("Skip", uint64(report.SkipCount))
	}
	if report.ErrorCount > 0 {
		chart.LabelAndIntValue("Error", uint64(report.ErrorCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the failure severity.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.CheckReport) {
	sev, found := report.HighestSeverityFailure()
	switch {
	case !found:
		md.Tip("All checks passed. The engine behaves as expected.")
	case sev == model.SeverityCritical:
		md.Cautionf(
			"Critical regressions detected! %d check(s) failed; core processing is broken.",
			report.FailCount+report.ErrorCount,
		)
	case sev == model.SeverityHigh:
		md.Warningf(
			"High severity regressions detected. %d check(s) failed and should be addressed.",
			report.FailCount+report.ErrorCount,
		)
	case sev == model.SeverityMedium:
		md.Importantf(
			"Medium severity issues found. %d check(s) failed; output quality is degraded.",
			report.FailCount+report.ErrorCount,
		)
	default:
		md.Note("Only low severity and informational checks failed.")
	}
	md.PlainText("")
}

// writeSuites writes per-suite check outcomes.
func (w *MarkdownWriter) writeSuites(md *markdown.Markdown, report *model.CheckReport) {
	md.H2("Checks by Suite")
	md.PlainText("")

	if report.TotalChecks() == 0 {
		md.PlainText("No checks executed.")
		md.PlainText("")
		return
	}

	for _, suite := range report.SuiteNames() {
		results := report.ResultsBySuite(suite)

		md.PlainText("### " + suite)
		md.PlainText("")

		rows := make([][]string, len(results))
		for i, res := range results {
			detail := res.Detail
			if detail == "" {
				detail = "-"
			}
			rows[i] = []string{
				res.Name,
				res.StatusText,
				truncateString(detail, 60),
			}
		}

		md.Table(markdown.TableSet{
			Header: []string{"Check", "Status", "Detail"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeFailures writes a detail table for failed and errored checks.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.CheckReport) {
	failures := append(report.ResultsByStatus(model.StatusFail),
		report.ResultsByStatus(model.StatusError)...)

	md.H2("Failures")
	md.PlainText("")

	if len(failures) == 0 {
		md.PlainText("No failures.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(failures))
	for i, res := range failures {
		expected := res.Expected
		if expected == "" {
			expected = "-"
		}
		actual := res.Actual
		if actual == "" {
			actual = "-"
		}
		rec := res.Recommendation
		if rec == "" {
			rec = "-"
		}

		rows[i] = []string{
			res.Name,
			res.SeverityText,
			truncateString(expected, 50),
			truncateString(actual, 50),
			truncateString(rec, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Check", "Severity", "Expected", "Actual", "Recommendation"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, res := range failures {
		if res.Impact != "" {
			md.Details(res.Name, res.Impact)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [kescan](https://github.com/kescan/kescan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
