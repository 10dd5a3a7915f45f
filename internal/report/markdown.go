package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/webshepherd/webshepherd/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one scan record in Markdown format.
func (w *MarkdownWriter) Write(record *model.ScanRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)
	w.writeRecord(md, record)
	return len(md.String()), md.Build()
}

// WriteBatch outputs every record into one Markdown document.
func (w *MarkdownWriter) WriteBatch(records []*model.ScanRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)
	for _, record := range records {
		w.writeRecord(md, record)
	}
	return len(md.String()), md.Build()
}

// writeRecord renders one record into the markdown builder.
func (w *MarkdownWriter) writeRecord(md *markdown.Markdown, record *model.ScanRecord) {
	w.writeHeader(md, record)

	if record.Status == model.StatusFailed {
		md.Cautionf("Scan failed: %s", record.ErrorMessage)
		md.PlainText("")
		return
	}

	w.writeSummary(md, record)
	w.writeFindings(md, record)
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, record *model.ScanRecord) {
	md.H1("WebShepherd Accessibility Report")
	md.PlainText("")

	rows := [][]string{
		{"URL", "`" + record.URL + "`"},
		{"Scan ID", "`" + record.ScanID + "`"},
		{"Scan Date", record.CreatedAt.Format("2006-01-02 15:04:05 MST")},
		{"Status", w.statusText(record)},
	}
	if record.Score != nil {
		rows = append(rows, []string{"Score", fmt.Sprintf("**%.1f / 100**", *record.Score)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// statusText returns the status text based on record state.
func (w *MarkdownWriter) statusText(record *model.ScanRecord) string {
	if record.Status == model.StatusFailed {
		return "❌ Failed - " + record.ErrorMessage
	}
	return "✅ Complete"
}

// writeSummary writes the check summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, record *model.ScanRecord) {
	md.H2("Check Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Result", "Count"},
		Rows: [][]string{
			{"✅ Passed", strconv.Itoa(record.PassedChecks)},
			{"🟡 Warnings", strconv.Itoa(record.Warnings)},
			{"🔴 Failures", strconv.Itoa(record.Failures)},
			{"**Total**", "**" + strconv.Itoa(record.TotalChecks) + "**"},
		},
	})
	md.PlainText("")

	if record.TotalChecks > 0 {
		w.writePieChart(md, record)
	}
	w.writeAlert(md, record)
}

// writePieChart writes a mermaid pie chart for the check distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, record *model.ScanRecord) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Check Result Distribution"),
		piechart.WithShowData(true),
	)

	if record.PassedChecks > 0 {
		chart.LabelAndIntValue("Passed", uint64(record.PassedChecks))
	}
	if record.Warnings > 0 {
		chart.LabelAndIntValue("Warnings", uint64(record.Warnings))
	}
	if record.Failures > 0 {
		chart.LabelAndIntValue("Failures", uint64(record.Failures))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the counters.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, record *model.ScanRecord) {
	switch {
	case record.Failures > 0:
		md.Cautionf(
			"Accessibility failures detected! %d check(s) failed and block assistive technology users.",
			record.Failures,
		)
	case record.Warnings > 0:
		md.Warningf(
			"%d check(s) raised warnings that may degrade the experience for assistive technology users.",
			record.Warnings,
		)
	default:
		md.Tip("All accessibility checks passed.")
	}
	md.PlainText("")
}

// writeFindings writes warning and failure findings, failures first.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, record *model.ScanRecord) {
	md.H2("Findings")
	md.PlainText("")

	var issues []model.Finding
	for _, severity := range []model.Severity{model.SeverityFail, model.SeverityWarning} {
		for _, f := range record.Findings {
			if f.Severity == severity {
				issues = append(issues, f)
			}
		}
	}

	if len(issues) == 0 {
		md.PlainText("No accessibility issues detected.")
		md.PlainText("")
		return
	}

	w.writeFindingsTable(md, issues)
}

// writeFindingsTable writes a table of issue findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	headers := []string{"Severity", "Rule", "WCAG", "Message", "Remediation"}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		rows[i] = []string{
			strings.ToUpper(f.Severity.String()),
			"`" + f.RuleCode + "`",
			f.WCAGReference,
			f.Message,
			f.Remediation,
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")
}
