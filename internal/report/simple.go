package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/webshepherd/webshepherd/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables per-finding detail including remediation advice.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with remediation details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs one scan record in human-readable format.
func (w *SimpleWriter) Write(record *model.ScanRecord) (int, error) {
	var sb strings.Builder
	w.writeRecord(&sb, record)
	return w.output.Write([]byte(sb.String()))
}

// WriteBatch outputs every record followed by a one-line batch summary.
func (w *SimpleWriter) WriteBatch(records []*model.ScanRecord) (int, error) {
	var sb strings.Builder
	complete := 0
	for _, record := range records {
		w.writeRecord(&sb, record)
		if record.Status == model.StatusComplete {
			complete++
		}
	}
	fmt.Fprintf(&sb, "Scanned %d URLs: %d complete, %d failed\n",
		len(records), complete, len(records)-complete)
	return w.output.Write([]byte(sb.String()))
}

// writeRecord renders one record into the builder.
func (w *SimpleWriter) writeRecord(sb *strings.Builder, record *model.ScanRecord) {
	w.writeHeader(sb, record)

	if record.Status == model.StatusFailed {
		fmt.Fprintf(sb, "Scan failed: %s\n\n", record.ErrorMessage)
		return
	}

	w.writeSummary(sb, record)
	w.writeIssues(sb, record)
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, record *model.ScanRecord) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      WEBSHEPHERD SCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "URL:        %s\n", record.URL)
	fmt.Fprintf(sb, "Scan ID:    %s\n", record.ScanID)
	fmt.Fprintf(sb, "Scan Date:  %s\n", record.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if record.DurationMS != nil {
		fmt.Fprintf(sb, "Duration:   %d ms\n", *record.DurationMS)
	}
	if record.Status == model.StatusFailed {
		sb.WriteString("Status:     FAILED\n")
	} else {
		sb.WriteString("Status:     Complete\n")
	}
	sb.WriteString("\n")
}

// writeSummary writes the score and severity counters.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, record *model.ScanRecord) {
	if record.Score != nil {
		fmt.Fprintf(sb, "Accessibility Score: %.1f / 100\n\n", *record.Score)
	}
	fmt.Fprintf(sb, "Checks:   %d total, %d passed, %d warnings, %d failures\n",
		record.TotalChecks, record.PassedChecks, record.Warnings, record.Failures)
	fmt.Fprintf(sb, "Issues:   perceivable %d, operable %d, understandable %d, robust %d\n\n",
		record.PerceivableIssues, record.OperableIssues,
		record.UnderstandableIssues, record.RobustIssues)
}

// writeIssues writes warning and failure findings, failures first.
func (w *SimpleWriter) writeIssues(sb *strings.Builder, record *model.ScanRecord) {
	issues := 0
	for _, severity := range []model.Severity{model.SeverityFail, model.SeverityWarning} {
		for _, f := range record.Findings {
			if f.Severity != severity {
				continue
			}
			issues++
			fmt.Fprintf(sb, "[%s] %s (WCAG %s, %s)\n",
				strings.ToUpper(f.Severity.String()), f.Message, f.WCAGReference, f.RuleCode)
			if w.verbose {
				if f.Element != "" {
					fmt.Fprintf(sb, "    Element:     %s\n", f.Element)
				}
				fmt.Fprintf(sb, "    Remediation: %s\n", f.Remediation)
			}
		}
	}

	if issues == 0 {
		sb.WriteString("No accessibility issues detected.\n")
	}
	sb.WriteString("\n")
}
