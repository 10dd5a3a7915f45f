package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/webshepherd/webshepherd/internal/model"
)

func testRecord() *model.ScanRecord {
	record := model.NewScanRecord("abc123def456", "https://example.com")
	findings := []model.Finding{
		{
			RuleCode:      "IMG_ALT_MISSING",
			Severity:      model.SeverityFail,
			Message:       "2 images missing alt attribute",
			WCAGReference: "1.1.1",
			WCAGLevel:     model.WCAGLevelAA,
			Principle:     model.PrinciplePerceivable,
			Remediation:   "Add descriptive alt text to all images.",
			Count:         2,
		},
		{
			RuleCode:      "HTML_LANG_MISSING",
			Severity:      model.SeverityPass,
			Message:       "Page language is set to 'en'",
			WCAGReference: "3.1.1",
			WCAGLevel:     model.WCAGLevelAA,
			Principle:     model.PrincipleUnderstandable,
			Remediation:   "N/A - Check passed",
			Count:         1,
		},
		{
			RuleCode:      "H1_MISSING_OR_MULTIPLE",
			Severity:      model.SeverityWarning,
			Message:       "No <h1> element found on page",
			WCAGReference: "2.4.6",
			WCAGLevel:     model.WCAGLevelAA,
			Principle:     model.PrincipleUnderstandable,
			Remediation:   "Add a single <h1> element to serve as the main page heading",
			Count:         1,
		},
	}
	summary := model.Summary{
		Total: 3, Passed: 1, Warnings: 1, Failures: 1,
		PerceivableIssues: 1, UnderstandableIssues: 1,
		Score: 50.0,
	}
	record.Complete(findings, summary, time.Now())
	return record
}

func failedRecord() *model.ScanRecord {
	record := model.NewScanRecord("fail00000001", "https://down.example.com")
	record.Fail(errors.New("connection refused"), time.Now())
	return record
}

func TestSimpleWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("complete record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(testRecord())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if n != buf.Len() {
			t.Errorf("Write() n = %d, want %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"https://example.com",
			"Accessibility Score: 50.0 / 100",
			"[FAIL] 2 images missing alt attribute",
			"[WARNING] No <h1> element found on page",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if strings.Contains(out, "Page language is set to") {
			t.Error("pass findings should not appear in the issues section")
		}
	})

	t.Run("verbose includes remediation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(testRecord()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "Add descriptive alt text") {
			t.Error("verbose output missing remediation")
		}
	})

	t.Run("failed record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(failedRecord()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "Scan failed: connection refused") {
			t.Errorf("output missing failure message: %s", buf.String())
		}
	})

	t.Run("batch summary line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		records := []*model.ScanRecord{testRecord(), failedRecord()}
		if _, err := NewSimpleWriter(&buf).WriteBatch(records); err != nil {
			t.Fatalf("WriteBatch() error = %v", err)
		}
		if !strings.Contains(buf.String(), "Scanned 2 URLs: 1 complete, 1 failed") {
			t.Errorf("output missing batch summary: %s", buf.String())
		}
	})
}

func TestJSONWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("compact round trip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(testRecord()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		var got model.ScanRecord
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.ScanID != "abc123def456" {
			t.Errorf("scan_id = %q, want abc123def456", got.ScanID)
		}
		if got.Score == nil || *got.Score != 50.0 {
			t.Errorf("score = %v, want 50.0", got.Score)
		}
		if len(got.Findings) != 3 {
			t.Errorf("got %d findings, want 3", len(got.Findings))
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(testRecord()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"") {
			t.Error("pretty output is not indented")
		}
	})

	t.Run("batch is a JSON array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		records := []*model.ScanRecord{testRecord(), failedRecord()}
		if _, err := NewJSONWriter(&buf).WriteBatch(records); err != nil {
			t.Fatalf("WriteBatch() error = %v", err)
		}

		var got []model.ScanRecord
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not a JSON array: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d records, want 2", len(got))
		}
		if got[1].Status != model.StatusFailed {
			t.Errorf("got[1].Status = %v, want failed", got[1].Status)
		}
	})
}

func TestMarkdownWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("complete record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(testRecord()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# WebShepherd Accessibility Report",
			"`IMG_ALT_MISSING`",
			"**50.0 / 100**",
			"mermaid",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("failed record carries alert", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(failedRecord()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "connection refused") {
			t.Error("output missing failure message")
		}
	})
}

func TestMultiWriter_Write(t *testing.T) {
	t.Parallel()

	var text, jsonBuf bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&jsonBuf))

	n, err := mw.Write(testRecord())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != text.Len()+jsonBuf.Len() {
		t.Errorf("Write() n = %d, want %d", n, text.Len()+jsonBuf.Len())
	}
	if text.Len() == 0 || jsonBuf.Len() == 0 {
		t.Error("one of the writers received no output")
	}
}
