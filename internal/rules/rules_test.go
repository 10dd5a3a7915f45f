package rules

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/webshepherd/webshepherd/internal/htmldoc"
	"github.com/webshepherd/webshepherd/internal/model"
)

func mustParse(t *testing.T, text string) *htmldoc.Document {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	doc, err := htmldoc.Parse(text, logger)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestImageAltTextRule_Evaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		wantSeverity model.Severity
		wantCount    int
	}{
		{
			name:         "no images passes",
			html:         `<html lang="en"><head><title>Test</title></head><body><p>text</p></body></html>`,
			wantSeverity: model.SeverityPass,
			wantCount:    1,
		},
		{
			name:         "empty alt is decorative and passes",
			html:         `<html><body><img src="a.png" alt=""><img src="b.png" alt="chart"></body></html>`,
			wantSeverity: model.SeverityPass,
			wantCount:    1,
		},
		{
			name:         "missing alt fails with count of offenders only",
			html:         `<html><body><img src="a.png"><img src="b.png" alt=""></body></html>`,
			wantSeverity: model.SeverityFail,
			wantCount:    1,
		},
		{
			name:         "multiple missing summarized into one finding",
			html:         `<html><body><img src="a.png"><img src="b.png"><img src="c.png"></body></html>`,
			wantSeverity: model.SeverityFail,
			wantCount:    3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			findings := NewImageAltTextRule().Evaluate(mustParse(t, tt.html))
			if len(findings) != 1 {
				t.Fatalf("Evaluate() returned %d findings, want 1", len(findings))
			}
			if findings[0].Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %v", findings[0].Severity, tt.wantSeverity)
			}
			if findings[0].Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", findings[0].Count, tt.wantCount)
			}
			if findings[0].RuleCode != "IMG_ALT_MISSING" {
				t.Errorf("RuleCode = %q, want IMG_ALT_MISSING", findings[0].RuleCode)
			}
		})
	}
}

func TestHTMLLangRule_Evaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		wantCode     string
		wantSeverity model.Severity
	}{
		{
			name:         "lang present passes",
			html:         `<html lang="en"><body></body></html>`,
			wantCode:     "HTML_LANG_MISSING",
			wantSeverity: model.SeverityPass,
		},
		{
			name:         "regional subtag passes",
			html:         `<html lang="pt-BR"><body></body></html>`,
			wantCode:     "HTML_LANG_MISSING",
			wantSeverity: model.SeverityPass,
		},
		{
			name:         "lang missing fails",
			html:         `<html><body></body></html>`,
			wantCode:     "HTML_LANG_MISSING",
			wantSeverity: model.SeverityFail,
		},
		{
			name:         "lang empty fails",
			html:         `<html lang=""><body></body></html>`,
			wantCode:     "HTML_LANG_MISSING",
			wantSeverity: model.SeverityFail,
		},
		{
			name:         "malformed tag warns under distinct code",
			html:         `<html lang="not a language"><body></body></html>`,
			wantCode:     "HTML_LANG_INVALID",
			wantSeverity: model.SeverityWarning,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			findings := NewHTMLLangRule().Evaluate(mustParse(t, tt.html))
			if len(findings) != 1 {
				t.Fatalf("Evaluate() returned %d findings, want 1", len(findings))
			}
			if findings[0].RuleCode != tt.wantCode {
				t.Errorf("RuleCode = %q, want %q", findings[0].RuleCode, tt.wantCode)
			}
			if findings[0].Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %v", findings[0].Severity, tt.wantSeverity)
			}
		})
	}
}

func TestPageTitleRule_Evaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		wantSeverity model.Severity
	}{
		{
			name:         "descriptive title passes",
			html:         `<html><head><title>Accessibility Report</title></head><body></body></html>`,
			wantSeverity: model.SeverityPass,
		},
		{
			name:         "missing title fails",
			html:         `<html><head></head><body></body></html>`,
			wantSeverity: model.SeverityFail,
		},
		{
			name:         "whitespace-only title fails as empty",
			html:         "<html><head><title>   </title></head><body></body></html>",
			wantSeverity: model.SeverityFail,
		},
		{
			name:         "very short title warns",
			html:         `<html><head><title>Hi</title></head><body></body></html>`,
			wantSeverity: model.SeverityWarning,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			findings := NewPageTitleRule().Evaluate(mustParse(t, tt.html))
			if len(findings) != 1 {
				t.Fatalf("Evaluate() returned %d findings, want 1", len(findings))
			}
			if findings[0].Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %v", findings[0].Severity, tt.wantSeverity)
			}
		})
	}
}

func TestFormLabelRule_Evaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		wantSeverity model.Severity
		wantCount    int
	}{
		{
			name:         "no inputs passes",
			html:         `<html><body><p>plain page</p></body></html>`,
			wantSeverity: model.SeverityPass,
			wantCount:    1,
		},
		{
			name:         "label for association passes",
			html:         `<html><body><label for="q">Search</label><input id="q" type="text"></body></html>`,
			wantSeverity: model.SeverityPass,
			wantCount:    1,
		},
		{
			name:         "wrapping label passes",
			html:         `<html><body><label>Search <input type="text"></label></body></html>`,
			wantSeverity: model.SeverityPass,
			wantCount:    1,
		},
		{
			name:         "aria-label passes",
			html:         `<html><body><input type="text" aria-label="Search"></body></html>`,
			wantSeverity: model.SeverityPass,
			wantCount:    1,
		},
		{
			name:         "hidden and submit inputs are exempt",
			html:         `<html><body><input type="hidden" name="csrf"><input type="submit" value="Go"></body></html>`,
			wantSeverity: model.SeverityPass,
			wantCount:    1,
		},
		{
			name:         "unlabeled inputs fail with count",
			html:         `<html><body><input type="text"><textarea></textarea></body></html>`,
			wantSeverity: model.SeverityFail,
			wantCount:    2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			findings := NewFormLabelRule().Evaluate(mustParse(t, tt.html))
			if len(findings) != 1 {
				t.Fatalf("Evaluate() returned %d findings, want 1", len(findings))
			}
			if findings[0].Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %v", findings[0].Severity, tt.wantSeverity)
			}
			if findings[0].Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", findings[0].Count, tt.wantCount)
			}
		})
	}
}

func TestButtonNameRule_Evaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		wantSeverity model.Severity
	}{
		{
			name:         "text content passes",
			html:         `<html><body><button>Submit</button></body></html>`,
			wantSeverity: model.SeverityPass,
		},
		{
			name:         "input button with value passes",
			html:         `<html><body><input type="button" value="Go"></body></html>`,
			wantSeverity: model.SeverityPass,
		},
		{
			name:         "aria-label passes",
			html:         `<html><body><button aria-label="Close dialog"></button></body></html>`,
			wantSeverity: model.SeverityPass,
		},
		{
			name:         "icon-only button fails",
			html:         `<html><body><button><span class="icon"></span></button></body></html>`,
			wantSeverity: model.SeverityFail,
		},
		{
			name:         "no buttons passes",
			html:         `<html><body></body></html>`,
			wantSeverity: model.SeverityPass,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			findings := NewButtonNameRule().Evaluate(mustParse(t, tt.html))
			if len(findings) != 1 {
				t.Fatalf("Evaluate() returned %d findings, want 1", len(findings))
			}
			if findings[0].Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %v", findings[0].Severity, tt.wantSeverity)
			}
		})
	}
}

func TestLinkTextRule_Evaluate(t *testing.T) {
	t.Parallel()

	t.Run("vague text warns rather than fails", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><a href="/doc">Click here</a></body></html>`)
		findings := NewLinkTextRule().Evaluate(doc)
		if len(findings) != 1 {
			t.Fatalf("Evaluate() returned %d findings, want 1", len(findings))
		}
		if findings[0].Severity != model.SeverityWarning {
			t.Errorf("Severity = %v, want %v", findings[0].Severity, model.SeverityWarning)
		}
	})

	t.Run("vague phrase inside longer text passes", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><a href="/doc">Click here to download the report</a></body></html>`)
		findings := NewLinkTextRule().Evaluate(doc)
		if len(findings) != 1 || findings[0].Severity != model.SeverityPass {
			t.Errorf("got %+v, want one Pass finding", findings)
		}
	})

	t.Run("empty and vague links produce two findings", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><a href="/a"></a><a href="/b">here</a></body></html>`)
		findings := NewLinkTextRule().Evaluate(doc)
		if len(findings) != 2 {
			t.Fatalf("Evaluate() returned %d findings, want 2", len(findings))
		}
		if findings[0].Severity != model.SeverityFail {
			t.Errorf("first finding Severity = %v, want %v", findings[0].Severity, model.SeverityFail)
		}
		if findings[1].Severity != model.SeverityWarning {
			t.Errorf("second finding Severity = %v, want %v", findings[1].Severity, model.SeverityWarning)
		}
	})

	t.Run("aria-label rescues empty link", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><a href="/a" aria-label="Download annual report"></a></body></html>`)
		findings := NewLinkTextRule().Evaluate(doc)
		if len(findings) != 1 || findings[0].Severity != model.SeverityPass {
			t.Errorf("got %+v, want one Pass finding", findings)
		}
	})

	t.Run("image alt serves as link text", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><a href="/a"><img src="logo.png" alt="Home"></a></body></html>`)
		findings := NewLinkTextRule().Evaluate(doc)
		if len(findings) != 1 || findings[0].Severity != model.SeverityPass {
			t.Errorf("got %+v, want one Pass finding", findings)
		}
	})
}

func TestHeadingHierarchyRule_Evaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		wantSeverity model.Severity
		wantCount    int
	}{
		{
			name:         "sequential levels pass",
			html:         `<html><body><h1>A</h1><h2>B</h2><h3>C</h3></body></html>`,
			wantSeverity: model.SeverityPass,
			wantCount:    1,
		},
		{
			name:         "stepping back up is allowed",
			html:         `<html><body><h1>A</h1><h2>B</h2><h3>C</h3><h2>D</h2></body></html>`,
			wantSeverity: model.SeverityPass,
			wantCount:    1,
		},
		{
			name:         "skip from h1 to h3 warns",
			html:         `<html><body><h1>A</h1><h3>C</h3></body></html>`,
			wantSeverity: model.SeverityWarning,
			wantCount:    1,
		},
		{
			name:         "not starting with h1 warns",
			html:         `<html><body><h2>B</h2><h3>C</h3></body></html>`,
			wantSeverity: model.SeverityWarning,
			wantCount:    1,
		},
		{
			name:         "no headings at all warns",
			html:         `<html><body><p>no structure</p></body></html>`,
			wantSeverity: model.SeverityWarning,
			wantCount:    1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			findings := NewHeadingHierarchyRule().Evaluate(mustParse(t, tt.html))
			if len(findings) != 1 {
				t.Fatalf("Evaluate() returned %d findings, want 1", len(findings))
			}
			if findings[0].Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %v", findings[0].Severity, tt.wantSeverity)
			}
			if findings[0].Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", findings[0].Count, tt.wantCount)
			}
		})
	}
}

func TestSingleH1Rule_Evaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		wantSeverity model.Severity
		wantCount    int
	}{
		{
			name:         "exactly one h1 passes",
			html:         `<html><body><h1>Main</h1></body></html>`,
			wantSeverity: model.SeverityPass,
			wantCount:    1,
		},
		{
			name:         "no h1 warns",
			html:         `<html><body><h2>Sub</h2></body></html>`,
			wantSeverity: model.SeverityWarning,
			wantCount:    1,
		},
		{
			name:         "multiple h1 warns with count",
			html:         `<html><body><h1>One</h1><h1>Two</h1><h1>Three</h1></body></html>`,
			wantSeverity: model.SeverityWarning,
			wantCount:    3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			findings := NewSingleH1Rule().Evaluate(mustParse(t, tt.html))
			if len(findings) != 1 {
				t.Fatalf("Evaluate() returned %d findings, want 1", len(findings))
			}
			if findings[0].Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %v", findings[0].Severity, tt.wantSeverity)
			}
			if findings[0].Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", findings[0].Count, tt.wantCount)
			}
		})
	}
}

func TestDuplicateIDRule_Evaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		wantSeverity model.Severity
		wantCount    int
	}{
		{
			name:         "unique ids pass",
			html:         `<html><body><div id="a"></div><div id="b"></div></body></html>`,
			wantSeverity: model.SeverityPass,
			wantCount:    1,
		},
		{
			name:         "no ids pass",
			html:         `<html><body><div></div></body></html>`,
			wantSeverity: model.SeverityPass,
			wantCount:    1,
		},
		{
			name:         "one value duplicated twice counts once",
			html:         `<html><body><div id="x"></div><span id="x"></span></body></html>`,
			wantSeverity: model.SeverityFail,
			wantCount:    1,
		},
		{
			name:         "triplicate value still counts once",
			html:         `<html><body><div id="x"></div><span id="x"></span><p id="x"></p></body></html>`,
			wantSeverity: model.SeverityFail,
			wantCount:    1,
		},
		{
			name:         "two distinct duplicated values count as two",
			html:         `<html><body><div id="x"></div><div id="x"></div><div id="y"></div><div id="y"></div></body></html>`,
			wantSeverity: model.SeverityFail,
			wantCount:    2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			findings := NewDuplicateIDRule().Evaluate(mustParse(t, tt.html))
			if len(findings) != 1 {
				t.Fatalf("Evaluate() returned %d findings, want 1", len(findings))
			}
			if findings[0].Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %v", findings[0].Severity, tt.wantSeverity)
			}
			if findings[0].Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", findings[0].Count, tt.wantCount)
			}
		})
	}
}

func TestARIARoleRule_Evaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		wantSeverity model.Severity
		wantMessage  string
	}{
		{
			name:         "valid roles pass",
			html:         `<html><body><nav role="navigation"></nav><div role="button"></div></body></html>`,
			wantSeverity: model.SeverityPass,
		},
		{
			name:         "role matching is case-insensitive",
			html:         `<html><body><div role="Navigation"></div></body></html>`,
			wantSeverity: model.SeverityPass,
		},
		{
			name:         "invalid role fails and names the value",
			html:         `<html><body><div role="fancybox"></div></body></html>`,
			wantSeverity: model.SeverityFail,
			wantMessage:  "'fancybox'",
		},
		{
			name:         "no roles pass",
			html:         `<html><body><div></div></body></html>`,
			wantSeverity: model.SeverityPass,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			findings := NewARIARoleRule().Evaluate(mustParse(t, tt.html))
			if len(findings) != 1 {
				t.Fatalf("Evaluate() returned %d findings, want 1", len(findings))
			}
			if findings[0].Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %v", findings[0].Severity, tt.wantSeverity)
			}
			if tt.wantMessage != "" && !strings.Contains(findings[0].Message, tt.wantMessage) {
				t.Errorf("Message = %q, want it to contain %q", findings[0].Message, tt.wantMessage)
			}
		})
	}
}
