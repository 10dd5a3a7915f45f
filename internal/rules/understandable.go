package rules

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/webshepherd/webshepherd/internal/htmldoc"
	"github.com/webshepherd/webshepherd/internal/model"
)

// HTMLLangRule checks WCAG 3.1.1 Language of Page: the root html element
// must declare a language. The rule emits two distinct codes:
// HTML_LANG_MISSING (Fail) when the attribute is absent or empty, and
// HTML_LANG_INVALID (Warning) when the value is not a well-formed BCP 47
// language tag.
type HTMLLangRule struct {
	base
}

// NewHTMLLangRule creates the page language rule.
func NewHTMLLangRule() *HTMLLangRule {
	return &HTMLLangRule{base{Metadata{
		RuleCode:      "HTML_LANG_MISSING",
		WCAGReference: "3.1.1",
		WCAGLevel:     model.WCAGLevelAA,
		Principle:     model.PrincipleUnderstandable,
	}}}
}

// Evaluate implements the Rule interface.
func (r *HTMLLangRule) Evaluate(doc *htmldoc.Document) []model.Finding {
	root, ok := doc.Root()
	if !ok {
		return []model.Finding{r.finding(
			model.SeverityFail,
			"No <html> tag found",
			"Ensure document has a valid <html> tag with lang attribute",
			"",
			1,
		)}
	}

	lang, _ := root.Attr("lang")
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return []model.Finding{r.finding(
			model.SeverityFail,
			"<html> tag missing lang attribute",
			`Add lang attribute to <html> tag (e.g., <html lang="en">)`,
			root.Snippet(),
			1,
		)}
	}

	if _, err := language.Parse(lang); err != nil {
		return []model.Finding{r.findingWithCode(
			"HTML_LANG_INVALID",
			model.SeverityWarning,
			fmt.Sprintf("lang attribute %q is not a well-formed BCP 47 language tag", lang),
			`Use a valid language tag such as "en" or "pt-BR"`,
			root.Snippet(),
			1,
		)}
	}

	return []model.Finding{r.pass(fmt.Sprintf("Page language is set to '%s'", lang))}
}

// HeadingHierarchyRule checks WCAG 1.3.1: heading levels should descend
// without skipping. The first heading should be an h1, and no heading may
// jump more than one level above the previous heading. Levels are taken
// from the numeral in the tag name.
type HeadingHierarchyRule struct {
	base
}

// NewHeadingHierarchyRule creates the heading hierarchy rule.
func NewHeadingHierarchyRule() *HeadingHierarchyRule {
	return &HeadingHierarchyRule{base{Metadata{
		RuleCode:      "HEADING_SKIP_LEVEL",
		WCAGReference: "1.3.1",
		WCAGLevel:     model.WCAGLevelAA,
		Principle:     model.PrincipleUnderstandable,
	}}}
}

// Evaluate implements the Rule interface.
func (r *HeadingHierarchyRule) Evaluate(doc *htmldoc.Document) []model.Finding {
	headings := doc.Headings()
	if len(headings) == 0 {
		// A page without any heading structure is itself an issue,
		// not a vacuous pass.
		return []model.Finding{r.finding(
			model.SeverityWarning,
			"No heading elements found on page",
			"Add heading structure (h1-h6) to organize content",
			"",
			1,
		)}
	}

	var issues []string
	var firstOffender *htmldoc.Element
	prevLevel := 0
	for i, h := range headings {
		level := h.HeadingLevel()
		if i == 0 {
			// Only the first heading is checked for being an h1.
			if level != 1 {
				issues = append(issues, fmt.Sprintf("First heading is %s, should start with h1", h.Tag()))
				if firstOffender == nil {
					offender := h
					firstOffender = &offender
				}
			}
		} else if level > prevLevel+1 {
			issues = append(issues, fmt.Sprintf("Skipped from %d to %d at heading: '%s'",
				prevLevel, level, truncate(h.Text(), 30)))
			if firstOffender == nil {
				offender := h
				firstOffender = &offender
			}
		}
		prevLevel = level
	}

	if len(issues) == 0 {
		return []model.Finding{r.pass(fmt.Sprintf("Heading hierarchy is correct (%d headings)", len(headings)))}
	}

	element := ""
	if firstOffender != nil {
		element = firstOffender.Snippet()
	}
	return []model.Finding{r.finding(
		model.SeverityWarning,
		fmt.Sprintf("Heading hierarchy has %d issues: %s", len(issues), issues[0]),
		"Use sequential heading levels (h1 -> h2 -> h3) without skipping",
		element,
		len(issues),
	)}
}

// SingleH1Rule checks WCAG 2.4.6: a page should have exactly one h1
// serving as the main heading.
type SingleH1Rule struct {
	base
}

// NewSingleH1Rule creates the exactly-one-h1 rule.
func NewSingleH1Rule() *SingleH1Rule {
	return &SingleH1Rule{base{Metadata{
		RuleCode:      "H1_MISSING_OR_MULTIPLE",
		WCAGReference: "2.4.6",
		WCAGLevel:     model.WCAGLevelAA,
		Principle:     model.PrincipleUnderstandable,
	}}}
}

// Evaluate implements the Rule interface.
func (r *SingleH1Rule) Evaluate(doc *htmldoc.Document) []model.Finding {
	h1s := doc.ElementsByTag("h1")

	switch len(h1s) {
	case 0:
		return []model.Finding{r.finding(
			model.SeverityWarning,
			"No <h1> element found on page",
			"Add a single <h1> element to serve as the main page heading",
			"",
			1,
		)}
	case 1:
		return []model.Finding{r.pass(
			fmt.Sprintf("Page has one <h1>: '%s'", truncate(h1s[0].Text(), 50)))}
	default:
		texts := make([]string, 0, 3)
		for _, h := range h1s[:min(3, len(h1s))] {
			texts = append(texts, truncate(h.Text(), 30))
		}
		return []model.Finding{r.finding(
			model.SeverityWarning,
			fmt.Sprintf("Multiple <h1> elements found (%d): %s", len(h1s), strings.Join(texts, ", ")),
			"Use only one <h1> per page for the main heading",
			h1s[1].Snippet(),
			len(h1s),
		)}
	}
}
