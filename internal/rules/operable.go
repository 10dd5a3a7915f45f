package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/webshepherd/webshepherd/internal/htmldoc"
	"github.com/webshepherd/webshepherd/internal/model"
)

// PageTitleRule checks WCAG 2.4.2 Page Titled: the document needs a
// descriptive title. Missing and empty titles are failures; a title
// shorter than three characters is a warning.
type PageTitleRule struct {
	base
}

// NewPageTitleRule creates the page title rule.
func NewPageTitleRule() *PageTitleRule {
	return &PageTitleRule{base{Metadata{
		RuleCode:      "PAGE_TITLE_MISSING",
		WCAGReference: "2.4.2",
		WCAGLevel:     model.WCAGLevelAA,
		Principle:     model.PrincipleOperable,
	}}}
}

// Evaluate implements the Rule interface.
func (r *PageTitleRule) Evaluate(doc *htmldoc.Document) []model.Finding {
	title, ok := doc.Title()
	switch {
	case !ok:
		return []model.Finding{r.finding(
			model.SeverityFail,
			"Page has no <title> element",
			"Add a descriptive <title> element in the <head> section",
			"",
			1,
		)}
	case title == "":
		return []model.Finding{r.finding(
			model.SeverityFail,
			"Page title is empty",
			"Provide a descriptive, meaningful page title",
			"<title></title>",
			1,
		)}
	case utf8.RuneCountInString(title) < 3:
		return []model.Finding{r.finding(
			model.SeverityWarning,
			fmt.Sprintf("Page title is very short: '%s'", title),
			"Provide a more descriptive page title (at least a few words)",
			fmt.Sprintf("<title>%s</title>", title),
			1,
		)}
	default:
		return []model.Finding{r.pass(fmt.Sprintf("Page has title: '%s'", title))}
	}
}

// skippedInputTypes are input types excluded from the form label check.
var skippedInputTypes = map[string]bool{
	"hidden": true, "submit": true, "button": true, "reset": true,
}

// FormLabelRule checks WCAG 3.3.2: every form control needs an associated
// label via a label[for] reference, a wrapping label, aria-label,
// aria-labelledby, or (least preferred) a title attribute.
type FormLabelRule struct {
	base
}

// NewFormLabelRule creates the form label rule.
func NewFormLabelRule() *FormLabelRule {
	return &FormLabelRule{base{Metadata{
		RuleCode:      "FORM_LABEL_MISSING",
		WCAGReference: "3.3.2",
		WCAGLevel:     model.WCAGLevelAA,
		Principle:     model.PrincipleOperable,
	}}}
}

// Evaluate implements the Rule interface.
func (r *FormLabelRule) Evaluate(doc *htmldoc.Document) []model.Finding {
	inputs := doc.Inputs()
	labels := doc.ElementsByTag("label")

	var unlabeled []htmldoc.Element
	for _, input := range inputs {
		inputType, ok := input.Attr("type")
		if !ok {
			inputType = "text"
		}
		if skippedInputTypes[strings.ToLower(inputType)] {
			continue
		}

		if !hasLabel(input, labels) {
			unlabeled = append(unlabeled, input)
		}
	}

	switch {
	case len(unlabeled) > 0:
		return []model.Finding{r.finding(
			model.SeverityFail,
			fmt.Sprintf("%d form inputs missing labels", len(unlabeled)),
			"Add <label> elements with 'for' attribute, or use aria-label",
			unlabeled[0].Snippet(),
			len(unlabeled),
		)}
	case len(inputs) > 0:
		return []model.Finding{r.pass(fmt.Sprintf("All %d form inputs have labels", len(inputs)))}
	default:
		return []model.Finding{r.pass("No form inputs found on page")}
	}
}

// hasLabel reports whether the control has any accepted label association.
func hasLabel(input htmldoc.Element, labels []htmldoc.Element) bool {
	if id, ok := input.Attr("id"); ok && id != "" {
		for _, label := range labels {
			if forID, ok := label.Attr("for"); ok && forID == id {
				return true
			}
		}
	}

	// Wrapping label: the immediate parent only.
	if parent, ok := input.Parent(); ok && parent.Tag() == "label" {
		return true
	}

	for _, attr := range []string{"aria-label", "aria-labelledby", "title"} {
		if v, ok := input.Attr(attr); ok && v != "" {
			return true
		}
	}
	return false
}

// ButtonNameRule checks WCAG 4.1.2: every button needs an accessible name
// via text content, value, aria-label, aria-labelledby, or title.
type ButtonNameRule struct {
	base
}

// NewButtonNameRule creates the button accessible name rule.
func NewButtonNameRule() *ButtonNameRule {
	return &ButtonNameRule{base{Metadata{
		RuleCode:      "BUTTON_NAME_MISSING",
		WCAGReference: "4.1.2",
		WCAGLevel:     model.WCAGLevelAA,
		Principle:     model.PrincipleOperable,
	}}}
}

// Evaluate implements the Rule interface.
func (r *ButtonNameRule) Evaluate(doc *htmldoc.Document) []model.Finding {
	buttons := doc.Buttons()

	var unnamed []htmldoc.Element
	for _, btn := range buttons {
		if !hasAccessibleName(btn) {
			unnamed = append(unnamed, btn)
		}
	}

	switch {
	case len(unnamed) > 0:
		return []model.Finding{r.finding(
			model.SeverityFail,
			fmt.Sprintf("%d buttons missing accessible names", len(unnamed)),
			"Add text content, value, aria-label, or title to buttons",
			unnamed[0].Snippet(),
			len(unnamed),
		)}
	case len(buttons) > 0:
		return []model.Finding{r.pass(fmt.Sprintf("All %d buttons have accessible names", len(buttons)))}
	default:
		return []model.Finding{r.pass("No buttons found on page")}
	}
}

// hasAccessibleName reports whether the button exposes any name source.
func hasAccessibleName(btn htmldoc.Element) bool {
	if btn.Text() != "" {
		return true
	}
	for _, attr := range []string{"value", "aria-label", "aria-labelledby", "title"} {
		if v, ok := btn.Attr(attr); ok && v != "" {
			return true
		}
	}
	return false
}

// vagueLinkTexts is the fixed phrase set for vague-link detection.
// Matching is case-insensitive-trimmed exact match, never substring.
var vagueLinkTexts = map[string]bool{
	"click here": true,
	"read more":  true,
	"more":       true,
	"here":       true,
	"link":       true,
}

// LinkTextRule checks WCAG 2.4.4 Link Purpose: a link needs effective
// text from its own content, an aria-label, or a contained image's alt.
// No effective text is a failure; effective text matching the vague
// phrase set is a warning.
type LinkTextRule struct {
	base
}

// NewLinkTextRule creates the link text rule.
func NewLinkTextRule() *LinkTextRule {
	return &LinkTextRule{base{Metadata{
		RuleCode:      "LINK_TEXT_EMPTY",
		WCAGReference: "2.4.4",
		WCAGLevel:     model.WCAGLevelAA,
		Principle:     model.PrincipleOperable,
	}}}
}

// Evaluate implements the Rule interface.
func (r *LinkTextRule) Evaluate(doc *htmldoc.Document) []model.Finding {
	links := doc.Links()

	var empty, vague []htmldoc.Element
	for _, link := range links {
		effective := effectiveLinkText(link)
		switch {
		case effective == "":
			empty = append(empty, link)
		case vagueLinkTexts[strings.ToLower(effective)]:
			vague = append(vague, link)
		}
	}

	var findings []model.Finding
	if len(empty) > 0 {
		findings = append(findings, r.finding(
			model.SeverityFail,
			fmt.Sprintf("%d links have no text or accessible name", len(empty)),
			"Add descriptive text or aria-label to links",
			empty[0].Snippet(),
			len(empty),
		))
	}
	if len(vague) > 0 {
		findings = append(findings, r.finding(
			model.SeverityWarning,
			fmt.Sprintf("%d links have vague text (e.g., 'click here')", len(vague)),
			"Use descriptive link text that makes sense out of context",
			vague[0].Snippet(),
			len(vague),
		))
	}
	if len(findings) > 0 {
		return findings
	}

	if len(links) > 0 {
		return []model.Finding{r.pass(fmt.Sprintf("All %d links have meaningful text", len(links)))}
	}
	return []model.Finding{r.pass("No links found on page")}
}

// effectiveLinkText resolves a link's effective text: own text first,
// then aria-label, then the alt of a contained image.
func effectiveLinkText(link htmldoc.Element) string {
	if text := link.Text(); text != "" {
		return text
	}
	if label, ok := link.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
		return strings.TrimSpace(label)
	}
	if img, ok := link.Find("img"); ok {
		if alt, ok := img.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			return strings.TrimSpace(alt)
		}
	}
	return ""
}
