package rules

import (
	"fmt"
	"strings"

	"github.com/webshepherd/webshepherd/internal/htmldoc"
	"github.com/webshepherd/webshepherd/internal/model"
)

// DuplicateIDRule checks WCAG 4.1.1 Parsing: id attribute values must be
// unique within the document. Each distinct duplicated value is reported
// once, regardless of how many elements share it.
type DuplicateIDRule struct {
	base
}

// NewDuplicateIDRule creates the duplicate id rule.
func NewDuplicateIDRule() *DuplicateIDRule {
	return &DuplicateIDRule{base{Metadata{
		RuleCode:      "DUPLICATE_ID",
		WCAGReference: "4.1.1",
		WCAGLevel:     model.WCAGLevelAA,
		Principle:     model.PrincipleRobust,
	}}}
}

// Evaluate implements the Rule interface.
func (r *DuplicateIDRule) Evaluate(doc *htmldoc.Document) []model.Finding {
	allIDs := doc.AllIDs()

	// Ordered slice rather than a set so messages are deterministic
	// across runs over the same document.
	seen := make(map[string]bool, len(allIDs))
	reported := make(map[string]bool)
	var duplicates []string
	for _, id := range allIDs {
		if seen[id] && !reported[id] {
			reported[id] = true
			duplicates = append(duplicates, id)
		}
		seen[id] = true
	}

	switch {
	case len(duplicates) > 0:
		quoted := make([]string, 0, 5)
		for _, d := range duplicates[:min(5, len(duplicates))] {
			quoted = append(quoted, "'"+d+"'")
		}
		return []model.Finding{r.finding(
			model.SeverityFail,
			fmt.Sprintf("%d duplicate IDs found: %s", len(duplicates), strings.Join(quoted, ", ")),
			"Ensure all ID attributes are unique within the document",
			"",
			len(duplicates),
		)}
	case len(allIDs) > 0:
		return []model.Finding{r.pass(fmt.Sprintf("All %d IDs are unique", len(allIDs)))}
	default:
		return []model.Finding{r.pass("No ID attributes found")}
	}
}

// validARIARoles is the fixed whitelist of recognized ARIA 1.2 roles.
var validARIARoles = map[string]bool{
	"alert": true, "alertdialog": true, "application": true, "article": true,
	"banner": true, "button": true, "checkbox": true, "columnheader": true,
	"combobox": true, "complementary": true, "contentinfo": true,
	"definition": true, "dialog": true, "directory": true, "document": true,
	"feed": true, "figure": true, "form": true, "grid": true,
	"gridcell": true, "group": true, "heading": true, "img": true,
	"link": true, "list": true, "listbox": true, "listitem": true,
	"log": true, "main": true, "marquee": true, "math": true, "menu": true,
	"menubar": true, "menuitem": true, "menuitemcheckbox": true,
	"menuitemradio": true, "navigation": true, "none": true, "note": true,
	"option": true, "presentation": true, "progressbar": true, "radio": true,
	"radiogroup": true, "region": true, "row": true, "rowgroup": true,
	"rowheader": true, "scrollbar": true, "search": true, "searchbox": true,
	"separator": true, "slider": true, "spinbutton": true, "status": true,
	"switch": true, "tab": true, "table": true, "tablist": true,
	"tabpanel": true, "term": true, "textbox": true, "timer": true,
	"toolbar": true, "tooltip": true, "tree": true, "treegrid": true,
	"treeitem": true,
}

// ARIARoleRule checks WCAG 4.1.2: role attribute values must come from
// the fixed whitelist of ARIA 1.2 roles.
type ARIARoleRule struct {
	base
}

// NewARIARoleRule creates the ARIA role validity rule.
func NewARIARoleRule() *ARIARoleRule {
	return &ARIARoleRule{base{Metadata{
		RuleCode:      "ARIA_ROLE_INVALID",
		WCAGReference: "4.1.2",
		WCAGLevel:     model.WCAGLevelAA,
		Principle:     model.PrincipleRobust,
	}}}
}

// Evaluate implements the Rule interface.
func (r *ARIARoleRule) Evaluate(doc *htmldoc.Document) []model.Finding {
	withRole := doc.ElementsWithAttribute("role")

	var invalidRoles []string
	var firstOffender *htmldoc.Element
	for _, el := range withRole {
		roleVal, _ := el.Attr("role")
		role := strings.ToLower(strings.TrimSpace(roleVal))
		if role != "" && !validARIARoles[role] {
			invalidRoles = append(invalidRoles, role)
			if firstOffender == nil {
				offender := el
				firstOffender = &offender
			}
		}
	}

	switch {
	case len(invalidRoles) > 0:
		quoted := make([]string, 0, 5)
		for _, role := range invalidRoles[:min(5, len(invalidRoles))] {
			quoted = append(quoted, "'"+role+"'")
		}
		return []model.Finding{r.finding(
			model.SeverityFail,
			fmt.Sprintf("%d invalid ARIA roles found: %s", len(invalidRoles), strings.Join(quoted, ", ")),
			"Use only valid ARIA 1.2 role values",
			firstOffender.Snippet(),
			len(invalidRoles),
		)}
	case len(withRole) > 0:
		return []model.Finding{r.pass(fmt.Sprintf("All %d ARIA roles are valid", len(withRole)))}
	default:
		return []model.Finding{r.pass("No ARIA roles found")}
	}
}
