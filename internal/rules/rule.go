package rules

import (
	"github.com/webshepherd/webshepherd/internal/htmldoc"
	"github.com/webshepherd/webshepherd/internal/model"
)

// Metadata is the fixed taxonomy a rule stamps on every finding it emits.
type Metadata struct {
	// RuleCode is the rule's primary stable identifier.
	RuleCode string

	// WCAGReference is the success criterion, e.g. "1.1.1".
	WCAGReference string

	// WCAGLevel is the conformance level of the criterion.
	WCAGLevel model.WCAGLevel

	// Principle is one of the four WCAG principles.
	Principle string
}

// Rule is one unit of checking capability. Implementations must be
// stateless, side-effect free, and total over any well-formed document:
// a rule that finds nothing still emits exactly one Pass finding, so the
// engine can rely on every rule having an opinion.
type Rule interface {
	// Metadata returns the rule's fixed taxonomy metadata.
	Metadata() Metadata

	// Evaluate checks the document and returns at least one finding.
	// Violations are summarized: one Warning/Fail finding per distinct
	// violation kind with an occurrence count and one representative
	// element snippet, never one finding per element.
	Evaluate(doc *htmldoc.Document) []model.Finding
}

// base provides the shared finding constructor. Embedding it guarantees
// taxonomy metadata is stamped uniformly on every finding a rule emits.
type base struct {
	meta Metadata
}

// Metadata implements the Rule interface.
func (b base) Metadata() Metadata {
	return b.meta
}

// finding builds a Finding carrying the rule's own code and taxonomy.
func (b base) finding(severity model.Severity, message, remediation, element string, count int) model.Finding {
	return b.findingWithCode(b.meta.RuleCode, severity, message, remediation, element, count)
}

// findingWithCode builds a Finding with an alternate rule code for rules
// that emit several distinct codes for distinct failure shapes. Taxonomy
// metadata still comes from the rule.
func (b base) findingWithCode(code string, severity model.Severity, message, remediation, element string, count int) model.Finding {
	if count < 1 {
		count = 1
	}
	return model.Finding{
		RuleCode:      code,
		Severity:      severity,
		Message:       message,
		Element:       element,
		WCAGReference: b.meta.WCAGReference,
		WCAGLevel:     b.meta.WCAGLevel,
		Principle:     b.meta.Principle,
		Remediation:   remediation,
		Count:         count,
	}
}

// pass is shorthand for the single Pass finding a clean rule emits.
func (b base) pass(message string) model.Finding {
	return b.finding(model.SeverityPass, message, "N/A - Check passed", "", 1)
}

// truncate shortens s to at most n bytes for use inside messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
