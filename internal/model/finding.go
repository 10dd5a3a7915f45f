package model

// Finding is one rule's verdict for one document.
//
// A rule that detects N offending elements of the same kind reports one
// Finding with Count = N, not N findings. This keeps TotalChecks meaningful
// as "rules that had an opinion": downstream counters count findings,
// never occurrences.
type Finding struct {
	// RuleCode is the stable identifier of the rule variant that produced
	// this finding (e.g. IMG_ALT_MISSING). A single rule may emit several
	// distinct codes for distinct failure shapes.
	RuleCode string `json:"rule_code"`

	// Severity is the pass/warning/fail classification.
	Severity Severity `json:"severity"`

	// Message is the human-readable description authored by the rule.
	// Opaque to the engine.
	Message string `json:"message"`

	// Element is a bounded snippet of the first offending markup.
	// Empty when no single element is representative.
	Element string `json:"element,omitempty"`

	// WCAGReference is the success criterion (e.g. "1.1.1").
	WCAGReference string `json:"wcag_reference"`

	// WCAGLevel is the conformance level of the criterion.
	WCAGLevel WCAGLevel `json:"wcag_level"`

	// Principle is one of the four WCAG principles.
	Principle string `json:"principle"`

	// Remediation explains how to fix the issue.
	Remediation string `json:"remediation"`

	// Count is the number of underlying occurrences this finding
	// summarizes. Always at least 1.
	Count int `json:"count"`
}

// IsIssue reports whether the finding contributes to per-principle issue
// counters (Warning and Fail do, Pass never does).
func (f Finding) IsIssue() bool {
	return f.Severity == SeverityWarning || f.Severity == SeverityFail
}
