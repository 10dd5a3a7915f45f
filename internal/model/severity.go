package model

import (
	"encoding/json"
	"fmt"
)

// Severity classifies a single finding.
// Pass, Warning and Fail participate only in counting; the scorer never
// sorts or compares findings by severity.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons. The String() method provides the wire
// representation used in JSON and database storage.
type Severity int

const (
	// SeverityPass indicates the rule found no violations, including the
	// case where nothing on the page was applicable to the rule.
	SeverityPass Severity = iota

	// SeverityWarning indicates an issue that degrades accessibility but
	// does not outright block it. Warnings earn half credit in scoring.
	SeverityWarning

	// SeverityFail indicates a violation of a WCAG success criterion.
	// Failures earn zero credit in scoring.
	SeverityFail
)

// String returns the wire representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityPass:
		return "pass"
	case SeverityWarning:
		return "warning"
	case SeverityFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the string form of a severity.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity converts a wire string back to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "pass":
		return SeverityPass, nil
	case "warning":
		return SeverityWarning, nil
	case "fail":
		return SeverityFail, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

// WCAGLevel is a WCAG conformance level.
type WCAGLevel string

// WCAG conformance levels. The catalogue targets AA.
const (
	WCAGLevelA   WCAGLevel = "A"
	WCAGLevelAA  WCAGLevel = "AA"
	WCAGLevelAAA WCAGLevel = "AAA"
)

// The four fixed WCAG principles. Every rule's metadata must name one of
// these; the catalogue rejects anything else at registration time.
const (
	PrinciplePerceivable    = "Perceivable"
	PrincipleOperable       = "Operable"
	PrincipleUnderstandable = "Understandable"
	PrincipleRobust         = "Robust"
)

// ValidPrinciple reports whether p is one of the four WCAG principles.
func ValidPrinciple(p string) bool {
	switch p {
	case PrinciplePerceivable, PrincipleOperable, PrincipleUnderstandable, PrincipleRobust:
		return true
	}
	return false
}
