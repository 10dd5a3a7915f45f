package rules

import (
	"math"

	"github.com/webshepherd/webshepherd/internal/model"
)

// Summarize reduces a finding sequence into counters and a score.
//
// The score formula is load-bearing for output parity: warnings earn half
// credit, failures zero credit, and the result is rounded to one decimal
// place. An empty sequence scores exactly 100.0 (vacuous pass). Findings
// are counted, never their occurrence counts: a rule summarizing fifty
// bad elements still contributes one check.
func Summarize(findings []model.Finding) model.Summary {
	var s model.Summary
	s.Total = len(findings)

	for _, f := range findings {
		switch f.Severity {
		case model.SeverityPass:
			s.Passed++
		case model.SeverityWarning:
			s.Warnings++
		case model.SeverityFail:
			s.Failures++
		}

		if f.IsIssue() {
			switch f.Principle {
			case model.PrinciplePerceivable:
				s.PerceivableIssues++
			case model.PrincipleOperable:
				s.OperableIssues++
			case model.PrincipleUnderstandable:
				s.UnderstandableIssues++
			case model.PrincipleRobust:
				s.RobustIssues++
			}
		}
	}

	if s.Total == 0 {
		s.Score = 100.0
		return s
	}

	score := (float64(s.Passed) + 0.5*float64(s.Warnings)) / float64(s.Total) * 100
	s.Score = math.Round(score*10) / 10
	return s
}
