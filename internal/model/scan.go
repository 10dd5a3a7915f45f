package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ScanStatus is the lifecycle state of a scan record.
type ScanStatus string

// Scan lifecycle states. Pending exists only as the externally visible
// pre-fetch state; Complete and Failed are terminal and final.
const (
	StatusPending  ScanStatus = "pending"
	StatusScanning ScanStatus = "scanning"
	StatusComplete ScanStatus = "complete"
	StatusFailed   ScanStatus = "failed"
)

// Terminal reports whether the status is one of the two final states.
func (s ScanStatus) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// ParseScanStatus converts a stored status string back to a ScanStatus.
func ParseScanStatus(s string) (ScanStatus, error) {
	switch ScanStatus(s) {
	case StatusPending, StatusScanning, StatusComplete, StatusFailed:
		return ScanStatus(s), nil
	default:
		return "", fmt.Errorf("unknown scan status %q", s)
	}
}

// ScanRecord is the terminal outcome of one scan attempt.
//
// The orchestrator is the sole mutator: a record is created in Scanning
// state, mutated exactly once more at the terminal transition, and never
// thereafter. Callers always observe either a Complete record with a score
// and findings, or a Failed record with an error message and neither.
type ScanRecord struct {
	// ScanID is an opaque identifier unique per scan, never reused.
	ScanID string `json:"scan_id"`

	// URL is the scanned document URL.
	URL string `json:"url"`

	// Status is the lifecycle state.
	Status ScanStatus `json:"status"`

	// Score is the accessibility score in [0,100], one decimal place.
	// Nil until the scan completes successfully.
	Score *float64 `json:"score"`

	// Findings is the ordered finding sequence: catalogue order, then
	// within-rule emission order.
	Findings []Finding `json:"findings"`

	// Counters. TotalChecks always equals len(Findings) and equals
	// PassedChecks + Warnings + Failures.
	TotalChecks  int `json:"total_checks"`
	PassedChecks int `json:"passed_checks"`
	Warnings     int `json:"warnings"`
	Failures     int `json:"failures"`

	// Per-principle issue counters, counting Warning and Fail findings.
	PerceivableIssues    int `json:"perceivable_issues"`
	OperableIssues       int `json:"operable_issues"`
	UnderstandableIssues int `json:"understandable_issues"`
	RobustIssues         int `json:"robust_issues"`

	// CreatedAt is the scan start time; CompletedAt the terminal
	// transition time; DurationMS the derived duration in milliseconds.
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	DurationMS  *int64     `json:"scan_duration_ms"`

	// ErrorMessage is populated only when Status is Failed.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewScanRecord creates a record in Scanning state for the given URL.
// The scan id is supplied by the orchestrator.
func NewScanRecord(scanID, url string) *ScanRecord {
	return &ScanRecord{
		ScanID:    scanID,
		URL:       url,
		Status:    StatusScanning,
		Findings:  make([]Finding, 0),
		CreatedAt: time.Now().UTC(),
	}
}

// Complete transitions the record to its terminal Complete state,
// capturing findings, counters and score atomically.
func (r *ScanRecord) Complete(findings []Finding, summary Summary, completedAt time.Time) {
	r.Status = StatusComplete
	r.Findings = findings
	r.TotalChecks = summary.Total
	r.PassedChecks = summary.Passed
	r.Warnings = summary.Warnings
	r.Failures = summary.Failures
	r.PerceivableIssues = summary.PerceivableIssues
	r.OperableIssues = summary.OperableIssues
	r.UnderstandableIssues = summary.UnderstandableIssues
	r.RobustIssues = summary.RobustIssues
	score := summary.Score
	r.Score = &score
	r.finish(completedAt)
}

// Fail transitions the record to its terminal Failed state, capturing the
// triggering error's message. No score, no findings.
func (r *ScanRecord) Fail(err error, completedAt time.Time) {
	r.Status = StatusFailed
	if err != nil {
		r.ErrorMessage = err.Error()
	}
	r.finish(completedAt)
}

func (r *ScanRecord) finish(completedAt time.Time) {
	completedAt = completedAt.UTC()
	r.CompletedAt = &completedAt
	ms := completedAt.Sub(r.CreatedAt).Milliseconds()
	r.DurationMS = &ms
}

// Summary holds the aggregated counters and score reduced from one
// finding sequence.
type Summary struct {
	Total    int
	Passed   int
	Warnings int
	Failures int

	PerceivableIssues    int
	OperableIssues       int
	UnderstandableIssues int
	RobustIssues         int

	// Score is ((passed + 0.5*warnings) / total) * 100 rounded to one
	// decimal place, or exactly 100.0 when Total is zero.
	Score float64
}

// MarshalFindings serializes the finding slice for database storage.
func MarshalFindings(findings []Finding) (string, error) {
	data, err := json.Marshal(findings)
	if err != nil {
		return "", fmt.Errorf("failed to serialize findings: %w", err)
	}
	return string(data), nil
}

// UnmarshalFindings deserializes findings stored by MarshalFindings.
func UnmarshalFindings(data string) ([]Finding, error) {
	if data == "" {
		return nil, nil
	}
	var findings []Finding
	if err := json.Unmarshal([]byte(data), &findings); err != nil {
		return nil, fmt.Errorf("failed to deserialize findings: %w", err)
	}
	return findings, nil
}
