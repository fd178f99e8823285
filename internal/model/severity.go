package model

import "strings"

// Severity is the severity of an issue as reported by the scanner.
//
// The scanner defines the enumeration, so Severity keeps the wire value
// as-is. Unknown values are preserved rather than rejected so that grouping
// and reporting never drop an issue.
type Severity string

const (
	// SeverityHigh is the most serious level reported by the scanner.
	SeverityHigh Severity = "high"

	// SeverityMedium indicates a moderate issue.
	SeverityMedium Severity = "medium"

	// SeverityLow indicates a minor issue.
	SeverityLow Severity = "low"

	// SeverityInfo is informational only.
	SeverityInfo Severity = "info"
)

// String returns the wire value.
func (s Severity) String() string {
	return string(s)
}

// Rank orders severities from most to least serious.
// Unknown severities sort after info.
func (s Severity) Rank() int {
	switch Severity(strings.ToLower(string(s))) {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 3
	default:
		return 4
	}
}

// Confidence is how certain the scanner is about an issue.
type Confidence string

const (
	// ConfidenceCertain means the issue was confirmed.
	ConfidenceCertain Confidence = "certain"

	// ConfidenceFirm means the issue is very likely.
	ConfidenceFirm Confidence = "firm"

	// ConfidenceTentative means the issue needs manual verification.
	ConfidenceTentative Confidence = "tentative"
)

// String returns the wire value.
func (c Confidence) String() string {
	return string(c)
}
