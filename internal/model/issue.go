package model

// IssueType names the kind of finding.
type IssueType struct {
	Name string `json:"name"`
}

// Issue is a single finding reported by the scanner for a completed scan.
// Issues are produced remotely and never modified locally.
type Issue struct {
	IssueType  IssueType  `json:"issue_type"`
	Severity   Severity   `json:"severity"`
	Confidence Confidence `json:"confidence"`
	Path       string     `json:"path"`
}

// IssueGroup holds all issues sharing one severity, in the order the
// scanner returned them.
type IssueGroup struct {
	Severity Severity `json:"severity"`
	Issues   []Issue  `json:"issues"`
}

// GroupBySeverity groups issues by severity.
//
// Groups appear in order of the first occurrence of each severity, and
// issues keep their original relative order inside a group. An empty input
// yields an empty, non-nil slice.
func GroupBySeverity(issues []Issue) []IssueGroup {
	groups := make([]IssueGroup, 0)
	index := make(map[Severity]int)

	for _, issue := range issues {
		i, ok := index[issue.Severity]
		if !ok {
			i = len(groups)
			index[issue.Severity] = i
			groups = append(groups, IssueGroup{Severity: issue.Severity})
		}
		groups[i].Issues = append(groups[i].Issues, issue)
	}

	return groups
}

// SeverityCounts tallies issues per severity.
type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	Info   int `json:"info"`
	Other  int `json:"other,omitempty"`
}

// Total returns the number of counted issues.
func (c SeverityCounts) Total() int {
	return c.High + c.Medium + c.Low + c.Info + c.Other
}

// CountBySeverity counts issues per known severity level.
func CountBySeverity(issues []Issue) SeverityCounts {
	var c SeverityCounts
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityHigh:
			c.High++
		case SeverityMedium:
			c.Medium++
		case SeverityLow:
			c.Low++
		case SeverityInfo:
			c.Info++
		default:
			c.Other++
		}
	}
	return c
}
