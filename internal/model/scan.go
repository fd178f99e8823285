package model

import "time"

// ScanStatus is the lifecycle state of a scan as reported by the scanner.
type ScanStatus string

const (
	// ScanStatusQueued means the scan is waiting for an agent.
	ScanStatusQueued ScanStatus = "queued"

	// ScanStatusRunning means the scan is in progress.
	ScanStatusRunning ScanStatus = "running"

	// ScanStatusSucceeded is the terminal success state.
	ScanStatusSucceeded ScanStatus = "succeeded"

	// ScanStatusFailed is a terminal failure state.
	ScanStatusFailed ScanStatus = "failed"

	// ScanStatusCancelled is a terminal failure state.
	ScanStatusCancelled ScanStatus = "cancelled"
)

// IsTerminal reports whether no further status change is expected.
func (s ScanStatus) IsTerminal() bool {
	return s == ScanStatusSucceeded || s.IsFailure()
}

// IsFailure reports whether s is a terminal failure state.
func (s ScanStatus) IsFailure() bool {
	return s == ScanStatusFailed || s == ScanStatusCancelled
}

// Scan is one scan run on the scanner.
type Scan struct {
	ID             string     `json:"id"`
	ScheduleItemID string     `json:"schedule_item_id"`
	Status         ScanStatus `json:"status,omitempty"`
}

// ScanRun accumulates the state of one run from site registration to
// issue retrieval. Pipeline steps fill it in order.
type ScanRun struct {
	// Spec is the site requested by the operator.
	Spec SiteSpec `json:"-"`

	// ServerURL is the scanner base URL, used to build links.
	ServerURL string `json:"server_url"`

	// Site is set once the site has been registered.
	Site *Site `json:"site,omitempty"`

	// Scan is set once the scan has been scheduled and resolved.
	Scan *Scan `json:"scan,omitempty"`

	// Issues is set once results have been fetched.
	Issues []Issue `json:"issues"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when results were fetched. Zero until then.
	FinishedAt time.Time `json:"finished_at"`

	// CompletedSteps lists the pipeline steps that finished.
	CompletedSteps []string `json:"completed_steps,omitempty"`
}

// NewScanRun creates a run for the given site spec.
func NewScanRun(serverURL string, spec SiteSpec) *ScanRun {
	return &ScanRun{
		Spec:      spec,
		ServerURL: serverURL,
		Issues:    make([]Issue, 0),
		StartedAt: time.Now(),
	}
}

// ScanURL returns the scanner UI link for the run's scan, or "" before launch.
func (r *ScanRun) ScanURL() string {
	if r.Scan == nil || r.Scan.ID == "" {
		return ""
	}
	return r.ServerURL + "/scans/" + r.Scan.ID
}

// Groups returns the run's issues grouped by severity.
func (r *ScanRun) Groups() []IssueGroup {
	return GroupBySeverity(r.Issues)
}

// Counts returns the run's issue counts per severity.
func (r *ScanRun) Counts() SeverityCounts {
	return CountBySeverity(r.Issues)
}
