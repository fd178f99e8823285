package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nao1215/burpscan/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer renders a finished scan run to its destination.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(run *model.ScanRun) (int, error)
}

// NewWriter returns the writer for format ("text", "json" or "markdown").
func NewWriter(format string, output io.Writer, version string) (Writer, error) {
	switch format {
	case "text", "":
		return NewSimpleWriter(output, WithShowEmpty(true)), nil
	case "json":
		return NewJSONWriter(output, WithPrettyPrint(), WithVersion(version)), nil
	case "markdown", "md":
		return NewMarkdownWriter(output, WithMarkdownVersion(version)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

var titleCaser = cases.Title(language.English)

// SeverityLabel returns a display label for s, e.g. "high" -> "High".
func SeverityLabel(s model.Severity) string {
	if s == "" {
		return "Unknown"
	}
	return titleCaser.String(string(s))
}

// runStatus describes how far the run got.
func runStatus(run *model.ScanRun) string {
	switch {
	case run.Scan == nil:
		return "not started"
	case run.Scan.Status != "":
		return string(run.Scan.Status)
	default:
		return "unknown"
	}
}

// runDuration returns the wall-clock time of the run, rounded to seconds.
func runDuration(run *model.ScanRun) string {
	if run.FinishedAt.IsZero() || run.StartedAt.IsZero() {
		return "-"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
}

// valueOr returns v, or "-" when v is empty.
func valueOr(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

// siteFields returns the site ID and name, or "-" before registration.
func siteFields(run *model.ScanRun) (id, name string) {
	name = run.Spec.Name
	if run.Site != nil {
		id = run.Site.ID
		if run.Site.Name != "" {
			name = run.Site.Name
		}
	}
	return valueOr(id), valueOr(name)
}

// scanFields returns the scan and schedule item IDs, or "-" before launch.
func scanFields(run *model.ScanRun) (scanID, scheduleItemID string) {
	if run.Scan != nil {
		scanID = run.Scan.ID
		scheduleItemID = run.Scan.ScheduleItemID
	}
	return valueOr(scanID), valueOr(scheduleItemID)
}
