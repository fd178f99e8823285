package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/burpscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
type SimpleWriter struct {
	baseWriter

	// showEmpty prints the findings section even when there are no issues.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run in human-readable format.
func (w *SimpleWriter) Write(run *model.ScanRun) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, run)
	w.writeSummary(&sb, run)
	w.writeFindings(&sb, run)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the run identifiers and status.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, run *model.ScanRun) {
	siteID, siteName := siteFields(run)
	scanID, scheduleItemID := scanFields(run)

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          BURPSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Site:           %s (ID %s)\n", siteName, siteID)
	fmt.Fprintf(sb, "Schedule Item:  %s\n", scheduleItemID)
	fmt.Fprintf(sb, "Scan:           %s\n", scanID)
	if u := run.ScanURL(); u != "" {
		fmt.Fprintf(sb, "Scan URL:       %s\n", u)
	}
	fmt.Fprintf(sb, "Status:         %s\n", runStatus(run))
	fmt.Fprintf(sb, "Started:        %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration:       %s\n", runDuration(run))
	sb.WriteString("\n")
}

// writeSummary writes the severity counts.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, run *model.ScanRun) {
	counts := run.Counts()

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEVERITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  HIGH:     %d\n", counts.High)
	fmt.Fprintf(sb, "  MEDIUM:   %d\n", counts.Medium)
	fmt.Fprintf(sb, "  LOW:      %d\n", counts.Low)
	fmt.Fprintf(sb, "  INFO:     %d\n", counts.Info)
	if counts.Other > 0 {
		fmt.Fprintf(sb, "  OTHER:    %d\n", counts.Other)
	}
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  TOTAL:    %d issues\n", counts.Total())
	sb.WriteString("\n")
}

// writeFindings writes the issues grouped by severity.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, run *model.ScanRun) {
	groups := run.Groups()
	if len(groups) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ISSUES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(groups) == 0 {
		sb.WriteString("  No issues\n\n")
		return
	}

	for _, group := range groups {
		fmt.Fprintf(sb, "[%s] %s (%d)\n", severityIndicator(group.Severity), SeverityLabel(group.Severity), len(group.Issues))
		for _, issue := range group.Issues {
			fmt.Fprintf(sb, "  * %s\n", issue.IssueType.Name)
			fmt.Fprintf(sb, "    Path:       %s\n", issue.Path)
			fmt.Fprintf(sb, "    Confidence: %s\n", issue.Confidence)
		}
		sb.WriteString("\n")
	}
}

// severityIndicator returns a visual marker for the severity level.
func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
