package report

import (
	"io"
	"strconv"

	"github.com/nao1215/burpscan/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter

	version string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownVersion adds the burpscan version to the footer.
func WithMarkdownVersion(version string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.version = version
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the run in Markdown format.
func (w *MarkdownWriter) Write(run *model.ScanRun) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeSummary(md, run)
	w.writeIssues(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.ScanRun) {
	siteID, siteName := siteFields(run)
	scanID, scheduleItemID := scanFields(run)

	scan := scanID
	if u := run.ScanURL(); u != "" {
		scan = "[" + scanID + "](" + u + ")"
	}

	md.H1("Burp Scan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + siteName + "`"},
			{"Site ID", siteID},
			{"Schedule Item", scheduleItemID},
			{"Scan", scan},
			{"Status", w.statusText(run)},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", runDuration(run)},
		},
	})
	md.PlainText("")
}

// statusText returns the status with a marker.
func (w *MarkdownWriter) statusText(run *model.ScanRun) string {
	status := runStatus(run)
	if run.Scan != nil && run.Scan.Status == model.ScanStatusSucceeded {
		return "✅ " + status
	}
	if run.Scan != nil && run.Scan.Status.IsFailure() {
		return "❌ " + status
	}
	return "⚠️ " + status
}

// writeSummary writes the severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, run *model.ScanRun) {
	counts := run.Counts()

	md.H2("Severity Summary")
	md.PlainText("")

	rows := [][]string{
		{"🟠 High", strconv.Itoa(counts.High)},
		{"🟡 Medium", strconv.Itoa(counts.Medium)},
		{"🔵 Low", strconv.Itoa(counts.Low)},
		{"⚪ Info", strconv.Itoa(counts.Info)},
	}
	if counts.Other > 0 {
		rows = append(rows, []string{"Other", strconv.Itoa(counts.Other)})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(counts.Total()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if counts.Total() > 0 {
		w.writePieChart(md, run.Groups())
	}

	w.writeAlert(md, counts)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, groups []model.IssueGroup) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Severity Distribution"),
		piechart.WithShowData(true),
	)

	for _, g := range groups {
		chart.LabelAndIntValue(SeverityLabel(g.Severity), uint64(len(g.Issues)))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the most serious severity found.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, counts model.SeverityCounts) {
	switch {
	case counts.High > 0:
		md.Cautionf("%d high severity issue(s) require immediate attention.", counts.High)
	case counts.Medium > 0:
		md.Warningf("%d medium severity issue(s) should be addressed.", counts.Medium)
	case counts.Total() > 0:
		md.Note("Only low severity and informational issues detected.")
	default:
		md.Tip("No issues detected.")
	}
	md.PlainText("")
}

// writeIssues writes one table per severity group.
func (w *MarkdownWriter) writeIssues(md *markdown.Markdown, run *model.ScanRun) {
	md.H2("Issues")
	md.PlainText("")

	groups := run.Groups()
	if len(groups) == 0 {
		md.PlainText("No issues reported.")
		md.PlainText("")
		return
	}

	for _, g := range groups {
		md.H3(SeverityLabel(g.Severity) + " (" + strconv.Itoa(len(g.Issues)) + ")")
		md.PlainText("")

		rows := make([][]string, len(g.Issues))
		for i, issue := range g.Issues {
			rows[i] = []string{
				issue.IssueType.Name,
				"`" + issue.Path + "`",
				issue.Confidence.String(),
			}
		}

		md.Table(markdown.TableSet{
			Header: []string{"Issue Type", "Path", "Confidence"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	footer := "*Report generated by [burpscan](https://github.com/nao1215/burpscan)"
	if w.version != "" {
		footer += " " + w.version
	}
	md.PlainText(footer + "*")
}
