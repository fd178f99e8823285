// Package report renders the results of a scan run.
//
// LogWriter emits the issue list as log lines, grouped by severity in the
// order the scanner returned them. It is always used. The other writers
// produce an optional report document:
//   - SimpleWriter: human-readable text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: Markdown with a summary table and severity chart
package report
