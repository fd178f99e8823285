package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/burpscan/internal/model"
)

// JSONWriter outputs reports in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is recorded in the document when set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the burpscan version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the document written by JSONWriter.
type JSONReport struct {
	// Version is the burpscan version that produced the report.
	Version string `json:"version,omitempty"`

	// Status is the final scan status, or "not started".
	Status string `json:"status"`

	// ScanURL links to the scan in the scanner UI.
	ScanURL string `json:"scan_url,omitempty"`

	// Run holds the identifiers, timestamps and raw issue list.
	Run *model.ScanRun `json:"run"`

	// Summary counts issues per severity.
	Summary model.SeverityCounts `json:"summary"`

	// Total is the number of issues.
	Total int `json:"total"`

	// Groups lists the issues grouped by severity in first-occurrence order.
	Groups []model.IssueGroup `json:"groups"`
}

// NewJSONReport builds the JSON document for run.
func NewJSONReport(run *model.ScanRun, version string) *JSONReport {
	counts := run.Counts()
	return &JSONReport{
		Version: version,
		Status:  runStatus(run),
		ScanURL: run.ScanURL(),
		Run:     run,
		Summary: counts,
		Total:   counts.Total(),
		Groups:  run.Groups(),
	}
}

// Write outputs the run in JSON format.
func (w *JSONWriter) Write(run *model.ScanRun) (int, error) {
	return w.writeJSON(NewJSONReport(run, w.version))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}
