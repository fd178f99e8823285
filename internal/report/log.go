package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/burpscan/internal/model"
)

// LogWriter emits scan results as info-level log lines:
//
//	Scan results:
//	Severity: <severity>
//	- Issue Type: <name>, Path: <path>, Confidence: <confidence>
//
// One Severity line is written per group, in order of first occurrence.
type LogWriter struct {
	logger *slog.Logger
}

// NewLogWriter creates a LogWriter. A nil logger uses slog.Default().
func NewLogWriter(logger *slog.Logger) *LogWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogWriter{logger: logger}
}

// Log writes the grouped issues and returns the number of lines logged.
func (w *LogWriter) Log(ctx context.Context, issues []model.Issue) int {
	w.logger.InfoContext(ctx, "Scan results:")
	lines := 1

	for _, group := range model.GroupBySeverity(issues) {
		w.logger.InfoContext(ctx, "Severity: "+group.Severity.String())
		lines++

		for _, issue := range group.Issues {
			w.logger.InfoContext(ctx, fmt.Sprintf("- Issue Type: %s, Path: %s, Confidence: %s",
				issue.IssueType.Name, issue.Path, issue.Confidence))
			lines++
		}
	}

	return lines
}
