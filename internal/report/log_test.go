package report

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/nao1215/burpscan/internal/model"
)

// recordingHandler keeps every record's level and message.
type recordingHandler struct {
	mu       sync.Mutex
	messages []string
	levels   []slog.Level
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, r.Message)
	h.levels = append(h.levels, r.Level)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestLogWriter(t *testing.T) {
	t.Parallel()

	t.Run("emits grouped lines in first-occurrence order", func(t *testing.T) {
		t.Parallel()

		h := &recordingHandler{}
		issues := []model.Issue{
			{IssueType: model.IssueType{Name: "A"}, Severity: "high", Confidence: "firm", Path: "/a"},
			{IssueType: model.IssueType{Name: "B"}, Severity: "low", Confidence: "certain", Path: "/b"},
			{IssueType: model.IssueType{Name: "C"}, Severity: "high", Confidence: "tentative", Path: "/c"},
			{IssueType: model.IssueType{Name: "D"}, Severity: "medium", Confidence: "firm", Path: "/d"},
		}

		lines := NewLogWriter(slog.New(h)).Log(context.Background(), issues)

		want := []string{
			"Scan results:",
			"Severity: high",
			"- Issue Type: A, Path: /a, Confidence: firm",
			"- Issue Type: C, Path: /c, Confidence: tentative",
			"Severity: low",
			"- Issue Type: B, Path: /b, Confidence: certain",
			"Severity: medium",
			"- Issue Type: D, Path: /d, Confidence: firm",
		}

		if lines != len(want) {
			t.Errorf("expected %d lines, got %d", len(want), lines)
		}
		if len(h.messages) != len(want) {
			t.Fatalf("expected %d messages, got %v", len(want), h.messages)
		}
		for i := range want {
			if h.messages[i] != want[i] {
				t.Errorf("line %d: expected %q, got %q", i, want[i], h.messages[i])
			}
			if h.levels[i] != slog.LevelInfo {
				t.Errorf("line %d: expected info level, got %v", i, h.levels[i])
			}
		}
	})

	t.Run("empty list logs only the header", func(t *testing.T) {
		t.Parallel()

		h := &recordingHandler{}
		NewLogWriter(slog.New(h)).Log(context.Background(), nil)

		if len(h.messages) != 1 || h.messages[0] != "Scan results:" {
			t.Errorf("expected only the header, got %v", h.messages)
		}
	})
}
