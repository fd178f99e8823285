package model

import "testing"

// TestScanStatus tests terminal state classification.
func TestScanStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status       ScanStatus
		wantTerminal bool
		wantFailure  bool
	}{
		{ScanStatusQueued, false, false},
		{ScanStatusRunning, false, false},
		{ScanStatus("paused"), false, false},
		{ScanStatusSucceeded, true, false},
		{ScanStatusFailed, true, true},
		{ScanStatusCancelled, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsTerminal(); got != tt.wantTerminal {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.wantTerminal)
			}
			if got := tt.status.IsFailure(); got != tt.wantFailure {
				t.Errorf("IsFailure() = %v, want %v", got, tt.wantFailure)
			}
		})
	}
}

// TestScanRun tests run helpers.
func TestScanRun(t *testing.T) {
	t.Parallel()

	t.Run("new run has empty issues", func(t *testing.T) {
		t.Parallel()

		run := NewScanRun("https://burp.example.com", SiteSpec{Name: "shop"})
		if run.Issues == nil || len(run.Issues) != 0 {
			t.Errorf("expected empty issues, got %v", run.Issues)
		}
		if run.StartedAt.IsZero() {
			t.Error("expected StartedAt to be set")
		}
	})

	t.Run("scan URL is empty before launch", func(t *testing.T) {
		t.Parallel()

		run := NewScanRun("https://burp.example.com", SiteSpec{})
		if got := run.ScanURL(); got != "" {
			t.Errorf("expected empty URL, got %q", got)
		}
	})

	t.Run("scan URL points at the scan", func(t *testing.T) {
		t.Parallel()

		run := NewScanRun("https://burp.example.com", SiteSpec{})
		run.Scan = &Scan{ID: "42"}
		if got := run.ScanURL(); got != "https://burp.example.com/scans/42" {
			t.Errorf("unexpected URL %q", got)
		}
	})

	t.Run("model protocol options validation", func(t *testing.T) {
		t.Parallel()

		if !ProtocolUseHTTPAndHTTPS.Valid() || !ProtocolUseSpecified.Valid() {
			t.Error("expected known protocol options to be valid")
		}
		if ProtocolOptions("HTTP_ONLY").Valid() {
			t.Error("expected unknown protocol option to be invalid")
		}
	})
}
