package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/nao1215/burpscan/internal/model"
)

// fakeScanner implements Scanner and CompletionWaiter with canned results.
type fakeScanner struct {
	site      *model.Site
	scan      *model.Scan
	issues    []model.Issue
	siteErr   error
	launchErr error
	waitErr   error
	issuesErr error

	calls []string
	spec  model.SiteSpec
}

func (f *fakeScanner) CreateSite(_ context.Context, spec model.SiteSpec) (*model.Site, error) {
	f.calls = append(f.calls, "create_site")
	f.spec = spec
	return f.site, f.siteErr
}

func (f *fakeScanner) LaunchScan(_ context.Context, siteID string) (*model.Scan, error) {
	f.calls = append(f.calls, "launch_scan:"+siteID)
	return f.scan, f.launchErr
}

func (f *fakeScanner) Wait(_ context.Context, scanID string) error {
	f.calls = append(f.calls, "wait:"+scanID)
	return f.waitErr
}

func (f *fakeScanner) ScanIssues(_ context.Context, scanID string) ([]model.Issue, error) {
	f.calls = append(f.calls, "issues:"+scanID)
	return f.issues, f.issuesErr
}

func newFakeScanner() *fakeScanner {
	return &fakeScanner{
		site: &model.Site{ID: "42", Name: "shop"},
		scan: &model.Scan{ID: "900", ScheduleItemID: "s1"},
		issues: []model.Issue{
			{IssueType: model.IssueType{Name: "XSS"}, Severity: model.SeverityHigh, Confidence: model.ConfidenceFirm, Path: "/search"},
		},
	}
}

func TestNewScanPipeline(t *testing.T) {
	t.Parallel()

	t.Run("runs the four steps in order", func(t *testing.T) {
		t.Parallel()

		fake := newFakeScanner()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		p := NewScanPipeline(fake, fake, logger)

		wantNames := []string{StepRegisterSite, StepLaunchScan, StepWaitForCompletion, StepFetchResults}
		names := p.StepNames()
		for i := range wantNames {
			if names[i] != wantNames[i] {
				t.Errorf("step %d: expected %q, got %q", i, wantNames[i], names[i])
			}
		}

		run := newRun()
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantCalls := []string{"create_site", "launch_scan:42", "wait:900", "issues:900"}
		if strings.Join(fake.calls, ",") != strings.Join(wantCalls, ",") {
			t.Errorf("expected calls %v, got %v", wantCalls, fake.calls)
		}
		if fake.spec.Name != "shop" {
			t.Errorf("expected run spec to be passed, got %+v", fake.spec)
		}
		if run.Site.ID != "42" || run.Scan.ID != "900" {
			t.Errorf("unexpected run state %+v", run)
		}
		if run.Scan.Status != model.ScanStatusSucceeded {
			t.Errorf("expected succeeded status, got %q", run.Scan.Status)
		}
		if len(run.Issues) != 1 {
			t.Errorf("expected 1 issue, got %d", len(run.Issues))
		}
		if run.FinishedAt.IsZero() {
			t.Error("expected FinishedAt to be set")
		}
		if !strings.Contains(buf.String(), "Scan started - view the scan at https://burp.example.com/scans/900") {
			t.Errorf("expected scan link in log, got %q", buf.String())
		}
	})

	t.Run("failed wait skips result fetching", func(t *testing.T) {
		t.Parallel()

		fake := newFakeScanner()
		fake.waitErr = errors.New("scan failed")

		run := newRun()
		err := NewScanPipeline(fake, fake, nil).Execute(context.Background(), run)
		if !errors.Is(err, fake.waitErr) {
			t.Fatalf("expected wait error, got %v", err)
		}
		for _, c := range fake.calls {
			if strings.HasPrefix(c, "issues:") {
				t.Error("issues must not be fetched after a failed wait")
			}
		}
		if run.Scan.Status == model.ScanStatusSucceeded {
			t.Error("status must not be marked succeeded")
		}
	})

	t.Run("site failure stops the run", func(t *testing.T) {
		t.Parallel()

		fake := newFakeScanner()
		fake.siteErr = errors.New("forbidden")

		err := NewScanPipeline(fake, fake, nil).Execute(context.Background(), newRun())
		if !errors.Is(err, fake.siteErr) {
			t.Fatalf("expected site error, got %v", err)
		}
		if len(fake.calls) != 1 {
			t.Errorf("expected 1 call, got %v", fake.calls)
		}
	})
}

func TestStepPrerequisites(t *testing.T) {
	t.Parallel()

	fake := newFakeScanner()

	tests := []struct {
		name string
		step Step
	}{
		{"launch without site", NewLaunchScanStep(fake, nil)},
		{"wait without scan", NewWaitForCompletionStep(fake)},
		{"fetch without scan", NewFetchResultsStep(fake)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.step.Do(context.Background(), newRun()); !errors.Is(err, ErrMissingPrerequisite) {
				t.Errorf("expected ErrMissingPrerequisite, got %v", err)
			}
		})
	}
}
