package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/burpscan/internal/model"
)

// ErrMissingPrerequisite is returned when a step runs before the step that
// produces its input.
var ErrMissingPrerequisite = errors.New("step prerequisite missing")

// Step names, in execution order.
const (
	StepRegisterSite      = "register_site"
	StepLaunchScan        = "launch_scan"
	StepWaitForCompletion = "wait_for_completion"
	StepFetchResults      = "fetch_results"
)

// SiteRegistrar creates a site on the scanner.
type SiteRegistrar interface {
	CreateSite(ctx context.Context, spec model.SiteSpec) (*model.Site, error)
}

// ScanLauncher schedules a scan and resolves it to a scan ID.
type ScanLauncher interface {
	LaunchScan(ctx context.Context, siteID string) (*model.Scan, error)
}

// CompletionWaiter blocks until a scan succeeds.
type CompletionWaiter interface {
	Wait(ctx context.Context, scanID string) error
}

// IssueFetcher fetches the issues of a finished scan.
type IssueFetcher interface {
	ScanIssues(ctx context.Context, scanID string) ([]model.Issue, error)
}

// RegisterSiteStep registers the run's site.
type RegisterSiteStep struct {
	registrar SiteRegistrar
}

// NewRegisterSiteStep creates a RegisterSiteStep.
func NewRegisterSiteStep(registrar SiteRegistrar) *RegisterSiteStep {
	return &RegisterSiteStep{registrar: registrar}
}

// Name returns the step name.
func (s *RegisterSiteStep) Name() string { return StepRegisterSite }

// Do creates the site and records it on run.
func (s *RegisterSiteStep) Do(ctx context.Context, run *model.ScanRun) error {
	site, err := s.registrar.CreateSite(ctx, run.Spec)
	if err != nil {
		return err
	}
	run.Site = site
	return nil
}

// LaunchScanStep starts a scan for the registered site.
type LaunchScanStep struct {
	launcher ScanLauncher
	logger   *slog.Logger
}

// NewLaunchScanStep creates a LaunchScanStep.
func NewLaunchScanStep(launcher ScanLauncher, logger *slog.Logger) *LaunchScanStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LaunchScanStep{launcher: launcher, logger: logger}
}

// Name returns the step name.
func (s *LaunchScanStep) Name() string { return StepLaunchScan }

// Do launches the scan and logs where to follow it.
func (s *LaunchScanStep) Do(ctx context.Context, run *model.ScanRun) error {
	if run.Site == nil {
		return ErrMissingPrerequisite
	}

	scan, err := s.launcher.LaunchScan(ctx, run.Site.ID)
	if err != nil {
		return err
	}
	run.Scan = scan

	s.logger.InfoContext(ctx, "Scan started - view the scan at "+run.ScanURL())
	return nil
}

// WaitForCompletionStep blocks until the scan succeeds.
type WaitForCompletionStep struct {
	waiter CompletionWaiter
}

// NewWaitForCompletionStep creates a WaitForCompletionStep.
func NewWaitForCompletionStep(waiter CompletionWaiter) *WaitForCompletionStep {
	return &WaitForCompletionStep{waiter: waiter}
}

// Name returns the step name.
func (s *WaitForCompletionStep) Name() string { return StepWaitForCompletion }

// Do waits for the scan and records the final status.
func (s *WaitForCompletionStep) Do(ctx context.Context, run *model.ScanRun) error {
	if run.Scan == nil {
		return ErrMissingPrerequisite
	}

	if err := s.waiter.Wait(ctx, run.Scan.ID); err != nil {
		return err
	}
	run.Scan.Status = model.ScanStatusSucceeded
	return nil
}

// FetchResultsStep downloads the scan's issues.
type FetchResultsStep struct {
	fetcher IssueFetcher
}

// NewFetchResultsStep creates a FetchResultsStep.
func NewFetchResultsStep(fetcher IssueFetcher) *FetchResultsStep {
	return &FetchResultsStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *FetchResultsStep) Name() string { return StepFetchResults }

// Do fetches the issues and records them on run.
func (s *FetchResultsStep) Do(ctx context.Context, run *model.ScanRun) error {
	if run.Scan == nil {
		return ErrMissingPrerequisite
	}

	issues, err := s.fetcher.ScanIssues(ctx, run.Scan.ID)
	if err != nil {
		return err
	}
	run.Issues = issues
	run.FinishedAt = time.Now()
	return nil
}

// Scanner is the full set of scanner operations a run needs.
// *burp.Client implements everything except Wait, which *burp.Waiter provides.
type Scanner interface {
	SiteRegistrar
	ScanLauncher
	IssueFetcher
}

// NewScanPipeline builds the standard four-step pipeline.
func NewScanPipeline(scanner Scanner, waiter CompletionWaiter, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewRegisterSiteStep(scanner),
		NewLaunchScanStep(scanner, logger),
		NewWaitForCompletionStep(waiter),
		NewFetchResultsStep(scanner),
	)
	return p
}
