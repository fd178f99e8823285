package burp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/burpscan/internal/model"
)

// StatusFetcher reads a scan's current status. *Client implements it.
type StatusFetcher interface {
	ScanStatus(ctx context.Context, scanID string) (model.ScanStatus, error)
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Waiter polls a scan until it reaches a terminal state.
type Waiter struct {
	fetcher      StatusFetcher
	pollInterval time.Duration
	timeout      time.Duration
	sleep        SleepFunc
	logger       *slog.Logger
}

// WaiterOption configures a Waiter.
type WaiterOption func(*Waiter)

// WithPollInterval sets the delay between polls.
func WithPollInterval(d time.Duration) WaiterOption {
	return func(w *Waiter) {
		w.pollInterval = d
	}
}

// WithTimeout bounds the whole wait. Zero waits until the scan ends or the
// context is cancelled.
func WithTimeout(d time.Duration) WaiterOption {
	return func(w *Waiter) {
		w.timeout = d
	}
}

// WithSleep replaces the sleep between polls.
func WithSleep(sleep SleepFunc) WaiterOption {
	return func(w *Waiter) {
		w.sleep = sleep
	}
}

// WithWaiterLogger sets the logger for progress messages.
func WithWaiterLogger(logger *slog.Logger) WaiterOption {
	return func(w *Waiter) {
		w.logger = logger
	}
}

// NewWaiter creates a Waiter that polls through fetcher every 60 seconds.
func NewWaiter(fetcher StatusFetcher, opts ...WaiterOption) *Waiter {
	w := &Waiter{
		fetcher:      fetcher,
		pollInterval: 60 * time.Second,
		sleep:        sleepContext,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Wait blocks until scanID succeeds.
//
// A failed or cancelled scan returns *ScanFailedError. Any other status
// sleeps for the poll interval and polls again. There is no sleep after the
// terminal poll. If the timeout elapses first, the error wraps both
// ErrWaitTimeout and context.DeadlineExceeded.
func (w *Waiter) Wait(ctx context.Context, scanID string) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, w.timeout, ErrWaitTimeout)
		defer cancel()
	}

	w.logger.InfoContext(ctx, "waiting for scan to complete", "scan_id", scanID)

	for polls := 1; ; polls++ {
		status, err := w.fetcher.ScanStatus(ctx, scanID)
		if err != nil {
			return w.contextError(ctx, err)
		}

		if status.IsTerminal() {
			if status.IsFailure() {
				return &ScanFailedError{ScanID: scanID, Status: status}
			}
			w.logger.InfoContext(ctx, "scan completed", "scan_id", scanID, "status", string(status), "polls", polls)
			return nil
		}

		w.logger.DebugContext(ctx, "scan still in progress", "scan_id", scanID, "status", string(status))

		if err := w.sleep(ctx, w.pollInterval); err != nil {
			return w.contextError(ctx, err)
		}
	}
}

// contextError attaches ErrWaitTimeout when err was caused by the wait's
// own deadline.
func (w *Waiter) contextError(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), ErrWaitTimeout) && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %w", ErrWaitTimeout, w.timeout, err)
	}
	return err
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
