package burp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/burpscan/internal/model"
)

// scriptedFetcher returns statuses in order, then repeats the last one.
type scriptedFetcher struct {
	statuses []model.ScanStatus
	err      error
	calls    int
}

func (f *scriptedFetcher) ScanStatus(ctx context.Context, _ string) (model.ScanStatus, error) {
	f.calls++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	i := f.calls - 1
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	return f.statuses[i], nil
}

// recordingSleep counts sleeps without waiting.
type recordingSleep struct {
	durations []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.durations = append(r.durations, d)
	return ctx.Err()
}

func TestWaiterWait(t *testing.T) {
	t.Parallel()

	t.Run("polls until succeeded without sleeping after the last poll", func(t *testing.T) {
		t.Parallel()

		fetcher := &scriptedFetcher{statuses: []model.ScanStatus{"queued", "queued", "running", "succeeded"}}
		rec := &recordingSleep{}
		w := NewWaiter(fetcher, WithSleep(rec.sleep))

		if err := w.Wait(context.Background(), "900"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fetcher.calls != 4 {
			t.Errorf("expected 4 polls, got %d", fetcher.calls)
		}
		if len(rec.durations) != 3 {
			t.Errorf("expected 3 sleeps, got %d", len(rec.durations))
		}
		for _, d := range rec.durations {
			if d != 60*time.Second {
				t.Errorf("expected 60s sleep, got %v", d)
			}
		}
	})

	t.Run("immediate success does not sleep", func(t *testing.T) {
		t.Parallel()

		fetcher := &scriptedFetcher{statuses: []model.ScanStatus{"succeeded"}}
		rec := &recordingSleep{}

		if err := NewWaiter(fetcher, WithSleep(rec.sleep)).Wait(context.Background(), "900"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rec.durations) != 0 {
			t.Errorf("expected no sleep, got %d", len(rec.durations))
		}
	})

	t.Run("failed status stops polling", func(t *testing.T) {
		t.Parallel()

		fetcher := &scriptedFetcher{statuses: []model.ScanStatus{"running", "failed", "succeeded"}}
		rec := &recordingSleep{}

		err := NewWaiter(fetcher, WithSleep(rec.sleep)).Wait(context.Background(), "900")

		var failed *ScanFailedError
		if !errors.As(err, &failed) {
			t.Fatalf("expected ScanFailedError, got %v", err)
		}
		if failed.Status != model.ScanStatusFailed || failed.ScanID != "900" {
			t.Errorf("unexpected error %+v", failed)
		}
		if !errors.Is(err, ErrRemoteFailure) {
			t.Error("expected ScanFailedError to match ErrRemoteFailure")
		}
		if err.Error() != "Scan finished with status failed" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if fetcher.calls != 2 {
			t.Errorf("expected 2 polls, got %d", fetcher.calls)
		}
	})

	t.Run("cancelled status is a failure", func(t *testing.T) {
		t.Parallel()

		fetcher := &scriptedFetcher{statuses: []model.ScanStatus{"cancelled"}}

		err := NewWaiter(fetcher, WithSleep((&recordingSleep{}).sleep)).Wait(context.Background(), "900")
		var failed *ScanFailedError
		if !errors.As(err, &failed) || failed.Status != model.ScanStatusCancelled {
			t.Errorf("expected cancelled ScanFailedError, got %v", err)
		}
	})

	t.Run("unknown statuses keep polling", func(t *testing.T) {
		t.Parallel()

		fetcher := &scriptedFetcher{statuses: []model.ScanStatus{"paused", "auditing", "succeeded"}}
		rec := &recordingSleep{}

		if err := NewWaiter(fetcher, WithSleep(rec.sleep)).Wait(context.Background(), "900"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fetcher.calls != 3 {
			t.Errorf("expected 3 polls, got %d", fetcher.calls)
		}
	})

	t.Run("fetch error is returned", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("boom")
		fetcher := &scriptedFetcher{err: wantErr}

		err := NewWaiter(fetcher, WithSleep((&recordingSleep{}).sleep)).Wait(context.Background(), "900")
		if !errors.Is(err, wantErr) {
			t.Errorf("expected %v, got %v", wantErr, err)
		}
	})

	t.Run("custom poll interval is used", func(t *testing.T) {
		t.Parallel()

		fetcher := &scriptedFetcher{statuses: []model.ScanStatus{"running", "succeeded"}}
		rec := &recordingSleep{}

		w := NewWaiter(fetcher, WithSleep(rec.sleep), WithPollInterval(5*time.Second))
		if err := w.Wait(context.Background(), "900"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rec.durations) != 1 || rec.durations[0] != 5*time.Second {
			t.Errorf("expected one 5s sleep, got %v", rec.durations)
		}
	})

	t.Run("timeout returns ErrWaitTimeout", func(t *testing.T) {
		t.Parallel()

		fetcher := &scriptedFetcher{statuses: []model.ScanStatus{"running"}}
		w := NewWaiter(fetcher, WithPollInterval(5*time.Millisecond), WithTimeout(30*time.Millisecond))

		err := w.Wait(context.Background(), "900")
		if !errors.Is(err, ErrWaitTimeout) {
			t.Errorf("expected ErrWaitTimeout, got %v", err)
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	})

	t.Run("caller cancellation is not a timeout", func(t *testing.T) {
		t.Parallel()

		fetcher := &scriptedFetcher{statuses: []model.ScanStatus{"running"}}
		ctx, cancel := context.WithCancel(context.Background())

		sleep := func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		}

		err := NewWaiter(fetcher, WithSleep(sleep), WithTimeout(time.Hour)).Wait(ctx, "900")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if errors.Is(err, ErrWaitTimeout) {
			t.Error("cancellation must not be reported as a timeout")
		}
	})
}

func TestSleepContext(t *testing.T) {
	t.Parallel()

	t.Run("returns after the duration", func(t *testing.T) {
		t.Parallel()
		if err := sleepContext(context.Background(), time.Millisecond); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("returns early on cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if time.Since(start) > time.Second {
			t.Error("sleep did not return early")
		}
	})
}
