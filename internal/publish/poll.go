package publish

import (
	"context"
	"time"
)

// waitFor evaluates pred until it returns true or timeout elapses, sleeping
// interval between attempts. The clock and sleep functions are injected so
// tests run without real waiting. Returns false on timeout or cancellation.
func waitFor(
	ctx context.Context,
	timeout, interval time.Duration,
	now func() time.Time,
	sleep func(context.Context, time.Duration) error,
	pred func(context.Context) bool,
) bool {
	deadline := now().Add(timeout)
	for now().Before(deadline) {
		if pred(ctx) {
			return true
		}
		if err := sleep(ctx, interval); err != nil {
			return false
		}
	}
	return false
}

// sleepContext sleeps for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
