package publish

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances only when the poll loop sleeps.
type fakeClock struct {
	t      time.Time
	sleeps int
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) sleep(_ context.Context, d time.Duration) error {
	c.sleeps++
	c.t = c.t.Add(d)
	return nil
}

func TestWaitFor_SucceedsOnLaterAttempt(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	attempts := 0

	ok := waitFor(context.Background(), 90*time.Second, 2*time.Second, clock.now, clock.sleep,
		func(context.Context) bool {
			attempts++
			return attempts == 4
		})

	assert.True(t, ok)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, 3, clock.sleeps)
}

func TestWaitFor_TimesOut(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	attempts := 0

	ok := waitFor(context.Background(), 10*time.Second, 2*time.Second, clock.now, clock.sleep,
		func(context.Context) bool {
			attempts++
			return false
		})

	assert.False(t, ok)
	assert.Equal(t, 5, attempts, "one attempt per interval inside the window")
}

func TestWaitFor_ZeroTimeoutNeverPolls(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}

	ok := waitFor(context.Background(), 0, time.Second, clock.now, clock.sleep,
		func(context.Context) bool {
			t.Fatal("predicate must not run with a zero timeout")
			return true
		})

	assert.False(t, ok)
}

func TestWaitFor_StopsOnCancelledSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	clock := &fakeClock{t: time.Unix(0, 0)}
	attempts := 0

	ok := waitFor(ctx, time.Minute, time.Second, clock.now, sleepContext,
		func(context.Context) bool {
			attempts++
			return false
		})

	assert.False(t, ok)
	assert.Equal(t, 1, attempts)
	assert.Zero(t, clock.sleeps)
}

func TestSleepContext(t *testing.T) {
	start := time.Now()
	err := sleepContext(context.Background(), time.Millisecond)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, sleepContext(ctx, time.Hour))
}
