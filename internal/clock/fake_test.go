package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFakeAdvanceFiresInDeadlineOrder(t *testing.T) {
	f := NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	var fired []string
	f.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	f.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	f.AfterFunc(time.Minute, func() { fired = append(fired, "never") })

	f.Advance(3 * time.Second)
	require.Equal(t, []string{"a", "b"}, fired)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 3, 0, time.UTC), f.Now())
}

func TestFakeTimerStop(t *testing.T) {
	f := NewFake(time.Now())

	var fired bool
	timer := f.AfterFunc(time.Second, func() { fired = true })
	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	f.Advance(2 * time.Second)
	require.False(t, fired)
}

func TestFakeCallbackMayUseClock(t *testing.T) {
	f := NewFake(time.Now())

	var rescheduled bool
	f.AfterFunc(time.Second, func() {
		f.AfterFunc(time.Second, func() { rescheduled = true })
		_ = f.Now()
	})

	f.Advance(time.Second)
	require.False(t, rescheduled)
	f.Advance(time.Second)
	require.True(t, rescheduled)
}
