// Package clock provides the schedulable timer facility used for
// reservation auto-release and order expiry.  Production code uses the
// wall clock; tests substitute a Fake so expiry can be driven by
// advancing virtual time instead of sleeping.
package clock

import "time"

// Timer is a single-shot scheduled callback.  Stop is a safe no-op on
// a timer that has already fired.
type Timer interface {
	// Stop cancels the timer.  It reports whether the call prevented
	// the callback from running.
	Stop() bool
}

// Clock tells time and schedules callbacks.
type Clock interface {
	// Now returns the current time in UTC.
	Now() time.Time
	// AfterFunc schedules fn to run once after d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

// New returns a Clock backed by the wall clock.
func New() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now().UTC() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
