package reservation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/course-booking/internal/clock"
	"github.com/iliyamo/course-booking/internal/ledger"
	"github.com/iliyamo/course-booking/internal/model"
)

const (
	// DefaultTTL is how long a hold stays alive before auto-release.
	DefaultTTL = 5 * time.Minute
	// expiryGuard is the window before expiry inside which a hold is
	// treated as already gone.  Confirming a seat the release timer is
	// about to reclaim would race; holds this close to expiry are
	// rejected instead.
	expiryGuard = 200 * time.Millisecond
	// releaseSlack pads the auto-release timer past ExpiresAt so the
	// timer never fires while the hold is still nominally valid.
	releaseSlack = 50 * time.Millisecond
)

// CourseStore is the slice of the course repository the engine needs:
// reading capacity and persisting the permanent seat deduction on
// confirmation.
type CourseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
}

// Engine owns the seat ledger.  Every mutation runs under a single
// exclusive lock; one lock across all courses trades cross-course
// throughput for correctness simplicity.
type Engine struct {
	mu      sync.Mutex
	courses CourseStore
	clk     clock.Clock
	ttl     time.Duration
	ledger  *ledger.Ledger
	timers  map[ledger.Key]clock.Timer

	// retry policy for ReserveWithRetry; shrunk in tests
	retryAttempts int
	retryDelay    time.Duration
}

// NewEngine builds an engine over the given course store and clock.
// A non-positive ttl falls back to DefaultTTL.
func NewEngine(courses CourseStore, clk clock.Clock, ttl time.Duration) *Engine {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Engine{
		courses:       courses,
		clk:           clk,
		ttl:           ttl,
		ledger:        ledger.New(),
		timers:        make(map[ledger.Key]clock.Timer),
		retryAttempts: 5,
		retryDelay:    10 * time.Millisecond,
	}
}

// Reserve takes a temporary hold on one seat of the course for the
// user.  When the user already has an active hold (or a confirmed
// booking) the existing reservation is returned with isNew=false and
// no seat is consumed; reserve is idempotent per (user, course) while
// the reservation is active.  ErrSeatsUnavailable is returned when
// capacity minus current holds is zero.
func (e *Engine) Reserve(ctx context.Context, courseID, userID uuid.UUID) (*model.Reservation, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	course, err := e.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, false, err
	}
	if res := e.ledger.Get(courseID, userID); res != nil && res.Active() {
		return res, false, nil
	}
	if course.Seats-e.ledger.Reserved(courseID) <= 0 {
		return nil, false, ErrSeatsUnavailable
	}

	now := e.clk.Now()
	res := e.ledger.Allocate(courseID, userID, now, now.Add(e.ttl))
	key := ledger.Key{CourseID: courseID, UserID: userID}
	expiresAt := res.ExpiresAt
	e.timers[key] = e.clk.AfterFunc(e.ttl+releaseSlack, func() {
		e.Release(courseID, userID, expiresAt)
	})
	return res, true, nil
}

// ReserveWithRetry wraps Reserve with a bounded retry loop: seats may
// free up as other holds expire, so transient unavailability is retried
// a fixed number of times with a short fixed delay.  Exhausting the
// budget surfaces ErrReservationFailed.
func (e *Engine) ReserveWithRetry(ctx context.Context, courseID, userID uuid.UUID) (*model.Reservation, bool, error) {
	var lastErr error
	for attempt := 0; attempt < e.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, false, ctx.Err()
			case <-time.After(e.retryDelay):
			}
		}
		res, isNew, err := e.Reserve(ctx, courseID, userID)
		if err == nil {
			return res, isNew, nil
		}
		if err != ErrSeatsUnavailable {
			return nil, false, err
		}
		lastErr = err
	}
	return nil, false, fmt.Errorf("%w: retry budget exhausted: %v", ErrReservationFailed, lastErr)
}

// Release collapses the hold for (course, user) once releaseAt is due.
// A releaseAt still at least the guard window in the future is not due
// yet: the release is rescheduled to fire then, which is how both the
// auto-release timer path and explicit early/administrative release
// share one code path.  Releasing a confirmed or absent hold is a
// no-op, so a timer firing late can never double-decrement.  It
// reports whether a seat was actually freed.
func (e *Engine) Release(courseID, userID uuid.UUID, releaseAt time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.releaseLocked(courseID, userID, releaseAt)
}

func (e *Engine) releaseLocked(courseID, userID uuid.UUID, releaseAt time.Time) bool {
	key := ledger.Key{CourseID: courseID, UserID: userID}
	now := e.clk.Now()
	if releaseAt.Sub(now) >= expiryGuard {
		// Not due yet: replace any pending timer with one at releaseAt.
		if t, ok := e.timers[key]; ok {
			t.Stop()
		}
		e.timers[key] = e.clk.AfterFunc(releaseAt.Sub(now), func() {
			e.Release(courseID, userID, releaseAt)
		})
		return false
	}
	if t, ok := e.timers[key]; ok {
		t.Stop()
		delete(e.timers, key)
	}
	return e.ledger.Release(courseID, userID)
}

// Confirm converts the user's hold into a permanent seat deduction:
// the temporary hold is collapsed and the course's total capacity is
// decremented by one through the course store (which also bumps the
// course version).  The hold must be ALLOCATED and not within the
// expiry guard window; otherwise the hold is still collapsed but
// ErrInvalidReservation is returned and capacity is left untouched.
// A second confirm for the same pair fails the same way.
func (e *Engine) Confirm(ctx context.Context, courseID, userID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clk.Now()
	key := ledger.Key{CourseID: courseID, UserID: userID}
	res := e.ledger.Get(courseID, userID)
	valid := res != nil &&
		res.Status == model.ReservationAllocated &&
		res.ExpiresAt.Sub(now) > expiryGuard

	// Collapse the temporary hold first, valid or not.
	if res != nil && res.Status == model.ReservationAllocated {
		e.ledger.Release(courseID, userID)
	}
	if t, ok := e.timers[key]; ok {
		t.Stop()
		delete(e.timers, key)
	}
	if !valid {
		return ErrInvalidReservation
	}

	course, err := e.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	course.Seats--
	course.Version++
	course.UpdatedAt = now
	if err := e.courses.Update(ctx, course); err != nil {
		return err
	}
	e.ledger.Confirm(res)
	return nil
}

// Lookup returns the current reservation for (course, user) or nil.
// Intended for handlers and tests; the returned record must not be
// mutated.
func (e *Engine) Lookup(courseID, userID uuid.UUID) *model.Reservation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Get(courseID, userID)
}
