// Package ledger keeps the in-process seat accounting for the
// reservation engine: a reserved-seat counter per course and the
// reservation record per (user, course) pair.  The ledger performs no
// I/O and does no locking of its own; the reservation engine is its
// only caller and serializes every mutation.
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/course-booking/internal/model"
)

// Key identifies a reservation by course and user.
type Key struct {
	CourseID uuid.UUID
	UserID   uuid.UUID
}

// Ledger tracks temporary seat holds.  Invariants maintained here:
// the reserved counter for a course equals the number of ALLOCATED
// entries for that course, and never goes negative.
type Ledger struct {
	reserved map[uuid.UUID]int
	entries  map[Key]*model.Reservation
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		reserved: make(map[uuid.UUID]int),
		entries:  make(map[Key]*model.Reservation),
	}
}

// Reserved returns the number of seats currently held for the course.
func (l *Ledger) Reserved(courseID uuid.UUID) int {
	return l.reserved[courseID]
}

// Get returns the reservation for (course, user) or nil.
func (l *Ledger) Get(courseID, userID uuid.UUID) *model.Reservation {
	return l.entries[Key{CourseID: courseID, UserID: userID}]
}

// Allocate records a fresh ALLOCATED hold and bumps the reserved
// counter.  Callers must have checked capacity and the absence of an
// active entry for the pair.
func (l *Ledger) Allocate(courseID, userID uuid.UUID, now, expiresAt time.Time) *model.Reservation {
	res := &model.Reservation{
		CourseID:  courseID,
		UserID:    userID,
		Status:    model.ReservationAllocated,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	l.entries[Key{CourseID: courseID, UserID: userID}] = res
	l.reserved[courseID]++
	return res
}

// Release drops the hold for (course, user) and decrements the
// reserved counter, but only when the entry is still ALLOCATED.  A
// confirmed or absent entry is left untouched and false is returned,
// which makes late-firing release timers safe no-ops.
func (l *Ledger) Release(courseID, userID uuid.UUID) bool {
	k := Key{CourseID: courseID, UserID: userID}
	res, ok := l.entries[k]
	if !ok || res.Status != model.ReservationAllocated {
		return false
	}
	delete(l.entries, k)
	if l.reserved[courseID] > 0 {
		l.reserved[courseID]--
	}
	if l.reserved[courseID] == 0 {
		delete(l.reserved, courseID)
	}
	return true
}

// Confirm replaces the entry for (course, user) with a CONFIRMED
// marker.  Confirmed entries do not count against the reserved
// counter; the seat has been permanently consumed from course
// capacity by then.  The marker is what rejects double confirmation
// and keeps a later reserve by the same user idempotent.
func (l *Ledger) Confirm(res *model.Reservation) {
	confirmed := *res
	confirmed.Status = model.ReservationConfirmed
	l.entries[Key{CourseID: res.CourseID, UserID: res.UserID}] = &confirmed
}
