package model

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus enumerates the lifecycle states of a seat reservation.
type ReservationStatus string

const (
	// ReservationAllocated is a live temporary hold.  It lapses at
	// ExpiresAt unless confirmed first.
	ReservationAllocated ReservationStatus = "ALLOCATED"
	// ReservationConfirmed marks a hold that was converted into a
	// permanent seat deduction.  Confirmed reservations never expire.
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	// ReservationExpired and ReservationCancelled are terminal states
	// used when reporting a reservation that no longer holds a seat.
	ReservationExpired   ReservationStatus = "EXPIRED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation is a TTL-bounded hold on one seat of a course for a
// specific user.  At most one active (ALLOCATED or CONFIRMED)
// reservation exists per (user, course) pair; the reservation engine
// enforces this under its lock.
//
// Fields:
//  CourseID  – course whose seat is held.
//  UserID    – user holding the seat.
//  Status    – current lifecycle state.
//  ExpiresAt – when an ALLOCATED hold lapses (UTC).
//  CreatedAt – when the hold was taken (UTC).
type Reservation struct {
	CourseID  uuid.UUID         `json:"course_id"`
	UserID    uuid.UUID         `json:"user_id"`
	Status    ReservationStatus `json:"status"`
	ExpiresAt time.Time         `json:"expires_at"`
	CreatedAt time.Time         `json:"created_at"`
}

// Active reports whether the reservation still holds or consumed a seat.
func (r *Reservation) Active() bool {
	return r.Status == ReservationAllocated || r.Status == ReservationConfirmed
}
