package model

import (
	"time"

	"github.com/google/uuid"
)

// Course represents a purchasable course owned by an instructor.
// The Course service is the single owner of this record: it is only
// mutated through the service's own update operations, and every
// successful mutation (including price changes) increments Version.
//
// Fields:
//  ID           – primary identifier of the course.
//  Title        – course title.
//  Content      – course description or body.
//  PriceCents   – price in cents; snapshotted into orders at reservation time.
//  Seats        – total remaining capacity.  Confirmed bookings reduce it
//                 permanently; temporary reservations never touch it.
//  InstructorID – user ID of the owning instructor.
//  Version      – monotonically incremented on every successful update.
//  CreatedAt    – creation timestamp (UTC).
//  UpdatedAt    – last update timestamp (UTC).
type Course struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	PriceCents   int64     `json:"price"`
	Seats        int       `json:"seats"`
	InstructorID uuid.UUID `json:"instructor_id"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
