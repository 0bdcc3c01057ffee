// Package reservation implements the seat reservation engine: TTL-bounded
// holds against course capacity, timed auto-release, and confirmation
// that converts a hold into a permanent capacity deduction.
package reservation

import "errors"

// ErrSeatsUnavailable is returned by Reserve when the course has no
// free seats left.  Callers may retry: seats can come back as other
// holds expire.  Handlers translate this into an HTTP 400 response.
var ErrSeatsUnavailable = errors.New("no seats available")

// ErrInvalidReservation is returned by Confirm when there is no live
// hold to confirm: the reservation is missing, already confirmed, or
// inside the expiry guard window.  Handlers translate this into an
// HTTP 400 response.
var ErrInvalidReservation = errors.New("invalid reservation")

// ErrReservationFailed is returned by ReserveWithRetry once the retry
// budget is exhausted without a seat becoming free.
var ErrReservationFailed = errors.New("reservation failed")
