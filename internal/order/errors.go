// Package order implements the booking orchestrator: the order state
// machine that drives reservation, payment and confirmation across the
// service boundary to the Course service.
package order

import "errors"

// ErrAlreadyPurchased is returned by CreateOrder when the user already
// holds a PAID order for the course.  Handlers translate this into an
// HTTP 400 response.
var ErrAlreadyPurchased = errors.New("course already purchased")

// ErrInvalidOrder is returned by PayOrder when the order is unknown,
// belongs to a different user, or is not awaiting payment.  Handlers
// translate this into an HTTP 400 response.
var ErrInvalidOrder = errors.New("invalid order")
