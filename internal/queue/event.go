// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a seat hold is converted into
// a permanent booking.  It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary store.
type BookingConfirmedEvent struct {
	CourseID      string `json:"course_id"`
	CourseTitle   string `json:"course_title"`
	CourseVersion int    `json:"course_version"`
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	PriceCents    int64  `json:"price_cents"`
	SeatsLeft     int    `json:"seats_left"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// OrderPaidEvent is published by the Order service once an order has
// been paid and the booking confirmed upstream.
type OrderPaidEvent struct {
	OrderID    string `json:"order_id"`
	CourseID   string `json:"course_id"`
	UserID     string `json:"user_id"`
	PriceCents int64  `json:"price_cents"`
	PaidAt     string `json:"paid_at"`
}
