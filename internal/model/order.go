package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the states of the booking saga on the Order
// service side.  AWAITING_PAYMENT is the only non-terminal state; PAID
// is terminal success; the remaining states are terminal failures that
// get superseded by a fresh order on the next purchase attempt.
type OrderStatus string

const (
	OrderAwaitingPayment OrderStatus = "awaiting_payment"
	OrderPaid            OrderStatus = "paid"
	OrderCancelled       OrderStatus = "cancelled"
	OrderExpired         OrderStatus = "expired"
	OrderFailed          OrderStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool { return s != OrderAwaitingPayment }

// Order records a purchase attempt for one course by one user.  The
// Order service exclusively owns this record; it correlates with the
// Course service's reservation only through (UserID, CourseID) over RPC.
//
// Fields:
//  ID            – primary identifier of the order.
//  CourseID      – course being purchased.
//  UserID        – purchasing user.
//  PriceCents    – price snapshot taken at reservation time.
//  CourseVersion – course version snapshot taken at reservation time;
//                  guards in-flight orders against later price changes.
//  Status        – saga state.
//  PayBy         – deadline for payment; unpaid orders lapse to expired.
//  CancelBy      – deadline for cost-free cancellation.
//  ExpiresAt     – when the underlying seat reservation lapses.
//  CreatedAt     – creation timestamp (UTC).
//  UpdatedAt     – last transition timestamp (UTC).
type Order struct {
	ID            uuid.UUID   `json:"id"`
	CourseID      uuid.UUID   `json:"course_id"`
	UserID        uuid.UUID   `json:"user_id"`
	PriceCents    int64       `json:"price"`
	CourseVersion int         `json:"course_version"`
	Status        OrderStatus `json:"status"`
	PayBy         time.Time   `json:"pay_by"`
	CancelBy      time.Time   `json:"cancel_by"`
	ExpiresAt     time.Time   `json:"expires_at"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
