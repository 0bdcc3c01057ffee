package order

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/course-booking/internal/clock"
	"github.com/iliyamo/course-booking/internal/model"
	"github.com/iliyamo/course-booking/internal/payment"
	"github.com/iliyamo/course-booking/internal/repository"
)

// Default deadlines derived from the course reservation TTL: payment
// must land before the reservation lapses, cancellation a bit earlier.
const (
	DefaultPayWindow    = 5 * time.Minute
	DefaultCancelWindow = 4 * time.Minute
)

// CourseAPI is the slice of the Course service the orchestrator calls
// over RPC.  The production implementation is client.CourseClient;
// tests substitute a stub.
type CourseAPI interface {
	Profile(ctx context.Context, session string) (*model.User, error)
	GetCourse(ctx context.Context, session string, courseID uuid.UUID) (*model.Course, error)
	ReserveSeat(ctx context.Context, session string, courseID uuid.UUID) error
	ConfirmBooking(ctx context.Context, session string, courseID uuid.UUID) error
	ReleaseSeat(ctx context.Context, session string, courseID uuid.UUID) error
}

// Orchestrator owns order records and drives them through the booking
// saga: reserve -> awaiting payment -> paid, with auto-expiry and
// compensation when the local commit and the remote confirm diverge.
// Orders and the course-side reservation share no transaction; they
// correlate only through (userID, courseID) over RPC.
type Orchestrator struct {
	mu           sync.Mutex
	orders       *repository.OrderRepo
	api          CourseAPI
	clk          clock.Clock
	payWindow    time.Duration
	cancelWindow time.Duration
	timers       map[uuid.UUID]clock.Timer

	// onPaid, when set, runs after a fully confirmed payment.  Used to
	// publish the order.paid event; failures there must not affect the
	// order, so the hook has no error return.
	onPaid func(ctx context.Context, o *model.Order)
}

// NewOrchestrator builds an orchestrator.  Non-positive windows fall
// back to the defaults.
func NewOrchestrator(orders *repository.OrderRepo, api CourseAPI, clk clock.Clock, payWindow, cancelWindow time.Duration) *Orchestrator {
	if payWindow <= 0 {
		payWindow = DefaultPayWindow
	}
	if cancelWindow <= 0 {
		cancelWindow = DefaultCancelWindow
	}
	return &Orchestrator{
		orders:       orders,
		api:          api,
		clk:          clk,
		payWindow:    payWindow,
		cancelWindow: cancelWindow,
		timers:       make(map[uuid.UUID]clock.Timer),
	}
}

// SetPaidHook registers the post-payment hook.
func (o *Orchestrator) SetPaidHook(fn func(ctx context.Context, order *model.Order)) {
	o.onPaid = fn
}

// CreateOrder runs the first saga phase: resolve the principal, check
// purchase history, snapshot the course, reserve a seat and persist an
// AWAITING_PAYMENT order.  An existing AWAITING_PAYMENT order for the
// same (user, course) is returned unchanged; a terminal-negative one
// is superseded.  A reservation failure fails the whole operation with
// no order record created.
func (o *Orchestrator) CreateOrder(ctx context.Context, session string, courseID uuid.UUID) (*model.Order, error) {
	user, err := o.api.Profile(ctx, session)
	if err != nil {
		return nil, err
	}
	existing, err := o.orders.FindByUserAndCourse(ctx, user.ID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == model.OrderPaid {
		return nil, ErrAlreadyPurchased
	}

	course, err := o.api.GetCourse(ctx, session, courseID)
	if err != nil {
		return nil, err
	}
	if err := o.api.ReserveSeat(ctx, session, courseID); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// Re-read under the lock: a concurrent CreateOrder may have won the
	// race between the RPC and here.
	existing, err = o.orders.FindByUserAndCourse(ctx, user.ID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case model.OrderAwaitingPayment:
			return existing, nil
		case model.OrderPaid:
			return nil, ErrAlreadyPurchased
		default:
			// Terminal-negative orders are superseded by the new one.
			if err := o.orders.Delete(ctx, existing.ID); err != nil {
				return nil, err
			}
		}
	}

	now := o.clk.Now()
	ord := &model.Order{
		ID:            uuid.New(),
		CourseID:      courseID,
		UserID:        user.ID,
		PriceCents:    course.PriceCents,
		CourseVersion: course.Version,
		Status:        model.OrderAwaitingPayment,
		PayBy:         now.Add(o.payWindow),
		CancelBy:      now.Add(o.cancelWindow),
		ExpiresAt:     now.Add(o.payWindow),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := o.orders.Create(ctx, ord); err != nil {
		return nil, err
	}
	o.timers[ord.ID] = o.clk.AfterFunc(o.payWindow, func() {
		o.expire(ord.ID, session)
	})
	return ord, nil
}

// PayOrder runs the second saga phase: validate payment, commit PAID
// locally, then confirm the reservation remotely.  The two steps are
// not atomic across the boundary, so a failed confirm rolls the order
// back to AWAITING_PAYMENT and surfaces the error; the payment attempt
// can then be retried while the reservation is still alive.
func (o *Orchestrator) PayOrder(ctx context.Context, session string, orderID uuid.UUID, card payment.Card) (*model.Order, error) {
	user, err := o.api.Profile(ctx, session)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	ord, err := o.orders.GetByID(ctx, orderID)
	if err != nil {
		o.mu.Unlock()
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrInvalidOrder
		}
		return nil, err
	}
	if ord.UserID != user.ID || ord.Status != model.OrderAwaitingPayment {
		o.mu.Unlock()
		return nil, ErrInvalidOrder
	}
	if err := payment.Validate(card); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	ord.Status = model.OrderPaid
	ord.UpdatedAt = o.clk.Now()
	if err := o.orders.Update(ctx, ord); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	o.mu.Unlock()

	if err := o.api.ConfirmBooking(ctx, session, ord.CourseID); err != nil {
		// Compensate the local commit so the order stays payable.
		o.mu.Lock()
		ord.Status = model.OrderAwaitingPayment
		ord.UpdatedAt = o.clk.Now()
		if uerr := o.orders.Update(ctx, ord); uerr != nil {
			log.Printf("order: rollback of %s after failed confirm also failed: %v", ord.ID, uerr)
		}
		o.mu.Unlock()
		return nil, err
	}

	o.mu.Lock()
	if t, ok := o.timers[ord.ID]; ok {
		t.Stop()
		delete(o.timers, ord.ID)
	}
	o.mu.Unlock()

	if o.onPaid != nil {
		o.onPaid(ctx, ord)
	}
	return ord, nil
}

// GetOrder returns an order owned by the session's user.
func (o *Orchestrator) GetOrder(ctx context.Context, session string, orderID uuid.UUID) (*model.Order, error) {
	user, err := o.api.Profile(ctx, session)
	if err != nil {
		return nil, err
	}
	ord, err := o.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrInvalidOrder
		}
		return nil, err
	}
	if ord.UserID != user.ID {
		return nil, ErrInvalidOrder
	}
	return ord, nil
}

// expire is the scheduled sweep for one order: when payBy passes while
// the order is still AWAITING_PAYMENT it lapses to EXPIRED and the
// seat hold is released on the Course service.  The release is the
// compensation RPC; a failure there is logged and left to the course
// side's own TTL release.
func (o *Orchestrator) expire(orderID uuid.UUID, session string) {
	ctx := context.Background()

	o.mu.Lock()
	delete(o.timers, orderID)
	ord, err := o.orders.GetByID(ctx, orderID)
	if err != nil || ord.Status != model.OrderAwaitingPayment || o.clk.Now().Before(ord.PayBy) {
		o.mu.Unlock()
		return
	}
	ord.Status = model.OrderExpired
	ord.UpdatedAt = o.clk.Now()
	if err := o.orders.Update(ctx, ord); err != nil {
		o.mu.Unlock()
		log.Printf("order: expiring %s failed: %v", orderID, err)
		return
	}
	o.mu.Unlock()

	if err := o.api.ReleaseSeat(ctx, session, ord.CourseID); err != nil {
		log.Printf("order: releasing seat for expired order %s failed: %v", orderID, err)
	}
}
