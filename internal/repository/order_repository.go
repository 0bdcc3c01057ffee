package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/course-booking/internal/model"
	"github.com/iliyamo/course-booking/internal/store"
)

const bucketOrders = "orders"

// OrderRepo provides access to order records for the Order service.
type OrderRepo struct {
	store store.Store
}

// NewOrderRepo returns an OrderRepo bound to the given store.
func NewOrderRepo(s store.Store) *OrderRepo { return &OrderRepo{store: s} }

// Create persists a new order.
func (r *OrderRepo) Create(ctx context.Context, order *model.Order) error {
	return r.put(ctx, order)
}

// Update overwrites an existing order.
func (r *OrderRepo) Update(ctx context.Context, order *model.Order) error {
	return r.put(ctx, order)
}

func (r *OrderRepo) put(ctx context.Context, order *model.Order) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, bucketOrders, order.ID.String(), raw)
}

// GetByID returns the order or ErrOrderNotFound.
func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	raw, err := r.store.Get(ctx, bucketOrders, id.String())
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	var order model.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByUserAndCourse scans for the order matching (user, course).
// There is at most one thanks to the supersession rule in the
// orchestrator.  It returns nil, nil when none exists.
func (r *OrderRepo) FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*model.Order, error) {
	var found *model.Order
	err := r.store.ForEach(ctx, bucketOrders, func(_ string, raw []byte) error {
		if found != nil {
			return nil
		}
		var o model.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			return err
		}
		if o.UserID == userID && o.CourseID == courseID {
			found = &o
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Delete removes the order record.  Used when a terminal-negative
// order is superseded by a fresh purchase attempt.
func (r *OrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, bucketOrders, id.String())
}
