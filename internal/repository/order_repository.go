package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface on a DB.
type orderRepository struct {
	db     *DB
	logger zerolog.Logger
}

// NewOrderRepository creates a new DB-backed order repository.
func NewOrderRepository(db *DB, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Create stores an order with its items and assigns their IDs.
func (r *orderRepository) Create(ctx context.Context, order *model.Order, customerID int64) error {
	err := r.db.write(ctx, func() error {
		status, ok := r.db.statuses[order.StatusID]
		if !ok {
			return fmt.Errorf("status %d: %w", order.StatusID, ErrNotFound)
		}

		order.ID = r.db.nextOrderID
		r.db.nextOrderID++
		order.Status = status

		items := make([]model.OrderItem, len(order.Items))
		for i, item := range order.Items {
			item.ID = r.db.nextOrderItemID
			r.db.nextOrderItemID++
			item.OrderID = order.ID
			items[i] = item
		}
		order.Items = items

		r.db.orders[order.ID] = &orderRecord{order: *order, customerID: customerID}
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to insert order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Int("item_count", len(order.Items)).
		Msg("order inserted")
	return nil
}

// List returns every order ordered by ID.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	return r.filter(ctx, func(*orderRecord) bool { return true })
}

// ListByCustomer returns the orders placed by one customer.
func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return r.filter(ctx, func(rec *orderRecord) bool { return rec.customerID == customerID })
}

func (r *orderRepository) filter(ctx context.Context, keep func(*orderRecord) bool) ([]model.Order, error) {
	orders := []model.Order{}
	err := r.db.read(ctx, func() error {
		for _, id := range sortedKeys(r.db.orders) {
			rec := r.db.orders[id]
			if keep(rec) {
				orders = append(orders, r.db.orderLocked(rec))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves an order along with its owner.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, int64, error) {
	var (
		order    model.Order
		customer int64
	)
	err := r.db.read(ctx, func() error {
		rec, ok := r.db.orders[id]
		if !ok {
			return ErrNotFound
		}
		order = r.db.orderLocked(rec)
		customer = rec.customerID
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return &order, customer, nil
}

// UpdateStatus sets the status and approval date of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id, statusID int64, approvalDate *time.Time) error {
	err := r.db.write(ctx, func() error {
		rec, ok := r.db.orders[id]
		if !ok {
			return ErrNotFound
		}
		if _, ok := r.db.statuses[statusID]; !ok {
			return fmt.Errorf("status %d: %w", statusID, ErrNotFound)
		}
		rec.order.StatusID = statusID
		if approvalDate != nil {
			t := *approvalDate
			rec.order.ApprovalDate = &t
		} else {
			rec.order.ApprovalDate = nil
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update order %d: %w", id, err)
	}

	r.logger.Debug().Int64("order_id", id).Int64("status_id", statusID).Msg("order status updated")
	return nil
}
