package repository

import (
	"context"
	"fmt"
	"sort"

	"storefront/internal/model"
)

type reviewRepository struct {
	db *DB
}

// NewReviewRepository creates a DB-backed review repository.
func NewReviewRepository(db *DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) List(ctx context.Context) ([]model.Review, error) {
	reviews := []model.Review{}
	err := r.db.read(ctx, func() error {
		for _, rv := range r.db.reviews {
			reviews = append(reviews, rv)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (r *reviewRepository) GetByOrderID(ctx context.Context, orderID int64) (*model.Review, error) {
	var out *model.Review
	err := r.db.read(ctx, func() error {
		rv, ok := r.db.reviews[orderID]
		if !ok {
			return ErrNotFound
		}
		out = &rv
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get review for order %d: %w", orderID, err)
	}
	return out, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	err := r.db.write(ctx, func() error {
		if _, ok := r.db.orders[review.OrderID]; !ok {
			return fmt.Errorf("order %d: %w", review.OrderID, ErrNotFound)
		}
		if _, ok := r.db.reviews[review.OrderID]; ok {
			return fmt.Errorf("review for order %d: %w", review.OrderID, ErrDuplicate)
		}
		review.ID = r.db.nextReviewID
		r.db.nextReviewID++
		r.db.reviews[review.OrderID] = *review
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}
