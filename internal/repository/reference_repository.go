package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"
)

type referenceRepository struct {
	db *DB
}

// NewReferenceRepository creates a repository for categories and statuses.
func NewReferenceRepository(db *DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) Categories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := r.db.read(ctx, func() error {
		out = make([]model.Category, 0, len(r.db.categories))
		for _, id := range sortedKeys(r.db.categories) {
			out = append(out, r.db.categories[id])
		}
		return nil
	})
	return out, err
}

func (r *referenceRepository) Statuses(ctx context.Context) ([]model.Status, error) {
	var out []model.Status
	err := r.db.read(ctx, func() error {
		out = make([]model.Status, 0, len(r.db.statuses))
		for _, id := range sortedKeys(r.db.statuses) {
			out = append(out, r.db.statuses[id])
		}
		return nil
	})
	return out, err
}

func (r *referenceRepository) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	var out *model.Category
	err := r.db.read(ctx, func() error {
		c, ok := r.db.categories[id]
		if !ok {
			return fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *referenceRepository) GetStatus(ctx context.Context, id int64) (*model.Status, error) {
	var out *model.Status
	err := r.db.read(ctx, func() error {
		s, ok := r.db.statuses[id]
		if !ok {
			return fmt.Errorf("status %d: %w", id, ErrNotFound)
		}
		out = &s
		return nil
	})
	return out, err
}
