package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface on a DB.
type productRepository struct {
	db     *DB
	logger zerolog.Logger
}

// NewProductRepository creates a new DB-backed product repository.
func NewProductRepository(db *DB, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// List returns every product ordered by ID.
func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.read(ctx, func() error {
		products = make([]model.Product, 0, len(r.db.products))
		for _, id := range sortedKeys(r.db.products) {
			products = append(products, r.db.products[id])
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	r.logger.Debug().Int("count", len(products)).Msg("retrieved products")
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product *model.Product
	err := r.db.read(ctx, func() error {
		p, ok := r.db.products[id]
		if !ok {
			return ErrNotFound
		}
		product = &p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return product, nil
}

// GetByIDs retrieves multiple products by their IDs, skipping unknown ones.
func (r *productRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	var products []model.Product
	err := r.db.read(ctx, func() error {
		seen := make(map[int64]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			if p, ok := r.db.products[id]; ok {
				products = append(products, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// ValidateProductsExist checks if all provided product IDs exist.
func (r *productRepository) ValidateProductsExist(ctx context.Context, ids []int64) error {
	return r.db.read(ctx, func() error {
		for _, id := range ids {
			if _, ok := r.db.products[id]; !ok {
				r.logger.Warn().Int64("product_id", id).Msg("product does not exist")
				return fmt.Errorf("product %d: %w", id, ErrNotFound)
			}
		}
		return nil
	})
}

// Update replaces a stored product.
func (r *productRepository) Update(ctx context.Context, p model.Product) error {
	err := r.db.write(ctx, func() error {
		if _, ok := r.db.products[p.ID]; !ok {
			return ErrNotFound
		}
		r.db.products[p.ID] = p
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", p.ID, err)
	}
	return nil
}

// Count returns the number of stored products.
func (r *productRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.read(ctx, func() error {
		n = len(r.db.products)
		return nil
	})
	return n, err
}

// ReplaceAll swaps the whole catalog, assigning IDs where missing.
func (r *productRepository) ReplaceAll(ctx context.Context, products []model.Product) ([]model.Product, error) {
	stored := make([]model.Product, len(products))
	err := r.db.write(ctx, func() error {
		next := int64(1)
		for _, p := range products {
			if p.ID >= next {
				next = p.ID + 1
			}
		}

		replaced := make(map[int64]model.Product, len(products))
		for i, p := range products {
			if p.ID == 0 {
				p.ID = next
				next++
			}
			if _, dup := replaced[p.ID]; dup {
				return fmt.Errorf("product %d: %w", p.ID, ErrDuplicate)
			}
			replaced[p.ID] = p
			stored[i] = p
		}

		r.db.products = replaced
		r.db.nextProductID = next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace products: %w", err)
	}

	r.logger.Info().Int("count", len(stored)).Msg("product catalog replaced")
	return stored, nil
}
