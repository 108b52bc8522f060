package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/model"
)

// Sentinel errors returned by every repository.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List returns every product ordered by ID.
	List(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	// ValidateProductsExist checks if all provided product IDs exist.
	// Returns ErrNotFound if any product ID does not exist.
	ValidateProductsExist(ctx context.Context, ids []int64) error

	// Update replaces a stored product.
	Update(ctx context.Context, p model.Product) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int, error)

	// ReplaceAll swaps the whole catalog, assigning IDs where missing.
	ReplaceAll(ctx context.Context, products []model.Product) ([]model.Product, error)
}

// ReferenceRepository serves read-only lookup data.
type ReferenceRepository interface {
	Categories(ctx context.Context) ([]model.Category, error)
	Statuses(ctx context.Context) ([]model.Status, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	GetStatus(ctx context.Context, id int64) (*model.Status, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Create stores an order with its items and assigns their IDs.
	// customerID is zero for guest orders.
	Create(ctx context.Context, order *model.Order, customerID int64) error

	// List returns every order ordered by ID.
	List(ctx context.Context) ([]model.Order, error)

	// ListByCustomer returns the orders placed by one customer.
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)

	// GetByID retrieves an order along with its owner.
	GetByID(ctx context.Context, id int64) (*model.Order, int64, error)

	// UpdateStatus sets the status and approval date of an order.
	UpdateStatus(ctx context.Context, id, statusID int64, approvalDate *time.Time) error
}

// ReviewRepository defines the interface for order review storage.
type ReviewRepository interface {
	List(ctx context.Context) ([]model.Review, error)
	GetByOrderID(ctx context.Context, orderID int64) (*model.Review, error)

	// Create stores a review; ErrDuplicate if the order already has one.
	Create(ctx context.Context, review *model.Review) error
}

// UserRepository defines the interface for account storage.
type UserRepository interface {
	// Create stores a user; ErrDuplicate if the email is taken.
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
