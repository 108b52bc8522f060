package service

import (
	"context"
	"errors"

	"storefront/internal/model"
)

// Business rule violations returned by the services.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrReviewNotAllowed   = errors.New("reviews can only be added to completed or canceled orders")
	ErrReviewExists       = errors.New("order already has a review")
	ErrAlreadyInitialized = errors.New("database already initialized")
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID int64
	Role   model.Role
	Email  string
}

// IsEmployee reports whether p may use employee-only operations.
func (p *Principal) IsEmployee() bool {
	return p != nil && p.Role == model.RoleEmployee
}

// ProductService defines operations for catalog management.
type ProductService interface {
	// List retrieves all products.
	List(ctx context.Context) ([]model.Product, error)

	// Categories retrieves the product categories.
	Categories(ctx context.Context) ([]model.Category, error)

	// Statuses retrieves the order statuses.
	Statuses(ctx context.Context) ([]model.Status, error)

	// Update validates and replaces a product.
	Update(ctx context.Context, id int64, p model.Product) (*model.Product, error)

	// SEODescription generates a search-friendly description for a product.
	SEODescription(ctx context.Context, id int64) (string, error)

	// InitCustom replaces an empty catalog with the supplied products.
	InitCustom(ctx context.Context, products []model.Product) (string, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder validates and stores a new order. principal is nil for guests.
	CreateOrder(ctx context.Context, req *model.OrderRequest, principal *Principal) (*model.Order, error)

	// List retrieves every order.
	List(ctx context.Context) ([]model.Order, error)

	// ListByCustomer retrieves one customer's orders.
	ListByCustomer(ctx context.Context, customerID int64, principal *Principal) ([]model.Order, error)

	// UpdateStatus changes an order's status and approval date.
	UpdateStatus(ctx context.Context, id int64, patch model.OrderStatusPatch) error
}

// ReviewService defines operations on order reviews.
type ReviewService interface {
	List(ctx context.Context) ([]model.Review, error)
	Create(ctx context.Context, orderID int64, req model.ReviewRequest, principal *Principal) (*model.Review, error)
}

// AuthService defines account and token operations.
type AuthService interface {
	// Register creates an account with the given role.
	Register(ctx context.Context, creds model.Credentials, role model.Role) (*model.User, error)

	// Login checks credentials and returns a signed token.
	Login(ctx context.Context, creds model.Credentials) (string, error)

	// Authenticate verifies a token and returns its principal.
	Authenticate(token string) (*Principal, error)
}
