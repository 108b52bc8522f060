// Package admin holds the employee views: product editing, order
// management, the review list and bulk catalog initialization.
package admin

import (
	"context"

	"storefront/internal/model"
)

// LoadErrorMessage is shown when a view could not fetch its data.
const LoadErrorMessage = "Failed to load data from the server."

// EditorAPI is the part of the gateway the product editor needs.
type EditorAPI interface {
	Products(ctx context.Context) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	SEODescription(ctx context.Context, productID int64) (string, error)
}

// OrdersAPI is the part of the gateway the orders manager needs.
type OrdersAPI interface {
	Orders(ctx context.Context) ([]model.Order, error)
	Statuses(ctx context.Context) ([]model.Status, error)
	PatchOrder(ctx context.Context, orderID int64, patch model.OrderStatusPatch) error
}

// ReviewsAPI is the part of the gateway the reviews manager needs.
type ReviewsAPI interface {
	Reviews(ctx context.Context) ([]model.Review, error)
}

// InitAPI is the part of the gateway bulk initialization needs.
type InitAPI interface {
	Products(ctx context.Context) ([]model.Product, error)
	InitCustom(ctx context.Context, products []model.Product) (string, error)
}
