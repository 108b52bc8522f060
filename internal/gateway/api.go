package gateway

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/model"
)

// Products lists all products.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.Get(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Categories lists all categories.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.Get(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Statuses lists the order statuses.
func (c *Client) Statuses(ctx context.Context) ([]model.Status, error) {
	var statuses []model.Status
	if err := c.Get(ctx, "/status", &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// UpdateProduct replaces a product and returns the server's copy.
func (c *Client) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	var updated model.Product
	if err := c.Put(ctx, fmt.Sprintf("/products/%d", p.ID), p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SEODescription asks the backend to generate a description for a product.
func (c *Client) SEODescription(ctx context.Context, productID int64) (string, error) {
	var resp model.SEODescriptionResponse
	if err := c.Get(ctx, fmt.Sprintf("/products/%d/seo-description", productID), &resp); err != nil {
		return "", err
	}
	return resp.SEODescription, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (string, error) {
	var resp model.LoginResponse
	if err := c.Post(ctx, "/login", creds, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates a customer account and returns the server message.
func (c *Client) Register(ctx context.Context, creds model.Credentials) (string, error) {
	var resp model.MessageResponse
	if err := c.Post(ctx, "/register", creds, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// CreateOrder submits a new order. Only 200 and 201 confirm it; any other
// success status is reported as an HTTP error.
func (c *Client) CreateOrder(ctx context.Context, req model.OrderRequest) error {
	status, err := c.do(ctx, http.MethodPost, "/orders", req, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		c.logger.Warn().Int("status", status).Msg("order not confirmed by the server")
		return model.NewHTTPError(http.MethodPost, "/orders", status, model.ErrorResponse{})
	}
	return nil
}

// Orders lists every order.
func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.Get(ctx, "/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CustomerOrders lists the orders placed by one customer.
func (c *Client) CustomerOrders(ctx context.Context, customerID int64) ([]model.Order, error) {
	var orders []model.Order
	if err := c.Get(ctx, fmt.Sprintf("/orders/%d", customerID), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PatchOrder changes an order's status and approval date.
func (c *Client) PatchOrder(ctx context.Context, orderID int64, patch model.OrderStatusPatch) error {
	return c.Patch(ctx, fmt.Sprintf("/orders/%d", orderID), patch, nil)
}

// Reviews lists all order reviews.
func (c *Client) Reviews(ctx context.Context) ([]model.Review, error) {
	var reviews []model.Review
	if err := c.Get(ctx, "/orders/opinions", &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview adds a review to an order.
func (c *Client) CreateReview(ctx context.Context, orderID int64, req model.ReviewRequest) error {
	return c.Post(ctx, fmt.Sprintf("/orders/%d/opinions", orderID), req, nil)
}

// InitCustom seeds the product catalog and returns the server message.
func (c *Client) InitCustom(ctx context.Context, products []model.Product) (string, error) {
	var resp model.MessageResponse
	if err := c.Post(ctx, "/init/custom", model.InitCustomRequest{Products: products}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
