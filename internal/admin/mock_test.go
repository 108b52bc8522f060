package admin

import (
	"context"

	"storefront/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockAPI is a mock implementation of every admin gateway interface
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Products(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockAPI) Categories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockAPI) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockAPI) SEODescription(ctx context.Context, productID int64) (string, error) {
	args := m.Called(ctx, productID)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) Orders(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockAPI) Statuses(ctx context.Context) ([]model.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Status), args.Error(1)
}

func (m *MockAPI) PatchOrder(ctx context.Context, orderID int64, patch model.OrderStatusPatch) error {
	args := m.Called(ctx, orderID, patch)
	return args.Error(0)
}

func (m *MockAPI) Reviews(ctx context.Context) ([]model.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockAPI) InitCustom(ctx context.Context, products []model.Product) (string, error) {
	args := m.Called(ctx, products)
	return args.String(0), args.Error(1)
}
