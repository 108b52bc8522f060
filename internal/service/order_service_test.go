package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderMocks struct {
	orders   *MockOrderRepository
	products *MockProductRepository
	refs     *MockReferenceRepository
	users    *MockUserRepository
}

func newOrderService() (OrderService, orderMocks) {
	m := orderMocks{
		orders:   new(MockOrderRepository),
		products: new(MockProductRepository),
		refs:     new(MockReferenceRepository),
		users:    new(MockUserRepository),
	}
	return NewOrderService(m.orders, m.products, m.refs, m.users, zerolog.Nop()), m
}

func validOrderRequest() *model.OrderRequest {
	return &model.OrderRequest{
		StatusID:     model.StatusIDNew,
		CustomerName: " Jan Kowalski ",
		Email:        "jan@example.com",
		PhoneNumber:  "123456789",
		Items: []model.OrderItemRequest{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("1.00")},
		},
	}
}

func TestOrderService_CreateOrder_Success(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService()

	m.refs.On("GetStatus", ctx, model.StatusIDNew).Return(&model.Status{ID: 1, Name: model.StatusNew}, nil)
	m.products.On("ValidateProductsExist", ctx, []int64{1}).Return(nil)
	m.products.On("GetByIDs", ctx, []int64{1}).Return([]model.Product{
		{ID: 1, UnitPrice: decimal.RequireFromString("49.99")},
	}, nil)
	m.orders.On("Create", ctx, mock.AnythingOfType("*model.Order"), int64(7)).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Order).ID = 11
		}).
		Return(nil)

	principal := &Principal{UserID: 7, Role: model.RoleCustomer}
	order, err := svc.CreateOrder(ctx, validOrderRequest(), principal)

	require.NoError(t, err)
	assert.Equal(t, int64(11), order.ID)
	assert.Equal(t, "Jan Kowalski", order.CustomerName)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "49.99", order.Items[0].UnitPrice.StringFixed(2), "server price wins over the client's")
	m.orders.AssertExpectations(t)
	m.users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrder_GuestLinkedByEmail(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		user     *model.User
		userErr  error
		wantUser int64
	}{
		{name: "registered customer", user: &model.User{ID: 3, Role: model.RoleCustomer}, wantUser: 3},
		{name: "employee email", user: &model.User{ID: 4, Role: model.RoleEmployee}, wantUser: 0},
		{name: "unknown email", userErr: repository.ErrNotFound, wantUser: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newOrderService()
			m.refs.On("GetStatus", ctx, model.StatusIDNew).Return(&model.Status{ID: 1}, nil)
			m.products.On("ValidateProductsExist", ctx, []int64{1}).Return(nil)
			m.products.On("GetByIDs", ctx, []int64{1}).Return([]model.Product{{ID: 1}}, nil)
			if tt.user != nil {
				m.users.On("GetByEmail", ctx, "jan@example.com").Return(tt.user, nil)
			} else {
				m.users.On("GetByEmail", ctx, "jan@example.com").Return(nil, tt.userErr)
			}
			m.orders.On("Create", ctx, mock.Anything, tt.wantUser).Return(nil)

			_, err := svc.CreateOrder(ctx, validOrderRequest(), nil)

			require.NoError(t, err)
			m.orders.AssertExpectations(t)
		})
	}
}

func TestOrderService_CreateOrder_ValidationErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		mutate    func(*model.OrderRequest)
		wantField string
	}{
		{name: "blank name", mutate: func(r *model.OrderRequest) { r.CustomerName = "   " }, wantField: "customerName"},
		{name: "bad email", mutate: func(r *model.OrderRequest) { r.Email = "jan@" }, wantField: "email"},
		{name: "short phone", mutate: func(r *model.OrderRequest) { r.PhoneNumber = "12345" }, wantField: "phoneNumber"},
		{name: "no items", mutate: func(r *model.OrderRequest) { r.Items = nil }, wantField: "items"},
		{name: "zero quantity", mutate: func(r *model.OrderRequest) { r.Items[0].Quantity = 0 }, wantField: "quantity"},
		{name: "missing product", mutate: func(r *model.OrderRequest) { r.Items[0].ProductID = 0 }, wantField: "productId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newOrderService()
			req := validOrderRequest()
			tt.mutate(req)

			_, err := svc.CreateOrder(ctx, req, nil)

			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)
			m.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_CreateOrder_UnknownReferences(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown status", func(t *testing.T) {
		svc, m := newOrderService()
		req := validOrderRequest()
		req.StatusID = 42
		m.refs.On("GetStatus", ctx, int64(42)).Return(nil, repository.ErrNotFound)

		_, err := svc.CreateOrder(ctx, req, nil)

		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "statusId")
	})

	t.Run("status defaults to new", func(t *testing.T) {
		svc, m := newOrderService()
		req := validOrderRequest()
		req.StatusID = 0
		m.refs.On("GetStatus", ctx, model.StatusIDNew).Return(nil, repository.ErrNotFound)

		_, err := svc.CreateOrder(ctx, req, nil)

		require.Error(t, err)
		m.refs.AssertExpectations(t)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, m := newOrderService()
		m.refs.On("GetStatus", ctx, model.StatusIDNew).Return(&model.Status{ID: 1}, nil)
		m.products.On("ValidateProductsExist", ctx, []int64{1}).Return(repository.ErrNotFound)

		_, err := svc.CreateOrder(ctx, validOrderRequest(), nil)

		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "items")
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, m := newOrderService()
		m.refs.On("GetStatus", ctx, model.StatusIDNew).Return(&model.Status{ID: 1}, nil)
		m.products.On("ValidateProductsExist", ctx, []int64{1}).Return(nil)
		m.products.On("GetByIDs", ctx, []int64{1}).Return([]model.Product{{ID: 1}}, nil)
		m.users.On("GetByEmail", ctx, mock.Anything).Return(nil, repository.ErrNotFound)
		m.orders.On("Create", ctx, mock.Anything, int64(0)).Return(errors.New("disk full"))

		_, err := svc.CreateOrder(ctx, validOrderRequest(), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create order")
	})
}

func TestOrderService_ListByCustomer(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		principal *Principal
		wantErr   error
	}{
		{name: "own orders", principal: &Principal{UserID: 5, Role: model.RoleCustomer}},
		{name: "employee", principal: &Principal{UserID: 1, Role: model.RoleEmployee}},
		{name: "foreign orders", principal: &Principal{UserID: 6, Role: model.RoleCustomer}, wantErr: ErrForbidden},
		{name: "anonymous", principal: nil, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newOrderService()
			m.orders.On("ListByCustomer", ctx, int64(5)).Return([]model.Order{{ID: 1}}, nil).Maybe()

			orders, err := svc.ListByCustomer(ctx, 5, tt.principal)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, orders, 1)
		})
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	approved := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		svc, m := newOrderService()
		m.refs.On("GetStatus", ctx, model.StatusIDApproved).Return(&model.Status{ID: 2}, nil)
		m.orders.On("UpdateStatus", ctx, int64(3), model.StatusIDApproved, &approved).Return(nil)

		err := svc.UpdateStatus(ctx, 3, model.OrderStatusPatch{StatusID: model.StatusIDApproved, ApprovalDate: &approved})

		require.NoError(t, err)
		m.orders.AssertExpectations(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, m := newOrderService()
		m.refs.On("GetStatus", ctx, int64(9)).Return(nil, repository.ErrNotFound)

		err := svc.UpdateStatus(ctx, 3, model.OrderStatusPatch{StatusID: 9})

		var verr *model.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, m := newOrderService()
		m.refs.On("GetStatus", ctx, model.StatusIDNew).Return(&model.Status{ID: 1}, nil)
		m.orders.On("UpdateStatus", ctx, int64(3), model.StatusIDNew, (*time.Time)(nil)).Return(repository.ErrNotFound)

		err := svc.UpdateStatus(ctx, 3, model.OrderStatusPatch{StatusID: model.StatusIDNew})

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
