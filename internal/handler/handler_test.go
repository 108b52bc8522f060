package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *model.OrderRequest, principal *service.Principal) (*model.Order, error) {
	args := m.Called(ctx, req, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) ListByCustomer(ctx context.Context, customerID int64, principal *service.Principal) ([]model.Order, error) {
	args := m.Called(ctx, customerID, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id int64, patch model.OrderStatusPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func TestWriteServiceError(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "Validation error",
			err:             model.NewValidationError(map[string]string{"email": "must be a valid email"}),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "validation failed: email: must be a valid email",
		},
		{
			name:            "Not found",
			err:             fmt.Errorf("failed to get order 3: %w", repository.ErrNotFound),
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "not found",
		},
		{
			name:            "Bad credentials",
			err:             service.ErrInvalidCredentials,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "invalid email or password",
		},
		{
			name:            "Forbidden",
			err:             service.ErrForbidden,
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "forbidden",
		},
		{
			name:            "Conflict",
			err:             service.ErrAlreadyInitialized,
			expectedStatus:  http.StatusConflict,
			expectedMessage: "database already initialized",
		},
		{
			name:            "Review not allowed",
			err:             service.ErrReviewNotAllowed,
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: service.ErrReviewNotAllowed.Error(),
		},
		{
			name:            "Unexpected",
			err:             errors.New("disk on fire"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeServiceError(w, tt.err, "fallback", logger)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.expectedMessage, body.Error)
		})
	}
}

func TestOrderHandler_Create(t *testing.T) {
	logger := zerolog.Nop()
	customer := &service.Principal{UserID: 2, Role: model.RoleCustomer}

	tests := []struct {
		name           string
		body           string
		principal      *service.Principal
		setupMock      func(*MockOrderService)
		expectedStatus int
	}{
		{
			name:      "Success passes the principal through",
			body:      `{"customerName":"Jan","email":"jan@example.com","phoneNumber":"123456789","items":[{"productId":1,"quantity":1}]}`,
			principal: customer,
			setupMock: func(m *MockOrderService) {
				m.On("CreateOrder", mock.Anything, mock.AnythingOfType("*model.OrderRequest"), customer).
					Return(&model.Order{ID: 1}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Invalid JSON",
			body:           `{"items":`,
			setupMock:      func(*MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Service validation failure",
			body: `{}`,
			setupMock: func(m *MockOrderService) {
				m.On("CreateOrder", mock.Anything, mock.Anything, (*service.Principal)(nil)).
					Return(nil, model.NewValidationError(map[string]string{"items": "must be at least 1"}))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			tt.setupMock(svc)
			h := NewOrderHandler(svc, logger)

			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			if tt.principal != nil {
				req = req.WithContext(middleware.WithPrincipal(req.Context(), tt.principal))
			}
			w := httptest.NewRecorder()
			h.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*MockOrderService)
		expectedStatus int
	}{
		{
			name: "Success",
			id:   "7",
			body: `{"statusId":3,"approvalDate":null}`,
			setupMock: func(m *MockOrderService) {
				m.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusPatch{StatusID: 3}).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Invalid id",
			id:             "abc",
			body:           `{"statusId":3}`,
			setupMock:      func(*MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown order",
			id:   "8",
			body: `{"statusId":3}`,
			setupMock: func(m *MockOrderService) {
				m.On("UpdateStatus", mock.Anything, int64(8), mock.Anything).Return(repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			tt.setupMock(svc)
			h := NewOrderHandler(svc, logger)

			req := httptest.NewRequest(http.MethodPatch, "/orders/"+tt.id, strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()
			h.UpdateStatus(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
