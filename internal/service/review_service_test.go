package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	completed := &model.Order{ID: 8, Status: model.Status{ID: 3, Name: model.StatusCompleted}}
	pending := &model.Order{ID: 8, Status: model.Status{ID: 1, Name: model.StatusNew}}
	owner := &Principal{UserID: 5, Role: model.RoleCustomer}

	tests := []struct {
		name       string
		req        model.ReviewRequest
		principal  *Principal
		setupMocks func(*MockReviewRepository, *MockOrderRepository)
		wantErr    error
		wantField  string
	}{
		{
			name:      "success",
			req:       model.ReviewRequest{Rating: 5, Text: " Great "},
			principal: owner,
			setupMocks: func(r *MockReviewRepository, o *MockOrderRepository) {
				o.On("GetByID", ctx, int64(8)).Return(completed, int64(5), nil)
				r.On("Create", ctx, &model.Review{OrderID: 8, Rating: 5, Text: "Great", CreatedAt: now}).Return(nil)
			},
		},
		{
			name:       "rating out of range",
			req:        model.ReviewRequest{Rating: 6, Text: "x"},
			principal:  owner,
			setupMocks: func(*MockReviewRepository, *MockOrderRepository) {},
			wantField:  "rating",
		},
		{
			name:       "blank text",
			req:        model.ReviewRequest{Rating: 3, Text: "  "},
			principal:  owner,
			setupMocks: func(*MockReviewRepository, *MockOrderRepository) {},
			wantField:  "text",
		},
		{
			name:      "unknown order",
			req:       model.ReviewRequest{Rating: 3, Text: "ok"},
			principal: owner,
			setupMocks: func(r *MockReviewRepository, o *MockOrderRepository) {
				o.On("GetByID", ctx, int64(8)).Return(nil, int64(0), repository.ErrNotFound)
			},
			wantErr: repository.ErrNotFound,
		},
		{
			name:      "someone else's order",
			req:       model.ReviewRequest{Rating: 3, Text: "ok"},
			principal: &Principal{UserID: 6, Role: model.RoleCustomer},
			setupMocks: func(r *MockReviewRepository, o *MockOrderRepository) {
				o.On("GetByID", ctx, int64(8)).Return(completed, int64(5), nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:      "order still open",
			req:       model.ReviewRequest{Rating: 3, Text: "ok"},
			principal: owner,
			setupMocks: func(r *MockReviewRepository, o *MockOrderRepository) {
				o.On("GetByID", ctx, int64(8)).Return(pending, int64(5), nil)
			},
			wantErr: ErrReviewNotAllowed,
		},
		{
			name:      "already reviewed",
			req:       model.ReviewRequest{Rating: 3, Text: "ok"},
			principal: owner,
			setupMocks: func(r *MockReviewRepository, o *MockOrderRepository) {
				o.On("GetByID", ctx, int64(8)).Return(completed, int64(5), nil)
				r.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)
			},
			wantErr: ErrReviewExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := new(MockReviewRepository)
			orders := new(MockOrderRepository)
			tt.setupMocks(reviews, orders)

			svc := NewReviewService(reviews, orders, func() time.Time { return now }, zerolog.Nop())
			got, err := svc.Create(ctx, 8, tt.req, tt.principal)

			switch {
			case tt.wantField != "":
				var verr *model.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, tt.wantField)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Great", got.Text)
				assert.Equal(t, now, got.CreatedAt)
			}
			reviews.AssertExpectations(t)
			orders.AssertExpectations(t)
		})
	}
}

func TestReviewService_EmployeeMayReviewAnyOrder(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	orders := new(MockOrderRepository)
	orders.On("GetByID", ctx, int64(8)).
		Return(&model.Order{ID: 8, Status: model.Status{Name: model.StatusCanceled}}, int64(0), nil)
	reviews.On("Create", ctx, mock.Anything).Return(nil)

	svc := NewReviewService(reviews, orders, nil, zerolog.Nop())
	_, err := svc.Create(ctx, 8, model.ReviewRequest{Rating: 1, Text: "late"}, &Principal{UserID: 1, Role: model.RoleEmployee})

	require.NoError(t, err)
	reviews.AssertExpectations(t)
}
