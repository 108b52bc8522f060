package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB() *DB {
	return NewDB(DefaultSeed())
}

func TestProductRepository_ListAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(), zerolog.Nop())

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Wireless Mouse", products[0].Name)

	p, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "49.99", p.UnitPrice.StringFixed(2))

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductRepository_ValidateProductsExist(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(), zerolog.Nop())

	tests := []struct {
		name    string
		ids     []int64
		wantErr bool
	}{
		{name: "all exist", ids: []int64{1}},
		{name: "empty", ids: nil},
		{name: "one missing", ids: []int64{1, 42}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.ValidateProductsExist(ctx, tt.ids)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProductRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(), zerolog.Nop())

	p, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	p.Name = "Silent Mouse"
	require.NoError(t, repo.Update(ctx, *p))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Silent Mouse", got.Name)

	err = repo.Update(ctx, model.Product{ID: 7})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductRepository_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(), zerolog.Nop())

	stored, err := repo.ReplaceAll(ctx, []model.Product{
		{Name: "A", UnitPrice: decimal.NewFromInt(1)},
		{ID: 10, Name: "B", UnitPrice: decimal.NewFromInt(2)},
		{Name: "C", UnitPrice: decimal.NewFromInt(3)},
	})
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, int64(11), stored[0].ID)
	assert.Equal(t, int64(10), stored[1].ID)
	assert.Equal(t, int64(12), stored[2].ID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = repo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.ReplaceAll(ctx, []model.Product{{ID: 5}, {ID: 5}})
	assert.ErrorIs(t, err, ErrDuplicate)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "failed replace must leave the catalog untouched")
}

func TestOrderRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(), zerolog.Nop())

	order := &model.Order{
		StatusID:     model.StatusIDNew,
		CustomerName: "Jan",
		Items: []model.OrderItem{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("49.99")},
		},
	}
	require.NoError(t, repo.Create(ctx, order, 7))
	assert.Equal(t, int64(1), order.ID)
	assert.Equal(t, model.StatusNew, order.Status.Name)
	assert.Equal(t, int64(1), order.Items[0].ID)
	assert.Equal(t, order.ID, order.Items[0].OrderID)

	require.NoError(t, repo.Create(ctx, &model.Order{StatusID: model.StatusIDNew}, 0))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := repo.ListByCustomer(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)

	none, err := repo.ListByCustomer(ctx, 8)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	err = repo.Create(ctx, &model.Order{StatusID: 99}, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(), zerolog.Nop())

	order := &model.Order{StatusID: model.StatusIDNew}
	require.NoError(t, repo.Create(ctx, order, 0))

	approved := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateStatus(ctx, order.ID, model.StatusIDApproved, &approved))

	got, owner, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Zero(t, owner)
	assert.Equal(t, model.StatusApproved, got.Status.Name)
	require.NotNil(t, got.ApprovalDate)
	assert.True(t, approved.Equal(*got.ApprovalDate))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, model.StatusIDNew, nil))
	got, _, err = repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ApprovalDate)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 99, model.StatusIDNew, nil), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, order.ID, 99, nil), ErrNotFound)
}

func TestReviewRepository_OnePerOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB()
	orders := NewOrderRepository(db, zerolog.Nop())
	reviews := NewReviewRepository(db)

	order := &model.Order{StatusID: model.StatusIDNew}
	require.NoError(t, orders.Create(ctx, order, 0))

	rv := &model.Review{OrderID: order.ID, Rating: 5, Text: "great"}
	require.NoError(t, reviews.Create(ctx, rv))
	assert.Equal(t, int64(1), rv.ID)

	err := reviews.Create(ctx, &model.Review{OrderID: order.ID, Rating: 1, Text: "again"})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = reviews.Create(ctx, &model.Review{OrderID: 99, Rating: 1, Text: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := reviews.GetByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "great", got.Text)

	all, err := reviews.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserRepository_EmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB())

	require.NoError(t, repo.Create(ctx, &model.User{Email: "Jan@Example.com", Role: model.RoleCustomer}))
	err := repo.Create(ctx, &model.User{Email: "jan@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	u, err := repo.GetByEmail(ctx, " JAN@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDB_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	db := newTestDB()
	_, err := NewProductRepository(db, zerolog.Nop()).List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, db.Ping(ctx), context.Canceled)
}

func TestDB_ConcurrentOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Create(ctx, &model.Order{StatusID: model.StatusIDNew}, 0)
		}()
	}
	wg.Wait()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 20)
	for i, o := range all {
		assert.Equal(t, int64(i+1), o.ID)
	}
}
