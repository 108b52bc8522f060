package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of storage.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStore) Remove(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockStore) Subscribe(fn func(storage.Change)) func() {
	return func() {}
}

func (m *MockStore) Close() error {
	return nil
}

func product(id int64, name, price string) model.Product {
	return model.Product{ID: id, Name: name, UnitPrice: decimal.RequireFromString(price), CategoryID: 1}
}

func TestCart_AddSameProductTwice(t *testing.T) {
	ctx := context.Background()
	c := New(storage.NewMemoryStore(), zerolog.Nop())

	apple := product(1, "Apple", "2.50")
	c.Add(ctx, apple)
	c.Add(ctx, apple)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, 1, c.Len())
}

func TestCart_AddKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	c := New(storage.NewMemoryStore(), zerolog.Nop())

	c.Add(ctx, product(2, "Banana", "1"))
	c.Add(ctx, product(1, "Apple", "1"))
	c.Add(ctx, product(2, "Banana", "1"))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Banana", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Apple", items[1].Name)
}

func TestCart_SetQuantity(t *testing.T) {
	tests := []struct {
		name           string
		index          int
		quantity       int
		expectQuantity int
	}{
		{name: "Positive quantity", index: 0, quantity: 5, expectQuantity: 5},
		{name: "Zero ignored", index: 0, quantity: 0, expectQuantity: 1},
		{name: "Negative ignored", index: 0, quantity: -3, expectQuantity: 1},
		{name: "Index out of range", index: 4, quantity: 7, expectQuantity: 1},
		{name: "Negative index", index: -1, quantity: 7, expectQuantity: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			c := New(storage.NewMemoryStore(), zerolog.Nop())
			c.Add(ctx, product(1, "Apple", "1"))

			c.SetQuantity(ctx, tt.index, tt.quantity)

			assert.Equal(t, tt.expectQuantity, c.Items()[0].Quantity)
		})
	}
}

func TestCart_Remove(t *testing.T) {
	ctx := context.Background()
	c := New(storage.NewMemoryStore(), zerolog.Nop())
	c.Add(ctx, product(1, "Apple", "1"))
	c.Add(ctx, product(2, "Banana", "1"))
	c.Add(ctx, product(3, "Cherry", "1"))

	c.Remove(ctx, 1)
	c.Remove(ctx, 10)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Apple", items[0].Name)
	assert.Equal(t, "Cherry", items[1].Name)
}

func TestCart_Total(t *testing.T) {
	ctx := context.Background()
	c := New(storage.NewMemoryStore(), zerolog.Nop())

	assert.True(t, c.Total().IsZero())
	assert.Equal(t, "0.00", c.TotalDisplay())

	c.Add(ctx, product(1, "Apple", "0.10"))
	c.Add(ctx, product(2, "Banana", "0.20"))
	c.SetQuantity(ctx, 0, 3)

	assert.True(t, decimal.RequireFromString("0.5").Equal(c.Total()), c.Total().String())
	assert.Equal(t, "0.50", c.TotalDisplay())
}

func TestCart_ItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := New(storage.NewMemoryStore(), zerolog.Nop())
	c.Add(ctx, product(1, "Apple", "1"))

	items := c.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestCart_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	c := New(store, zerolog.Nop())
	c.Add(ctx, product(1, "Apple", "2.5"))
	c.Add(ctx, product(1, "Apple", "2.5"))

	raw, ok, err := store.Get(ctx, storage.KeyCartItems)
	require.NoError(t, err)
	require.True(t, ok)

	var stored []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, float64(2), stored[0]["quantity"])
	assert.Equal(t, 2.5, stored[0]["unitPrice"])

	restored := New(store, zerolog.Nop())
	restored.Load(ctx)
	assert.Equal(t, c.Items(), restored.Items())
}

func TestCart_ClearPersistsEmptyArray(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	c := New(store, zerolog.Nop())
	c.Add(ctx, product(1, "Apple", "1"))

	c.Clear(ctx)

	raw, ok, err := store.Get(ctx, storage.KeyCartItems)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
	assert.Equal(t, 0, c.Len())
}

func TestCart_Load(t *testing.T) {
	tests := []struct {
		name        string
		stored      string
		present     bool
		expectCount int
	}{
		{name: "Missing key", present: false, expectCount: 0},
		{name: "Malformed JSON", stored: "{not json", present: true, expectCount: 0},
		{name: "Valid array", stored: `[{"id":1,"name":"A","unitPrice":1,"quantity":3}]`, present: true, expectCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemoryStore()
			if tt.present {
				require.NoError(t, store.Set(ctx, storage.KeyCartItems, tt.stored))
			}

			c := New(store, zerolog.Nop())
			c.Load(ctx)

			assert.Equal(t, tt.expectCount, c.Count())
		})
	}
}

func TestCart_StorageFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("Set", ctx, storage.KeyCartItems, mock.Anything).
		Return(fmt.Errorf("%w: quota exceeded", storage.ErrStorage))

	c := New(store, zerolog.Nop())
	c.Add(ctx, product(1, "Apple", "1"))
	c.Add(ctx, product(1, "Apple", "1"))

	assert.Equal(t, 2, c.Count())
	store.AssertNumberOfCalls(t, "Set", 2)
}

func TestCart_LoadReadFailure(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("Get", ctx, storage.KeyCartItems).Return("", false, storage.ErrStorage)

	c := New(store, zerolog.Nop())
	c.Load(ctx)

	assert.Equal(t, 0, c.Len())
	store.AssertExpectations(t)
}
