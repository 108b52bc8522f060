// Package cart holds the shopping cart and mirrors it to local storage.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Cart is an ordered list of items keyed by product id.
type Cart struct {
	mu     sync.Mutex
	store  storage.Store
	items  []model.CartItem
	logger zerolog.Logger
}

// New creates an empty cart backed by store. Call Load to restore a
// previously persisted cart.
func New(store storage.Store, logger zerolog.Logger) *Cart {
	return &Cart{
		store:  store,
		logger: logger.With().Str("component", "cart").Logger(),
	}
}

// Decode parses the persisted cart representation.
func Decode(raw string) ([]model.CartItem, error) {
	if raw == "" {
		return nil, nil
	}
	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return items, nil
}

// CountItems sums the quantities of items.
func CountItems(items []model.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Load replaces the in-memory cart with the stored one. A missing or
// malformed value leaves the cart empty.
func (c *Cart) Load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil

	raw, ok, err := c.store.Get(ctx, storage.KeyCartItems)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to read cart")
		return
	}
	if !ok {
		return
	}

	items, err := Decode(raw)
	if err != nil {
		c.logger.Warn().Err(err).Msg("stored cart is malformed, starting empty")
		return
	}
	c.items = items
}

// Add puts one unit of p into the cart.
func (c *Cart) Add(ctx context.Context, p model.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == p.ID {
			c.items[i].Quantity++
			c.persist(ctx)
			return
		}
	}
	c.items = append(c.items, model.CartItem{Product: p, Quantity: 1})
	c.persist(ctx)
}

// SetQuantity overwrites the quantity at index. Non-positive quantities
// and out-of-range indexes are ignored.
func (c *Cart) SetQuantity(ctx context.Context, index, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 || index < 0 || index >= len(c.items) {
		return
	}
	c.items[index].Quantity = quantity
	c.persist(ctx)
}

// Remove deletes the item at index.
func (c *Cart) Remove(ctx context.Context, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.items) {
		return
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	c.persist(ctx)
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.persist(ctx)
}

// Total returns the exact sum of unit price times quantity.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// TotalDisplay returns Total rounded to two decimal places.
func (c *Cart) TotalDisplay() string {
	return c.Total().StringFixed(2)
}

// Items returns a copy of the cart contents.
func (c *Cart) Items() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Count returns the total number of units.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CountItems(c.items)
}

// Len returns the number of distinct products.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// persist writes the cart. Failures are logged; memory stays authoritative.
func (c *Cart) persist(ctx context.Context) {
	items := c.items
	if items == nil {
		items = []model.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to encode cart")
		return
	}
	if err := c.store.Set(ctx, storage.KeyCartItems, string(raw)); err != nil {
		c.logger.Error().Err(err).Msg("failed to persist cart")
	}
}
