package nav

import (
	"context"
	"sync"

	"storefront/internal/cart"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// CartBadge shows the number of units in the cart. It recomputes the
// count from storage on every change to the cart key, whichever client
// made it.
type CartBadge struct {
	mu          sync.Mutex
	store       storage.Store
	logger      zerolog.Logger
	count       int
	unsubscribe func()
	onChange    func(int)
}

// NewCartBadge subscribes to cart changes and reads the initial count.
func NewCartBadge(ctx context.Context, store storage.Store, logger zerolog.Logger) *CartBadge {
	b := &CartBadge{
		store:  store,
		logger: logger.With().Str("component", "cart-badge").Logger(),
	}
	b.refresh(ctx)
	b.unsubscribe = store.Subscribe(func(c storage.Change) {
		if c.Key != storage.KeyCartItems {
			return
		}
		b.refresh(context.Background())
	})
	return b
}

// OnChange registers a callback invoked with each new count.
func (b *CartBadge) OnChange(fn func(int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

func (b *CartBadge) refresh(ctx context.Context) {
	count := 0
	raw, ok, err := b.store.Get(ctx, storage.KeyCartItems)
	switch {
	case err != nil:
		b.logger.Error().Err(err).Msg("failed to read cart")
	case ok:
		items, err := cart.Decode(raw)
		if err != nil {
			b.logger.Warn().Err(err).Msg("stored cart is malformed")
			break
		}
		count = cart.CountItems(items)
	}

	b.mu.Lock()
	b.count = count
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(count)
	}
}

// Count returns the current number of units.
func (b *CartBadge) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Close stops listening for changes.
func (b *CartBadge) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}
