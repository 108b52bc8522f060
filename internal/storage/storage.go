// Package storage provides the client's local persistent key/value store.
//
// Every mutation is announced on a change bus so derived state (the cart
// badge, for instance) can be recomputed from scratch. The Redis backend
// also relays changes made by other clients sharing the same keyspace.
package storage

import (
	"context"
	"errors"
	"sync"
)

// Well-known keys.
const (
	KeyToken     = "token"
	KeyRole      = "role"
	KeyUserID    = "id"
	KeyEmail     = "email"
	KeyCartItems = "cartItems"
)

// ErrStorage wraps every backend failure.
var ErrStorage = errors.New("storage unavailable")

// Change describes a mutation of one key.
type Change struct {
	Key     string
	Removed bool
	// Remote is set when the change originated from another client.
	Remote bool
}

// Store is a string key/value store with change notifications.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the given keys. Missing keys are ignored.
	Remove(ctx context.Context, keys ...string) error

	// Subscribe registers fn for every change and returns a function that
	// cancels the subscription.
	Subscribe(fn func(Change)) (unsubscribe func())

	// Close releases resources held by the store.
	Close() error
}

// Bus fans change notifications out to subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Change)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Change))}
}

// Subscribe registers fn and returns its cancel function.
func (b *Bus) Subscribe(fn func(Change)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers c to every subscriber synchronously.
func (b *Bus) Publish(c Change) {
	b.mu.RLock()
	subs := make([]func(Change), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(c)
	}
}
