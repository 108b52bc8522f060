package storage

import (
	"context"
	"sync"
)

// memoryStore keeps values for the lifetime of the process.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string]string
	bus  *Bus
}

// NewMemoryStore creates an in-process store.
func NewMemoryStore() Store {
	return &memoryStore{
		data: make(map[string]string),
		bus:  NewBus(),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()

	s.bus.Publish(Change{Key: key})
	return nil
}

func (s *memoryStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	removed := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := s.data[k]; ok {
			delete(s.data, k)
			removed = append(removed, k)
		}
	}
	s.mu.Unlock()

	for _, k := range removed {
		s.bus.Publish(Change{Key: k, Removed: true})
	}
	return nil
}

func (s *memoryStore) Subscribe(fn func(Change)) func() {
	return s.bus.Subscribe(fn)
}

func (s *memoryStore) Close() error {
	return nil
}
