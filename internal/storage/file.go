package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// fileStore persists all keys as one JSON object on disk.
type fileStore struct {
	mu     sync.Mutex
	path   string
	data   map[string]string
	bus    *Bus
	logger zerolog.Logger
}

// NewFileStore opens (or creates on first write) the store at path.
func NewFileStore(path string, logger zerolog.Logger) (Store, error) {
	s := &fileStore{
		path:   path,
		data:   make(map[string]string),
		bus:    NewBus(),
		logger: logger.With().Str("component", "file-storage").Logger(),
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.logger.Debug().Str("file", path).Msg("storage file not found, starting empty")
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrStorage, path, err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			s.logger.Warn().Err(err).Str("file", path).Msg("storage file is corrupt, starting empty")
			s.data = make(map[string]string)
		}
	}

	return s, nil
}

func (s *fileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *fileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	prev, had := s.data[key]
	s.data[key] = value
	if err := s.flushLocked(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.bus.Publish(Change{Key: key})
	return nil
}

func (s *fileStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	removed := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := s.data[k]; ok {
			removed[k] = v
			delete(s.data, k)
		}
	}
	if len(removed) == 0 {
		s.mu.Unlock()
		return nil
	}
	if err := s.flushLocked(); err != nil {
		for k, v := range removed {
			s.data[k] = v
		}
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	for k := range removed {
		s.bus.Publish(Change{Key: k, Removed: true})
	}
	return nil
}

func (s *fileStore) Subscribe(fn func(Change)) func() {
	return s.bus.Subscribe(fn)
}

func (s *fileStore) Close() error {
	return nil
}

// flushLocked writes the whole map via a temp file and rename.
func (s *fileStore) flushLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode: %v", ErrStorage, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", ErrStorage, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".storage-*.json")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", ErrStorage, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to write: %v", ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to close temp file: %v", ErrStorage, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to replace %s: %v", ErrStorage, s.path, err)
	}
	return nil
}
