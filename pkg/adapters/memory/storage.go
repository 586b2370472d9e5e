// Package memory implements core.Storage in process memory.
// It is used by tests and by notebooks that do not need to survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/quill/pkg/core"
)

// Config holds the configuration for the in-memory storage.
type Config struct {
	MaxBytes int64 // Total bytes allowed across all entries. Zero means unlimited.
	ReadOnly bool
}

// Storage is a map-backed core.Storage.
type Storage struct {
	mu       sync.RWMutex
	entries  map[string][]byte
	used     int64
	config   Config
	failNext error
}

// New creates an empty in-memory storage.
func New(config Config) *Storage {
	return &Storage{
		entries: make(map[string][]byte),
		config:  config,
	}
}

// Initialize implements core.Storage. Memory is always ready.
func (s *Storage) Initialize(ctx context.Context) error {
	return nil
}

// Get implements core.Storage.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := core.CheckKey(key); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements core.Storage.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if err := core.CheckKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.ReadOnly {
		return fmt.Errorf("%w: %w", core.ErrStorage, core.ErrReadOnly)
	}

	if err := s.failNext; err != nil {
		s.failNext = nil
		return fmt.Errorf("%w: %w", core.ErrStorage, err)
	}

	used := s.used - int64(len(s.entries[key])) + int64(len(value))
	if s.config.MaxBytes > 0 && used > s.config.MaxBytes {
		return fmt.Errorf("%w: %w: %d of %d bytes", core.ErrStorage, core.ErrQuotaExceeded, used, s.config.MaxBytes)
	}

	s.entries[key] = append([]byte(nil), value...)
	s.used = used
	return nil
}

// Remove implements core.Storage.
func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := core.CheckKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.ReadOnly {
		return fmt.Errorf("%w: %w", core.ErrStorage, core.ErrReadOnly)
	}

	s.used -= int64(len(s.entries[key]))
	delete(s.entries, key)
	return nil
}

// Keys implements core.Storage.
func (s *Storage) Keys(ctx context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		if pattern != "" {
			ok, err := doublestar.Match(pattern, k)
			if err != nil {
				return nil, fmt.Errorf("invalid key pattern %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// FailNextWrite makes the next Set fail with err wrapped in core.ErrStorage.
// It simulates an unavailable medium.
func (s *Storage) FailNextWrite(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// StorageState exposes internal state for observability.
type StorageState struct {
	Entries  int   `json:"entries"`
	Bytes    int64 `json:"bytes"`
	MaxBytes int64 `json:"max_bytes"`
	ReadOnly bool  `json:"read_only"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StorageState{
		Entries:  len(s.entries),
		Bytes:    s.used,
		MaxBytes: s.config.MaxBytes,
		ReadOnly: s.config.ReadOnly,
	}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "memory-storage"
}

var _ core.Storage = (*Storage)(nil)
var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
