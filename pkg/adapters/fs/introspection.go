package fs

import (
	"context"

	"github.com/aretw0/introspection"
)

// StorageState exposes internal state for observability.
type StorageState struct {
	Path     string   `json:"path"`
	ReadOnly bool     `json:"read_only"`
	MaxBytes int64    `json:"max_bytes"`
	Bytes    int64    `json:"bytes"`
	Keys     []string `json:"keys"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	keys, _ := s.Keys(context.Background(), "")

	s.mu.Lock()
	used, _ := s.usage("")
	s.mu.Unlock()

	return StorageState{
		Path:     s.Path,
		ReadOnly: s.config.ReadOnly,
		MaxBytes: s.config.MaxBytes,
		Bytes:    used,
		Keys:     keys,
	}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "fs-storage"
}

var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
