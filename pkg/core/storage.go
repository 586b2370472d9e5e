package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Storage defines the contract for a persistent, string-keyed store.
// Adhering to this interface allows the notebook to be independent of the
// underlying medium (directory of files, memory, ...).
type Storage interface {
	// Initialize ensures the underlying medium is ready (e.g. create directories).
	Initialize(ctx context.Context) error

	// Get returns the raw value stored under key.
	// found is false when nothing was ever written (or the entry was removed).
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set persists value under key before returning.
	// On failure the previously stored value must be left untouched.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the entry for key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys lists stored keys matching a doublestar glob, sorted.
	// An empty pattern matches every key.
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// CheckKey reports whether key can address an entry: a non-empty,
// slash-separated relative path that stays inside the store.
func CheckKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || !filepath.IsLocal(filepath.FromSlash(key)) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
