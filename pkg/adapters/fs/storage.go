// Package fs implements core.Storage as one JSON file per key under a directory.
package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/natefinch/atomic"

	"github.com/aretw0/quill/pkg/core"
)

// FileExt is the extension of every entry file.
const FileExt = ".json"

// Config holds the configuration for the filesystem storage.
type Config struct {
	Path      string
	MustExist bool  // Fail Initialize instead of creating a missing directory.
	ReadOnly  bool  // Reject Set and Remove with core.ErrReadOnly.
	MaxBytes  int64 // Total bytes allowed across all entries. Zero means unlimited.
	Logger    *slog.Logger
}

// Storage implements core.Storage with one JSON file per key.
// A key such as "work/notes" is stored at {Path}/work/notes.json.
type Storage struct {
	Path   string
	config Config

	// mu serializes writers so quota accounting sees a stable directory.
	mu sync.Mutex
}

// NewStorage creates a new filesystem-backed storage.
// No I/O happens until Initialize or the first operation.
func NewStorage(config Config) *Storage {
	return &Storage{
		Path:   config.Path,
		config: config,
	}
}

// Initialize ensures the storage directory exists.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if errors.Is(err, fs.ErrNotExist) {
			if s.config.ReadOnly && !s.config.MustExist {
				// Nothing stored yet; reads will report every key as missing.
				return nil
			}
			return fmt.Errorf("store path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat store path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if s.config.Logger != nil {
		s.config.Logger.Debug("store initialized", "path", s.Path)
	}
	return nil
}

func (s *Storage) filename(key string) (string, error) {
	if err := core.CheckKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.Path, filepath.FromSlash(key)+FileExt), nil
}

// Get reads the entry for key.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	filename, err := s.filename(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to read %s: %w", core.ErrStorage, key, err)
	}
	return data, true, nil
}

// Set writes the entry for key atomically (temp file + rename).
//
// Workflow:
//  1. Reject writes in read-only mode.
//  2. Check the quota against the current usage of every other entry.
//  3. Create parent directories for namespaced keys.
//  4. Write atomically so a failure leaves the previous file in place.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	filename, err := s.filename(key)
	if err != nil {
		return err
	}

	if s.config.ReadOnly {
		return fmt.Errorf("%w: %w", core.ErrStorage, core.ErrReadOnly)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.MaxBytes > 0 {
		used, err := s.usage(filename)
		if err != nil {
			return fmt.Errorf("%w: failed to measure usage: %w", core.ErrStorage, err)
		}
		if total := used + int64(len(value)); total > s.config.MaxBytes {
			return fmt.Errorf("%w: %w: %d of %d bytes", core.ErrStorage, core.ErrQuotaExceeded, total, s.config.MaxBytes)
		}
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("%w: failed to create directories: %w", core.ErrStorage, err)
	}

	if err := atomic.WriteFile(filename, bytes.NewReader(value)); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", core.ErrStorage, key, err)
	}

	return nil
}

// Remove deletes the entry for key. A missing entry is not an error.
func (s *Storage) Remove(ctx context.Context, key string) error {
	filename, err := s.filename(key)
	if err != nil {
		return err
	}

	if s.config.ReadOnly {
		return fmt.Errorf("%w: %w", core.ErrStorage, core.ErrReadOnly)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: failed to remove %s: %w", core.ErrStorage, key, err)
	}
	return nil
}

// Keys walks the storage directory and returns the keys matching pattern.
func (s *Storage) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid key pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	var keys []string
	err := s.walk(func(path string, _ fs.DirEntry) error {
		rel, err := filepath.Rel(s.Path, path)
		if err != nil {
			return err
		}
		key := strings.TrimSuffix(filepath.ToSlash(rel), FileExt)

		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, key); !ok {
				return nil
			}
		}
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}

// usage sums the size of every entry except the one at exclude.
func (s *Storage) usage(exclude string) (int64, error) {
	var total int64
	err := s.walk(func(path string, d fs.DirEntry) error {
		if path == exclude {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil // Vanished between listing and stat.
		}
		total += info.Size()
		return nil
	})
	return total, err
}

// walk visits every entry file. A missing root yields no entries.
func (s *Storage) walk(fn func(path string, d fs.DirEntry) error) error {
	err := filepath.WalkDir(s.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != FileExt {
			return nil
		}
		return fn(path, d)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

var _ core.Storage = (*Storage)(nil)
