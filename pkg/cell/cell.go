// Package cell provides a typed, durable slot backed by a core.Storage entry.
//
// A Cell reads its key once when opened and afterwards serves the value from
// memory. Every update is encoded and written through to storage before the
// in-memory value changes, so a failed write leaves both the stored and the
// observed value untouched.
package cell

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/quill/pkg/core"
)

// Cell holds the current value of one storage key.
type Cell[T any] struct {
	storage core.Storage
	key     string

	mu      sync.Mutex
	value   T
	version uint64
	subs    []*subscription[T]
	nextSub uint64
}

type subscription[T any] struct {
	id uint64
	fn func(T)
}

// Open loads key from storage. If nothing was ever written, def becomes the
// current value. A stored value that cannot be decoded fails with core.ErrCorrupt.
func Open[T any](ctx context.Context, storage core.Storage, key string, def T) (*Cell[T], error) {
	data, found, err := storage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}

	c := &Cell[T]{
		storage: storage,
		key:     key,
		value:   def,
	}

	if found {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%w: key %q: %w", core.ErrCorrupt, key, err)
		}
		c.value = v
	}

	return c, nil
}

// Key returns the storage key backing the cell.
func (c *Cell[T]) Key() string {
	return c.key
}

// Value returns the current value.
// Callers must treat reference types (slices, maps) as read-only.
func (c *Cell[T]) Value() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Version returns a counter incremented on every committed write.
// Two equal versions of the same cell observe the identical value.
func (c *Cell[T]) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Snapshot returns the current value together with its version.
func (c *Cell[T]) Snapshot() (T, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.version
}

// Set replaces the value.
func (c *Cell[T]) Set(ctx context.Context, v T) error {
	_, err := c.Modify(ctx, func(T) (T, bool) { return v, true })
	return err
}

// Update replaces the value with the result of fn applied to the current one.
func (c *Cell[T]) Update(ctx context.Context, fn func(prev T) T) error {
	_, err := c.Modify(ctx, func(prev T) (T, bool) { return fn(prev), true })
	return err
}

// Modify is like Update, but fn may report that nothing changed, in which case
// nothing is written, the version stays the same and subscribers are not called.
// It reports whether a new value was committed.
//
// fn must not mutate prev in place; it has to build a new value.
func (c *Cell[T]) Modify(ctx context.Context, fn func(prev T) (T, bool)) (bool, error) {
	c.mu.Lock()

	next, changed := fn(c.value)
	if !changed {
		c.mu.Unlock()
		return false, nil
	}

	data, err := json.Marshal(next)
	if err != nil {
		c.mu.Unlock()
		return false, fmt.Errorf("%w: key %q: %w", core.ErrSerialization, c.key, err)
	}

	if err := c.storage.Set(ctx, c.key, data); err != nil {
		c.mu.Unlock()
		return false, fmt.Errorf("failed to persist %q: %w", c.key, err)
	}

	c.value = next
	c.version++

	subs := make([]func(T), 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s.fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return true, nil
}

// Subscribe registers fn to be called, in registration order, with every newly
// committed value. The returned function cancels the subscription.
func (c *Cell[T]) Subscribe(fn func(T)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, &subscription[T]{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}
