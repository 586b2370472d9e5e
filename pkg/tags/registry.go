// Package tags maintains the ordered set of available tags.
package tags

import (
	"context"
	"slices"

	"github.com/aretw0/quill/pkg/cell"
	"github.com/aretw0/quill/pkg/core"
	"github.com/aretw0/quill/pkg/ident"
)

// Registry is the tag collection, persisted through a single cell.
// Tags keep insertion order; labels are not required to be unique.
type Registry struct {
	cell *cell.Cell[[]core.Tag]
	ids  ident.Generator
}

// NewRegistry creates a registry over an opened cell.
func NewRegistry(c *cell.Cell[[]core.Tag], ids ident.Generator) *Registry {
	if ids == nil {
		ids = ident.Default
	}
	return &Registry{cell: c, ids: ids}
}

// Add appends a tag with a fresh ID and returns it. Empty labels are allowed.
func (r *Registry) Add(ctx context.Context, label string) (core.Tag, error) {
	tag := core.Tag{ID: r.ids.NewID(), Label: label}

	err := r.cell.Update(ctx, func(prev []core.Tag) []core.Tag {
		next := make([]core.Tag, 0, len(prev)+1)
		next = append(next, prev...)
		return append(next, tag)
	})
	if err != nil {
		return core.Tag{}, err
	}
	return tag, nil
}

// Rename changes the label of the tag with the given ID, keeping its position.
// An unknown ID or an unchanged label is a silent no-op; the boolean reports
// whether a tag was renamed.
func (r *Registry) Rename(ctx context.Context, id, label string) (bool, error) {
	return r.cell.Modify(ctx, func(prev []core.Tag) ([]core.Tag, bool) {
		i := slices.IndexFunc(prev, func(t core.Tag) bool { return t.ID == id })
		if i < 0 {
			return prev, false
		}
		if prev[i].Label == label {
			return prev, false
		}
		next := slices.Clone(prev)
		next[i].Label = label
		return next, true
	})
}

// Delete removes the tag with the given ID. Notes referencing it are left
// untouched; the dangling reference disappears from derived views.
// An unknown ID is a silent no-op.
func (r *Registry) Delete(ctx context.Context, id string) (bool, error) {
	return r.cell.Modify(ctx, func(prev []core.Tag) ([]core.Tag, bool) {
		next := make([]core.Tag, 0, len(prev))
		for _, t := range prev {
			if t.ID != id {
				next = append(next, t)
			}
		}
		return next, len(next) != len(prev)
	})
}

// List returns a copy of all tags in registry order.
func (r *Registry) List() []core.Tag {
	return slices.Clone(r.cell.Value())
}

// Get returns the tag with the given ID.
func (r *Registry) Get(id string) (core.Tag, bool) {
	for _, t := range r.cell.Value() {
		if t.ID == id {
			return t, true
		}
	}
	return core.Tag{}, false
}

// FindByLabel returns the first tag carrying exactly label.
func (r *Registry) FindByLabel(label string) (core.Tag, bool) {
	for _, t := range r.cell.Value() {
		if t.Label == label {
			return t, true
		}
	}
	return core.Tag{}, false
}

// FindAllByLabel returns every tag carrying exactly label, in registry order.
func (r *Registry) FindAllByLabel(label string) []core.Tag {
	var out []core.Tag
	for _, t := range r.cell.Value() {
		if t.Label == label {
			out = append(out, t)
		}
	}
	return out
}

// Snapshot returns the current tags and the version they belong to.
// The slice must not be modified.
func (r *Registry) Snapshot() ([]core.Tag, uint64) {
	return r.cell.Snapshot()
}
