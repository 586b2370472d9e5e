// Package notes maintains the ordered collection of stored notes.
package notes

import (
	"context"
	"slices"

	"github.com/aretw0/quill/pkg/cell"
	"github.com/aretw0/quill/pkg/core"
	"github.com/aretw0/quill/pkg/ident"
)

// Repository is the note collection, persisted through a single cell.
// Each mutation writes the whole collection or, on failure, nothing.
type Repository struct {
	cell *cell.Cell[[]core.Note]
	ids  ident.Generator
}

// NewRepository creates a repository over an opened cell.
func NewRepository(c *cell.Cell[[]core.Note], ids ident.Generator) *Repository {
	if ids == nil {
		ids = ident.Default
	}
	return &Repository{cell: c, ids: ids}
}

// Create appends a note with a fresh ID and returns that ID.
// Tags are stored by reference (their IDs only).
func (r *Repository) Create(ctx context.Context, data core.NoteData) (string, error) {
	note := core.Note{
		ID:       r.ids.NewID(),
		Title:    data.Title,
		Markdown: data.Markdown,
		TagIDs:   core.TagIDs(data.Tags),
	}

	err := r.cell.Update(ctx, func(prev []core.Note) []core.Note {
		next := make([]core.Note, 0, len(prev)+1)
		next = append(next, prev...)
		return append(next, note)
	})
	if err != nil {
		return "", err
	}
	return note.ID, nil
}

// Update replaces title, markdown and tag references of the note with the
// given ID, keeping its ID and position. An unknown ID, or data equal to the
// stored note, is a silent no-op;
// the boolean reports whether a note was updated.
func (r *Repository) Update(ctx context.Context, id string, data core.NoteData) (bool, error) {
	return r.cell.Modify(ctx, func(prev []core.Note) ([]core.Note, bool) {
		i := slices.IndexFunc(prev, func(n core.Note) bool { return n.ID == id })
		if i < 0 {
			return prev, false
		}
		note := core.Note{
			ID:       id,
			Title:    data.Title,
			Markdown: data.Markdown,
			TagIDs:   core.TagIDs(data.Tags),
		}
		cur := prev[i]
		if cur.Title == note.Title && cur.Markdown == note.Markdown && slices.Equal(cur.TagIDs, note.TagIDs) {
			return prev, false
		}
		next := slices.Clone(prev)
		next[i] = note
		return next, true
	})
}

// Delete removes the note with the given ID. An unknown ID is a silent no-op.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	return r.cell.Modify(ctx, func(prev []core.Note) ([]core.Note, bool) {
		next := make([]core.Note, 0, len(prev))
		for _, n := range prev {
			if n.ID != id {
				next = append(next, n)
			}
		}
		return next, len(next) != len(prev)
	})
}

// List returns a copy of all stored notes in creation order.
func (r *Repository) List() []core.Note {
	notes := slices.Clone(r.cell.Value())
	for i := range notes {
		notes[i].TagIDs = slices.Clone(notes[i].TagIDs)
	}
	return notes
}

// Get returns the stored note with the given ID.
func (r *Repository) Get(id string) (core.Note, bool) {
	for _, n := range r.cell.Value() {
		if n.ID == id {
			n.TagIDs = slices.Clone(n.TagIDs)
			return n, true
		}
	}
	return core.Note{}, false
}

// Snapshot returns the current notes and the version they belong to.
// The slice must not be modified.
func (r *Repository) Snapshot() ([]core.Note, uint64) {
	return r.cell.Snapshot()
}
