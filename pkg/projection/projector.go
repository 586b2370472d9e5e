// Package projection derives the read view of notes by joining stored notes
// against the tag registry, and filters that view.
package projection

import (
	"sync"

	"github.com/aretw0/quill/pkg/core"
)

// Join resolves every note's tag references against tags.
// A view's Tags keep the order of tags (not of the note's TagIDs); references
// without a matching tag are dropped.
func Join(notes []core.Note, tags []core.Tag) []core.NoteView {
	views := make([]core.NoteView, 0, len(notes))
	for _, n := range notes {
		refs := make(map[string]struct{}, len(n.TagIDs))
		for _, id := range n.TagIDs {
			refs[id] = struct{}{}
		}

		resolved := make([]core.Tag, 0, len(n.TagIDs))
		for _, t := range tags {
			if _, ok := refs[t.ID]; ok {
				resolved = append(resolved, t)
			}
		}

		views = append(views, core.NoteView{
			ID:       n.ID,
			Title:    n.Title,
			Markdown: n.Markdown,
			Tags:     resolved,
		})
	}
	return views
}

// Source is a versioned collection. Equal versions must return the identical slice.
type Source[T any] interface {
	Snapshot() ([]T, uint64)
}

// Projector memoizes Join on the versions of its two sources.
type Projector struct {
	notes Source[core.Note]
	tags  Source[core.Tag]

	mu           sync.Mutex
	views        []core.NoteView
	notesVersion uint64
	tagsVersion  uint64
	valid        bool
	runs         uint64
}

// New creates a projector over the given sources.
func New(notes Source[core.Note], tags Source[core.Tag]) *Projector {
	return &Projector{notes: notes, tags: tags}
}

// Views returns the joined view. While neither source changed, the same
// slice is returned without recomputation. The result must not be modified.
func (p *Projector) Views() []core.NoteView {
	notes, nv := p.notes.Snapshot()
	tags, tv := p.tags.Snapshot()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.valid && nv == p.notesVersion && tv == p.tagsVersion {
		return p.views
	}

	p.views = Join(notes, tags)
	p.notesVersion, p.tagsVersion = nv, tv
	p.valid = true
	p.runs++
	return p.views
}

// Runs returns how many times the view has been computed.
func (p *Projector) Runs() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runs
}
