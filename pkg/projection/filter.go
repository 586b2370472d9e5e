package projection

import (
	"slices"
	"strings"

	"github.com/aretw0/quill/pkg/core"
)

// Filter selects notes by title substring and required tags.
// The zero Filter matches every note.
type Filter struct {
	Title  string   // Case-insensitive substring of the title. Empty matches all.
	TagIDs []string // Every ID must be among the note's resolved tags.

	// TagSets requires, for every set, at least one of its IDs among the
	// note's resolved tags. An empty set matches nothing.
	TagSets [][]string
}

// Match reports whether v satisfies the filter.
func (f Filter) Match(v core.NoteView) bool {
	if f.Title != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(f.Title)) {
		return false
	}

	for _, want := range f.TagIDs {
		if !hasTag(v, want) {
			return false
		}
	}

	for _, set := range f.TagSets {
		if !slices.ContainsFunc(set, func(id string) bool { return hasTag(v, id) }) {
			return false
		}
	}
	return true
}

func hasTag(v core.NoteView, id string) bool {
	for _, t := range v.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Apply returns the views matching f, preserving order.
func Apply(views []core.NoteView, f Filter) []core.NoteView {
	out := make([]core.NoteView, 0, len(views))
	for _, v := range views {
		if f.Match(v) {
			out = append(out, v)
		}
	}
	return out
}
