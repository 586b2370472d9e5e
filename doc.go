// Package quill is the Composition Root for the Quill notebook engine.
//
// It connects the domain (notes, tags and their joined view) with the storage
// adapters using the same ports-and-adapters layout throughout.
//
// Model:
//
// A notebook persists two entries in a string-keyed store: "notes", a JSON
// array of notes that reference tags by ID, and "tags", a JSON array of tags.
// The store is the single source of truth; the view that resolves each note's
// tag IDs into tags is always recomputed and never stored. Deleting a tag does
// not touch notes, it only vanishes from their views.
//
// Features:
//
//   - **Write-through cells**: every mutation is encoded and durably written before it becomes visible.
//   - **Tolerant references**: updates and deletes of unknown IDs are silent no-ops.
//   - **Memoized view**: the joined view is recomputed only when notes or tags change.
//   - **Adapters**: a directory of JSON files (default) or process memory, or any core.Storage.
//
// Usage:
//
//	nb, err := quill.Open("./.quill", quill.WithLogger(logger))
//
//	work, err := nb.AddTag(ctx, "work")
//	id, err := nb.CreateNote(ctx, quill.NoteData{Title: "Plan", Tags: []quill.Tag{work}})
//
//	for _, n := range nb.Search(quill.Filter{Title: "plan"}) {
//		fmt.Println(n.Title, n.Tags)
//	}
package quill
