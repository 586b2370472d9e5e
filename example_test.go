package quill_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/quill"
)

func Example() {
	dir, err := os.MkdirTemp("", "quill-example-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()
	nb, err := quill.Open(filepath.Join(dir, "store"))
	if err != nil {
		panic(err)
	}

	work, _ := nb.AddTag(ctx, "work")
	_, _ = nb.CreateNote(ctx, quill.NoteData{Title: "Shopping", Markdown: "- milk"})
	_, _ = nb.CreateNote(ctx, quill.NoteData{Title: "Work plan", Markdown: "ship it", Tags: []quill.Tag{work}})

	for _, n := range nb.Search(quill.Filter{Title: "WORK"}) {
		fmt.Println(n.Title, len(n.Tags), n.Tags[0].Label)
	}

	// Output:
	// Work plan 1 work
}

func Example_deleteTag() {
	ctx := context.Background()
	nb, err := quill.Open("", quill.WithAdapter("memory"))
	if err != nil {
		panic(err)
	}

	work, _ := nb.AddTag(ctx, "work")
	id, _ := nb.CreateNote(ctx, quill.NoteData{Title: "A", Tags: []quill.Tag{work}})

	_ = nb.DeleteTag(ctx, work.ID)

	view, _ := nb.Note(id)
	stored, _ := nb.StoredNote(id)
	fmt.Println(len(view.Tags), len(stored.TagIDs))

	// Output:
	// 0 1
}
