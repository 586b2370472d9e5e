package notebook_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quill/pkg/adapters/fs"
	"github.com/aretw0/quill/pkg/adapters/memory"
	"github.com/aretw0/quill/pkg/core"
	"github.com/aretw0/quill/pkg/notebook"
	"github.com/aretw0/quill/pkg/projection"
)

// ids hands out t1, t2... for tags and n1, n2... for notes, in call order,
// using the prefix set before each call.
type ids struct {
	prefix string
	counts map[string]int
}

func (g *ids) NewID() string {
	if g.counts == nil {
		g.counts = map[string]int{}
	}
	g.counts[g.prefix]++
	return fmt.Sprintf("%s%d", g.prefix, g.counts[g.prefix])
}

type fixture struct {
	svc   *notebook.Service
	store *memory.Storage
	ids   *ids
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.New(memory.Config{}), ids: &ids{}}
	svc, err := notebook.New(context.Background(), f.store, notebook.Config{IDs: f.ids})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) addTag(t *testing.T, label string) core.Tag {
	t.Helper()
	f.ids.prefix = "t"
	tag, err := f.svc.AddTag(context.Background(), label)
	require.NoError(t, err)
	return tag
}

func (f *fixture) createNote(t *testing.T, data core.NoteData) string {
	t.Helper()
	f.ids.prefix = "n"
	id, err := f.svc.CreateNote(context.Background(), data)
	require.NoError(t, err)
	return id
}

func (f *fixture) storedNotes(t *testing.T) []core.Note {
	t.Helper()
	raw, found, err := f.store.Get(context.Background(), "notes")
	require.NoError(t, err)
	require.True(t, found)
	var out []core.Note
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// scenario1 builds: tag t1 "work", note n1 "A" tagged with it.
func scenario1(t *testing.T) *fixture {
	f := setup(t)
	work := f.addTag(t, "work")
	require.Equal(t, core.Tag{ID: "t1", Label: "work"}, work)

	id := f.createNote(t, core.NoteData{Title: "A", Markdown: "body", Tags: []core.Tag{work}})
	require.Equal(t, "n1", id)
	return f
}

func TestScenario_CreateAndProject(t *testing.T) {
	f := scenario1(t)

	want := []core.NoteView{{
		ID:       "n1",
		Title:    "A",
		Markdown: "body",
		Tags:     []core.Tag{{ID: "t1", Label: "work"}},
	}}
	if diff := cmp.Diff(want, f.svc.Notes()); diff != "" {
		t.Errorf("views mismatch (-want +got):\n%s", diff)
	}
}

func TestScenario_DeleteTagKeepsReference(t *testing.T) {
	f := scenario1(t)

	require.NoError(t, f.svc.DeleteTag(context.Background(), "t1"))

	views := f.svc.Notes()
	require.Len(t, views, 1)
	assert.Equal(t, "n1", views[0].ID)
	assert.Empty(t, views[0].Tags)

	stored := f.storedNotes(t)
	require.Len(t, stored, 1)
	assert.Equal(t, []string{"t1"}, stored[0].TagIDs, "deleting a tag does not cascade to notes")
}

func TestScenario_UpdateNote(t *testing.T) {
	f := scenario1(t)

	require.NoError(t, f.svc.UpdateNote(context.Background(), "n1", core.NoteData{Title: "B", Markdown: "body2"}))

	stored := f.storedNotes(t)
	require.Len(t, stored, 1)
	assert.Equal(t, core.Note{ID: "n1", Title: "B", Markdown: "body2", TagIDs: []string{}}, stored[0])

	view, ok := f.svc.Note("n1")
	require.True(t, ok)
	assert.Equal(t, "B", view.Title)
	assert.Empty(t, view.Tags)
}

func TestRenameTag_ReflectedInViews(t *testing.T) {
	f := scenario1(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RenameTag(ctx, "t1", "job"))
	require.NoError(t, f.svc.RenameTag(ctx, "missing", "x"))

	view, _ := f.svc.Note("n1")
	assert.Equal(t, []core.Tag{{ID: "t1", Label: "job"}}, view.Tags)
	assert.Equal(t, []core.Tag{{ID: "t1", Label: "job"}}, f.svc.Tags())
}

func TestDeleteTag_Idempotent(t *testing.T) {
	f := scenario1(t)
	ctx := context.Background()
	f.addTag(t, "home")

	require.NoError(t, f.svc.DeleteTag(ctx, "t1"))
	once := f.svc.Tags()
	onceViews := f.svc.Notes()

	require.NoError(t, f.svc.DeleteTag(ctx, "t1"))
	assert.Equal(t, once, f.svc.Tags())
	assert.Equal(t, onceViews, f.svc.Notes())
}

func TestMissingNote_NoOp(t *testing.T) {
	f := scenario1(t)
	ctx := context.Background()
	before := f.storedNotes(t)

	require.NoError(t, f.svc.UpdateNote(ctx, "ghost", core.NoteData{Title: "X"}))
	require.NoError(t, f.svc.DeleteNote(ctx, "ghost"))

	assert.Equal(t, before, f.storedNotes(t))

	_, ok := f.svc.Note("ghost")
	assert.False(t, ok)
}

func TestDeleteNote(t *testing.T) {
	f := scenario1(t)

	require.NoError(t, f.svc.DeleteNote(context.Background(), "n1"))
	assert.Empty(t, f.svc.Notes())
	assert.Empty(t, f.storedNotes(t))
}

func TestSearch(t *testing.T) {
	f := setup(t)
	work := f.addTag(t, "work")
	f.createNote(t, core.NoteData{Title: "Shopping"})
	f.createNote(t, core.NoteData{Title: "Work plan", Tags: []core.Tag{work}})

	got := f.svc.Search(projection.Filter{Title: "work"})
	require.Len(t, got, 1)
	assert.Equal(t, "Work plan", got[0].Title)

	got = f.svc.Search(projection.Filter{TagIDs: []string{work.ID}})
	require.Len(t, got, 1)
	assert.Equal(t, "Work plan", got[0].Title)

	assert.Len(t, f.svc.Search(projection.Filter{}), 2)
}

func TestNotes_ReferentiallyStable(t *testing.T) {
	f := scenario1(t)

	a := f.svc.Notes()
	b := f.svc.Notes()
	assert.Same(t, &a[0], &b[0])

	require.NoError(t, f.svc.UpdateNote(context.Background(), "ghost", core.NoteData{}))
	c := f.svc.Notes()
	assert.Same(t, &a[0], &c[0], "a no-op does not invalidate the view")

	f.addTag(t, "other")
	d := f.svc.Notes()
	assert.NotSame(t, &a[0], &d[0])
}

func TestFailedWrite_SurfacedAndStateUnchanged(t *testing.T) {
	f := scenario1(t)
	ctx := context.Background()

	f.store.FailNextWrite(errors.New("quota exceeded"))
	err := f.svc.UpdateNote(ctx, "n1", core.NoteData{Title: "lost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStorage)

	view, _ := f.svc.Note("n1")
	assert.Equal(t, "A", view.Title)
	assert.Equal(t, "A", f.storedNotes(t)[0].Title)

	f.store.FailNextWrite(errors.New("quota exceeded"))
	f.ids.prefix = "t"
	_, err = f.svc.AddTag(ctx, "never")
	assert.ErrorIs(t, err, core.ErrStorage)
	assert.Len(t, f.svc.Tags(), 1)
}

func TestSubscribe_Events(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var events []string
	cancel := f.svc.Subscribe(func(e core.Event) { events = append(events, e.String()) })

	work := f.addTag(t, "work")
	id := f.createNote(t, core.NoteData{Title: "A", Tags: []core.Tag{work}})
	require.NoError(t, f.svc.RenameTag(ctx, work.ID, "job"))
	require.NoError(t, f.svc.UpdateNote(ctx, id, core.NoteData{Title: "B"}))
	require.NoError(t, f.svc.UpdateNote(ctx, "ghost", core.NoteData{}))
	require.NoError(t, f.svc.DeleteTag(ctx, work.ID))
	require.NoError(t, f.svc.DeleteNote(ctx, id))

	f.store.FailNextWrite(errors.New("boom"))
	_, err := f.svc.AddTag(ctx, "x")
	require.Error(t, err)

	cancel()
	f.addTag(t, "after cancel")

	assert.Equal(t, []string{
		"CREATE tag t1",
		"CREATE note n1",
		"MODIFY tag t1",
		"MODIFY note n1",
		"DELETE tag t1",
		"DELETE note n1",
	}, events)
}

func TestUnchangedMutations_EmitNothing(t *testing.T) {
	f := scenario1(t)
	ctx := context.Background()
	views := f.svc.Notes()

	var events []core.Event
	defer f.svc.Subscribe(func(e core.Event) { events = append(events, e) })()

	require.NoError(t, f.svc.RenameTag(ctx, "t1", "work"))
	require.NoError(t, f.svc.UpdateNote(ctx, "n1", core.NoteData{
		Title:    "A",
		Markdown: "body",
		Tags:     []core.Tag{{ID: "t1", Label: "work"}},
	}))

	assert.Empty(t, events)
	assert.Same(t, &views[0], &f.svc.Notes()[0])
}

func TestTagsByLabel(t *testing.T) {
	f := setup(t)
	first := f.addTag(t, "work")
	f.addTag(t, "home")
	second := f.addTag(t, "work")

	assert.Equal(t, []core.Tag{first, second}, f.svc.TagsByLabel("work"))
	assert.Empty(t, f.svc.TagsByLabel("none"))
}

func TestNamespaces_AreIndependent(t *testing.T) {
	ctx := context.Background()
	store := memory.New(memory.Config{})

	work, err := notebook.New(ctx, store, notebook.Config{Namespace: "work"})
	require.NoError(t, err)
	home, err := notebook.New(ctx, store, notebook.Config{})
	require.NoError(t, err)

	_, err = work.CreateNote(ctx, core.NoteData{Title: "standup"})
	require.NoError(t, err)

	assert.Len(t, work.Notes(), 1)
	assert.Empty(t, home.Notes())

	keys, err := store.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"work/notes"}, keys)
}

func TestReload_FromFilesystem(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "store")
	storage := fs.NewStorage(fs.Config{Path: dir})
	require.NoError(t, storage.Initialize(ctx))

	svc, err := notebook.New(ctx, storage, notebook.Config{})
	require.NoError(t, err)
	tag, err := svc.AddTag(ctx, "work")
	require.NoError(t, err)
	id, err := svc.CreateNote(ctx, core.NoteData{Title: "A", Markdown: "# hi", Tags: []core.Tag{tag}})
	require.NoError(t, err)

	reopened, err := notebook.New(ctx, fs.NewStorage(fs.Config{Path: dir}), notebook.Config{})
	require.NoError(t, err)

	if diff := cmp.Diff(svc.Notes(), reopened.Notes()); diff != "" {
		t.Errorf("reloaded views differ (-before +after):\n%s", diff)
	}
	view, ok := reopened.Note(id)
	require.True(t, ok)
	assert.Equal(t, []core.Tag{tag}, view.Tags)
}

func TestNew_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := memory.New(memory.Config{})
	require.NoError(t, store.Set(ctx, "tags", []byte("not json")))

	_, err := notebook.New(ctx, store, notebook.Config{})
	assert.ErrorIs(t, err, core.ErrCorrupt)
}

func TestUUIDsByDefault(t *testing.T) {
	ctx := context.Background()
	svc, err := notebook.New(ctx, memory.New(memory.Config{}), notebook.Config{})
	require.NoError(t, err)

	a, err := svc.AddTag(ctx, "a")
	require.NoError(t, err)
	b, err := svc.AddTag(ctx, "a")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.ID, 36)
}

func TestState(t *testing.T) {
	f := scenario1(t)
	_ = f.svc.Notes()

	state, ok := f.svc.State().(notebook.ServiceState)
	require.True(t, ok)
	assert.Equal(t, 1, state.Notes)
	assert.Equal(t, 1, state.Tags)
	assert.Equal(t, uint64(1), state.NotesVersion)
	assert.Equal(t, uint64(1), state.TagsVersion)
	assert.Equal(t, uint64(1), state.ProjectorRuns)
	assert.Equal(t, "memory-storage", state.StorageType)
	assert.Equal(t, "notebook", f.svc.ComponentType())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "notes", notebook.Key("", notebook.NotesKey))
	assert.Equal(t, "work/tags", notebook.Key("work", notebook.TagsKey))
}
