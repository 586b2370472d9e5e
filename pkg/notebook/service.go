// Package notebook ties the tag registry, the note repository and the view
// projector together behind the operations a user interface consumes.
//
// A Service is constructed once per store and passed by reference; it is the
// only writer of the "notes" and "tags" entries of its namespace.
package notebook

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/aretw0/quill/pkg/cell"
	"github.com/aretw0/quill/pkg/core"
	"github.com/aretw0/quill/pkg/ident"
	"github.com/aretw0/quill/pkg/notes"
	"github.com/aretw0/quill/pkg/projection"
	"github.com/aretw0/quill/pkg/tags"
)

// Entry names within a namespace.
const (
	NotesKey = "notes"
	TagsKey  = "tags"
)

// Key returns the storage key of an entry inside namespace.
func Key(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return path.Join(namespace, name)
}

// Config holds the configuration of a Service.
type Config struct {
	Namespace string          // Prefix for storage keys; empty uses "notes" and "tags".
	IDs       ident.Generator // Defaults to random UUIDs.
	Logger    *slog.Logger    // Defaults to a discarding logger.
}

// Service handles the note and tag operations.
type Service struct {
	storage   core.Storage
	namespace string
	logger    *slog.Logger

	tags      *tags.Registry
	notes     *notes.Repository
	projector *projection.Projector

	mu      sync.Mutex
	subs    []*subscriber
	nextSub uint64
}

type subscriber struct {
	id uint64
	fn func(core.Event)
}

// New loads the notebook stored under config.Namespace.
// Missing entries start empty; corrupt entries fail with core.ErrCorrupt.
func New(ctx context.Context, storage core.Storage, config Config) (*Service, error) {
	if config.IDs == nil {
		config.IDs = ident.Default
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	tagCell, err := cell.Open(ctx, storage, Key(config.Namespace, TagsKey), []core.Tag{})
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	noteCell, err := cell.Open(ctx, storage, Key(config.Namespace, NotesKey), []core.Note{})
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	s := &Service{
		storage:   storage,
		namespace: config.Namespace,
		logger:    config.Logger,
		tags:      tags.NewRegistry(tagCell, config.IDs),
		notes:     notes.NewRepository(noteCell, config.IDs),
	}
	s.projector = projection.New(s.notes, s.tags)

	s.logger.Debug("notebook loaded",
		"namespace", config.Namespace,
		"notes", len(noteCell.Value()),
		"tags", len(tagCell.Value()),
	)
	return s, nil
}

// --- Tags ---

// AddTag creates a tag with a fresh ID at the end of the registry.
func (s *Service) AddTag(ctx context.Context, label string) (core.Tag, error) {
	tag, err := s.tags.Add(ctx, label)
	if err != nil {
		return core.Tag{}, s.failed("add tag", err)
	}
	s.logger.Debug("tag added", "id", tag.ID, "label", label)
	s.emit(core.EventCreate, core.KindTag, tag.ID)
	return tag, nil
}

// RenameTag changes a tag's label. An unknown ID is silently ignored.
func (s *Service) RenameTag(ctx context.Context, id, label string) error {
	renamed, err := s.tags.Rename(ctx, id, label)
	if err != nil {
		return s.failed("rename tag", err)
	}
	if renamed {
		s.logger.Debug("tag renamed", "id", id, "label", label)
		s.emit(core.EventModify, core.KindTag, id)
	}
	return nil
}

// DeleteTag removes a tag. Notes keep their reference; it disappears from
// their views. An unknown ID is silently ignored.
func (s *Service) DeleteTag(ctx context.Context, id string) error {
	deleted, err := s.tags.Delete(ctx, id)
	if err != nil {
		return s.failed("delete tag", err)
	}
	if deleted {
		s.logger.Debug("tag deleted", "id", id)
		s.emit(core.EventDelete, core.KindTag, id)
	}
	return nil
}

// Tags returns all tags in registry order.
func (s *Service) Tags() []core.Tag {
	return s.tags.List()
}

// Tag returns the tag with the given ID.
func (s *Service) Tag(id string) (core.Tag, bool) {
	return s.tags.Get(id)
}

// TagByLabel returns the first tag with exactly the given label.
func (s *Service) TagByLabel(label string) (core.Tag, bool) {
	return s.tags.FindByLabel(label)
}

// TagsByLabel returns every tag with exactly the given label, in registry order.
func (s *Service) TagsByLabel(label string) []core.Tag {
	return s.tags.FindAllByLabel(label)
}

// --- Notes ---

// CreateNote stores a new note and returns its ID.
func (s *Service) CreateNote(ctx context.Context, data core.NoteData) (string, error) {
	id, err := s.notes.Create(ctx, data)
	if err != nil {
		return "", s.failed("create note", err)
	}
	s.logger.Debug("note created", "id", id, "title", data.Title, "tags", len(data.Tags))
	s.emit(core.EventCreate, core.KindNote, id)
	return id, nil
}

// UpdateNote replaces a note's title, markdown and tags. An unknown ID is
// silently ignored.
func (s *Service) UpdateNote(ctx context.Context, id string, data core.NoteData) error {
	updated, err := s.notes.Update(ctx, id, data)
	if err != nil {
		return s.failed("update note", err)
	}
	if updated {
		s.logger.Debug("note updated", "id", id)
		s.emit(core.EventModify, core.KindNote, id)
	}
	return nil
}

// DeleteNote removes a note. An unknown ID is silently ignored.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	deleted, err := s.notes.Delete(ctx, id)
	if err != nil {
		return s.failed("delete note", err)
	}
	if deleted {
		s.logger.Debug("note deleted", "id", id)
		s.emit(core.EventDelete, core.KindNote, id)
	}
	return nil
}

// Notes returns the joined view of every note. The slice is shared between
// calls until the next mutation and must not be modified.
func (s *Service) Notes() []core.NoteView {
	return s.projector.Views()
}

// Note returns the view of a single note.
func (s *Service) Note(id string) (core.NoteView, bool) {
	for _, v := range s.projector.Views() {
		if v.ID == id {
			return v, true
		}
	}
	return core.NoteView{}, false
}

// StoredNote returns the persisted form of a note, with its raw tag references.
func (s *Service) StoredNote(id string) (core.Note, bool) {
	return s.notes.Get(id)
}

// Search returns the notes matching f, in creation order.
func (s *Service) Search(f projection.Filter) []core.NoteView {
	return projection.Apply(s.projector.Views(), f)
}

// --- Events ---

// Subscribe registers fn to be called synchronously after every committed
// change. No-ops and failed writes produce no event.
func (s *Service) Subscribe(fn func(core.Event)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, &subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Service) emit(t core.EventType, kind core.Kind, id string) {
	e := core.Event{Type: t, Kind: kind, ID: id, Timestamp: time.Now().Unix()}

	s.mu.Lock()
	fns := make([]func(core.Event), 0, len(s.subs))
	for _, sub := range s.subs {
		fns = append(fns, sub.fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

func (s *Service) failed(op string, err error) error {
	s.logger.Warn("persist failed", "op", op, "namespace", s.namespace, "error", err)
	return fmt.Errorf("failed to %s: %w", op, err)
}
