package quill

import (
	_ "embed"
	"log/slog"

	"github.com/aretw0/quill/internal/platform"
	"github.com/aretw0/quill/pkg/core"
	"github.com/aretw0/quill/pkg/ident"
	"github.com/aretw0/quill/pkg/notebook"
	"github.com/aretw0/quill/pkg/projection"
)

// Version exposes the version of the library.
//
//go:embed VERSION
var Version string

// --- Types ---

// Tag is a public alias for core.Tag.
type Tag = core.Tag

// Note is a public alias for the stored form of a note.
type Note = core.Note

// NoteView is a public alias for the joined, read-only form of a note.
type NoteView = core.NoteView

// NoteData is a public alias for the input of note create/update.
type NoteData = core.NoteData

// Event is a public alias for a committed change notification.
type Event = core.Event

// Filter is a public alias for the note filter.
type Filter = projection.Filter

// Notebook is a public alias for the notebook service.
type Notebook = notebook.Service

// --- Configuration ---

// Option defines a functional option for configuring Quill.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStorage allows injecting a custom storage adapter.
func WithStorage(storage core.Storage) Option {
	return platform.WithStorage(storage)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithNamespace keeps the notebook under a key prefix of the store.
func WithNamespace(namespace string) Option {
	return platform.WithNamespace(namespace)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist ensures the store directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithQuota bounds the total size of the store in bytes.
func WithQuota(bytes int64) Option {
	return platform.WithQuota(bytes)
}

// WithIDGenerator replaces the identifier generator.
func WithIDGenerator(ids ident.Generator) Option {
	return platform.WithIDGenerator(ids)
}

// --- Factory ---

// Open loads (or starts) the notebook stored at path.
func Open(path string, opts ...Option) (*Notebook, error) {
	return platform.Open(path, opts...)
}

// Init prepares the storage at path without loading a notebook.
func Init(path string, opts ...Option) (core.Storage, error) {
	return platform.Init(path, opts...)
}

// Notebooks lists the namespaces present in the store at path.
func Notebooks(path string, opts ...Option) ([]string, error) {
	return platform.Notebooks(path, opts...)
}
