package platform

import (
	"log/slog"

	"github.com/aretw0/quill/pkg/core"
	"github.com/aretw0/quill/pkg/ident"
)

// options holds the internal configuration for opening a notebook.
type options struct {
	storage   core.Storage
	logger    *slog.Logger
	adapter   string
	namespace string
	readOnly  bool
	mustExist bool
	quota     int64
	ids       ident.Generator
}

// Option defines a functional option for configuring Quill.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
	}
}

// WithLogger sets the logger for the storage and the notebook service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage allows injecting a custom storage adapter.
// If provided, the adapter selected by name is skipped and the URI ignored.
func WithStorage(storage core.Storage) Option {
	return func(o *options) {
		o.storage = storage
	}
}

// WithAdapter selects the storage adapter by name ("fs" or "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithNamespace stores the notebook under a key prefix, so several
// notebooks can share one store.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithReadOnly rejects every write with core.ErrReadOnly and skips creating
// the store directory.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist requires the store directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithQuota bounds the total bytes the store may hold. Zero means unlimited.
func WithQuota(bytes int64) Option {
	return func(o *options) {
		o.quota = bytes
	}
}

// WithIDGenerator replaces the random UUID generator for new notes and tags.
func WithIDGenerator(ids ident.Generator) Option {
	return func(o *options) {
		o.ids = ids
	}
}
