package platform

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/quill/pkg/adapters/fs"
	"github.com/aretw0/quill/pkg/adapters/memory"
	"github.com/aretw0/quill/pkg/core"
	"github.com/aretw0/quill/pkg/notebook"
)

// Init prepares the storage described by uri and opts.
// The uri is adapter-specific (a directory for "fs", ignored for "memory").
func Init(uri string, opts ...Option) (core.Storage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStorage(uri, o)
}

func initStorage(uri string, o *options) (core.Storage, error) {
	// 1. Check for injected storage
	if o.storage != nil {
		return o.storage, nil
	}

	// 2. Initialize based on Adapter
	var storage core.Storage
	switch o.adapter {
	case "fs":
		if uri == "" {
			return nil, fmt.Errorf("store path is required")
		}
		storage = fs.NewStorage(fs.Config{
			Path:      uri,
			MustExist: o.mustExist,
			ReadOnly:  o.readOnly,
			MaxBytes:  o.quota,
			Logger:    o.logger,
		})
	case "memory":
		storage = memory.New(memory.Config{
			MaxBytes: o.quota,
			ReadOnly: o.readOnly,
		})
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	// 3. Run Initialization
	if err := storage.Initialize(context.Background()); err != nil {
		return nil, err
	}

	if o.logger != nil {
		o.logger.Debug("storage ready", "adapter", o.adapter, "uri", uri, "read_only", o.readOnly)
	}
	return storage, nil
}

// Open initializes the storage and loads the notebook stored in it.
func Open(uri string, opts ...Option) (*notebook.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	storage, err := initStorage(uri, o)
	if err != nil {
		return nil, err
	}

	return notebook.New(context.Background(), storage, notebook.Config{
		Namespace: o.namespace,
		IDs:       o.ids,
		Logger:    o.logger,
	})
}

// Notebooks lists the namespaces holding notes or tags in the store at uri.
// The default (empty) namespace is reported as "".
func Notebooks(uri string, opts ...Option) ([]string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	storage, err := initStorage(uri, o)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, name := range []string{notebook.NotesKey, notebook.TagsKey} {
		keys, err := storage.Keys(context.Background(), "**/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to list keys: %w", err)
		}
		for _, k := range keys {
			ns := strings.TrimSuffix(strings.TrimSuffix(k, name), "/")
			seen[ns] = true
		}
	}

	namespaces := make([]string, 0, len(seen))
	for ns := range seen {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)
	return namespaces, nil
}
