package notebook

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Namespace     string `json:"namespace"`
	Notes         int    `json:"notes"`
	Tags          int    `json:"tags"`
	NotesVersion  uint64 `json:"notes_version"`
	TagsVersion   uint64 `json:"tags_version"`
	ProjectorRuns uint64 `json:"projector_runs"`
	StorageType   string `json:"storage_type"`
	Storage       any    `json:"storage,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	notes, nv := s.notes.Snapshot()
	tags, tv := s.tags.Snapshot()

	state := ServiceState{
		Namespace:     s.namespace,
		Notes:         len(notes),
		Tags:          len(tags),
		NotesVersion:  nv,
		TagsVersion:   tv,
		ProjectorRuns: s.projector.Runs(),
		StorageType:   "storage",
	}

	if comp, ok := s.storage.(introspection.Component); ok {
		state.StorageType = comp.ComponentType()
	}
	if intro, ok := s.storage.(introspection.Introspectable); ok {
		state.Storage = intro.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "notebook"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
