package core

// Tag is a label that notes reference by ID.
// The ID is immutable once created; the label may change.
type Tag struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Note is the persisted form of a note.
// Tags are referenced indirectly through TagIDs; an ID without a matching
// Tag is tolerated and simply dropped from the derived view.
type Note struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Markdown string   `json:"markdown"`
	TagIDs   []string `json:"tagIds"`
}

// NoteView is the read-only projection of a Note with its tag references
// resolved against the tag registry. It is always derived, never stored.
type NoteView struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Markdown string `json:"markdown" yaml:"markdown"`
	Tags     []Tag  `json:"tags" yaml:"tags"`
}

// NoteData carries the mutable fields of a note as supplied by a caller.
type NoteData struct {
	Title    string
	Markdown string
	Tags     []Tag
}

// TagIDs returns the identifiers of the given tags, in order.
// The result is never nil so it persists as an empty JSON array.
func TagIDs(tags []Tag) []string {
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// Kind names the collection an event refers to.
type Kind string

const (
	KindNote Kind = "note"
	KindTag  Kind = "tag"
)

// EventType represents the type of change in the notebook.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event describes a committed change to a note or a tag.
type Event struct {
	Type      EventType
	Kind      Kind
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + string(e.Kind) + " " + e.ID
}
