package event

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dshills/sectionlist/internal/engine/diff"
)

// Kind identifies the two event kinds a stream can carry.
type Kind int

const (
	// KindReloaded means the collection's contents were replaced wholesale.
	// The consumer must discard all cached layout; every Reloaded event
	// fully describes the current state independent of prior events.
	KindReloaded Kind = iota

	// KindUpdated carries an incremental change-set for one batch.
	KindUpdated
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindReloaded:
		return "reloaded"
	case KindUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique, lexically sortable identifier for this event instance.
	ID string

	// Seq is the event's position in the stream, starting at 1.
	Seq uint64

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the collection that published the event.
	Source string
}

// Event is one change notification. Events are immutable once created; the
// Changes field is present only for KindUpdated and must be treated as
// read-only. A Reloaded event is never combined with an Updated one.
type Event struct {
	Kind     Kind
	Changes  *diff.ChangeSet
	Metadata Metadata
}

// Reloaded creates a full-reload event.
func Reloaded(meta Metadata) Event {
	return Event{Kind: KindReloaded, Metadata: meta}
}

// Updated creates an incremental event carrying the given change-set.
func Updated(cs *diff.ChangeSet, meta Metadata) Event {
	return Event{Kind: KindUpdated, Changes: cs, Metadata: meta}
}

// newMetadata stamps metadata for the next event on a stream.
func newMetadata(seq uint64, source string) Metadata {
	return Metadata{
		ID:        ulid.Make().String(),
		Seq:       seq,
		Timestamp: time.Now(),
		Source:    source,
	}
}
