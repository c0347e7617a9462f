package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types carried on the bus. The NATS subject is "events.<type>".
const (
	NoteCreated        = "NOTE_CREATED"
	NoteUpdated        = "NOTE_UPDATED"
	NoteDeleted        = "NOTE_DELETED"
	EmbeddingRefreshed = "EMBEDDING_REFRESHED"
)

// Subject returns the NATS subject for an event type.
func Subject(eventType string) string {
	return "events." + eventType
}

// NewNoteEvent builds a note lifecycle event.
func NewNoteEvent(eventType string, noteId uuid.UUID) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"note_id": noteId.String(),
		},
		OccurredAt: time.Now().UTC(),
	}
}

// NewEmbeddingRefreshed is emitted after a note's embedding was (re)computed.
func NewEmbeddingRefreshed(noteId uuid.UUID, model string, dimensions int, contentHash string) BaseEvent {
	return BaseEvent{
		Type: EmbeddingRefreshed,
		Data: map[string]interface{}{
			"note_id":      noteId.String(),
			"model":        model,
			"dimensions":   dimensions,
			"content_hash": contentHash,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// NoteIdOf extracts the note id from an event payload.
func NoteIdOf(e Event) (uuid.UUID, error) {
	raw, ok := e.Payload()["note_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("event %s has no note_id", e.EventType())
	}
	return uuid.Parse(raw)
}
