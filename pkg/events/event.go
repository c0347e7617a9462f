package events

import "time"

// Event is anything published on the notes bus.
type Event interface {
	// EventType is the bus code, e.g. "NOTE_UPDATED". It also names the subject.
	EventType() string

	// Payload holds JSON-safe fields such as "note_id".
	Payload() map[string]interface{}

	Timestamp() time.Time
}

// BaseEvent is the concrete event used for note lifecycle and embedding
// notifications, and what the subscriber decodes incoming messages into.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string { return e.Type }

func (e BaseEvent) Payload() map[string]interface{} { return e.Data }

func (e BaseEvent) Timestamp() time.Time { return e.OccurredAt }
