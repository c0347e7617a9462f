package nats

import (
	"testing"

	"clinical-notes-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_StripsSubjectPrefix(t *testing.T) {
	e, err := decode("events.NOTE_UPDATED", []byte(`{"note_id":"6f1c1e4c-34c9-4a53-9a57-59b1c5a0d8c1"}`))
	require.NoError(t, err)

	assert.Equal(t, events.NoteUpdated, e.EventType())
	id, err := events.NoteIdOf(e)
	require.NoError(t, err)
	assert.Equal(t, "6f1c1e4c-34c9-4a53-9a57-59b1c5a0d8c1", id.String())
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := decode("events.NOTE_UPDATED", []byte("not json"))
	assert.Error(t, err)
}
