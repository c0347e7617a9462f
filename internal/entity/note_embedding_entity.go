package entity

import (
	"time"

	"github.com/google/uuid"
)

// NoteEmbedding is the stored embedding of one note under one model.
// At most one exists per (NoteId, Model).
type NoteEmbedding struct {
	NoteId      uuid.UUID
	Vector      []float32
	Model       string
	Dimensions  int
	ContentHash string
	ComputedAt  time.Time
}
