package model

import (
	"time"

	"github.com/google/uuid"
)

// NoteEmbedding holds one vector per (note_id, model).
// Vector is the little-endian float32 encoding; LegacyVector is set only on rows
// migrated from the earlier text column ("[0.1,0.2,...]") and Vector is then empty.
type NoteEmbedding struct {
	NoteId       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Model        string    `gorm:"type:varchar(100);primaryKey;index"`
	Vector       []byte
	LegacyVector *string   `gorm:"type:text"`
	Dimensions   int       `gorm:"not null"`
	ContentHash  string    `gorm:"type:varchar(16);not null"`
	ComputedAt   time.Time `gorm:"not null"`
}

func (NoteEmbedding) TableName() string {
	return "note_embeddings"
}
