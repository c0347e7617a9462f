package contract

import (
	"context"

	"clinical-notes-be/internal/entity"

	"github.com/google/uuid"
)

// NoteEmbeddingRepository persists at most one embedding per (note, model).
type NoteEmbeddingRepository interface {
	// Upsert inserts the record or replaces the one stored for the same (note, model).
	Upsert(ctx context.Context, embedding *entity.NoteEmbedding) error
	// FindOne returns (nil, nil) when nothing is stored and vector.ErrCorruptData
	// when the stored vector cannot be decoded.
	FindOne(ctx context.Context, noteId uuid.UUID, model string) (*entity.NoteEmbedding, error)
	// FindAllByModel returns every decodable record for model ordered by note id.
	// Undecodable rows are skipped and reported through an error wrapping
	// vector.ErrCorruptData alongside the records that did decode.
	FindAllByModel(ctx context.Context, model string) ([]*entity.NoteEmbedding, error)
	CountByModel(ctx context.Context) (map[string]int64, error)
	DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error
}
