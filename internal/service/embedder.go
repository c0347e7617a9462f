package service

import (
	"context"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/pkg/rag/search"
)

// NoteEmbedder refreshes the stored embedding of a note.
type NoteEmbedder interface {
	EmbedNote(ctx context.Context, note *entity.Note) (*search.EmbedResult, error)
}

// SimilarNoteFinder ranks stored notes against a query note.
type SimilarNoteFinder interface {
	FindSimilar(ctx context.Context, note *entity.Note, k int) ([]search.SimilarNote, error)
}
