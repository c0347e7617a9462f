package dto

import (
	"github.com/google/uuid"
)

// Embed queue actions.
const (
	EmbedActionRefresh = "refresh"
	EmbedActionDelete  = "delete"
)

// PublishEmbedNoteMessage is the payload on the in-process embedding topic.
type PublishEmbedNoteMessage struct {
	NoteId uuid.UUID `json:"note_id"`
	Action string    `json:"action"`
}

type SimilarCasesRequest struct {
	NoteId uuid.UUID `validate:"required"`
	K      int       `query:"k" validate:"omitempty,min=1"`
}

type SimilarCaseItem struct {
	NoteId    uuid.UUID `json:"note_id"`
	Title     string    `json:"title"`
	PatientId uuid.UUID `json:"patient_id"`
	Score     float64   `json:"score"`
}

type SimilarCasesResponse struct {
	NoteId   uuid.UUID         `json:"note_id"`
	Results  []SimilarCaseItem `json:"results"`
	Degraded bool              `json:"degraded"`
}

// ReindexReport summarizes one batch reindex run. Model is the active model
// when the run ended; PerModel counts embedded notes by the model that served
// them, which differs from Model only if the provider was switched mid-run.
type ReindexReport struct {
	Model     string            `json:"model"`
	PerModel  map[string]int    `json:"per_model"`
	Scanned   int               `json:"scanned"`
	Refreshed int               `json:"refreshed"`
	Current   int               `json:"current"`
	Failed    int               `json:"failed"`
	Failures  map[string]string `json:"failures,omitempty"`
}

// EmbeddingStatsResponse counts stored embeddings per model.
type EmbeddingStatsResponse struct {
	ActiveModel string           `json:"active_model"`
	Notes       int64            `json:"notes"`
	PerModel    map[string]int64 `json:"per_model"`
}
