package entity

import (
	"time"

	"github.com/google/uuid"
)

type NoteKind string

const (
	// NoteKindNarrative notes carry rich-text content (Lexical JSON or plain text).
	NoteKindNarrative NoteKind = "narrative"
	// NoteKindAnalytical notes carry a title plus structured findings.
	NoteKindAnalytical NoteKind = "analytical"
)

// Finding is one labelled observation of an analytical note, e.g. "BP: 140/90".
type Finding struct {
	Label string
	Value string
}

type Note struct {
	Id        uuid.UUID
	PatientId uuid.UUID
	Kind      NoteKind
	Title     string
	Content   string
	Findings  []Finding
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
