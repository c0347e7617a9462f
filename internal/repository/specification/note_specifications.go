package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByPatientID struct {
	PatientID uuid.UUID
}

func (s ByPatientID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("patient_id = ?", s.PatientID)
}

type ByKind struct {
	Kind string
}

func (s ByKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}

// StableNoteOrder orders notes by creation time, then id, so paging is repeatable.
type StableNoteOrder struct{}

func (s StableNoteOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}
