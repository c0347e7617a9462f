package mapper

import (
	"time"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	var deletedAt *time.Time
	if n.DeletedAt.Valid {
		t := n.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	var findings []entity.Finding
	if len(n.Findings) > 0 {
		findings = make([]entity.Finding, len(n.Findings))
		for i, f := range n.Findings {
			findings[i] = entity.Finding{Label: f.Label, Value: f.Value}
		}
	}

	return &entity.Note{
		Id:        n.Id,
		PatientId: n.PatientId,
		Kind:      entity.NoteKind(n.Kind),
		Title:     n.Title,
		Content:   n.Content,
		Findings:  findings,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: n.DeletedAt.Valid,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if n.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *n.DeletedAt, Valid: true}
	} else if n.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	kind := n.Kind
	if kind == "" {
		kind = entity.NoteKindNarrative
	}

	findings := make(datatypes.JSONSlice[model.Finding], len(n.Findings))
	for i, f := range n.Findings {
		findings[i] = model.Finding{Label: f.Label, Value: f.Value}
	}

	return &model.Note{
		Id:        n.Id,
		PatientId: n.PatientId,
		Kind:      string(kind),
		Title:     n.Title,
		Content:   n.Content,
		Findings:  findings,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
