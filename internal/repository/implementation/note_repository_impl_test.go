package implementation

import (
	"context"
	"testing"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRepository_CreateAndFindWithFindings(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(newTestDB(t))
	patient := uuid.New()

	note := &entity.Note{
		PatientId: patient,
		Kind:      entity.NoteKindAnalytical,
		Title:     "Cardiology consult",
		Findings: []entity.Finding{
			{Label: "BP", Value: "150/95"},
			{Label: "ECG", Value: "sinus rhythm"},
		},
	}
	require.NoError(t, repo.Create(ctx, note))
	assert.NotEqual(t, uuid.Nil, note.Id)

	got, err := repo.FindOne(ctx, specification.ByID{ID: note.Id})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.NoteKindAnalytical, got.Kind)
	assert.Equal(t, note.Findings, got.Findings)

	byPatient, err := repo.FindAll(ctx, specification.ByPatientID{PatientID: patient})
	require.NoError(t, err)
	assert.Len(t, byPatient, 1)
}

func TestNoteRepository_DefaultsToNarrative(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(newTestDB(t))

	note := &entity.Note{PatientId: uuid.New(), Title: "Visit", Content: "Follow-up for asthma."}
	require.NoError(t, repo.Create(ctx, note))

	got, err := repo.FindOne(ctx, specification.ByID{ID: note.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.NoteKindNarrative, got.Kind)
	assert.Empty(t, got.Findings)
}

func TestNoteRepository_DeletedNotesAreHidden(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(newTestDB(t))

	note := &entity.Note{PatientId: uuid.New(), Title: "Visit"}
	require.NoError(t, repo.Create(ctx, note))
	require.NoError(t, repo.Delete(ctx, note.Id))

	got, err := repo.FindOne(ctx, specification.ByID{ID: note.Id})
	require.NoError(t, err)
	assert.Nil(t, got)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNoteRepository_Paging(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(newTestDB(t))
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &entity.Note{PatientId: uuid.New(), Title: "n"}))
	}

	page, err := repo.FindAll(ctx, specification.StableNoteOrder{}, specification.Pagination{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}
