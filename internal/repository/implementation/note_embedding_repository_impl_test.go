package implementation

import (
	"context"
	"testing"
	"time"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/model"
	"clinical-notes-be/pkg/vector"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddingFor(noteId uuid.UUID, modelName, hash string, values ...float32) *entity.NoteEmbedding {
	return &entity.NoteEmbedding{
		NoteId:      noteId,
		Vector:      values,
		Model:       modelName,
		Dimensions:  len(values),
		ContentHash: hash,
		ComputedAt:  time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
	}
}

func TestNoteEmbeddingRepository_UpsertAndFindOne(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteEmbeddingRepository(newTestDB(t))
	noteId := uuid.New()

	require.NoError(t, repo.Upsert(ctx, embeddingFor(noteId, "m1", "aaaaaaaaaaaaaaaa", 1, 2, 3)))

	got, err := repo.FindOne(ctx, noteId, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []float32{1, 2, 3}, got.Vector)
	assert.Equal(t, 3, got.Dimensions)
	assert.Equal(t, "aaaaaaaaaaaaaaaa", got.ContentHash)
}

func TestNoteEmbeddingRepository_FindOneMissing(t *testing.T) {
	repo := NewNoteEmbeddingRepository(newTestDB(t))

	got, err := repo.FindOne(context.Background(), uuid.New(), "m1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNoteEmbeddingRepository_UpsertReplacesSameKey(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteEmbeddingRepository(newTestDB(t))
	noteId := uuid.New()

	require.NoError(t, repo.Upsert(ctx, embeddingFor(noteId, "m1", "aaaaaaaaaaaaaaaa", 1, 2)))
	require.NoError(t, repo.Upsert(ctx, embeddingFor(noteId, "m1", "bbbbbbbbbbbbbbbb", 3, 4)))

	all, err := repo.FindAllByModel(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []float32{3, 4}, all[0].Vector)
	assert.Equal(t, "bbbbbbbbbbbbbbbb", all[0].ContentHash)
}

func TestNoteEmbeddingRepository_ModelsAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteEmbeddingRepository(newTestDB(t))
	noteId := uuid.New()

	require.NoError(t, repo.Upsert(ctx, embeddingFor(noteId, "local", "aaaaaaaaaaaaaaaa", 1, 2)))
	require.NoError(t, repo.Upsert(ctx, embeddingFor(noteId, "remote", "aaaaaaaaaaaaaaaa", 1, 2, 3)))

	local, err := repo.FindAllByModel(ctx, "local")
	require.NoError(t, err)
	remote, err := repo.FindAllByModel(ctx, "remote")
	require.NoError(t, err)

	require.Len(t, local, 1)
	require.Len(t, remote, 1)
	assert.Equal(t, 2, local[0].Dimensions)
	assert.Equal(t, 3, remote[0].Dimensions)

	counts, err := repo.CountByModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"local": 1, "remote": 1}, counts)
}

func TestNoteEmbeddingRepository_FindAllOrderedByNoteId(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteEmbeddingRepository(newTestDB(t))
	ids := []uuid.UUID{
		uuid.MustParse("cccccccc-0000-0000-0000-000000000000"),
		uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000"),
		uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000"),
	}
	for _, id := range ids {
		require.NoError(t, repo.Upsert(ctx, embeddingFor(id, "m1", "aaaaaaaaaaaaaaaa", 1)))
	}

	all, err := repo.FindAllByModel(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[1], all[0].NoteId)
	assert.Equal(t, ids[2], all[1].NoteId)
	assert.Equal(t, ids[0], all[2].NoteId)
}

func TestNoteEmbeddingRepository_CorruptRows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewNoteEmbeddingRepository(db)

	good := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	bad := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	require.NoError(t, repo.Upsert(ctx, embeddingFor(good, "m1", "aaaaaaaaaaaaaaaa", 1, 0)))
	require.NoError(t, db.Create(&model.NoteEmbedding{
		NoteId:      bad,
		Model:       "m1",
		Vector:      []byte{1, 2, 3},
		Dimensions:  2,
		ContentHash: "aaaaaaaaaaaaaaaa",
		ComputedAt:  time.Now(),
	}).Error)

	_, err := repo.FindOne(ctx, bad, "m1")
	assert.ErrorIs(t, err, vector.ErrCorruptData)

	all, err := repo.FindAllByModel(ctx, "m1")
	assert.ErrorIs(t, err, vector.ErrCorruptData)
	assert.ErrorContains(t, err, bad.String())
	require.Len(t, all, 1)
	assert.Equal(t, good, all[0].NoteId)
}

func TestNoteEmbeddingRepository_LegacyTextRow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewNoteEmbeddingRepository(db)
	noteId := uuid.New()
	legacy := "[0.5,0.25]"

	require.NoError(t, db.Create(&model.NoteEmbedding{
		NoteId:       noteId,
		Model:        "m1",
		LegacyVector: &legacy,
		Dimensions:   2,
		ContentHash:  "aaaaaaaaaaaaaaaa",
		ComputedAt:   time.Now(),
	}).Error)

	got, err := repo.FindOne(ctx, noteId, "m1")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25}, got.Vector)

	// rewriting migrates the row to the binary column
	require.NoError(t, repo.Upsert(ctx, embeddingFor(noteId, "m1", "bbbbbbbbbbbbbbbb", 0.5, 0.25)))
	var row model.NoteEmbedding
	require.NoError(t, db.Where("note_id = ?", noteId).First(&row).Error)
	assert.Nil(t, row.LegacyVector)
	assert.Len(t, row.Vector, 8)
}

func TestNoteEmbeddingRepository_DeleteByNoteId(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteEmbeddingRepository(newTestDB(t))
	noteId := uuid.New()

	require.NoError(t, repo.Upsert(ctx, embeddingFor(noteId, "m1", "aaaaaaaaaaaaaaaa", 1)))
	require.NoError(t, repo.Upsert(ctx, embeddingFor(noteId, "m2", "aaaaaaaaaaaaaaaa", 1)))
	require.NoError(t, repo.DeleteByNoteId(ctx, noteId))

	counts, err := repo.CountByModel(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)
}
