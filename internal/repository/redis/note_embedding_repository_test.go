package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/pkg/vector"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	in := &entity.NoteEmbedding{
		NoteId:      uuid.New(),
		Vector:      []float32{0.1, -0.2, 0.3},
		Model:       "m1",
		Dimensions:  3,
		ContentHash: "0123456789abcdef",
		ComputedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	raw, err := encodeEnvelope(in)
	require.NoError(t, err)

	out, err := decodeEnvelope(in.NoteId, in.Model, raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEnvelope_Corrupt(t *testing.T) {
	_, err := decodeEnvelope(uuid.New(), "m1", []byte("{not json"))
	assert.ErrorIs(t, err, vector.ErrCorruptData)

	_, err = decodeEnvelope(uuid.New(), "m1", []byte(`{"vector":"AAAA","dimensions":2}`))
	assert.ErrorIs(t, err, vector.ErrCorruptData)
}

func TestNoteEmbeddingRepository_Redis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	opt, err := goredis.ParseURL(url)
	require.NoError(t, err)
	rdb := goredis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	model := "test-" + uuid.NewString()
	t.Cleanup(func() { rdb.Del(ctx, modelKey(model)) })

	repo := NewNoteEmbeddingRepository(rdb)
	good := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	bad := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	require.NoError(t, repo.Upsert(ctx, &entity.NoteEmbedding{
		NoteId: good, Vector: []float32{1, 0}, Model: model, Dimensions: 2, ContentHash: "aaaaaaaaaaaaaaaa",
	}))
	require.NoError(t, rdb.HSet(ctx, modelKey(model), bad.String(), "garbage").Err())

	got, err := repo.FindOne(ctx, good, model)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, got.Vector)

	missing, err := repo.FindOne(ctx, uuid.New(), model)
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := repo.FindAllByModel(ctx, model)
	assert.ErrorIs(t, err, vector.ErrCorruptData)
	require.Len(t, all, 1)
	assert.Equal(t, good, all[0].NoteId)

	require.NoError(t, repo.DeleteByNoteId(ctx, good))
	counts, err := repo.CountByModel(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[model])
}
