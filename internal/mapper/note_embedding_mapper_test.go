package mapper

import (
	"testing"
	"time"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/model"
	"clinical-notes-be/pkg/vector"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteEmbeddingMapper_BinaryRoundTrip(t *testing.T) {
	m := NewNoteEmbeddingMapper()
	in := &entity.NoteEmbedding{
		NoteId:      uuid.New(),
		Vector:      []float32{0.5, -1.25, 3},
		Model:       "hashed-bow-384",
		Dimensions:  3,
		ContentHash: "0123456789abcdef",
		ComputedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	row := m.ToModel(in)
	assert.Len(t, row.Vector, 12)
	assert.Nil(t, row.LegacyVector)

	out, err := m.ToEntity(row)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestNoteEmbeddingMapper_LegacyText(t *testing.T) {
	legacy := "[0.1,0.2,0.3]"
	out, err := NewNoteEmbeddingMapper().ToEntity(&model.NoteEmbedding{
		NoteId:       uuid.New(),
		Model:        "text-embedding-3-small",
		LegacyVector: &legacy,
		Dimensions:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, out.Vector)
}

func TestStoredVector_LegacyJSONWithSpaces(t *testing.T) {
	legacy := " [1, 2.5, -3] "
	values, err := StoredVectorOf(nil, &legacy).Decode(3)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2.5, -3}, values)
}

func TestStoredVector_Corrupt(t *testing.T) {
	garbage := "not a vector"

	tests := []struct {
		name   string
		stored StoredVector
		dims   int
	}{
		{"binary length not multiple of 4", StoredVectorOf([]byte{1, 2, 3}, nil), 0},
		{"binary wrong element count", StoredVectorOf(vector.Encode([]float32{1, 2}), nil), 3},
		{"legacy unparsable", StoredVectorOf(nil, &garbage), 3},
		{"nothing stored but dims declared", StoredVectorOf(nil, nil), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.stored.Decode(tt.dims)
			assert.ErrorIs(t, err, vector.ErrCorruptData)
		})
	}
}

func TestStoredVector_BinaryWinsOverLegacy(t *testing.T) {
	legacy := "[9,9]"
	values, err := StoredVectorOf(vector.Encode([]float32{1, 2}), &legacy).Decode(2)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, values)
}
