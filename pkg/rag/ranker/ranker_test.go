package ranker

import (
	"testing"

	"clinical-notes-be/pkg/vector"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	idA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	idB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	idC = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
	idD = uuid.MustParse("00000000-0000-0000-0000-00000000000d")
)

func candidate(id uuid.UUID, v ...float32) Candidate {
	return Candidate{NoteId: id, Vector: v, Dimensions: len(v)}
}

func TestRank_OrdersByScore(t *testing.T) {
	query := []float32{1, 0}
	got := Rank(query, []Candidate{
		candidate(idA, 0, 1),
		candidate(idB, 1, 0),
		candidate(idC, 1, 1),
	}, 3)

	require.Len(t, got, 3)
	assert.Equal(t, idB, got[0].NoteId)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
	assert.Equal(t, idC, got[1].NoteId)
	assert.Equal(t, idA, got[2].NoteId)
	assert.InDelta(t, 0.0, got[2].Score, 1e-9)
}

func TestRank_TopK(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		candidate(idA, 0, 1),
		candidate(idB, 1, 0),
		candidate(idC, 1, 1),
	}

	assert.Len(t, Rank(query, candidates, 1), 1)
	assert.Len(t, Rank(query, candidates, 10), 3)
	assert.Empty(t, Rank(query, candidates, 0))
	assert.Empty(t, Rank(query, candidates, -1))
	assert.Empty(t, Rank(query, nil, 5))
}

func TestRank_TiesBreakByNoteId(t *testing.T) {
	query := []float32{1, 0}
	got := Rank(query, []Candidate{
		candidate(idD, 2, 0),
		candidate(idB, 1, 0),
		candidate(idC, 3, 0),
	}, 3)

	require.Len(t, got, 3)
	assert.Equal(t, []uuid.UUID{idB, idC, idD}, []uuid.UUID{got[0].NoteId, got[1].NoteId, got[2].NoteId})
}

func TestRank_DeterministicAcrossInputOrder(t *testing.T) {
	query := []float32{0.3, 0.7, 0.1}
	forward := []Candidate{
		candidate(idA, 0.3, 0.7, 0.1),
		candidate(idB, 0.1, 0.2, 0.9),
		candidate(idC, 0.3, 0.7, 0.1),
		candidate(idD, 0.9, 0.1, 0.1),
	}
	reversed := []Candidate{forward[3], forward[2], forward[1], forward[0]}

	assert.Equal(t, Rank(query, forward, 4), Rank(query, reversed, 4))
}

func TestRank_SkipsOtherDimensions(t *testing.T) {
	query := []float32{1, 0}
	got := Rank(query, []Candidate{
		candidate(idA, 1, 0, 0),
		{NoteId: idB, Vector: []float32{1, 0}, Dimensions: 3},
		candidate(idC, 1, 0),
	}, 5)

	require.Len(t, got, 1)
	assert.Equal(t, idC, got[0].NoteId)
}

func TestRank_ZeroVectorScoresZero(t *testing.T) {
	got := Rank([]float32{1, 0}, []Candidate{candidate(idA, 0, 0)}, 1)

	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].Score)
}

func TestCompare(t *testing.T) {
	score, err := Compare([]float32{1, 2}, []float32{2, 4})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)

	score, err = Compare([]float32{1, 0}, []float32{-1, 0})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, score, 1e-9)

	_, err = Compare([]float32{1, 0}, []float32{1, 0, 0})
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}
