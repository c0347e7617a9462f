package ranker

import (
	"bytes"
	"sort"

	"clinical-notes-be/pkg/vector"

	"github.com/google/uuid"
)

// Candidate is one stored embedding considered for ranking.
type Candidate struct {
	NoteId     uuid.UUID
	Vector     []float32
	Dimensions int
}

// Scored is a ranked candidate.
type Scored struct {
	NoteId uuid.UUID
	Score  float64
}

// Rank scores every candidate against query by cosine similarity and returns
// the k best, highest first. Candidates of another dimensionality are skipped.
// Equal scores are ordered by ascending note id, so the result is deterministic.
// k larger than the candidate count returns all of them; k <= 0 returns none.
func Rank(query []float32, candidates []Candidate, k int) []Scored {
	if k <= 0 || len(candidates) == 0 {
		return []Scored{}
	}

	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if c.Dimensions != len(query) || len(c.Vector) != len(query) {
			continue
		}
		score, err := vector.Cosine(query, c.Vector)
		if err != nil {
			continue
		}
		scored = append(scored, Scored{NoteId: c.NoteId, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return bytes.Compare(scored[i].NoteId[:], scored[j].NoteId[:]) < 0
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}

// Compare returns the cosine similarity of a and b.
// Vectors of different length fail with vector.ErrDimensionMismatch.
func Compare(a, b []float32) (float64, error) {
	return vector.Cosine(a, b)
}
