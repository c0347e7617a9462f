package mapper

import (
	"encoding/json"
	"fmt"
	"strings"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/model"
	"clinical-notes-be/pkg/vector"

	"github.com/pgvector/pgvector-go"
)

// VectorFormat tags how a stored vector is laid out.
type VectorFormat int

const (
	// VectorFormatBinary is the little-endian float32 codec format.
	VectorFormatBinary VectorFormat = iota
	// VectorFormatLegacyText is the earlier bracketed text form, "[0.1,0.2,...]".
	VectorFormatLegacyText
)

// StoredVector is the raw vector column of one row, before decoding.
type StoredVector struct {
	Format VectorFormat
	Binary []byte
	Text   string
}

// StoredVectorOf picks the variant present on a row. A non-empty binary column wins.
func StoredVectorOf(binary []byte, legacy *string) StoredVector {
	if len(binary) == 0 && legacy != nil {
		return StoredVector{Format: VectorFormatLegacyText, Text: *legacy}
	}
	return StoredVector{Format: VectorFormatBinary, Binary: binary}
}

// Decode returns the vector and checks it holds exactly dims elements.
// Any malformed or mis-sized value is vector.ErrCorruptData.
func (s StoredVector) Decode(dims int) ([]float32, error) {
	var (
		values []float32
		err    error
	)

	switch s.Format {
	case VectorFormatLegacyText:
		values, err = parseLegacyVector(s.Text)
	default:
		values, err = vector.Decode(s.Binary)
	}
	if err != nil {
		return nil, err
	}

	if len(values) != dims {
		return nil, fmt.Errorf("%w: vector has %d elements, row declares %d", vector.ErrCorruptData, len(values), dims)
	}
	return values, nil
}

func parseLegacyVector(text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '[' || text[len(text)-1] != ']' {
		return nil, fmt.Errorf("%w: legacy vector is not bracketed", vector.ErrCorruptData)
	}

	var v pgvector.Vector
	if err := v.Scan(text); err == nil {
		return v.Slice(), nil
	}

	var values []float32
	if err := json.Unmarshal([]byte(text), &values); err != nil {
		return nil, fmt.Errorf("%w: legacy vector: %v", vector.ErrCorruptData, err)
	}
	return values, nil
}

type NoteEmbeddingMapper struct{}

func NewNoteEmbeddingMapper() *NoteEmbeddingMapper {
	return &NoteEmbeddingMapper{}
}

func (m *NoteEmbeddingMapper) ToEntity(e *model.NoteEmbedding) (*entity.NoteEmbedding, error) {
	if e == nil {
		return nil, nil
	}

	values, err := StoredVectorOf(e.Vector, e.LegacyVector).Decode(e.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("note %s model %s: %w", e.NoteId, e.Model, err)
	}

	return &entity.NoteEmbedding{
		NoteId:      e.NoteId,
		Vector:      values,
		Model:       e.Model,
		Dimensions:  e.Dimensions,
		ContentHash: e.ContentHash,
		ComputedAt:  e.ComputedAt,
	}, nil
}

// ToModel always writes the binary format.
func (m *NoteEmbeddingMapper) ToModel(e *entity.NoteEmbedding) *model.NoteEmbedding {
	if e == nil {
		return nil
	}

	return &model.NoteEmbedding{
		NoteId:      e.NoteId,
		Model:       e.Model,
		Vector:      vector.Encode(e.Vector),
		Dimensions:  e.Dimensions,
		ContentHash: e.ContentHash,
		ComputedAt:  e.ComputedAt,
	}
}
