package embedding

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

const (
	HashingModelName  = "hashed-bow-384"
	HashingDimensions = 384

	// each token sets this many signed buckets
	hashingProbes = 4
)

// HashingExtractor is an in-process feature-hashing model. Every token maps to a
// sparse signed vector; it needs no weights and is fully deterministic.
type HashingExtractor struct {
	dimensions int
}

func NewHashingExtractor(dimensions int) *HashingExtractor {
	if dimensions <= 0 {
		dimensions = HashingDimensions
	}
	return &HashingExtractor{dimensions: dimensions}
}

// LoadHashingExtractor adapts NewHashingExtractor to an ExtractorLoader.
func LoadHashingExtractor(dimensions int) ExtractorLoader {
	return func(ctx context.Context) (FeatureExtractor, error) {
		return NewHashingExtractor(dimensions), nil
	}
}

func (h *HashingExtractor) TokenEmbeddings(ctx context.Context, text string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := tokenize(text)
	rows := make([][]float32, 0, len(tokens))
	for _, token := range tokens {
		row := make([]float32, h.dimensions)
		for probe := 0; probe < hashingProbes; probe++ {
			sum := xxhash.Sum64String(strconv.Itoa(probe) + ":" + token)
			idx := int(sum % uint64(h.dimensions))
			if sum>>63 == 1 {
				row[idx] -= 1
			} else {
				row[idx] += 1
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (h *HashingExtractor) Dimensions() int {
	return h.dimensions
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
