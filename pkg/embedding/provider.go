package embedding

import "context"

// MaxInputChars bounds the text handed to any provider. Longer input is
// prefix-truncated silently.
const MaxInputChars = 8000

// Result is one computed embedding together with the model that produced it.
type Result struct {
	Values     []float32
	Model      string
	Dimensions int
}

// EmbeddingProvider defines the interface for generating text embeddings.
type EmbeddingProvider interface {
	// Embed computes the embedding of text (after truncation to MaxInputChars).
	Embed(ctx context.Context, text string) (*Result, error)

	// Dimensions returns the length of every vector this provider produces.
	Dimensions() int

	// ModelName identifies the model; stored records are keyed by it.
	ModelName() string
}
