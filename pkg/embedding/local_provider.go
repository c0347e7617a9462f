package embedding

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"clinical-notes-be/pkg/utils"
	"clinical-notes-be/pkg/vector"
)

// FeatureExtractor is a loaded feature-extraction model producing one vector per token.
// Implementations must be safe for concurrent use once loaded.
type FeatureExtractor interface {
	TokenEmbeddings(ctx context.Context, text string) ([][]float32, error)
	Dimensions() int
}

// ExtractorLoader loads the model behind a LocalProvider.
type ExtractorLoader func(ctx context.Context) (FeatureExtractor, error)

type loadedExtractor struct {
	extractor FeatureExtractor
}

// LocalProvider runs an on-device model. The model is loaded on first use and
// shared read-only afterwards; a failed load is retried on the next call.
type LocalProvider struct {
	model      string
	dimensions int
	load       ExtractorLoader

	mu     sync.Mutex
	loaded atomic.Pointer[loadedExtractor]
}

func NewLocalProvider(model string, dimensions int, load ExtractorLoader) *LocalProvider {
	return &LocalProvider{
		model:      model,
		dimensions: dimensions,
		load:       load,
	}
}

func (p *LocalProvider) Embed(ctx context.Context, text string) (*Result, error) {
	extractor, err := p.extractor(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := extractor.TokenEmbeddings(ctx, utils.TruncateRunes(text, MaxInputChars))
	if err != nil {
		return nil, err
	}

	pooled, err := vector.MeanPool(rows, p.dimensions)
	if err != nil {
		return nil, fmt.Errorf("local model %s: %w", p.model, err)
	}

	return &Result{
		Values:     vector.Normalize(pooled),
		Model:      p.model,
		Dimensions: p.dimensions,
	}, nil
}

func (p *LocalProvider) Dimensions() int {
	return p.dimensions
}

func (p *LocalProvider) ModelName() string {
	return p.model
}

// Loaded reports whether the model has been loaded successfully.
func (p *LocalProvider) Loaded() bool {
	return p.loaded.Load() != nil
}

func (p *LocalProvider) extractor(ctx context.Context) (FeatureExtractor, error) {
	if l := p.loaded.Load(); l != nil {
		return l.extractor, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if l := p.loaded.Load(); l != nil {
		return l.extractor, nil
	}

	extractor, err := p.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %w", ErrProviderInitFailed, p.model, err)
	}
	if extractor.Dimensions() != p.dimensions {
		return nil, fmt.Errorf("%w: model %s reports %d dimensions, configured %d",
			ErrProviderInitFailed, p.model, extractor.Dimensions(), p.dimensions)
	}

	p.loaded.Store(&loadedExtractor{extractor: extractor})
	return extractor, nil
}
