package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

const (
	DefaultOllamaURL        = "http://localhost:11434"
	DefaultOllamaModel      = "all-minilm"
	DefaultOllamaDimensions = 384

	ollamaProbeText = "dimension probe"
)

// OllamaExtractor serves an on-device model through the local Ollama daemon.
// Ollama pools internally, so each call yields a single row.
type OllamaExtractor struct {
	client     *api.Client
	model      string
	dimensions int
}

// LoadOllamaExtractor returns a loader that verifies the model is pulled and
// measures its output dimensionality with a probe embedding.
func LoadOllamaExtractor(baseURL, model string, httpClient *http.Client) ExtractorLoader {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return func(ctx context.Context) (FeatureExtractor, error) {
		parsedURL, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama URL: %w", err)
		}

		e := &OllamaExtractor{
			client: api.NewClient(parsedURL, httpClient),
			model:  model,
		}
		if err := e.verifyModel(ctx); err != nil {
			return nil, err
		}

		probe, err := e.embed(ctx, ollamaProbeText)
		if err != nil {
			return nil, err
		}
		e.dimensions = len(probe)

		return e, nil
	}
}

func (e *OllamaExtractor) TokenEmbeddings(ctx context.Context, text string) ([][]float32, error) {
	values, err := e.embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(values) != e.dimensions {
		return nil, fmt.Errorf("ollama model %s returned %d values, expected %d", e.model, len(values), e.dimensions)
	}
	return [][]float32{values}, nil
}

func (e *OllamaExtractor) Dimensions() int {
	return e.dimensions
}

func (e *OllamaExtractor) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ollama embed: %w", ErrProviderUnavailable, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned from ollama", ErrProviderUnavailable)
	}

	values := make([]float32, len(resp.Embeddings[0]))
	for i, v := range resp.Embeddings[0] {
		values[i] = float32(v)
	}
	return values, nil
}

// verifyModel checks if the model is available in Ollama
func (e *OllamaExtractor) verifyModel(ctx context.Context) error {
	listResp, err := e.client.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ollama models: %w", err)
	}

	for _, m := range listResp.Models {
		if m.Name == e.model || m.Name == e.model+":latest" {
			return nil
		}
	}

	return fmt.Errorf("model %s not found in ollama, run: ollama pull %s", e.model, e.model)
}
