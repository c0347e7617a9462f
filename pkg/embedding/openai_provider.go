package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"clinical-notes-be/pkg/utils"
	"clinical-notes-be/pkg/vector"
)

const (
	OpenAIModelTextEmbedding3Small = "text-embedding-3-small"
	OpenAIModelTextEmbedding3Large = "text-embedding-3-large"
	OpenAIModelTextEmbeddingAda002 = "text-embedding-ada-002"

	OpenAIDimensionSmall = 1536
	OpenAIDimensionLarge = 3072
)

// RemoteProvider calls a hosted OpenAI-compatible embeddings API.
// A missing credential is reported per call, never at construction.
type RemoteProvider struct {
	apiKey     string
	model      string
	dimensions int
	client     openai.Client
}

type RemoteOption func(*remoteOptions)

type remoteOptions struct {
	baseURL    string
	httpClient *http.Client
	dimensions int
}

func WithBaseURL(baseURL string) RemoteOption {
	return func(o *remoteOptions) { o.baseURL = baseURL }
}

func WithHTTPClient(c *http.Client) RemoteOption {
	return func(o *remoteOptions) { o.httpClient = c }
}

// WithDimensions overrides the dimensionality inferred from the model name.
func WithDimensions(dimensions int) RemoteOption {
	return func(o *remoteOptions) { o.dimensions = dimensions }
}

func NewRemoteProvider(apiKey, model string, opts ...RemoteOption) *RemoteProvider {
	if model == "" {
		model = OpenAIModelTextEmbedding3Small
	}

	var o remoteOptions
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(o.httpClient))
	}

	dimensions := o.dimensions
	if dimensions <= 0 {
		dimensions = openAIDimensions(model)
	}

	return &RemoteProvider{
		apiKey:     apiKey,
		model:      model,
		dimensions: dimensions,
		client:     openai.NewClient(clientOpts...),
	}
}

func (p *RemoteProvider) Embed(ctx context.Context, text string) (*Result, error) {
	if p.apiKey == "" {
		return nil, ErrMissingCredential
	}

	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{utils.TruncateRunes(text, MaxInputChars)},
		},
		Model: openai.EmbeddingModel(p.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai embedding: %w", ErrProviderUnavailable, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", ErrProviderUnavailable)
	}

	embedding64 := resp.Data[0].Embedding
	if len(embedding64) != p.dimensions {
		return nil, fmt.Errorf("%w: model %s returned %d values, declared %d",
			vector.ErrDimensionMismatch, p.model, len(embedding64), p.dimensions)
	}

	values := make([]float32, len(embedding64))
	for i, v := range embedding64 {
		values[i] = float32(v)
	}

	return &Result{
		Values:     values,
		Model:      p.model,
		Dimensions: p.dimensions,
	}, nil
}

func (p *RemoteProvider) Dimensions() int {
	return p.dimensions
}

func (p *RemoteProvider) ModelName() string {
	return p.model
}

func openAIDimensions(model string) int {
	if model == OpenAIModelTextEmbedding3Large {
		return OpenAIDimensionLarge
	}
	return OpenAIDimensionSmall
}
