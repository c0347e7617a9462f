package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ollamaServer(t *testing.T, models []string, embedding []float32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/tags":
			list := make([]map[string]any, 0, len(models))
			for _, m := range models {
				list = append(list, map[string]any{"name": m, "model": m})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"models": list})
		case "/api/embed":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"model":      "all-minilm",
				"embeddings": [][]float32{embedding},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOllamaExtractor_LoadAndEmbed(t *testing.T) {
	srv := ollamaServer(t, []string{"all-minilm:latest"}, []float32{3, 4})

	p := NewLocalProvider(DefaultOllamaModel, 2, LoadOllamaExtractor(srv.URL, DefaultOllamaModel, srv.Client()))
	res, err := p.Embed(context.Background(), "otitis media")
	require.NoError(t, err)

	assert.InDelta(t, 0.6, res.Values[0], 1e-6)
	assert.InDelta(t, 0.8, res.Values[1], 1e-6)
}

func TestOllamaExtractor_ModelNotPulled(t *testing.T) {
	srv := ollamaServer(t, []string{"llama3:latest"}, []float32{1})

	p := NewLocalProvider(DefaultOllamaModel, 1, LoadOllamaExtractor(srv.URL, DefaultOllamaModel, srv.Client()))
	_, err := p.Embed(context.Background(), "otitis media")

	assert.ErrorIs(t, err, ErrProviderInitFailed)
	assert.ErrorContains(t, err, "ollama pull")
	assert.False(t, p.Loaded())
}

func TestOllamaExtractor_DimensionsMismatch(t *testing.T) {
	srv := ollamaServer(t, []string{"all-minilm"}, []float32{1, 2, 3})

	p := NewLocalProvider(DefaultOllamaModel, 384, LoadOllamaExtractor(srv.URL, DefaultOllamaModel, srv.Client()))
	_, err := p.Embed(context.Background(), "otitis media")

	assert.ErrorIs(t, err, ErrProviderInitFailed)
}

func TestOllamaExtractor_DaemonDown(t *testing.T) {
	srv := ollamaServer(t, nil, nil)
	url := srv.URL
	srv.Close()

	p := NewLocalProvider(DefaultOllamaModel, 384, LoadOllamaExtractor(url, DefaultOllamaModel, nil))
	_, err := p.Embed(context.Background(), "otitis media")

	assert.ErrorIs(t, err, ErrProviderInitFailed)
}
