package factory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"clinical-notes-be/pkg/embedding"
)

const (
	ProviderLocal  = "local"
	ProviderRemote = "remote"

	LocalBackendHash   = "hash"
	LocalBackendOllama = "ollama"

	SettingEmbeddingProvider = "embedding_provider"
	SettingOpenAIKey         = "openai_api_key"
)

// SettingsSource is a key/value view over user settings. ok is false when the
// key has never been set.
type SettingsSource interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// StaticSettings serves settings from a fixed map.
type StaticSettings map[string]string

func (s StaticSettings) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := s[key]
	return v, ok, nil
}

// Config holds the process-level defaults used when a setting is absent.
type Config struct {
	DefaultProvider  string
	LocalBackend     string
	LocalModel       string
	LocalDimensions  int
	OllamaBaseURL    string
	RemoteModel      string
	RemoteDimensions int
	RemoteBaseURL    string
	OpenAIKey        string
}

// Selector resolves the active provider on every call so a settings change
// takes effect on the next orchestration.
type Selector struct {
	cfg      Config
	settings SettingsSource
	local    *embedding.LocalProvider

	mu     sync.Mutex
	remote map[string]*embedding.RemoteProvider
}

func NewSelector(cfg Config, settings SettingsSource) (*Selector, error) {
	local, err := NewLocalProvider(cfg)
	if err != nil {
		return nil, err
	}

	return &Selector{
		cfg:      cfg,
		settings: settings,
		local:    local,
		remote:   make(map[string]*embedding.RemoteProvider),
	}, nil
}

// NewLocalProvider builds the on-device provider for the configured backend.
func NewLocalProvider(cfg Config) (*embedding.LocalProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LocalBackend)) {
	case "", LocalBackendHash:
		dims := cfg.LocalDimensions
		if dims <= 0 {
			dims = embedding.HashingDimensions
		}
		model := cfg.LocalModel
		if model == "" {
			model = embedding.HashingModelName
		}
		return embedding.NewLocalProvider(model, dims, embedding.LoadHashingExtractor(dims)), nil

	case LocalBackendOllama:
		dims := cfg.LocalDimensions
		if dims <= 0 {
			dims = embedding.DefaultOllamaDimensions
		}
		model := cfg.LocalModel
		if model == "" {
			model = embedding.DefaultOllamaModel
		}
		return embedding.NewLocalProvider(model, dims, embedding.LoadOllamaExtractor(cfg.OllamaBaseURL, model, nil)), nil

	default:
		return nil, fmt.Errorf("unsupported local embedding backend: %s (supported: hash, ollama)", cfg.LocalBackend)
	}
}

// Current returns the provider selected by the embedding_provider setting.
func (s *Selector) Current(ctx context.Context) (embedding.EmbeddingProvider, error) {
	kind, err := s.setting(ctx, SettingEmbeddingProvider, s.cfg.DefaultProvider)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", ProviderLocal:
		return s.local, nil
	case ProviderRemote:
		key, err := s.setting(ctx, SettingOpenAIKey, s.cfg.OpenAIKey)
		if err != nil {
			return nil, err
		}
		return s.remoteFor(key), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s (supported: local, remote)", kind)
	}
}

// Local returns the process-wide local provider.
func (s *Selector) Local() *embedding.LocalProvider {
	return s.local
}

func (s *Selector) setting(ctx context.Context, key, fallback string) (string, error) {
	if s.settings == nil {
		return fallback, nil
	}
	v, ok, err := s.settings.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read setting %s: %w", key, err)
	}
	if !ok || v == "" {
		return fallback, nil
	}
	return v, nil
}

func (s *Selector) remoteFor(apiKey string) *embedding.RemoteProvider {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.remote[apiKey]; ok {
		return p
	}

	var opts []embedding.RemoteOption
	if s.cfg.RemoteBaseURL != "" {
		opts = append(opts, embedding.WithBaseURL(s.cfg.RemoteBaseURL))
	}
	if s.cfg.RemoteDimensions > 0 {
		opts = append(opts, embedding.WithDimensions(s.cfg.RemoteDimensions))
	}

	p := embedding.NewRemoteProvider(apiKey, s.cfg.RemoteModel, opts...)
	s.remote[apiKey] = p
	return p
}
