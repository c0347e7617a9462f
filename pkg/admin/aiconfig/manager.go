package aiconfig

import (
	"context"
	"errors"
	"fmt"

	"clinical-notes-be/internal/dto"
	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/repository/specification"
	"clinical-notes-be/internal/repository/unitofwork"
)

const maskedValue = "********"

var (
	ErrUnknownKey   = errors.New("unknown configuration key")
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Definition describes a known runtime setting.
type Definition struct {
	Key         string
	ValueType   string
	Category    string
	Description string
	IsSecret    bool
	Allowed     []string
}

// Definitions lists the settings the embedding layer reads at call time.
var Definitions = []Definition{
	{
		Key:         entity.AiConfigKeyEmbeddingProvider,
		ValueType:   entity.AiConfigValueTypeString,
		Category:    entity.AiConfigCategoryEmbedding,
		Description: "Active embedding provider: local or remote",
		Allowed:     []string{"local", "remote"},
	},
	{
		Key:         entity.AiConfigKeyOpenAIKey,
		ValueType:   entity.AiConfigValueTypeString,
		Category:    entity.AiConfigCategoryEmbedding,
		Description: "API key for the remote embedding provider",
		IsSecret:    true,
	},
}

func lookup(key string) (Definition, bool) {
	for _, d := range Definitions {
		if d.Key == key {
			return d, true
		}
	}
	return Definition{}, false
}

// Manager handles AI configuration operations
type Manager struct{}

// NewManager creates a new AI config manager
func NewManager() *Manager {
	return &Manager{}
}

// GetAllConfigurations retrieves all AI configurations with secrets masked.
func (m *Manager) GetAllConfigurations(ctx context.Context, uow unitofwork.UnitOfWork) ([]*dto.AiConfigurationResponse, error) {
	configs, err := uow.AiConfigRepository().FindAllConfigurations(ctx, specification.OrderBy{Field: "key"})
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.AiConfigurationResponse, 0, len(configs))
	for _, c := range configs {
		responses = append(responses, configToResponse(c))
	}

	return responses, nil
}

// GetValue returns the raw value of a setting. ok is false when the key is unset.
func (m *Manager) GetValue(ctx context.Context, uow unitofwork.UnitOfWork, key string) (string, bool, error) {
	config, err := uow.AiConfigRepository().FindConfigurationByKey(ctx, key)
	if err != nil {
		return "", false, err
	}
	if config == nil {
		return "", false, nil
	}
	return config.Value, true, nil
}

// SetValue creates or updates a known setting after validating the value.
func (m *Manager) SetValue(ctx context.Context, uow unitofwork.UnitOfWork, key string, req dto.UpdateAiConfigurationRequest) (*dto.AiConfigurationResponse, error) {
	def, ok := lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownKey, key)
	}
	if len(def.Allowed) > 0 && !contains(def.Allowed, req.Value) {
		return nil, fmt.Errorf("%w '%s' for '%s', expected one of %v", ErrInvalidValue, req.Value, key, def.Allowed)
	}

	config, err := uow.AiConfigRepository().FindConfigurationByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if config == nil {
		config = &entity.AiConfiguration{
			Key:         def.Key,
			Value:       req.Value,
			ValueType:   def.ValueType,
			Description: def.Description,
			Category:    def.Category,
			IsSecret:    def.IsSecret,
		}
		if err := uow.AiConfigRepository().CreateConfiguration(ctx, config); err != nil {
			return nil, err
		}
		return configToResponse(config), nil
	}

	config.Value = req.Value
	if err := uow.AiConfigRepository().UpdateConfiguration(ctx, config); err != nil {
		return nil, err
	}

	return configToResponse(config), nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func configToResponse(c *entity.AiConfiguration) *dto.AiConfigurationResponse {
	value := c.Value
	if c.IsSecret && value != "" {
		value = maskedValue
	}
	return &dto.AiConfigurationResponse{
		Id:          c.Id,
		Key:         c.Key,
		Value:       value,
		ValueType:   c.ValueType,
		Description: c.Description,
		Category:    c.Category,
		IsSecret:    c.IsSecret,
		UpdatedAt:   c.UpdatedAt,
	}
}
