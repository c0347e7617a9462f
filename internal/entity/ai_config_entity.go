package entity

import (
	"time"

	"github.com/google/uuid"
)

// AiConfiguration stores AI behavior settings (key-value pairs)
type AiConfiguration struct {
	Id          uuid.UUID
	Key         string // e.g., "embedding_provider", "openai_api_key"
	Value       string
	ValueType   string // "string", "number", "boolean", "json"
	Description string
	Category    string
	IsSecret    bool // If true, value is never echoed back
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category constants for AiConfiguration
const (
	AiConfigCategoryEmbedding = "embedding"
	AiConfigCategoryGeneral   = "general"
)

// ValueType constants for AiConfiguration
const (
	AiConfigValueTypeString  = "string"
	AiConfigValueTypeNumber  = "number"
	AiConfigValueTypeBoolean = "boolean"
	AiConfigValueTypeJSON    = "json"
)

// Default configuration keys
const (
	AiConfigKeyEmbeddingProvider = "embedding_provider"
	AiConfigKeyOpenAIKey         = "openai_api_key"
)
