package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Embedding EmbeddingConfig
	Search    SearchConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	EmbedTopicName     string // in-process queue feeding the embedding worker
	WorkerConcurrency  int
	WorkerMaxRetries   int
	WorkerRetryBackoff time.Duration
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
}

type EmbeddingConfig struct {
	Provider         string // "local" or "remote"
	LocalBackend     string // "hash" or "ollama"
	LocalModel       string
	LocalDimensions  int
	OllamaBaseURL    string
	RemoteModel      string
	RemoteDimensions int
	RemoteBaseURL    string
	OpenAIAPIKey     string
	Store            string // "sql" or "redis"
	CacheTTL         time.Duration
}

type SearchConfig struct {
	DefaultTopK int
	MaxTopK     int
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			EmbedTopicName:     getEnv("EMBED_NOTE_CONTENT_TOPIC_NAME", "EMBED_NOTE_CONTENT"),
			WorkerConcurrency:  getEnvAsInt("WORKER_CONCURRENCY", 4),
			WorkerMaxRetries:   getEnvAsInt("WORKER_MAX_RETRIES", 5),
			WorkerRetryBackoff: getEnvAsDuration("WORKER_RETRY_BACKOFF", 500*time.Millisecond),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Embedding: EmbeddingConfig{
			Provider:         getEnv("EMBEDDING_PROVIDER", "local"),
			LocalBackend:     getEnv("LOCAL_EMBEDDING_BACKEND", "hash"),
			LocalModel:       getEnv("LOCAL_EMBEDDING_MODEL", ""),
			LocalDimensions:  getEnvAsInt("LOCAL_EMBEDDING_DIMENSIONS", 0),
			OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			RemoteModel:      getEnv("REMOTE_EMBEDDING_MODEL", "text-embedding-3-small"),
			RemoteDimensions: getEnvAsInt("REMOTE_EMBEDDING_DIMENSIONS", 0),
			RemoteBaseURL:    getEnv("OPENAI_BASE_URL", ""),
			OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
			Store:            getEnv("EMBEDDING_STORE", "sql"),
			CacheTTL:         getEnvAsDuration("EMBEDDING_CACHE_TTL", 10*time.Minute),
		},
		Search: SearchConfig{
			DefaultTopK: getEnvAsInt("SEARCH_DEFAULT_TOP_K", 5),
			MaxTopK:     getEnvAsInt("SEARCH_MAX_TOP_K", 50),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
