// Package config provides application configuration management.
// It loads settings from environment variables (with optional .env file)
// and provides defaults for the server, retrieval, and bot settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Telegram Bot Configuration
	TelegramToken string

	// LLM Configuration
	OpenAIAPIKey   string // API key for chat completions and embeddings
	OpenAIBaseURL  string // Base URL for OpenAI-compatible providers
	ChatModel      string // Model for categorization fallback and answer generation
	EmbeddingModel string // Model for document/query embeddings
	EmbeddingRPM   int    // Embedding API requests per minute

	// Metrics Authentication
	MetricsUsername string // Username for /metrics Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics Basic Auth (empty = no auth)

	// Error Tracking
	SentryDSN   string
	Environment string

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir        string // Directory holding corpus JSON files and the chromem store
	CollectionName string // Vector collection name

	// Retrieval Configuration
	Retrieval RetrievalConfig

	// Bot Configuration
	Bot BotConfig
}

// RetrievalConfig holds the hybrid retriever tuning knobs.
type RetrievalConfig struct {
	VectorK  int // Nearest neighbors requested from the vector index
	LexicalK int // Top-k for the BM25 index
	MaxDocs  int // Final cap after merge and dedup
}

// BotConfig holds Telegram bot settings.
type BotConfig struct {
	PollTimeout time.Duration // Long-poll timeout for getUpdates

	// Per-user rate limit (token bucket)
	UserRateLimitBurst        float64 // Maximum burst tokens per user (default: 6)
	UserRateLimitRefillPerSec float64 // Tokens refilled per second (default: 0.2 = 1 per 5s)
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: getEnv("TELEGRAM_TOKEN", ""),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ChatModel:      getEnv("CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingRPM:   getIntEnv("EMBEDDING_RPM", 500),

		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		SentryDSN:   getEnv("SENTRY_DSN", ""),
		Environment: getEnv("ENVIRONMENT", "production"),

		Port:            getEnv("PORT", "10000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		DataDir:        getEnv("DATA_DIR", "./data"),
		CollectionName: getEnv("COLLECTION_NAME", "mee_syllabus"),

		Retrieval: RetrievalConfig{
			VectorK:  getIntEnv("RETRIEVAL_VECTOR_K", 5),
			LexicalK: getIntEnv("RETRIEVAL_LEXICAL_K", 6),
			MaxDocs:  getIntEnv("RETRIEVAL_MAX_DOCS", 8),
		},

		Bot: BotConfig{
			PollTimeout:               getDurationEnv("POLL_TIMEOUT", 30*time.Second),
			UserRateLimitBurst:        getFloatEnv("USER_RATE_LIMIT_BURST", 6.0),
			UserRateLimitRefillPerSec: getFloatEnv("USER_RATE_LIMIT_REFILL_PER_SEC", 0.2), // 1 per 5s
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required"))
	}
	if c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("DATA_DIR is required"))
	}
	if c.Retrieval.VectorK <= 0 {
		errs = append(errs, fmt.Errorf("RETRIEVAL_VECTOR_K must be positive, got %d", c.Retrieval.VectorK))
	}
	if c.Retrieval.LexicalK <= 0 {
		errs = append(errs, fmt.Errorf("RETRIEVAL_LEXICAL_K must be positive, got %d", c.Retrieval.LexicalK))
	}
	if c.Retrieval.MaxDocs <= 0 {
		errs = append(errs, fmt.Errorf("RETRIEVAL_MAX_DOCS must be positive, got %d", c.Retrieval.MaxDocs))
	}
	if c.EmbeddingRPM <= 0 {
		errs = append(errs, fmt.Errorf("EMBEDDING_RPM must be positive, got %d", c.EmbeddingRPM))
	}
	if c.Bot.UserRateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("USER_RATE_LIMIT_BURST must be positive, got %v", c.Bot.UserRateLimitBurst))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ChromemPath returns the persistence directory for the vector store.
func (c *Config) ChromemPath() string {
	return filepath.Join(c.DataDir, "chromem")
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
