// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port     string
	APIKey   string
	LogLevel string

	// OpenAI API key for the embedding oracle; empty means the deterministic
	// local embedder is used instead (no network calls).
	OpenAIAPIKey        string
	EmbeddingDimensions int

	// Embedding API rate limit in requests per second during index builds
	EmbeddingRateLimit int

	// Data sources
	BooksFile        string
	DescriptionsFile string
	FallbackCover    string

	// Search over-fetch width: candidates retrieved from the semantic index
	// before category filtering, independent of the request's result count
	InitialTopK int

	// Upper bound applied to a request's result count
	MaxResultCount int

	// Caption description truncation length in characters
	DescriptionTruncateLength int

	// Query embedding LRU cache size (entries)
	QueryCacheSize int

	// Request body size limit in bytes; 0 or negative disables the limit
	MaxRequestBodyBytes int64
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// Load reads configuration from environment variables and returns a Config struct.
// It automatically loads .env file if it exists.
// Returns default values for any missing environment variables.
// API_KEY is required and the function will return an error if it's not set.
func Load() (*Config, error) {
	// Load .env file if it exists. Skip logging when absent (e.g. env from secrets/parameter store).
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		return nil, errors.New("API_KEY environment variable is required but not set")
	}

	initialTopK := getEnvAsInt("INITIAL_TOP_K", 50)
	if initialTopK <= 0 {
		return nil, errors.New("INITIAL_TOP_K must be a positive integer")
	}

	maxResultCount := getEnvAsInt("MAX_RESULT_COUNT", 100)
	if maxResultCount <= 0 {
		return nil, errors.New("MAX_RESULT_COUNT must be a positive integer")
	}

	truncateLength := getEnvAsInt("DESCRIPTION_TRUNCATE_LENGTH", 50)
	if truncateLength <= 0 {
		return nil, errors.New("DESCRIPTION_TRUNCATE_LENGTH must be a positive integer")
	}

	queryCacheSize := getEnvAsInt("QUERY_CACHE_SIZE", 512)
	if queryCacheSize <= 0 {
		return nil, errors.New("QUERY_CACHE_SIZE must be a positive integer")
	}

	embeddingRateLimit := getEnvAsInt("EMBEDDING_RATE_LIMIT", 5)
	if embeddingRateLimit <= 0 {
		return nil, errors.New("EMBEDDING_RATE_LIMIT must be a positive integer")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		APIKey:   apiKey,
		LogLevel: getEnv("LOG_LEVEL", "info"),

		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 1536),
		EmbeddingRateLimit:  embeddingRateLimit,

		BooksFile:        getEnv("BOOKS_FILE", "data/books_with_emotions.csv"),
		DescriptionsFile: getEnv("DESCRIPTIONS_FILE", "data/tagged_description.txt"),
		FallbackCover:    getEnv("FALLBACK_COVER", "assets/missing_cover.png"),

		InitialTopK:               initialTopK,
		MaxResultCount:            maxResultCount,
		DescriptionTruncateLength: truncateLength,
		QueryCacheSize:            queryCacheSize,

		MaxRequestBodyBytes: int64(getEnvAsInt("MAX_REQUEST_BODY_BYTES", 1<<20)),
	}

	return cfg, nil
}
