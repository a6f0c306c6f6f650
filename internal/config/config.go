package config

import (
	"os"
	"strconv"

	"lemur/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	AI       AIConfig
	Server   ServerConfig
	Storage  StorageConfig
	Profile  ProfileConfig
}

// DatabaseConfig holds database connection settings. An empty URL selects
// the in-memory repositories.
type DatabaseConfig struct {
	URL string
}

// AIConfig holds AI/LLM related settings. A missing key switches the chat
// layer to the deterministic mock client.
type AIConfig struct {
	OpenAIKey   string
	OpenAIModel string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	MockMode    bool
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// StorageConfig holds uploaded-file storage settings
type StorageConfig struct {
	BasePath    string
	MaxFileSize int64
}

// ProfileConfig holds profiling and suggestion settings
type ProfileConfig struct {
	MaxSuggestions  int
	MaxConcurrent   int64
	PreviewRowLimit int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		AI: AIConfig{
			OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
			OpenAIModel: getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
			BaseURL:     getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			MaxTokens:   getEnvIntOrDefault("MAX_TOKENS", 1000),
			Temperature: getEnvFloatOrDefault("TEMPERATURE", 0.7),
			MockMode:    getEnvBoolOrDefault("MOCK_OPENAI", false),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8000"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Storage: StorageConfig{
			BasePath:    getEnvOrDefault("UPLOAD_DIR", "uploads/files"),
			MaxFileSize: int64(getEnvIntOrDefault("MAX_FILE_SIZE_MB", 50)) * 1024 * 1024,
		},
		Profile: ProfileConfig{
			MaxSuggestions:  getEnvIntOrDefault("MAX_SUGGESTIONS", 7),
			MaxConcurrent:   int64(getEnvIntOrDefault("MAX_CONCURRENT_PROFILES", 4)),
			PreviewRowLimit: getEnvIntOrDefault("PREVIEW_ROW_LIMIT", 100),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Profile.MaxSuggestions < 1 {
		return errors.ConfigInvalid("MAX_SUGGESTIONS must be at least 1")
	}
	if config.Profile.MaxConcurrent < 1 {
		return errors.ConfigInvalid("MAX_CONCURRENT_PROFILES must be at least 1")
	}
	if config.Storage.MaxFileSize <= 0 {
		return errors.ConfigInvalid("MAX_FILE_SIZE_MB must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
