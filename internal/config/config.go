package config

import (
	"os"
	"strconv"
	"strings"
)

// Defaults for the upstream endpoint. The key is appended as a query parameter.
const (
	DefaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel     = "gemma-3-27b-it"
	DefaultAPIKeyEnv = "GEMINI_API_KEY"
)

// DefaultMaxBodyBytes bounds request bodies on the HTTP server. Inline image
// parts make Gemini requests large, so this sits at the upstream's own limit.
const DefaultMaxBodyBytes = 20 << 20

// Config holds application configuration loaded from environment and file.
// Priority: CLI flags → Env vars → config.toml → defaults
//
// The API key is not part of Config. Only the name of the variable holding
// it is; the relay reads the variable on every invocation.
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string

	// BaseURL is the Gemini API root, without the model path
	BaseURL string

	// Model is the model id used in the generateContent path
	Model string

	// APIKeyEnv names the environment variable holding the upstream key
	APIKeyEnv string

	// AllowedOrigin is sent as Access-Control-Allow-Origin. Empty disables CORS.
	AllowedOrigin string

	// MaxBodyBytes bounds the request body the HTTP server reads
	MaxBodyBytes int64

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the default file and environment variables.
// Environment variables override file config values.
func Load() *Config {
	return LoadFrom(ConfigPath())
}

// LoadFrom is Load with an explicit config file path.
// A missing or unreadable file falls back to env and defaults.
func LoadFrom(path string) *Config {
	fileConfig, err := LoadFile(path)
	if err != nil {
		fileConfig = &FileConfig{}
	}

	return &Config{
		ServerPort:    getEnvOrFile("SERVER_PORT", fileConfig.ServerPort, ":8080"),
		BaseURL:       strings.TrimRight(getEnvOrFile("GEMINI_BASE_URL", fileConfig.BaseURL, DefaultBaseURL), "/"),
		Model:         getEnvOrFile("GEMINI_MODEL", fileConfig.Model, DefaultModel),
		APIKeyEnv:     getEnvOrFile("GEMINI_API_KEY_ENV", fileConfig.APIKeyEnv, DefaultAPIKeyEnv),
		AllowedOrigin: getEnvOrFile("CORS_ALLOWED_ORIGIN", fileConfig.AllowedOrigin, ""),
		MaxBodyBytes:  getInt64EnvOrFile("MAX_BODY_BYTES", fileConfig.MaxBodyBytes, DefaultMaxBodyBytes),
		LogLevel:      getEnvOrFile("LOG_LEVEL", fileConfig.LogLevel, "info"),
		LogFormat:     getEnvOrFile("LOG_FORMAT", fileConfig.LogFormat, "text"),
	}
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getInt64EnvOrFile is getEnvOrFile for positive integers. Unparsable or
// non-positive values are skipped.
func getInt64EnvOrFile(key string, fileValue, defaultValue int64) int64 {
	if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil && n > 0 {
		return n
	}
	if fileValue > 0 {
		return fileValue
	}
	return defaultValue
}
