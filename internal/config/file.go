package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	ServerPort    string `toml:"server_port"`
	BaseURL       string `toml:"base_url"`
	Model         string `toml:"model"`
	APIKeyEnv     string `toml:"api_key_env"`
	AllowedOrigin string `toml:"allowed_origin"`
	MaxBodyBytes  int64  `toml:"max_body_bytes"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
}

// LoadFile loads configuration from the TOML file at path.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (default ".env").
// Variables already present in the environment win. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return err
		}
	}
	return nil
}

// SampleConfig is written by `gemrelay init-config`.
const SampleConfig = `# gemrelay configuration
# server_port = ":8080"

# Upstream Gemini endpoint
# base_url = "https://generativelanguage.googleapis.com/v1beta"
# model = "gemma-3-27b-it"

# Name of the environment variable holding the API key.
# The key itself never goes in this file.
# api_key_env = "GEMINI_API_KEY"

# Browser origin allowed to call the relay. Unset disables CORS
# and OPTIONS is answered with 405 like any other non-POST method.
# allowed_origin = "https://example.com"

# Largest request body accepted by the HTTP server, in bytes.
# max_body_bytes = 20971520

# log_level = "info"   # debug, info, warn, error
# log_format = "text"  # text or json
`

// EnsureConfigFile creates a sample config file if none exists at path.
func EnsureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(SampleConfig), 0644)
}
