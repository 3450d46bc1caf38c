package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigEnv overrides the config file location.
const ConfigEnv = "GEMRELAY_CONFIG"

// DataDir returns the path to the gemrelay data directory.
// - Windows: %APPDATA%\gemrelay
// - Other OS: ~/.gemrelay
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gemrelay")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".gemrelay"
	}
	return filepath.Join(home, ".gemrelay")
}

// ConfigPath returns the config file path: $GEMRELAY_CONFIG or ~/.gemrelay/config.toml.
func ConfigPath() string {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p
	}
	return filepath.Join(DataDir(), "config.toml")
}
