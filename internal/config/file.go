package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	ServerPort        string   `toml:"server_port"`
	EnableWebUI       *bool    `toml:"enable_web_ui"`
	Provider          string   `toml:"provider"`
	Model             string   `toml:"model"`
	APIKey            string   `toml:"api_key"`
	BaseURL           string   `toml:"base_url"`
	APIVersion        string   `toml:"api_version"`
	Languages         []string `toml:"languages"`
	AdminPasswordHash string   `toml:"admin_password_hash"`
	DisableUsageLog   *bool    `toml:"disable_usage_log"`
	ReadTimeout       int      `toml:"read_timeout"`
	WriteTimeout      int      `toml:"write_timeout"`
}

// ConfigPath returns the path to the config file (~/.goatlate/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	return loadFileAt(ConfigPath())
}

func loadFileAt(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	// If config already exists, do nothing
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# Goatlate Configuration
# server_port = ":8080"
# enable_web_ui = true

# Upstream model API: "gemini" (default), "openrouter" or "azurefoundry".
# The API key is read from GOOGLE_GENERATIVE_AI_API_KEY, OPENROUTER_API_KEY or
# AZURE_FOUNDRY_API_KEY; api_key below is used when the variable is unset.
# provider = "gemini"
# model = "gemini-2.0-flash"
# api_key = ""

# Azure AI Foundry needs an endpoint
# base_url = "https://my-resource.services.ai.azure.com"
# api_version = "2024-05-01-preview"

# languages = ["French", "Spanish", "German", "Japanese", "Hindi"]

# Admin API (usage and request logs). Generate with: goatlate hash-password
# admin_password_hash = "$argon2id$v=19$..."

# disable_usage_log = false
# read_timeout = 300
# write_timeout = 300
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
