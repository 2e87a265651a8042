// Package config loads server settings from the environment, a TOML file and defaults.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider identifiers accepted by the provider option.
const (
	ProviderGemini       = "gemini"
	ProviderOpenRouter   = "openrouter"
	ProviderAzureFoundry = "azurefoundry"
)

// providerInfo describes where a provider's credential comes from and how a
// missing one is reported.
type providerInfo struct {
	apiKeyEnv    string
	defaultModel string
	missingKey   string
}

var providers = map[string]providerInfo{
	ProviderGemini: {
		apiKeyEnv:    "GOOGLE_GENERATIVE_AI_API_KEY",
		defaultModel: "gemini-2.0-flash",
		missingKey:   "❌ Missing Google Generative AI API Key",
	},
	ProviderOpenRouter: {
		apiKeyEnv:    "OPENROUTER_API_KEY",
		defaultModel: "google/gemini-2.0-flash-001",
		missingKey:   "❌ Missing OpenRouter API Key",
	},
	ProviderAzureFoundry: {
		apiKeyEnv:    "AZURE_FOUNDRY_API_KEY",
		defaultModel: "gpt-4o-mini",
		missingKey:   "❌ Missing Azure AI Foundry API Key",
	},
}

// DefaultLanguages is the language list offered by the UI and the CLI.
var DefaultLanguages = []string{"French", "Spanish", "German", "Japanese", "Hindi"}

// Config holds application configuration loaded from environment and file.
// Priority: Env vars → config.toml → defaults
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string

	// EnableWebUI serves the embedded translator page at /
	EnableWebUI bool

	// Provider selects the upstream model API
	Provider string

	// Model is the upstream model identifier
	Model string

	// APIKey is the upstream credential. Empty means requests fail with a
	// configuration error rather than at startup.
	APIKey string

	// BaseURL overrides the provider endpoint (Azure endpoint, proxies, tests)
	BaseURL string

	// APIVersion is used by the Azure AI Foundry provider
	APIVersion string

	// Languages offered to clients
	Languages []string

	// AdminPasswordHash is an argon2id hash; admin routes are off when empty
	AdminPasswordHash string

	// DisableUsageLog turns off the SQLite request ledger
	DisableUsageLog bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LoadDotEnv loads a .env file from the working directory if present.
// Variables already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load reads configuration from file and environment variables.
// Environment variables override file config values.
func Load() *Config {
	fileConfig, err := LoadFile()
	if err != nil || fileConfig == nil {
		fileConfig = &FileConfig{} // Ignore error, use defaults
	}
	return fromSources(fileConfig)
}

func fromSources(fileConfig *FileConfig) *Config {
	provider := strings.ToLower(getEnvOrFile("GOATLATE_PROVIDER", fileConfig.Provider, ProviderGemini))
	info, ok := providers[provider]
	if !ok {
		provider = ProviderGemini
		info = providers[ProviderGemini]
	}

	languages := fileConfig.Languages
	if env := os.Getenv("GOATLATE_LANGUAGES"); env != "" {
		languages = splitList(env)
	}
	if len(languages) == 0 {
		languages = DefaultLanguages
	}

	return &Config{
		ServerPort:        getEnvOrFile("SERVER_PORT", fileConfig.ServerPort, ":8080"),
		EnableWebUI:       getEnvBoolOrFile("ENABLE_WEB_UI", fileConfig.EnableWebUI, true),
		Provider:          provider,
		Model:             getEnvOrFile("GOATLATE_MODEL", fileConfig.Model, info.defaultModel),
		APIKey:            getEnvOrFile(info.apiKeyEnv, fileConfig.APIKey, ""),
		BaseURL:           getEnvOrFile("GOATLATE_BASE_URL", fileConfig.BaseURL, ""),
		APIVersion:        getEnvOrFile("AZURE_FOUNDRY_API_VERSION", fileConfig.APIVersion, ""),
		Languages:         languages,
		AdminPasswordHash: getEnvOrFile("ADMIN_PASSWORD_HASH", fileConfig.AdminPasswordHash, ""),
		DisableUsageLog:   getEnvBoolOrFile("DISABLE_USAGE_LOG", fileConfig.DisableUsageLog, false),
		ReadTimeout:       getEnvSecondsOrFile("READ_TIMEOUT", fileConfig.ReadTimeout, 300),
		WriteTimeout:      getEnvSecondsOrFile("WRITE_TIMEOUT", fileConfig.WriteTimeout, 300),
	}
}

// MissingKeyMessage is the fixed error reported when the provider credential
// is not configured.
func (c *Config) MissingKeyMessage() string {
	return providers[c.Provider].missingKey
}

// APIKeyEnv returns the environment variable holding the provider credential.
func (c *Config) APIKeyEnv() string {
	return providers[c.Provider].apiKeyEnv
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

// getEnvBoolOrFile returns env bool, file bool, or default (in priority order)
func getEnvBoolOrFile(key string, fileValue *bool, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvSecondsOrFile returns a duration from env seconds, file seconds, or default.
func getEnvSecondsOrFile(key string, fileValue int, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if fileValue > 0 {
		return time.Duration(fileValue) * time.Second
	}
	return time.Duration(defaultSeconds) * time.Second
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
