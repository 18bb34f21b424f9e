// Package config defines service configuration and its loading.
package config

import (
	"context"
	"time"
)

// Generation providers.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Default model per provider.
var defaultModels = map[string]string{
	ProviderGroq:   "llama-3.3-70b-versatile",
	ProviderGemini: "gemini-2.0-flash",
}

// Config contains process configuration. Keys are flat so that env names
// map one-to-one (FLIGHTWISE_SEARCH_TIMEOUT -> search_timeout).
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SerpAPIKey authenticates flight searches.
	SerpAPIKey string `koanf:"serpapi_key"`
	// SerpAPIBaseURL overrides the search endpoint root.
	SerpAPIBaseURL string `koanf:"serpapi_base_url"`
	// Language and Country are passed as hl and gl.
	Language string `koanf:"language"`
	Country  string `koanf:"country"`
	// Currencies lists the accepted currency codes.
	Currencies []string `koanf:"currencies"`

	// Provider selects the generation backend: groq or gemini.
	Provider string `koanf:"provider"`
	// Model overrides the provider's default model.
	Model        string `koanf:"model"`
	GroqAPIKey   string `koanf:"groq_api_key"`
	GroqBaseURL  string `koanf:"groq_base_url"`
	GeminiAPIKey string `koanf:"gemini_api_key"`

	Temperature     float64 `koanf:"temperature"`
	TopP            float64 `koanf:"top_p"`
	MaxOutputTokens int     `koanf:"max_output_tokens"`

	// SearchTimeout and AnalysisTimeout bound each collaborator call; 0 disables.
	SearchTimeout   time.Duration `koanf:"search_timeout"`
	AnalysisTimeout time.Duration `koanf:"analysis_timeout"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		Language:        "en",
		Country:         "us",
		Currencies:      []string{"USD", "EUR", "GBP"},
		Provider:        ProviderGroq,
		Temperature:     0.5,
		TopP:            1.0,
		MaxOutputTokens: 1024,
		SearchTimeout:   30 * time.Second,
		AnalysisTimeout: 60 * time.Second,
	}
}

// ResolvedModel is Model, or the provider default when Model is empty.
func (c *Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Provider]
}

// GenerationAPIKey returns the key of the selected provider.
func (c *Config) GenerationAPIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.GroqAPIKey
}
