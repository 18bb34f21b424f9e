package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "FLIGHTWISE_"
	envFileVar = "FLIGHTWISE_CONFIG"
)

// legacyKeys fill empty credentials from the variable names the search form
// deployment already uses.
var legacyKeys = []struct {
	names []string
	set   func(*Config) *string
}{
	{[]string{"SERP_API_KEY", "SERPAPI_API_KEY"}, func(c *Config) *string { return &c.SerpAPIKey }},
	{[]string{"GROQ", "GROQ_API_KEY"}, func(c *Config) *string { return &c.GroqAPIKey }},
	{[]string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}, func(c *Config) *string { return &c.GeminiAPIKey }},
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if FLIGHTWISE_CONFIG is set
//  3. env (prefix FLIGHTWISE_)
//  4. legacy credential variables, only where the key is still empty
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// FLIGHTWISE_SEARCH_TIMEOUT -> search_timeout; underscores are kept to
	// match the flat koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Slices are decoded fresh so a shorter list replaces the default.
	cfg := *base
	cfg.Currencies = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if len(cfg.Currencies) == 0 {
		cfg.Currencies = append([]string(nil), base.Currencies...)
	}

	for _, lk := range legacyKeys {
		dst := lk.set(&cfg)
		if *dst != "" {
			continue
		}
		for _, name := range lk.names {
			if v := os.Getenv(name); v != "" {
				*dst = v
				break
			}
		}
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	for i, c := range cfg.Currencies {
		cfg.Currencies[i] = strings.ToUpper(strings.TrimSpace(c))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. Missing credentials are not an error here:
// the server starts and reports them on the first call.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Provider != ProviderGroq && c.Provider != ProviderGemini:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	case c.Temperature < 0 || c.Temperature > 2:
		return fmt.Errorf("%w: temperature must be within [0, 2]", ErrInvalidConfig)
	case c.TopP <= 0 || c.TopP > 1:
		return fmt.Errorf("%w: top_p must be within (0, 1]", ErrInvalidConfig)
	case c.MaxOutputTokens <= 0:
		return fmt.Errorf("%w: max_output_tokens must be positive", ErrInvalidConfig)
	case c.SearchTimeout < 0 || c.AnalysisTimeout < 0:
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}
	return nil
}
