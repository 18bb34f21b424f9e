package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/flightwise/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Provider, convey.ShouldEqual, "groq")
				convey.So(cfg.Currencies, convey.ShouldResemble, []string{"USD", "EUR", "GBP"})
				convey.So(cfg.AnalysisTimeout, convey.ShouldEqual, 60*time.Second)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FLIGHTWISE_ADDR", ":8080")
			_ = os.Setenv("FLIGHTWISE_PROVIDER", "Gemini")
			_ = os.Setenv("FLIGHTWISE_TEMPERATURE", "0.2")
			_ = os.Setenv("FLIGHTWISE_MAX_OUTPUT_TOKENS", "2048")
			_ = os.Setenv("FLIGHTWISE_SEARCH_TIMEOUT", "5s")
			_ = os.Setenv("FLIGHTWISE_CURRENCIES", "usd")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Provider, convey.ShouldEqual, config.ProviderGemini)
				convey.So(cfg.Temperature, convey.ShouldEqual, 0.2)
				convey.So(cfg.MaxOutputTokens, convey.ShouldEqual, 2048)
				convey.So(cfg.SearchTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.Currencies, convey.ShouldResemble, []string{"USD"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# serving
addr: ":9090"
log_format: json
serpapi_key: from-file
model: llama-3.1-8b-instant
analysis_timeout: 90s
currencies: [USD, JPY]
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FLIGHTWISE_CONFIG", tmpFile)
			_ = os.Setenv("FLIGHTWISE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.SerpAPIKey, convey.ShouldEqual, "from-file")
				convey.So(cfg.ResolvedModel(), convey.ShouldEqual, "llama-3.1-8b-instant")
				convey.So(cfg.AnalysisTimeout, convey.ShouldEqual, 90*time.Second)
				convey.So(cfg.Currencies, convey.ShouldResemble, []string{"USD", "JPY"})
				convey.So(cfg.TopP, convey.ShouldEqual, 1.0)
			})
		})

		convey.Convey("When only the legacy credential variables are set", func() {
			_ = os.Setenv("SERP_API_KEY", "legacy-serp")
			_ = os.Setenv("GROQ", "legacy-groq")
			_ = os.Setenv("FLIGHTWISE_GEMINI_API_KEY", "new-gemini")
			_ = os.Setenv("GEMINI_API_KEY", "legacy-gemini")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they fill only the empty keys", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SerpAPIKey, convey.ShouldEqual, "legacy-serp")
				convey.So(cfg.GroqAPIKey, convey.ShouldEqual, "legacy-groq")
				convey.So(cfg.GeminiAPIKey, convey.ShouldEqual, "new-gemini")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FLIGHTWISE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FLIGHTWISE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("FLIGHTWISE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the provider is unknown", func() {
			_ = os.Setenv("FLIGHTWISE_PROVIDER", "openai")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a numeric variable is not a number", func() {
			_ = os.Setenv("FLIGHTWISE_MAX_OUTPUT_TOKENS", "lots")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"FLIGHTWISE_CONFIG",
		"FLIGHTWISE_ADDR",
		"FLIGHTWISE_PROVIDER",
		"FLIGHTWISE_TEMPERATURE",
		"FLIGHTWISE_MAX_OUTPUT_TOKENS",
		"FLIGHTWISE_SEARCH_TIMEOUT",
		"FLIGHTWISE_CURRENCIES",
		"FLIGHTWISE_GEMINI_API_KEY",
		"SERP_API_KEY",
		"SERPAPI_API_KEY",
		"GROQ",
		"GROQ_API_KEY",
		"GEMINI_API_KEY",
		"GOOGLE_API_KEY",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "flightwise-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
