package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/flightwise/internal/adapters/http/api"
	"github.com/okian/flightwise/internal/adapters/http/site"
	"github.com/okian/flightwise/internal/adapters/http/swagger"
	"github.com/okian/flightwise/internal/adapters/llm/gemini"
	"github.com/okian/flightwise/internal/adapters/llm/groq"
	"github.com/okian/flightwise/internal/adapters/serpapi"
	app "github.com/okian/flightwise/internal/app"
	"github.com/okian/flightwise/internal/config"
	"github.com/okian/flightwise/internal/domain/analysis"
	"github.com/okian/flightwise/internal/domain/normalize"
	"github.com/okian/flightwise/pkg/logger"
)

// writeSlack is added to the collaborator timeouts to size the server's
// write deadline.
const writeSlack = 10 * time.Second

// newGenerator builds the configured generation backend.
func newGenerator(ctx context.Context, cfg *config.Config, log logger.Logger) (analysis.Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return gemini.New(ctx, cfg.GeminiAPIKey,
			gemini.WithDefaultModel(cfg.ResolvedModel()),
			gemini.WithLogger(log.Named("gemini")),
		)
	case config.ProviderGroq:
		var opts []groq.Option
		if cfg.GroqBaseURL != "" {
			opts = append(opts, groq.WithBaseURL(cfg.GroqBaseURL))
		}
		opts = append(opts, groq.WithLogger(log.Named("groq")))
		return groq.New(cfg.GroqAPIKey, opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", config.ErrInvalidConfig, cfg.Provider)
	}
}

// buildService wires the collaborators selected by cfg into a Service.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	normalizer, err := normalize.New()
	if err != nil {
		return nil, err
	}
	gen, err := newGenerator(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	searcher := serpapi.New(cfg.SerpAPIKey,
		serpapi.WithBaseURL(cfg.SerpAPIBaseURL),
		serpapi.WithLanguage(cfg.Language),
		serpapi.WithCountry(cfg.Country),
		serpapi.WithLogger(log.Named("serpapi")),
	)
	requester := analysis.NewRequester(gen,
		analysis.WithModel(cfg.ResolvedModel()),
		analysis.WithTemperature(cfg.Temperature),
		analysis.WithMaxOutputTokens(cfg.MaxOutputTokens),
		analysis.WithTopP(cfg.TopP),
	)

	return app.New(
		app.WithLogger(log),
		app.WithSearcher(searcher),
		app.WithNormalizer(normalizer),
		app.WithRequester(requester),
		app.WithProvider(cfg.Provider),
		app.WithCurrencies(cfg.Currencies),
		app.WithSearchTimeout(cfg.SearchTimeout),
		app.WithAnalysisTimeout(cfg.AnalysisTimeout),
	), nil
}

// newHandler registers docs, the search page and the API on one mux.
func newHandler(ctx context.Context, svc *app.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, log.Named("api")).Register(mux)
	site.Register(ctx, mux)
	return mux
}

// writeTimeout covers a full interaction. Zero when either call is unbounded.
func writeTimeout(cfg *config.Config) time.Duration {
	if cfg.SearchTimeout == 0 || cfg.AnalysisTimeout == 0 {
		return 0
	}
	return cfg.SearchTimeout + cfg.AnalysisTimeout + writeSlack
}
