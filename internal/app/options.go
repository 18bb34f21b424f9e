package service

import (
	"time"

	"github.com/okian/flightwise/internal/domain/analysis"
	"github.com/okian/flightwise/internal/domain/normalize"
	"github.com/okian/flightwise/internal/domain/search"
	"github.com/okian/flightwise/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSearcher sets the flight-search collaborator.
func WithSearcher(s search.Searcher) Option {
	return func(svc *Service) {
		if s != nil {
			svc.searcher = s
		}
	}
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(svc *Service) {
		if n != nil {
			svc.normalizer = n
		}
	}
}

// WithRequester sets the analysis requester.
func WithRequester(r *analysis.Requester) Option {
	return func(svc *Service) {
		if r != nil {
			svc.requester = r
		}
	}
}

// WithProvider names the generation backend for metrics and stats.
func WithProvider(name string) Option {
	return func(svc *Service) {
		if name != "" {
			svc.provider = name
		}
	}
}

// WithCurrencies sets the currencies accepted by parameter validation.
func WithCurrencies(currencies []string) Option {
	return func(svc *Service) {
		if len(currencies) > 0 {
			svc.currencies = currencies
		}
	}
}

// WithSearchTimeout bounds each search call. Zero disables the bound.
func WithSearchTimeout(d time.Duration) Option {
	return func(svc *Service) {
		if d >= 0 {
			svc.searchTimeout = d
		}
	}
}

// WithAnalysisTimeout bounds each generation call. Zero disables the bound.
func WithAnalysisTimeout(d time.Duration) Option {
	return func(svc *Service) {
		if d >= 0 {
			svc.analysisTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}
