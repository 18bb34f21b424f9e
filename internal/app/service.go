// Package service runs one flight interaction: search, normalize, analyze.
// The steps are strictly sequential and any failure aborts the interaction.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/flightwise/internal/domain/analysis"
	"github.com/okian/flightwise/internal/domain/model"
	"github.com/okian/flightwise/internal/domain/normalize"
	"github.com/okian/flightwise/internal/domain/search"
	"github.com/okian/flightwise/pkg/logger"
	"github.com/okian/flightwise/pkg/metrics"
)

// Interaction kinds.
const (
	KindSearch  = "search"
	KindFlights = "flights"
	KindAnalyze = "analyze"
)

// Result is the outcome of a full interaction.
type Result struct {
	RequestID string               `json:"request_id"`
	Flights   []model.FlightOption `json:"flights"`
	Analysis  string               `json:"analysis,omitempty"`
}

// Stats is a snapshot of service counters.
type Stats struct {
	Provider        string           `json:"provider"`
	Interactions    int64            `json:"interactions"`
	Succeeded       int64            `json:"succeeded"`
	Failed          int64            `json:"failed"`
	FailuresByKind  map[string]int64 `json:"failures_by_kind"`
	LastLatencyMs   int64            `json:"last_latency_ms"`
	SearchTimeout   string           `json:"search_timeout"`
	AnalysisTimeout string           `json:"analysis_timeout"`
}

// Service implements the API dependencies for flight interactions.
type Service struct {
	searcher   search.Searcher
	normalizer *normalize.Normalizer
	requester  *analysis.Requester

	provider        string
	currencies      []string
	searchTimeout   time.Duration
	analysisTimeout time.Duration

	interactions  atomic.Int64
	succeeded     atomic.Int64
	lastLatencyMs atomic.Int64
	failures      sync.Map // kind -> *atomic.Int64

	logger logger.Logger
}

// New constructs a Service. Collaborators come from options; the normalizer
// defaults to the embedded-schema one.
func New(opts ...Option) *Service {
	s := &Service{
		provider:        "groq",
		currencies:      search.DefaultCurrencies,
		searchTimeout:   30 * time.Second,
		analysisTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.normalizer == nil {
		s.normalizer = normalize.MustNew()
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

// Search runs search, normalization and analysis for params and preferences.
func (s *Service) Search(ctx context.Context, params model.SearchParams, preferences string) (Result, error) {
	ctx, id := ensureRequestID(ctx)
	start := time.Now()
	log := s.logger.With(logger.String("request_id", id))
	log.Info(ctx, "interaction started",
		logger.String("kind", KindSearch),
		logger.String("route", params.DepartureID+"-"+params.ArrivalID),
	)

	flights, err := s.flights(ctx, params)
	if err != nil {
		s.finish(ctx, log, KindSearch, start, err)
		return Result{}, err
	}

	text, err := s.analyze(ctx, flights, preferences)
	if err != nil {
		s.finish(ctx, log, KindSearch, start, err)
		return Result{}, err
	}

	s.finish(ctx, log, KindSearch, start, nil, logger.Int("options", len(flights)))
	return Result{RequestID: id, Flights: flights, Analysis: text}, nil
}

// Flights runs search and normalization only.
func (s *Service) Flights(ctx context.Context, params model.SearchParams) (Result, error) {
	ctx, id := ensureRequestID(ctx)
	start := time.Now()
	log := s.logger.With(logger.String("request_id", id))

	flights, err := s.flights(ctx, params)
	s.finish(ctx, log, KindFlights, start, err, logger.Int("options", len(flights)))
	if err != nil {
		return Result{}, err
	}
	return Result{RequestID: id, Flights: flights}, nil
}

// Analyze runs analysis over caller-supplied flights.
func (s *Service) Analyze(ctx context.Context, flights []model.FlightOption, preferences string) (string, error) {
	ctx, id := ensureRequestID(ctx)
	start := time.Now()
	log := s.logger.With(logger.String("request_id", id))

	text, err := s.analyze(ctx, flights, preferences)
	s.finish(ctx, log, KindAnalyze, start, err, logger.Int("options", len(flights)))
	if err != nil {
		return "", err
	}
	return text, nil
}

func (s *Service) flights(ctx context.Context, params model.SearchParams) ([]model.FlightOption, error) {
	if err := search.ValidateParams(params, s.currencies); err != nil {
		return nil, err
	}
	if s.searcher == nil {
		return nil, fmt.Errorf("%w: searcher", ErrNotConfigured)
	}

	sctx, cancel := withTimeout(ctx, s.searchTimeout)
	defer cancel()

	start := time.Now()
	raw, err := s.searcher.Search(sctx, params)
	metrics.RecordSearch(outcome(err), float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, fmt.Errorf("search flights: %w", err)
	}

	flights, err := s.normalizer.Normalize(raw)
	if err != nil {
		metrics.RecordMalformedPayload()
		return nil, fmt.Errorf("normalize search result: %w", err)
	}
	metrics.RecordNormalized(len(flights))
	return flights, nil
}

func (s *Service) analyze(ctx context.Context, flights []model.FlightOption, preferences string) (string, error) {
	if s.requester == nil {
		return "", fmt.Errorf("%w: requester", ErrNotConfigured)
	}

	actx, cancel := withTimeout(ctx, s.analysisTimeout)
	defer cancel()

	start := time.Now()
	text, err := s.requester.Analyze(actx, flights, preferences)
	metrics.RecordGeneration(s.provider, outcome(err), float64(time.Since(start).Milliseconds()))
	if err != nil {
		return "", fmt.Errorf("analyze flights: %w", err)
	}
	return text, nil
}

func (s *Service) finish(ctx context.Context, log logger.Logger, kind string, start time.Time, err error, fields ...logger.Field) {
	elapsed := time.Since(start)
	s.interactions.Add(1)
	s.lastLatencyMs.Store(elapsed.Milliseconds())
	metrics.RecordInteraction(kind, outcome(err), float64(elapsed.Milliseconds()))

	fields = append(fields, logger.String("kind", kind), logger.Duration("elapsed", elapsed))
	if err != nil {
		failure := FailureKind(err)
		s.failureCounter(failure).Add(1)
		log.Error(ctx, "interaction failed", append(fields, logger.String("failure", failure), logger.Error(err))...)
		return
	}
	s.succeeded.Add(1)
	log.Info(ctx, "interaction completed", fields...)
}

func (s *Service) failureCounter(kind string) *atomic.Int64 {
	c, _ := s.failures.LoadOrStore(kind, new(atomic.Int64))
	return c.(*atomic.Int64)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	st := Stats{
		Provider:        s.provider,
		Interactions:    s.interactions.Load(),
		Succeeded:       s.succeeded.Load(),
		FailuresByKind:  map[string]int64{},
		LastLatencyMs:   s.lastLatencyMs.Load(),
		SearchTimeout:   s.searchTimeout.String(),
		AnalysisTimeout: s.analysisTimeout.String(),
	}
	s.failures.Range(func(k, v any) bool {
		n := v.(*atomic.Int64).Load()
		st.FailuresByKind[k.(string)] = n
		st.Failed += n
		return true
	})
	return st
}

// FailureKind classifies err for stats and logs.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, search.ErrInvalidParams):
		return FailureInvalidParams
	case errors.Is(err, normalize.ErrMalformedUpstreamData):
		return FailureMalformed
	case errors.Is(err, search.ErrSearchService):
		return FailureSearch
	case errors.Is(err, analysis.ErrGenerationService):
		return FailureGeneration
	default:
		return FailureOther
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func outcome(err error) string {
	if err != nil {
		return metrics.OutcomeFailure
	}
	return metrics.OutcomeSuccess
}
