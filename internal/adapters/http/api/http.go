// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/flightwise/internal/app"
	"github.com/okian/flightwise/internal/domain/model"
	"github.com/okian/flightwise/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Search(ctx context.Context, params model.SearchParams, preferences string) (service.Result, error)
	Flights(ctx context.Context, params model.SearchParams) (service.Result, error)
	Analyze(ctx context.Context, flights []model.FlightOption, preferences string) (string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	searchHandler  *SearchHandler
	analyzeHandler *AnalyzeHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		searchHandler:  NewSearchHandler(deps, log),
		analyzeHandler: NewAnalyzeHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/search", MetricsMiddleware(RequestIDMiddleware(s.searchHandler.HandleSearch), "search"))
	mux.HandleFunc("/flights", MetricsMiddleware(RequestIDMiddleware(s.searchHandler.HandleFlights), "flights"))
	mux.HandleFunc("/analyze", MetricsMiddleware(RequestIDMiddleware(s.analyzeHandler.HandleAnalyze), "analyze"))
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	markError(w, code)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: w.Header().Get(RequestIDHeader)})
}

// fail writes the response for an interaction error and logs it.
func fail(ctx context.Context, w http.ResponseWriter, log logger.Logger, op string, err error) {
	status, code := classify(err)
	log.Warn(ctx, "request failed",
		logger.String("op", op),
		logger.String("code", code),
		logger.Int("status", status),
		logger.Error(err),
	)
	writeError(w, status, code, err)
}
