package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/flightwise/internal/domain/model"
	"github.com/okian/flightwise/pkg/logger"
)

const maxAnalyzeBody = 4 << 20

type analyzeRequest struct {
	Flights     []model.FlightOption `json:"flights"`
	Preferences string               `json:"preferences"`
}

type analyzeResponse struct {
	RequestID string `json:"request_id"`
	Analysis  string `json:"analysis"`
}

// AnalyzeHandler handles analysis of caller-supplied flights.
type AnalyzeHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps Dependencies, log logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, log: log}
}

// HandleAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Preferences) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing preferences")))
		return
	}
	if req.Flights == nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing flights")))
		return
	}

	text, err := h.deps.Analyze(r.Context(), req.Flights, req.Preferences)
	if err != nil {
		fail(r.Context(), w, h.log, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{RequestID: w.Header().Get(RequestIDHeader), Analysis: text})
}
