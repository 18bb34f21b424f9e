package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/spf13/cast"

	"github.com/okian/flightwise/internal/domain/model"
	"github.com/okian/flightwise/pkg/logger"
)

const (
	maxSearchBody   = 64 << 10
	defaultAdults   = 1
	defaultCurrency = "USD"
)

// searchRequest mirrors the OpenAPI schema for POST /search and POST /flights.
// Adults is accepted as a number or a numeric string, as form posts send it.
type searchRequest struct {
	DepartureID  string `json:"departure_id"`
	ArrivalID    string `json:"arrival_id"`
	OutboundDate string `json:"outbound_date"`
	ReturnDate   string `json:"return_date"`
	Currency     string `json:"currency"`
	Adults       any    `json:"adults"`
	Preferences  string `json:"preferences"`
}

func (s searchRequest) params() (model.SearchParams, error) {
	adults := defaultAdults
	if s.Adults != nil {
		if f, ok := s.Adults.(float64); ok && f != math.Trunc(f) {
			return model.SearchParams{}, errors.New("adults must be a whole number")
		}
		n, err := cast.ToIntE(s.Adults)
		if err != nil {
			return model.SearchParams{}, fmt.Errorf("adults must be a number: %w", err)
		}
		adults = n
	}
	currency := strings.ToUpper(strings.TrimSpace(s.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	return model.SearchParams{
		DepartureID:  strings.ToUpper(strings.TrimSpace(s.DepartureID)),
		ArrivalID:    strings.ToUpper(strings.TrimSpace(s.ArrivalID)),
		OutboundDate: strings.TrimSpace(s.OutboundDate),
		ReturnDate:   strings.TrimSpace(s.ReturnDate),
		Currency:     currency,
		Adults:       adults,
	}, nil
}

type flightsResponse struct {
	RequestID string               `json:"request_id"`
	Flights   []model.FlightOption `json:"flights"`
}

type searchResponse struct {
	RequestID string               `json:"request_id"`
	Flights   []model.FlightOption `json:"flights"`
	Analysis  string               `json:"analysis"`
}

// SearchHandler handles full interactions and flight-only searches.
type SearchHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies, log logger.Logger) *SearchHandler {
	return &SearchHandler{deps: deps, log: log}
}

// HandleSearch handles POST /search requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	req, params, ok := h.decode(w, r, op)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Preferences) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing preferences")))
		return
	}

	res, err := h.deps.Search(r.Context(), params, req.Preferences)
	if err != nil {
		fail(r.Context(), w, h.log, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{RequestID: res.RequestID, Flights: res.Flights, Analysis: res.Analysis})
}

// HandleFlights handles POST /flights requests.
func (h *SearchHandler) HandleFlights(w http.ResponseWriter, r *http.Request) {
	const op = "api.flights"
	_, params, ok := h.decode(w, r, op)
	if !ok {
		return
	}

	res, err := h.deps.Flights(r.Context(), params)
	if err != nil {
		fail(r.Context(), w, h.log, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, flightsResponse{RequestID: res.RequestID, Flights: res.Flights})
}

func (h *SearchHandler) decode(w http.ResponseWriter, r *http.Request, op string) (searchRequest, model.SearchParams, bool) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return searchRequest{}, model.SearchParams{}, false
	}
	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSearchBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return searchRequest{}, model.SearchParams{}, false
	}
	params, err := req.params()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return searchRequest{}, model.SearchParams{}, false
	}
	return req, params, true
}
