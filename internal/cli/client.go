package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/flightwise/internal/domain/model"
)

// ErrServer marks a non-2xx answer from the flightwise server.
var ErrServer = errors.New("server error")

// SearchRequest is the body of POST /search and POST /flights.
type SearchRequest struct {
	model.SearchParams
	Preferences string `json:"preferences,omitempty"`
}

// SearchResponse is the body returned by POST /search and POST /flights.
type SearchResponse struct {
	RequestID string               `json:"request_id"`
	Flights   []model.FlightOption `json:"flights"`
	Analysis  string               `json:"analysis,omitempty"`
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// Client talks to a running flightwise server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for baseURL with an overall request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Search posts a full interaction.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	return c.post(ctx, "/search", req)
}

// Flights posts a search without analysis.
func (c *Client) Flights(ctx context.Context, params model.SearchParams) (SearchResponse, error) {
	return c.post(ctx, "/flights", SearchRequest{SearchParams: params})
}

func (c *Client) post(ctx context.Context, path string, body any) (SearchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return SearchResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && e.Code != "" {
			return SearchResponse{}, fmt.Errorf("%w: %s (%d): %s [request %s]", ErrServer, e.Code, resp.StatusCode, e.Message, e.RequestID)
		}
		return SearchResponse{}, fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	}

	var out SearchResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return SearchResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
