// Package serpapi implements search.Searcher on top of the SerpApi
// google_flights engine.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cast"

	"github.com/okian/flightwise/internal/domain/model"
	"github.com/okian/flightwise/internal/domain/search"
	"github.com/okian/flightwise/pkg/logger"
	"github.com/okian/flightwise/pkg/metrics"
)

const (
	// DefaultBaseURL is the public SerpApi endpoint.
	DefaultBaseURL = "https://serpapi.com"
	// Engine selects the Google Flights backend.
	Engine = "google_flights"

	searchPath   = "/search.json"
	maxBodyBytes = 16 << 20
	component    = "serpapi"
)

// Client queries SerpApi. It keeps no per-request state.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	country  string
	http     *http.Client
	log      logger.Logger
}

var _ search.Searcher = (*Client)(nil)

// New returns a Client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  DefaultBaseURL,
		language: "en",
		country:  "us",
		http:     http.DefaultClient,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// Query renders the request parameters for p, api key included.
func (c *Client) Query(p model.SearchParams) url.Values {
	q := url.Values{}
	q.Set("engine", Engine)
	q.Set("departure_id", p.DepartureID)
	q.Set("arrival_id", p.ArrivalID)
	q.Set("outbound_date", p.OutboundDate)
	q.Set("return_date", p.ReturnDate)
	q.Set("currency", p.Currency)
	q.Set("hl", c.language)
	q.Set("gl", c.country)
	q.Set("adults", cast.ToString(p.Adults))
	q.Set("api_key", c.apiKey)
	return q
}

// Search runs one google_flights query and returns the undecoded result.
func (c *Client) Search(ctx context.Context, p model.SearchParams) (model.RawSearchResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: api key is not configured", search.ErrSearchService)
	}

	endpoint := c.baseURL + searchPath + "?" + c.Query(p).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", search.ErrSearchService, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordErrorByComponent(component, "transport")
		return nil, fmt.Errorf("%w: %w", search.ErrSearchService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordErrorByComponent(component, "read")
		return nil, fmt.Errorf("%w: read response: %w", search.ErrSearchService, err)
	}

	msg := upstreamError(body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordErrorByComponent(component, "status")
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.log.Warn(ctx, "search rejected",
			logger.Int("status", resp.StatusCode),
			logger.String("message", msg),
		)
		return nil, fmt.Errorf("%w: status %d: %s", search.ErrSearchService, resp.StatusCode, msg)
	}
	if msg != "" {
		metrics.RecordErrorByComponent(component, "error_field")
		return nil, fmt.Errorf("%w: %s", search.ErrSearchService, msg)
	}

	c.log.Debug(ctx, "search completed",
		logger.String("route", p.DepartureID+"-"+p.ArrivalID),
		logger.Int("bytes", len(body)),
	)
	return model.RawSearchResult(body), nil
}

// upstreamError extracts the top-level "error" message, if any. Bodies that
// are not JSON objects are left to the normalizer.
func upstreamError(body []byte) string {
	var envelope struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return ""
	}
	return cast.ToString(envelope.Error)
}
