// Package gemini implements analysis.Generator with the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/okian/flightwise/internal/domain/analysis"
	"github.com/okian/flightwise/pkg/logger"
	"github.com/okian/flightwise/pkg/metrics"
)

const (
	// Provider names this backend in metrics and config.
	Provider = "gemini"
	// DefaultModel is used when a request does not name one.
	DefaultModel = "gemini-2.0-flash"
)

// contentGenerator is the subset of *genai.Models the client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client sends analysis requests to the Gemini API.
type Client struct {
	models       contentGenerator
	defaultModel string
	log          logger.Logger
}

var _ analysis.Generator = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithDefaultModel sets the model used when a request leaves it empty.
func WithDefaultModel(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.defaultModel = name
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// errMissingKey is returned by every call of a client built without a key.
var errMissingKey = errors.New("api key is not configured")

// unconfigured stands in for the SDK when no key was supplied.
type unconfigured struct{}

func (unconfigured) GenerateContent(context.Context, string, []*genai.Content,
	*genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	return nil, errMissingKey
}

// New builds a Gemini API backed client. With an empty apiKey the client is
// still returned and every Generate fails with analysis.ErrGenerationService.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return newClient(unconfigured{}, opts...), nil
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newClient(sdk.Models, opts...), nil
}

func newClient(models contentGenerator, opts ...Option) *Client {
	c := &Client{
		models:       models,
		defaultModel: DefaultModel,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate submits req once. Each candidate becomes one choice.
func (c *Client) Generate(ctx context.Context, req analysis.Request) (analysis.Completion, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	contents, cfg := toContents(req)

	resp, err := c.models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		metrics.RecordErrorByComponent(Provider, "request")
		c.log.Warn(ctx, "generate content failed", logger.String("model", model), logger.Error(err))
		return analysis.Completion{}, describe(err)
	}
	return analysis.Completion{Choices: choices(resp)}, nil
}

// toContents maps system messages to the system instruction and the rest
// to user turns.
func toContents(req analysis.Request) ([]*genai.Content, *genai.GenerateContentConfig) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		TopP:            genai.Ptr(float32(req.TopP)),
		MaxOutputTokens: int32(req.MaxOutputTokens), //nolint:gosec // bounded by config validation
	}

	var system []string
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == analysis.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n"), genai.RoleUser)
	}
	return contents, cfg
}

func choices(resp *genai.GenerateContentResponse) []string {
	if resp == nil {
		return []string{}
	}
	out := make([]string, 0, len(resp.Candidates))
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		out = append(out, b.String())
	}
	return out
}

func describe(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s %s (status %d): %w", analysis.ErrGenerationService, Provider, kind(apiErr.Code), apiErr.Code, err)
	}
	return fmt.Errorf("%w: %s: %w", analysis.ErrGenerationService, Provider, err)
}

func kind(code int) string {
	switch code {
	case http.StatusTooManyRequests:
		return "rate limited"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "authentication failed"
	default:
		return "request failed"
	}
}
