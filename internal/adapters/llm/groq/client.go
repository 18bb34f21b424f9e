// Package groq implements analysis.Generator against Groq's
// OpenAI-compatible chat completions endpoint.
package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/okian/flightwise/internal/domain/analysis"
	"github.com/okian/flightwise/pkg/logger"
	"github.com/okian/flightwise/pkg/metrics"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible API root.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// Provider names this backend in metrics and config.
	Provider = "groq"
)

// Client calls the chat completions endpoint once per Generate.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     logger.Logger
	sdk     openai.Client
}

var _ analysis.Generator = (*Client)(nil)

// New returns a Client using bearer apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    http.DefaultClient,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sdk = openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(strings.TrimRight(c.baseURL, "/")+"/"),
		option.WithHTTPClient(c.http),
		option.WithMaxRetries(0),
	)
	return c
}

// Generate submits req and returns every choice's message content.
func (c *Client) Generate(ctx context.Context, req analysis.Request) (analysis.Completion, error) {
	if c.apiKey == "" {
		return analysis.Completion{}, fmt.Errorf("%w: %s api key is not configured", analysis.ErrGenerationService, Provider)
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, toParams(req))
	if err != nil {
		err = describe(err)
		c.log.Warn(ctx, "completion rejected", logger.String("model", req.Model), logger.Error(err))
		return analysis.Completion{}, err
	}

	out := analysis.Completion{Choices: make([]string, 0, len(resp.Choices))}
	for _, ch := range resp.Choices {
		out.Choices = append(out.Choices, ch.Message.Content)
	}
	return out, nil
}

func toParams(req analysis.Request) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == analysis.RoleSystem {
			msgs = append(msgs, openai.SystemMessage(m.Content))
			continue
		}
		msgs = append(msgs, openai.UserMessage(m.Content))
	}
	return openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(req.Model),
		Messages:            msgs,
		Temperature:         openai.Float(req.Temperature),
		MaxCompletionTokens: openai.Int(int64(req.MaxOutputTokens)),
		TopP:                openai.Float(req.TopP),
	}
}

// describe tags SDK failures with ErrGenerationService. Status failures
// name rate limiting and rejected keys explicitly.
func describe(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		metrics.RecordErrorByComponent(Provider, "transport")
		return fmt.Errorf("%w: %s: %w", analysis.ErrGenerationService, Provider, err)
	}
	metrics.RecordErrorByComponent(Provider, "status")

	kind := "request failed"
	switch apiErr.StatusCode {
	case http.StatusTooManyRequests:
		kind = "rate limited"
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = "authentication failed"
	}
	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(apiErr.StatusCode)
	}
	return fmt.Errorf("%w: %s %s (status %d): %s: %w", analysis.ErrGenerationService, Provider, kind, apiErr.StatusCode, msg, err)
}
