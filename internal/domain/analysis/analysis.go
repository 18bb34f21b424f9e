// Package analysis turns normalized flight options and a free-text
// preference into a recommendation narrative produced by a text-generation
// service.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/flightwise/internal/domain/model"
	"github.com/okian/flightwise/pkg/metrics"
)

// Requester builds analysis prompts and submits them to a Generator.
type Requester struct {
	gen             Generator
	model           string
	temperature     float64
	maxOutputTokens int
	topP            float64
}

// NewRequester returns a Requester with the default sampling parameters.
func NewRequester(gen Generator, opts ...Option) *Requester {
	r := &Requester{
		gen:             gen,
		model:           DefaultModel,
		temperature:     DefaultTemperature,
		maxOutputTokens: DefaultMaxOutputTokens,
		topP:            DefaultTopP,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Model reports the configured model identifier.
func (r *Requester) Model() string { return r.model }

// NewRequest assembles the generation request for flights and preferences.
func (r *Requester) NewRequest(flights []model.FlightOption, preferences string) (Request, error) {
	prompt, err := BuildPrompt(flights, preferences)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Model: r.model,
		Messages: []Message{
			{Role: RoleSystem, Content: SystemPrompt},
			{Role: RoleUser, Content: prompt},
		},
		Temperature:     r.temperature,
		MaxOutputTokens: r.maxOutputTokens,
		TopP:            r.topP,
	}, nil
}

// Analyze returns the primary completion for flights under preferences.
// Any generator failure surfaces as ErrGenerationService.
func (r *Requester) Analyze(ctx context.Context, flights []model.FlightOption, preferences string) (string, error) {
	if r.gen == nil {
		return "", fmt.Errorf("%w: no generator configured", ErrGenerationService)
	}
	req, err := r.NewRequest(flights, preferences)
	if err != nil {
		return "", err
	}
	metrics.RecordPromptSize(len(req.Messages[len(req.Messages)-1].Content))

	completion, err := r.gen.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, ErrGenerationService) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrGenerationService, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: %w", ErrGenerationService, ErrEmptyCompletion)
	}
	return completion.Choices[0], nil
}
