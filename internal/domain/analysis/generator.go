package analysis

import "context"

// Role tags a message in the generation request.
type Role string

// Message roles.
const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one role-tagged entry of the conversation sent for generation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is what a Generator receives.
type Request struct {
	Model           string
	Messages        []Message
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
}

// Completion holds the generated texts, primary choice first.
type Completion struct {
	Choices []string
}

// Generator calls a text-generation service once, without retrying.
type Generator interface {
	Generate(ctx context.Context, req Request) (Completion, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (Completion, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (Completion, error) {
	return f(ctx, req)
}
