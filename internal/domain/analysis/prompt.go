package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/okian/flightwise/internal/domain/model"
)

// SystemPrompt frames the generation service as a flight recommendations expert.
const SystemPrompt = "You are a flight recommendations expert who analyzes flight options based on user preferences."

var promptTemplate = template.Must(template.New("analysis").Parse(`Analyze these flight options based on the following user preferences: {{.Preferences}}

Flight data:
{{.Flights}}

Please provide:
1. Top 3 recommended flights based on the preferences
2. Pros and cons for each recommendation
3. Overall best choice with justification
`))

// BuildPrompt serializes flights as indented JSON and embeds them, with the
// literal preference string, into the analysis instruction.
func BuildPrompt(flights []model.FlightOption, preferences string) (string, error) {
	if flights == nil {
		flights = []model.FlightOption{}
	}
	data, err := json.MarshalIndent(flights, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize flights: %w", err)
	}

	var b strings.Builder
	err = promptTemplate.Execute(&b, struct {
		Preferences string
		Flights     string
	}{Preferences: preferences, Flights: string(data)})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}
