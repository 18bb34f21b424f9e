package analysis

import "errors"

// Sentinel kinds for analysis errors.
var (
	// ErrGenerationService marks a failed call to the text-generation
	// collaborator (rate limit, auth, timeout, empty completion).
	ErrGenerationService = errors.New("generation service error")
	// ErrEmptyCompletion is joined with ErrGenerationService when the
	// collaborator answered without any choice.
	ErrEmptyCompletion = errors.New("completion has no choices")
)
