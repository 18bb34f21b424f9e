package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrNotConfigured marks a call that needs a collaborator the service
	// was built without.
	ErrNotConfigured = errors.New("service collaborator not configured")
)

// Failure kinds reported by GetStats.
const (
	FailureInvalidParams = "invalid_params"
	FailureSearch        = "search"
	FailureMalformed     = "malformed_upstream"
	FailureGeneration    = "generation"
	FailureTimeout       = "timeout"
	FailureOther         = "other"
)
