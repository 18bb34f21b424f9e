package search

import "errors"

// Sentinel kinds for search errors.
var (
	// ErrSearchService marks a failed call to the flight-search collaborator
	// (auth, network, quota, upstream-reported error).
	ErrSearchService = errors.New("search service error")
	// ErrInvalidParams marks search parameters rejected before any call.
	ErrInvalidParams = errors.New("invalid search params")
)
