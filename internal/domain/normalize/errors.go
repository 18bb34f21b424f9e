package normalize

import (
	"errors"
	"strings"
)

// ErrMalformedUpstreamData marks a search result that is missing a required
// key or carries a value of the wrong shape.
var ErrMalformedUpstreamData = errors.New("malformed upstream data")

// MalformedError lists every violation found in one result set.
type MalformedError struct {
	Problems []string
}

func (e *MalformedError) Error() string {
	if len(e.Problems) == 0 {
		return ErrMalformedUpstreamData.Error()
	}
	return ErrMalformedUpstreamData.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *MalformedError) Unwrap() error { return ErrMalformedUpstreamData }

func malformed(problems ...string) error {
	return &MalformedError{Problems: problems}
}
