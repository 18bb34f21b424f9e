package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/flightwise/internal/app"
	"github.com/okian/flightwise/internal/domain/analysis"
	"github.com/okian/flightwise/internal/domain/normalize"
	"github.com/okian/flightwise/internal/domain/search"
)

// Sentinel kinds for API errors.
var (
	ErrServe      = errors.New("http serve failed")
	ErrBadRequest = errors.New("bad request")
)

// Error tags a failure with the handler operation that saw it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Kind != nil {
		parts = append(parts, e.Kind.Error())
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap tags err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind tags err with op and a sentinel kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// NewKind reports a kind with no underlying cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// classify maps an interaction error to a status and response code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, ErrBadRequest), errors.Is(err, search.ErrInvalidParams):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, normalize.ErrMalformedUpstreamData):
		return http.StatusBadGateway, "malformed_upstream"
	case errors.Is(err, search.ErrSearchService):
		return http.StatusBadGateway, "search_failed"
	case errors.Is(err, analysis.ErrGenerationService):
		return http.StatusBadGateway, "generation_failed"
	case errors.Is(err, service.ErrNotConfigured):
		return http.StatusInternalServerError, "not_configured"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
