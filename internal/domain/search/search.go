// Package search defines the flight-search collaborator contract.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/flightwise/internal/domain/model"
)

// DateLayout is the wire format of outbound and return dates.
const DateLayout = "2006-01-02"

// DefaultCurrencies are the currencies offered by the search form.
var DefaultCurrencies = []string{"USD", "EUR", "GBP"}

// Searcher queries a flight-search service. Implementations must honor ctx
// and wrap their failures in ErrSearchService.
type Searcher interface {
	Search(ctx context.Context, p model.SearchParams) (model.RawSearchResult, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, p model.SearchParams) (model.RawSearchResult, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, p model.SearchParams) (model.RawSearchResult, error) {
	return f(ctx, p)
}

// ValidateParams applies the constraints of the search form: both airport
// codes set, dates in DateLayout, return not before outbound, at least one
// adult and a currency from allowed (DefaultCurrencies when empty).
func ValidateParams(p model.SearchParams, allowed []string) error {
	if len(allowed) == 0 {
		allowed = DefaultCurrencies
	}
	switch {
	case strings.TrimSpace(p.DepartureID) == "":
		return fmt.Errorf("%w: missing departure_id", ErrInvalidParams)
	case strings.TrimSpace(p.ArrivalID) == "":
		return fmt.Errorf("%w: missing arrival_id", ErrInvalidParams)
	case p.Adults < 1:
		return fmt.Errorf("%w: adults must be at least 1", ErrInvalidParams)
	}

	outbound, err := time.Parse(DateLayout, p.OutboundDate)
	if err != nil {
		return fmt.Errorf("%w: outbound_date must be YYYY-MM-DD", ErrInvalidParams)
	}
	ret, err := time.Parse(DateLayout, p.ReturnDate)
	if err != nil {
		return fmt.Errorf("%w: return_date must be YYYY-MM-DD", ErrInvalidParams)
	}
	if ret.Before(outbound) {
		return fmt.Errorf("%w: return_date is before outbound_date", ErrInvalidParams)
	}

	for _, c := range allowed {
		if strings.EqualFold(c, p.Currency) {
			return nil
		}
	}
	return fmt.Errorf("%w: unsupported currency %q", ErrInvalidParams, p.Currency)
}
