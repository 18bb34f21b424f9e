// Package normalize flattens a raw google_flights search result into
// ordered model.FlightOption records.
//
// The raw document is validated against an embedded JSON Schema before it is
// decoded, so a missing key is reported as ErrMalformedUpstreamData with the
// offending path instead of surfacing as a zero value. Nothing is defaulted:
// one malformed option rejects the whole result set.
package normalize

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"github.com/okian/flightwise/internal/domain/model"
)

// Bucket keys in priority order.
const (
	BucketBest  = "best_flights"
	BucketOther = "other_flights"
)

var bucketOrder = []string{BucketBest, BucketOther}

//go:embed schema.json
var schemaJSON []byte

// upstream shapes; durations decode as float64 because the schema accepts
// integral numbers written with a fraction (620.0).
type rawAirport struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

type rawLeg struct {
	FlightNumber     string     `json:"flight_number"`
	TravelClass      string     `json:"travel_class"`
	DepartureAirport rawAirport `json:"departure_airport"`
	ArrivalAirport   rawAirport `json:"arrival_airport"`
	Duration         float64    `json:"duration"`
}

type rawLayover struct {
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
}

type rawOption struct {
	Price         float64      `json:"price"`
	TotalDuration float64      `json:"total_duration"`
	Flights       []rawLeg     `json:"flights"`
	Layovers      []rawLayover `json:"layovers"`
}

// Normalizer converts raw search results into FlightOption sequences.
// It holds only the compiled schema and is safe for concurrent use.
type Normalizer struct {
	schema *gojsonschema.Schema
}

// New compiles the embedded schema.
func New() (*Normalizer, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile search result schema: %w", err)
	}
	return &Normalizer{schema: schema}, nil
}

// MustNew is New for package-level wiring; the schema is static so a
// failure is a build defect.
func MustNew() *Normalizer {
	n, err := New()
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize validates raw and returns its options, primary bucket first,
// each bucket in upstream order. A result without either bucket yields an
// empty slice.
func (n *Normalizer) Normalize(raw model.RawSearchResult) ([]model.FlightOption, error) {
	if len(raw) == 0 {
		return nil, malformed("empty document")
	}

	res, err := n.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, malformed(fmt.Sprintf("(root): %v", err))
	}
	if !res.Valid() {
		problems := make([]string, 0, len(res.Errors()))
		for _, re := range res.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
		}
		sort.Strings(problems)
		return nil, malformed(problems...)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, malformed(fmt.Sprintf("(root): %v", err))
	}

	out := make([]model.FlightOption, 0)
	for _, key := range bucketOrder {
		bucket, ok := doc[key]
		if !ok {
			continue
		}
		var options []rawOption
		if err := json.Unmarshal(bucket, &options); err != nil {
			return nil, malformed(fmt.Sprintf("%s: %v", key, err))
		}
		for _, o := range options {
			out = append(out, convertOption(o))
		}
	}
	return out, nil
}

func convertOption(o rawOption) model.FlightOption {
	opt := model.FlightOption{
		Price:         o.Price,
		TotalDuration: int(o.TotalDuration),
		Segments:      make([]model.FlightSegment, 0, len(o.Flights)),
		Layovers:      make([]model.Layover, 0, len(o.Layovers)),
	}
	for _, leg := range o.Flights {
		opt.Segments = append(opt.Segments, model.FlightSegment{
			FlightNumber:     leg.FlightNumber,
			TravelClass:      leg.TravelClass,
			DepartureAirport: model.Airport(leg.DepartureAirport),
			ArrivalAirport:   model.Airport(leg.ArrivalAirport),
			Duration:         int(leg.Duration),
		})
	}
	for _, l := range o.Layovers {
		opt.Layovers = append(opt.Layovers, model.Layover{
			Airport:  l.Name,
			Duration: int(l.Duration),
		})
	}
	return opt
}
