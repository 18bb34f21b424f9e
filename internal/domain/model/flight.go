// Package model contains domain models passed between layers.
package model

import "encoding/json"

// RawSearchResult is the undecoded document returned by the flight-search
// collaborator. It is only trusted after the normalizer has validated it.
type RawSearchResult = json.RawMessage

// FlightOption is one normalized itinerary.
type FlightOption struct {
	Price         float64         `json:"price"`          // upstream currency amount, verbatim
	TotalDuration int             `json:"total_duration"` // minutes
	Segments      []FlightSegment `json:"segments"`       // chronological, as given upstream
	Layovers      []Layover       `json:"layovers"`       // never nil
}

// FlightSegment is one flown leg of a FlightOption.
type FlightSegment struct {
	FlightNumber     string  `json:"flight_number"`
	TravelClass      string  `json:"travel_class"`
	DepartureAirport Airport `json:"departure_airport"`
	ArrivalAirport   Airport `json:"arrival_airport"`
	Duration         int     `json:"duration"` // minutes
}

// Airport identifies one end of a segment. Time is kept in the upstream format.
type Airport struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

// Layover is a connection between two segments.
type Layover struct {
	Airport  string `json:"airport"`
	Duration int    `json:"duration"` // minutes
}
