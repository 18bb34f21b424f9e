package model

// SearchParams are the user-supplied inputs of one flight search.
// Dates use YYYY-MM-DD.
type SearchParams struct {
	DepartureID  string `json:"departure_id"`
	ArrivalID    string `json:"arrival_id"`
	OutboundDate string `json:"outbound_date"`
	ReturnDate   string `json:"return_date"`
	Currency     string `json:"currency"`
	Adults       int    `json:"adults"`
}
