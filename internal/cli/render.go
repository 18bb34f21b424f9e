package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/flightwise/internal/domain/model"
)

// RenderFlights writes one row per option.
func RenderFlights(w io.Writer, flights []model.FlightOption, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "#\tPRICE\tDURATION\tFLIGHTS\tROUTE\tLAYOVERS")
	for i, f := range flights {
		numbers := make([]string, 0, len(f.Segments))
		route := make([]string, 0, len(f.Segments)+1)
		for j, s := range f.Segments {
			numbers = append(numbers, s.FlightNumber)
			if j == 0 {
				route = append(route, s.DepartureAirport.ID)
			}
			route = append(route, s.ArrivalAirport.ID)
		}
		layovers := "direct"
		if len(f.Layovers) > 0 {
			parts := make([]string, 0, len(f.Layovers))
			for _, l := range f.Layovers {
				parts = append(parts, l.Airport+" "+minutes(l.Duration))
			}
			layovers = strings.Join(parts, ", ")
		}
		fmt.Fprintf(tw, "%d\t%.2f %s\t%s\t%s\t%s\t%s\n",
			i+1, f.Price, currency, minutes(f.TotalDuration),
			strings.Join(numbers, ", "), strings.Join(route, "-"), layovers)
	}
	return tw.Flush()
}

// RenderResponse writes the options table followed by the narrative.
func RenderResponse(w io.Writer, resp SearchResponse, currency string) error {
	if len(resp.Flights) == 0 {
		fmt.Fprintln(w, "No flights found.")
	} else if err := RenderFlights(w, resp.Flights, currency); err != nil {
		return err
	}
	if resp.Analysis != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Recommendation:")
		fmt.Fprintln(w, resp.Analysis)
	}
	fmt.Fprintf(w, "\nrequest %s\n", resp.RequestID)
	return nil
}

func minutes(m int) string {
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
