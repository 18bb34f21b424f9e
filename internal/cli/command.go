// Package cli implements the flightwise command line client.
package cli

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/flightwise/internal/domain/model"
	"github.com/okian/flightwise/internal/domain/search"
)

const (
	defaultServer  = "http://localhost:9080"
	defaultTimeout = 2 * time.Minute
)

// NewRootCommand builds the flightwise command tree.
func NewRootCommand() *cobra.Command {
	server := os.Getenv("FLIGHTWISE_SERVER")
	if server == "" {
		server = defaultServer
	}

	root := &cobra.Command{
		Use:   "flightwise",
		Short: "flightwise CLI - flight search with recommendations",
		Long: `flightwise searches round-trip flights through a running flightwise
server and prints the options together with a recommendation for your
preferences.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("server", server, "flightwise server URL")
	root.PersistentFlags().Duration("timeout", defaultTimeout, "overall request timeout")

	root.AddCommand(newSearchCommand())
	return root
}

func newSearchCommand() *cobra.Command {
	var (
		params      model.SearchParams
		preferences string
		flightsOnly bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:     "search",
		Aliases: []string{"s"},
		Short:   "Search flights and ask for a recommendation",
		Example: `  flightwise search --from CDG --to AUS --outbound 2024-06-01 --return 2024-06-08 \
    --prefs "cheapest, no overnight layovers"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params.DepartureID = strings.ToUpper(params.DepartureID)
			params.ArrivalID = strings.ToUpper(params.ArrivalID)
			params.Currency = strings.ToUpper(params.Currency)
			// The server owns the currency list; only codes, dates and adults are checked here.
			if err := search.ValidateParams(params, []string{params.Currency}); err != nil {
				return err
			}
			if !flightsOnly && strings.TrimSpace(preferences) == "" {
				return errors.New("--prefs is required unless --flights-only is set")
			}

			server, _ := cmd.Flags().GetString("server")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			client := NewClient(server, timeout)

			var (
				resp SearchResponse
				err  error
			)
			if flightsOnly {
				resp, err = client.Flights(cmd.Context(), params)
			} else {
				resp, err = client.Search(cmd.Context(), SearchRequest{SearchParams: params, Preferences: preferences})
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			return RenderResponse(cmd.OutOrStdout(), resp, params.Currency)
		},
	}

	f := cmd.Flags()
	f.StringVar(&params.DepartureID, "from", "CDG", "departure airport code")
	f.StringVar(&params.ArrivalID, "to", "AUS", "arrival airport code")
	f.StringVar(&params.OutboundDate, "outbound", "", "outbound date (YYYY-MM-DD)")
	f.StringVar(&params.ReturnDate, "return", "", "return date (YYYY-MM-DD)")
	f.StringVar(&params.Currency, "currency", "USD", "currency: USD, EUR or GBP")
	f.IntVar(&params.Adults, "adults", 1, "number of adult passengers")
	f.StringVar(&preferences, "prefs", "", "free-text travel preferences")
	f.BoolVar(&flightsOnly, "flights-only", false, "skip the recommendation")
	f.BoolVar(&asJSON, "json", false, "print the raw JSON response")
	_ = cmd.MarkFlagRequired("outbound")
	_ = cmd.MarkFlagRequired("return")

	return cmd
}
