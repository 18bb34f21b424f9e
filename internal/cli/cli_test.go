package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/flightwise/internal/domain/model"
)

func flights() []model.FlightOption {
	return []model.FlightOption{
		{
			Price: 450, TotalDuration: 620, Layovers: []model.Layover{},
			Segments: []model.FlightSegment{{
				FlightNumber:     "AF123",
				DepartureAirport: model.Airport{ID: "CDG"},
				ArrivalAirport:   model.Airport{ID: "AUS"},
			}},
		},
		{
			Price: 389.5, TotalDuration: 800,
			Layovers: []model.Layover{{Airport: "Atlanta", Duration: 120}},
			Segments: []model.FlightSegment{
				{FlightNumber: "DL 8", DepartureAirport: model.Airport{ID: "CDG"}, ArrivalAirport: model.Airport{ID: "ATL"}},
				{FlightNumber: "DL 1290", DepartureAirport: model.Airport{ID: "ATL"}, ArrivalAirport: model.Airport{ID: "AUS"}},
			},
		},
	}
}

func run(args ...string) (string, error) {
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	Convey("Given a flightwise server stand-in", t, func() {
		var (
			gotPath string
			gotBody map[string]any
		)
		status := http.StatusOK
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(status)
			if status != http.StatusOK {
				_, _ = w.Write([]byte(`{"code":"search_failed","message":"status 401","request_id":"r-9"}`))
				return
			}
			resp := SearchResponse{RequestID: "r-1", Flights: flights()}
			if r.URL.Path == "/search" {
				resp.Analysis = "AF123 is the best fit."
			}
			_ = json.NewEncoder(w).Encode(resp)
		}))
		defer srv.Close()

		base := []string{"search", "--server", srv.URL, "--from", "cdg", "--to", "aus",
			"--outbound", "2024-06-01", "--return", "2024-06-08"}

		Convey("When a full search runs", func() {
			out, err := run(append(base, "--prefs", "direct flights", "--adults", "2")...)

			Convey("Then the table and narrative are printed", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/search")
				So(gotBody["departure_id"], ShouldEqual, "CDG")
				So(gotBody["adults"], ShouldEqual, 2.0)
				So(gotBody["preferences"], ShouldEqual, "direct flights")
				So(out, ShouldContainSubstring, "PRICE")
				So(out, ShouldContainSubstring, "450.00 USD")
				So(out, ShouldContainSubstring, "CDG-ATL-AUS")
				So(out, ShouldContainSubstring, "Atlanta 2h00m")
				So(out, ShouldContainSubstring, "Recommendation:")
				So(out, ShouldContainSubstring, "AF123 is the best fit.")
			})
		})

		Convey("When only flights are requested as JSON", func() {
			out, err := run(append(base, "--flights-only", "--json")...)

			Convey("Then the raw response is printed", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/flights")
				var resp SearchResponse
				So(json.Unmarshal([]byte(out), &resp), ShouldBeNil)
				So(len(resp.Flights), ShouldEqual, 2)
				So(resp.Analysis, ShouldBeEmpty)
			})
		})

		Convey("When the server reports a failure", func() {
			status = http.StatusBadGateway
			_, err := run(append(base, "--prefs", "x")...)

			Convey("Then the error code and request id surface", func() {
				So(errors.Is(err, ErrServer), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "search_failed")
				So(err.Error(), ShouldContainSubstring, "r-9")
			})
		})

		Convey("When preferences are missing", func() {
			_, err := run(base...)
			So(err, ShouldNotBeNil)
			So(gotPath, ShouldBeEmpty)
		})

		Convey("When a currency outside the built-in list is chosen", func() {
			_, err := run(append(base, "--flights-only", "--currency", "jpy")...)

			Convey("Then it is left to the server to accept", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/flights")
				So(gotBody["currency"], ShouldEqual, "JPY")
			})
		})

		Convey("When the dates are out of order", func() {
			_, err := run("search", "--server", srv.URL, "--outbound", "2024-06-08", "--return", "2024-06-01", "--prefs", "x")
			So(err, ShouldNotBeNil)
			So(gotPath, ShouldBeEmpty)
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given an empty response", t, func() {
		out := &bytes.Buffer{}
		So(RenderResponse(out, SearchResponse{RequestID: "r"}, "EUR"), ShouldBeNil)
		So(out.String(), ShouldContainSubstring, "No flights found.")
		So(out.String(), ShouldNotContainSubstring, "Recommendation:")
	})

	Convey("Given durations", t, func() {
		So(minutes(620), ShouldEqual, "10h20m")
		So(minutes(45), ShouldEqual, "0h45m")
	})

	Convey("Given a client timeout", t, func() {
		c := NewClient("http://example.invalid/", time.Second)
		So(c.baseURL, ShouldEqual, "http://example.invalid")
	})
}
