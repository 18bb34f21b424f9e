package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "flightwise")
				So(manager.subsystem, ShouldEqual, "core")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithLatencyBuckets([]float64{1, 2, 3}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "unit")
				So(manager.latencyBuckets, ShouldResemble, []float64{1, 2, 3})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})

			Convey("And empty option values keep defaults", func() {
				m := NewManager(
					WithNamespace(""),
					WithLatencyBuckets(nil),
					WithRegistry(prometheus.NewRegistry()),
				)
				So(m.namespace, ShouldEqual, "flightwise")
				So(len(m.latencyBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		before, err := Gather()
		So(err, ShouldBeNil)

		Convey("When recording one of each", func() {
			So(func() {
				RecordInteraction("search", OutcomeSuccess, 120)
				RecordSearch(OutcomeSuccess, 80)
				RecordNormalized(7)
				RecordMalformedPayload()
				RecordGeneration("groq", OutcomeFailure, 40)
				RecordPromptSize(4096)
				RecordHTTPRequest("search", "POST", "200")
				RecordHTTPRequestDuration("search", "POST", "200", 130)
				RecordErrorByEndpoint("search", "POST", "server_error")
				RecordErrorByComponent("serpapi", "status")
			}, ShouldNotPanic)

			after, err := Gather()
			So(err, ShouldBeNil)

			Convey("Then counters advance by one", func() {
				So(after["flightwise_core_interactions_total"]-before["flightwise_core_interactions_total"], ShouldEqual, 1.0)
				So(after["flightwise_core_malformed_upstream_total"]-before["flightwise_core_malformed_upstream_total"], ShouldEqual, 1.0)
				So(after["flightwise_core_generation_requests_total"]-before["flightwise_core_generation_requests_total"], ShouldEqual, 1.0)
				So(after["flightwise_core_prompt_bytes"]-before["flightwise_core_prompt_bytes"], ShouldEqual, 1.0)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		So(GetRegistry(), ShouldNotBeNil)
		So(GetRegistry(), ShouldEqual, customRegistry)
	})
}
