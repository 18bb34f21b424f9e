package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/flightwise/internal/domain/analysis"
)

func request() analysis.Request {
	return analysis.Request{
		Model: "llama-3.3-70b-versatile",
		Messages: []analysis.Message{
			{Role: analysis.RoleSystem, Content: analysis.SystemPrompt},
			{Role: analysis.RoleUser, Content: "Analyze these flight options"},
		},
		Temperature:     0.5,
		MaxOutputTokens: 1024,
		TopP:            1,
	}
}

func TestClientGenerate(t *testing.T) {
	Convey("Given a chat completions stand-in", t, func() {
		var (
			gotPath string
			gotAuth string
			gotBody map[string]any
			calls   int
		)
		status := http.StatusOK
		reply := `{"id":"c1","choices":[{"index":0,"message":{"role":"assistant","content":"Pick AF123."}},{"index":1,"message":{"role":"assistant","content":"Or DL 8."}}]}`

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(reply))
		}))
		defer srv.Close()

		c := New("gsk_test", WithBaseURL(srv.URL+"/openai/v1/"), WithHTTPClient(srv.Client()))

		Convey("When a completion is requested", func() {
			out, err := c.Generate(context.Background(), request())

			Convey("Then every choice is returned in order", func() {
				So(err, ShouldBeNil)
				So(out.Choices, ShouldResemble, []string{"Pick AF123.", "Or DL 8."})
			})

			Convey("Then the request has the chat completions shape", func() {
				So(gotPath, ShouldEqual, "/openai/v1/chat/completions")
				So(gotAuth, ShouldEqual, "Bearer gsk_test")
				So(gotBody["model"], ShouldEqual, "llama-3.3-70b-versatile")
				So(gotBody["temperature"], ShouldEqual, 0.5)
				So(gotBody["max_completion_tokens"], ShouldEqual, 1024.0)
				So(gotBody["top_p"], ShouldEqual, 1.0)

				msgs, ok := gotBody["messages"].([]any)
				So(ok, ShouldBeTrue)
				So(len(msgs), ShouldEqual, 2)
				first := msgs[0].(map[string]any)
				So(first["role"], ShouldEqual, "system")
				So(first["content"], ShouldEqual, analysis.SystemPrompt)
			})
		})

		Convey("When the service rate limits", func() {
			status = http.StatusTooManyRequests
			reply = `{"error":{"message":"Rate limit reached for model","type":"tokens","code":"rate_limit_exceeded"}}`
			_, err := c.Generate(context.Background(), request())

			Convey("Then the failure names the rate limit", func() {
				So(errors.Is(err, analysis.ErrGenerationService), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "rate limited")
				So(err.Error(), ShouldContainSubstring, "429")
				So(err.Error(), ShouldContainSubstring, "Rate limit reached")
			})
		})

		Convey("When the key is rejected", func() {
			status = http.StatusUnauthorized
			reply = `{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`
			_, err := c.Generate(context.Background(), request())

			Convey("Then the failure names authentication", func() {
				So(errors.Is(err, analysis.ErrGenerationService), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "authentication failed")
			})
		})

		Convey("When the rate limit is answered", func() {
			status = http.StatusTooManyRequests
			reply = `{"error":{"message":"slow down","type":"tokens"}}`
			_, _ = c.Generate(context.Background(), request())

			Convey("Then the request is sent only once", func() {
				So(calls, ShouldEqual, 1)
			})
		})

		Convey("When the SDK error is inspected", func() {
			status = http.StatusUnauthorized
			reply = `{"error":{"message":"Invalid API Key"}}`
			_, err := c.Generate(context.Background(), request())

			var apiErr *openai.Error
			So(errors.As(err, &apiErr), ShouldBeTrue)
			So(apiErr.StatusCode, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("When the service returns no choices", func() {
			reply = `{"choices": []}`
			out, err := c.Generate(context.Background(), request())

			Convey("Then an empty completion is returned for the requester to reject", func() {
				So(err, ShouldBeNil)
				So(out.Choices, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an unreachable endpoint", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		_, err := New("gsk_test", WithBaseURL(base)).Generate(context.Background(), request())
		So(errors.Is(err, analysis.ErrGenerationService), ShouldBeTrue)
	})

	Convey("Given no api key", t, func() {
		_, err := New("").Generate(context.Background(), request())
		So(errors.Is(err, analysis.ErrGenerationService), ShouldBeTrue)
	})
}
