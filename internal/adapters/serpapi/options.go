package serpapi

import (
	"net/http"

	"github.com/okian/flightwise/pkg/logger"
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service endpoint root.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient sets the transport used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLanguage sets the hl parameter.
func WithLanguage(hl string) Option {
	return func(c *Client) {
		if hl != "" {
			c.language = hl
		}
	}
}

// WithCountry sets the gl parameter.
func WithCountry(gl string) Option {
	return func(c *Client) {
		if gl != "" {
			c.country = gl
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
