package analysis

// Defaults for the generation request.
const (
	DefaultModel           = "llama-3.3-70b-versatile"
	DefaultTemperature     = 0.5
	DefaultMaxOutputTokens = 1024
	DefaultTopP            = 1.0
)

// Option configures a Requester.
type Option func(*Requester)

// WithModel sets the model identifier. Empty keeps the default.
func WithModel(name string) Option {
	return func(r *Requester) {
		if name != "" {
			r.model = name
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(r *Requester) {
		if t >= 0 {
			r.temperature = t
		}
	}
}

// WithMaxOutputTokens caps the completion length. Non-positive keeps the default.
func WithMaxOutputTokens(n int) Option {
	return func(r *Requester) {
		if n > 0 {
			r.maxOutputTokens = n
		}
	}
}

// WithTopP sets nucleus sampling. Values outside (0,1] keep the default.
func WithTopP(p float64) Option {
	return func(r *Requester) {
		if p > 0 && p <= 1 {
			r.topP = p
		}
	}
}
