package config

import "errors"

var (
	// ErrInvalidConfig is returned by Validate for out-of-range or missing settings.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures reading the YAML file or the environment.
	ErrLoadConfig = errors.New("load config failed")
)
