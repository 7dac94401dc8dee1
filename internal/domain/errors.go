package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks a request for an unknown analysis type or metric,
// or an otherwise invalid analysis setup.
var ErrConfiguration = errors.New("invalid configuration")

// ConfigError describes an invalid configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigError) Unwrap() error { return ErrConfiguration }
