package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownApplication is returned when a requested application is not configured.
var ErrUnknownApplication = errors.New("unknown application")

// ConfigurationError reports an invalid or missing application setting.
type ConfigurationError struct {
	Application string
	Field       string
	Reason      string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s %s", e.Application, e.Field, e.Reason)
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
