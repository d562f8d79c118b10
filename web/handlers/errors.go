package handlers

import (
	"errors"
	"strings"

	"github.com/pushr-cd/pushr/domain"
)

// FormatErrorForUser converts technical errors to user-friendly messages
// This should only be called at the handler level
func FormatErrorForUser(err error) string {
	if err == nil {
		return ""
	}

	// Misconfiguration messages name the application and field, show them as is
	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Error()
	}
	if errors.Is(err, domain.ErrUnknownApplication) {
		return err.Error()
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "record not found"):
		return "deployment not found"
	case strings.Contains(errStr, "database is locked"):
		return "history database is busy"
	case strings.Contains(errStr, "context canceled"):
		return "request was cancelled"
	case strings.Contains(errStr, "deadline exceeded") || strings.Contains(errStr, "timeout"):
		return "operation timed out"
	case strings.Contains(errStr, "permission denied"):
		return "permission denied"
	default:
		return "an unexpected error occurred"
	}
}
