// Package utils provides state and helpers shared by Pushr CLI commands.
package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pushr-cd/pushr/app"
	"github.com/pushr-cd/pushr/cmd/output"
	"github.com/pushr-cd/pushr/config"
)

// ErrDeploymentFailed is returned by commands whose deployment run did not succeed.
var ErrDeploymentFailed = errors.New("deployment failed")

// Session carries what the root command initialized to its subcommands.
// The App is built on first use so commands like version never touch the database.
type Session struct {
	Config *config.Config
	Logger *slog.Logger

	app *app.App
}

func NewSession(cfg *config.Config, logger *slog.Logger) *Session {
	return &Session{Config: cfg, Logger: logger}
}

// App returns the application, creating it on first call.
func (s *Session) App() (*app.App, error) {
	if s.app != nil {
		return s.app, nil
	}
	if s.Config == nil {
		return nil, errors.New("configuration not loaded")
	}

	a, err := app.New(s.Config, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	s.app = a
	return a, nil
}

// Close releases the application, if it was created.
func (s *Session) Close() error {
	if s.app == nil {
		return nil
	}
	return s.app.Close()
}

// FormatCommandError renders a failed command for the terminal
func FormatCommandError(operation string, err error) string {
	return output.PrintMessage(output.Error, "Error: %s failed: %v", operation, err)
}

// HandleCommandError provides consistent error handling for CLI commands
func HandleCommandError(operation string, err error, context ...any) {
	slog.Error("Command failed", append([]any{"operation", operation, "error", err}, context...)...)
	fmt.Fprint(os.Stderr, FormatCommandError(operation, err))
	os.Exit(1)
}
