// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/pushr-cd/pushr/runner"
	"github.com/stretchr/testify/mock"
)

// MockRunner implements runner.Runner for testing
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, dir, commandLine string) runner.Result {
	args := m.Called(ctx, dir, commandLine)
	return args.Get(0).(runner.Result)
}

func (m *MockRunner) RunArgs(ctx context.Context, dir, name string, cmdArgs ...string) runner.Result {
	args := m.Called(ctx, dir, name, cmdArgs)
	return args.Get(0).(runner.Result)
}
