package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNotifier implements deployer.Notifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}
