package mocks

import (
	"context"

	"github.com/pushr-cd/pushr/domain"
	"github.com/stretchr/testify/mock"
)

// MockManager implements deployer.Manager for testing
type MockManager struct {
	mock.Mock
}

func (m *MockManager) DeployAll(ctx context.Context) (domain.AggregateResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.AggregateResult), args.Error(1)
}

func (m *MockManager) Deploy(ctx context.Context, slugs ...string) (domain.AggregateResult, error) {
	args := m.Called(ctx, slugs)
	return args.Get(0).(domain.AggregateResult), args.Error(1)
}

func (m *MockManager) Info(ctx context.Context) ([]domain.ApplicationInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApplicationInfo), args.Error(1)
}
