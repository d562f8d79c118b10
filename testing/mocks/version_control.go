package mocks

import (
	"context"

	"github.com/pushr-cd/pushr/domain"
	"github.com/stretchr/testify/mock"
)

// MockVersionControl implements deployer.VersionControl for testing
type MockVersionControl struct {
	mock.Mock
}

func (m *MockVersionControl) Fetch(ctx context.Context, workingDir string, gitAuth *domain.GitAuthConfig) error {
	args := m.Called(ctx, workingDir, gitAuth)
	return args.Error(0)
}

func (m *MockVersionControl) LatestRevision(workingDir string) (string, error) {
	args := m.Called(workingDir)
	return args.String(0), args.Error(1)
}

func (m *MockVersionControl) History(workingDir string) ([]string, error) {
	args := m.Called(workingDir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVersionControl) LatestCommitInfo(workingDir string) (domain.CommitInfo, error) {
	args := m.Called(workingDir)
	return args.Get(0).(domain.CommitInfo), args.Error(1)
}
