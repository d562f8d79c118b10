package deployer

import (
	"context"
	"log/slog"
	"time"

	"github.com/pushr-cd/pushr/domain"
	"github.com/pushr-cd/pushr/runner"
)

// VersionControl reads and updates git working copies.
type VersionControl interface {
	// Fetch updates the working copy in place with its upstream.
	Fetch(ctx context.Context, workingDir string, gitAuth *domain.GitAuthConfig) error
	// LatestRevision returns the full hash of HEAD.
	LatestRevision(workingDir string) (string, error)
	// History returns the hashes reachable from HEAD, most recent first.
	History(workingDir string) ([]string, error)
	LatestCommitInfo(workingDir string) (domain.CommitInfo, error)
}

// Notifier posts a short status message to an external service.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Recorder stores the result of a finished run.
type Recorder interface {
	Record(ctx context.Context, result domain.AggregateResult) error
}

// Manager is what triggers (HTTP, CLI, watcher) use to run deployments.
type Manager interface {
	DeployAll(ctx context.Context) (domain.AggregateResult, error)
	Deploy(ctx context.Context, slugs ...string) (domain.AggregateResult, error)
	Info(ctx context.Context) ([]domain.ApplicationInfo, error)
}

// Dependencies are the collaborators shared by every deployer of a run.
// Notifier and Recorder are optional.
type Dependencies struct {
	VCS           VersionControl
	Runner        runner.Runner
	Notifier      Notifier
	Recorder      Recorder
	Logger        *slog.Logger
	SuccessMode   domain.SuccessMode
	DeployTimeout time.Duration
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.SuccessMode == "" {
		d.SuccessMode = domain.SuccessModeOutput
	}
	return d
}
