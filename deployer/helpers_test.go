package deployer

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/pushr-cd/pushr/domain"
	"github.com/pushr-cd/pushr/runner"
	"github.com/pushr-cd/pushr/testing/mocks"
	"github.com/stretchr/testify/mock"
)

type fixture struct {
	vcs      *mocks.MockVersionControl
	runner   *mocks.MockRunner
	notifier *mocks.MockNotifier
	logs     *bytes.Buffer
}

func newFixture() *fixture {
	return &fixture{
		vcs:      new(mocks.MockVersionControl),
		runner:   new(mocks.MockRunner),
		notifier: new(mocks.MockNotifier),
		logs:     &bytes.Buffer{},
	}
}

func (f *fixture) deps() Dependencies {
	return Dependencies{
		VCS:      f.vcs,
		Runner:   f.runner,
		Notifier: f.notifier,
		Logger:   slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newApp returns an application whose deployed copy and repository live in temp dirs.
func newApp(t *testing.T, name string) domain.ApplicationConfig {
	t.Helper()
	return domain.ApplicationConfig{
		Name:          name,
		Path:          t.TempDir(),
		Repository:    filepath.Join(t.TempDir(), "repo"),
		DeployCommand: "cap deploy",
	}
}

func commit(hash, message string) domain.CommitInfo {
	return domain.CommitInfo{Hash: hash, Message: message, Author: "Jane Doe"}
}

// expectDeployed sets up an application whose deployed copy is at live.
func (f *fixture) expectDeployed(app domain.ApplicationConfig, live string) {
	f.vcs.On("LatestCommitInfo", app.DeployedDir()).Return(commit(live[:7], "deployed"), nil).Maybe()
	f.vcs.On("LatestRevision", app.DeployedDir()).Return(live, nil).Maybe()
}

// expectFetched sets up a successful fetch that moves the repository to latest.
func (f *fixture) expectFetched(app domain.ApplicationConfig, latest string, history ...string) {
	f.vcs.On("Fetch", mock.Anything, app.Repository, app.GitAuth).Return(nil).Once()
	f.vcs.On("LatestRevision", app.Repository).Return(latest, nil).Once()
	f.vcs.On("History", app.Repository).Return(append([]string{latest}, history...), nil).Maybe()
}

func (f *fixture) expectRun(app domain.ApplicationConfig, res runner.Result) {
	f.runner.On("Run", mock.Anything, app.Repository, app.DeployCommand).Return(res).Once()
}
