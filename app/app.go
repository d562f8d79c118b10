// Package app wires configuration, collaborators and services into a running Pushr instance.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pushr-cd/pushr/config"
	"github.com/pushr-cd/pushr/db"
	"github.com/pushr-cd/pushr/deployer"
	"github.com/pushr-cd/pushr/domain"
	"github.com/pushr-cd/pushr/git"
	"github.com/pushr-cd/pushr/history"
	"github.com/pushr-cd/pushr/notify"
	"github.com/pushr-cd/pushr/repository"
	"github.com/pushr-cd/pushr/runner"
	"gorm.io/gorm"
)

// Version is set at build time via -ldflags
var Version = "dev"

// notifyRetryMax bounds webhook retries so a dead endpoint cannot stall a run.
const notifyRetryMax = 2

type App struct {
	Config       *config.Config
	Logger       *slog.Logger
	Orchestrator *deployer.Orchestrator
	// History is nil when history is disabled.
	History *history.Service

	database *gorm.DB
}

// New builds an App from cfg. Close releases the history database.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	a := &App{Config: cfg, Logger: logger}

	r := runner.NewExecRunner(logger)
	deps := deployer.Dependencies{
		VCS:           newVersionControl(cfg, r, logger),
		Runner:        r,
		Logger:        logger,
		SuccessMode:   cfg.SuccessMode,
		DeployTimeout: cfg.DeployTimeout,
	}

	if cfg.NotificationsEnabled() {
		deps.Notifier = notify.NewWebhookNotifier(notify.Config{
			URL:      cfg.NotifyURL,
			Username: cfg.NotifyUsername,
			Password: cfg.NotifyPassword,
			Timeout:  cfg.NotifyTimeout,
			RetryMax: notifyRetryMax,
		}, logger)
	}

	if cfg.HistoryEnabled {
		database, err := db.Open(cfg.DatabasePath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		a.database = database
		a.History = history.NewService(repository.NewDeploymentRepository(database), logger)
		deps.Recorder = a.History
	}

	a.Orchestrator = deployer.NewOrchestrator(cfg.Applications, deps)

	logger.Debug("Application initialized",
		"applications", len(cfg.Applications),
		"git_backend", cfg.GitBackend,
		"success_mode", cfg.SuccessMode,
		"history_enabled", cfg.HistoryEnabled,
		"notifications_enabled", cfg.NotificationsEnabled())

	return a, nil
}

func newVersionControl(cfg *config.Config, r runner.Runner, logger *slog.Logger) deployer.VersionControl {
	if cfg.GitBackend == domain.GitBackendCLI {
		return git.NewCLIService(r, cfg.GitTimeout, logger)
	}
	return git.NewGitService(cfg.GitTimeout, logger)
}

// Close releases the history database, if any.
func (a *App) Close() error {
	if a.database == nil {
		return nil
	}
	sqlDB, err := a.database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
