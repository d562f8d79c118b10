// Package watcher periodically triggers deployment runs.
package watcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pushr-cd/pushr/deployer"
	"github.com/pushr-cd/pushr/domain"
)

type WatcherService struct {
	manager      deployer.Manager
	pollInterval time.Duration
	logger       *slog.Logger
}

func NewWatcherService(manager deployer.Manager, pollInterval time.Duration, logger *slog.Logger) *WatcherService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatcherService{
		manager:      manager,
		pollInterval: pollInterval,
		logger:       logger.With("layer", "watcher"),
	}
}

// Start runs a deployment immediately and then every poll interval until ctx is done.
func (w *WatcherService) Start(ctx context.Context) error {
	if w.pollInterval <= 0 {
		return errors.New("watcher poll interval must be positive")
	}

	w.logger.Info("Watcher service starting", "poll_interval", w.pollInterval)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Run initial check immediately
	w.check(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher service shutting down")
			return nil
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *WatcherService) check(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	w.logger.Debug("Starting deployment check cycle")

	result, err := w.manager.DeployAll(ctx)
	if err != nil {
		w.logger.Error("Automatic deployment failed", "operation", "deploy_all", "error", err)
		return
	}

	deployed := 0
	for _, r := range result.Results {
		if r.Outcome.Status == domain.OutcomeDeployed {
			deployed++
		}
	}

	level := slog.LevelDebug
	if deployed > 0 || !result.Success {
		level = slog.LevelInfo
	}
	w.logger.Log(ctx, level, "Deployment check cycle completed",
		"run_id", result.RunID,
		"success", result.Success,
		"applications", len(result.Results),
		"deployed", deployed)
}
