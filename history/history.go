// Package history records deployment runs and lists past deployments.
package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pushr-cd/pushr/domain"
	"github.com/pushr-cd/pushr/repository"
)

// DefaultLimit bounds List when no limit is given.
const DefaultLimit = 20

type Service struct {
	repo   repository.DeploymentRepository
	logger *slog.Logger
}

func NewService(repo repository.DeploymentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Record stores one deployment row per application of a finished run.
func (s *Service) Record(ctx context.Context, result domain.AggregateResult) error {
	deployments := make([]*domain.Deployment, 0, len(result.Results))
	for _, r := range result.Results {
		d := domain.NewDeployment(result.RunID, r)
		deployments = append(deployments, &d)
	}

	if err := s.repo.CreateBatch(deployments); err != nil {
		return fmt.Errorf("failed to record run %s: %w", result.RunID, err)
	}

	s.logger.Debug("Run recorded",
		"layer", "history",
		"run_id", result.RunID,
		"deployments", len(deployments))
	return nil
}

// List returns past deployments, newest first, optionally for one application slug.
func (s *Service) List(ctx context.Context, slug string, limit int) ([]*domain.Deployment, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	deployments, err := s.repo.List(slug, limit)
	if err != nil {
		s.logger.Error("Service operation failed",
			"layer", "history",
			"operation", "list_deployments",
			"slug", slug,
			"error", err)
		return nil, err
	}
	return deployments, nil
}

// Run returns the deployments of one run in the order they were deployed.
func (s *Service) Run(ctx context.Context, runID uuid.UUID) ([]*domain.Deployment, error) {
	deployments, err := s.repo.ListByRunID(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list run %s: %w", runID, err)
	}
	return deployments, nil
}
