package repository

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/pushr-cd/pushr/db"
	"github.com/pushr-cd/pushr/domain"
	"gorm.io/gorm"
)

type DeploymentRepository interface {
	// CreateBatch stores deployments in one transaction.
	CreateBatch(deployments []*domain.Deployment) error
	// List returns the newest deployments first. An empty slug matches every application.
	List(slug string, limit int) ([]*domain.Deployment, error)
	ListByRunID(runID uuid.UUID) ([]*domain.Deployment, error)
}

type deploymentRepository struct {
	db     *gorm.DB
	mapper *DeploymentMapper
}

func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepository{
		db:     db,
		mapper: &DeploymentMapper{},
	}
}

func (r *deploymentRepository) CreateBatch(deployments []*domain.Deployment) error {
	if len(deployments) == 0 {
		return nil
	}

	models := make([]*db.DeploymentModel, len(deployments))
	for i, d := range deployments {
		models[i] = r.mapper.ToModel(d)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&models).Error
	})
	if err != nil {
		slog.Error("Database operation failed",
			"layer", "repository",
			"operation", "create_deployments",
			"run_id", deployments[0].RunID,
			"error", err)
		return err // Pass through as-is
	}

	for i, m := range models {
		deployments[i].CreatedAt = m.CreatedAt
		deployments[i].UpdatedAt = m.UpdatedAt
	}
	return nil
}

func (r *deploymentRepository) List(slug string, limit int) ([]*domain.Deployment, error) {
	query := r.db.Order("created_at DESC").Order("rowid DESC")
	if slug != "" {
		query = query.Where("slug = ?", slug)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []db.DeploymentModel
	if err := query.Find(&models).Error; err != nil {
		slog.Error("Database operation failed",
			"layer", "repository",
			"operation", "list_deployments",
			"slug", slug,
			"error", err)
		return nil, err
	}

	return r.toDomainList(models), nil
}

func (r *deploymentRepository) ListByRunID(runID uuid.UUID) ([]*domain.Deployment, error) {
	var models []db.DeploymentModel
	if err := r.db.Where("run_id = ?", runID).Order("rowid ASC").Find(&models).Error; err != nil {
		slog.Error("Database operation failed",
			"layer", "repository",
			"operation", "list_run_deployments",
			"run_id", runID,
			"error", err)
		return nil, err
	}

	return r.toDomainList(models), nil
}

func (r *deploymentRepository) toDomainList(models []db.DeploymentModel) []*domain.Deployment {
	deployments := make([]*domain.Deployment, len(models))
	for i := range models {
		deployments[i] = r.mapper.ToDomain(&models[i])
	}
	return deployments
}
