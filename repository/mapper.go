// Package repository provides the data access layer for deployment history.
package repository

import (
	"github.com/pushr-cd/pushr/db"
	"github.com/pushr-cd/pushr/domain"
)

type DeploymentMapper struct{}

func (m *DeploymentMapper) ToDomain(d *db.DeploymentModel) *domain.Deployment {
	status, err := domain.ParseOutcomeStatus(d.Status)
	if err != nil {
		status = domain.OutcomeUnknown
	}

	return &domain.Deployment{
		ID:          d.ID,
		RunID:       d.RunID,
		Application: d.Application,
		Slug:        d.Slug,
		Revision:    d.Revision,
		Status:      status,
		Output:      d.Output,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (m *DeploymentMapper) ToModel(d *domain.Deployment) *db.DeploymentModel {
	return &db.DeploymentModel{
		BaseModel: db.BaseModel{
			ID:        d.ID,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		RunID:       d.RunID,
		Application: d.Application,
		Slug:        d.Slug,
		Revision:    d.Revision,
		Status:      d.Status.String(),
		Output:      d.Output,
	}
}
