// Package db provides database models and utilities for Pushr.
package db

import (
	"time"

	"github.com/google/uuid"
)

type BaseModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeploymentModel is one application deploy attempt within a run.
type DeploymentModel struct {
	BaseModel
	RunID       uuid.UUID `gorm:"type:char(36);not null;index"`
	Application string    `gorm:"not null;check:application <> ''"`
	Slug        string    `gorm:"not null;default:'';index"`
	Revision    string    // empty when the fetch failed before a revision was read
	Status      string    `gorm:"not null;check:status <> ''"` // deployed, failed, noop
	Output      string    `gorm:"type:text"`                   // Combined deploy tool output
}

func (DeploymentModel) TableName() string {
	return "deployments"
}

type MigrationModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;unique"`
	AppliedAt time.Time
}

func (MigrationModel) TableName() string {
	return "migrations"
}
