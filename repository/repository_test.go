package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pushr-cd/pushr/db"
	"github.com/pushr-cd/pushr/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.InitDatabase(db.DBConfig{Path: db.MemoryPath, LogLevel: logger.Silent})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrateAll(database))
	return database
}

func newDeployment(runID uuid.UUID, name string, status domain.OutcomeStatus, created time.Time) *domain.Deployment {
	d := domain.NewDeployment(runID, domain.ApplicationResult{
		Name:     name,
		Slug:     domain.ApplicationConfig{Name: name}.Slug(),
		Revision: "abc123",
		Outcome:  domain.DeployOutcome{Status: status, Message: "output of " + name},
	})
	d.CreatedAt = created
	return &d
}

func TestDeploymentRepository_CreateBatch(t *testing.T) {
	repo := NewDeploymentRepository(setupTestDB(t))
	runID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	deployments := []*domain.Deployment{
		newDeployment(runID, "Web Shop", domain.OutcomeDeployed, now),
		newDeployment(runID, "Blog", domain.OutcomeNoOp, now),
	}
	require.NoError(t, repo.CreateBatch(deployments))

	run, err := repo.ListByRunID(runID)
	require.NoError(t, err)
	require.Len(t, run, 2)
	found := run[0]
	assert.Equal(t, deployments[0].ID, found.ID)
	assert.Equal(t, runID, found.RunID)
	assert.Equal(t, "Web Shop", found.Application)
	assert.Equal(t, "web-shop", found.Slug)
	assert.Equal(t, domain.OutcomeDeployed, found.Status)
	assert.Equal(t, "output of Web Shop", found.Output)
}

func TestDeploymentRepository_CreateBatchEmpty(t *testing.T) {
	repo := NewDeploymentRepository(setupTestDB(t))
	assert.NoError(t, repo.CreateBatch(nil))
}

func TestDeploymentRepository_ListNewestFirst(t *testing.T) {
	repo := NewDeploymentRepository(setupTestDB(t))
	base := time.Now().UTC().Truncate(time.Second)

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, repo.CreateBatch([]*domain.Deployment{
		newDeployment(first, "Web Shop", domain.OutcomeFailed, base),
		newDeployment(first, "Blog", domain.OutcomeDeployed, base),
	}))
	require.NoError(t, repo.CreateBatch([]*domain.Deployment{
		newDeployment(second, "Web Shop", domain.OutcomeDeployed, base.Add(time.Minute)),
	}))

	all, err := repo.List("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, second, all[0].RunID)

	limited, err := repo.List("", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	shop, err := repo.List("web-shop", 0)
	require.NoError(t, err)
	require.Len(t, shop, 2)
	assert.Equal(t, domain.OutcomeDeployed, shop[0].Status)
	assert.Equal(t, domain.OutcomeFailed, shop[1].Status)
}

func TestDeploymentRepository_ListByRunIDKeepsOrder(t *testing.T) {
	repo := NewDeploymentRepository(setupTestDB(t))
	runID := uuid.New()
	now := time.Now()

	require.NoError(t, repo.CreateBatch([]*domain.Deployment{
		newDeployment(runID, "C", domain.OutcomeDeployed, now),
		newDeployment(runID, "A", domain.OutcomeDeployed, now),
		newDeployment(runID, "B", domain.OutcomeDeployed, now),
	}))
	require.NoError(t, repo.CreateBatch([]*domain.Deployment{
		newDeployment(uuid.New(), "A", domain.OutcomeDeployed, now),
	}))

	run, err := repo.ListByRunID(runID)
	require.NoError(t, err)
	require.Len(t, run, 3)
	assert.Equal(t, "C", run[0].Application)
	assert.Equal(t, "A", run[1].Application)
	assert.Equal(t, "B", run[2].Application)
}

func TestDeploymentMapper_UnknownStatus(t *testing.T) {
	m := &DeploymentMapper{}
	d := m.ToDomain(&db.DeploymentModel{Status: "exploded"})
	assert.Equal(t, domain.OutcomeUnknown, d.Status)
}
