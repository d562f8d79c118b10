package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NoUpgradeRequiredMessage is reported when the deployed revision already matches the fetched one.
const NoUpgradeRequiredMessage = "No upgrade required."

// LogSectionSeparator underlines each application name in an aggregate log.
const LogSectionSeparator = "========================================"

// DeployOutcome is the result of one application deploy attempt.
type DeployOutcome struct {
	Status  OutcomeStatus
	Message string
}

// Success reports whether the deploy tool ran and its output classified as success.
func (o DeployOutcome) Success() bool {
	return o.Status == OutcomeDeployed
}

// Blocking reports whether the outcome makes an aggregate run fail. A no-op does not.
func (o DeployOutcome) Blocking() bool {
	return o.Status != OutcomeDeployed && o.Status != OutcomeNoOp
}

// NoOpOutcome is returned when there is nothing to deploy.
func NoOpOutcome() DeployOutcome {
	return DeployOutcome{Status: OutcomeNoOp, Message: NoUpgradeRequiredMessage}
}

// ApplicationResult pairs an application with the outcome of its deploy attempt.
type ApplicationResult struct {
	Name     string
	Slug     string
	Revision string
	Outcome  DeployOutcome
}

// AggregateResult is the outcome of a run over several applications.
type AggregateResult struct {
	RunID   uuid.UUID
	Success bool
	Log     string
	Results []ApplicationResult
}

// NewAggregateResult merges per-application results, preserving their order.
func NewAggregateResult(runID uuid.UUID, results []ApplicationResult) AggregateResult {
	success := true
	sections := make([]string, 0, len(results))
	for _, r := range results {
		if r.Outcome.Blocking() {
			success = false
		}
		sections = append(sections, r.Name+"\n"+LogSectionSeparator+"\n"+r.Outcome.Message)
	}

	return AggregateResult{
		RunID:   runID,
		Success: success,
		Log:     strings.Join(sections, "\n"),
		Results: results,
	}
}

// ApplicationInfo is the read-only view of an application and its deployed revision.
type ApplicationInfo struct {
	Name     string
	Slug     string
	Deployed CommitInfo
}

// Deployment is a stored record of one application deploy attempt.
type Deployment struct {
	ID          uuid.UUID
	RunID       uuid.UUID
	Application string
	Slug        string
	Revision    string
	Status      OutcomeStatus
	Output      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewDeployment(runID uuid.UUID, result ApplicationResult) Deployment {
	return Deployment{
		ID:          uuid.New(),
		RunID:       runID,
		Application: result.Name,
		Slug:        result.Slug,
		Revision:    result.Revision,
		Status:      result.Outcome.Status,
		Output:      result.Outcome.Message,
	}
}
