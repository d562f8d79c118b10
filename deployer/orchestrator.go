package deployer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/pushr-cd/pushr/domain"
)

// Orchestrator deploys a configured set of applications, one at a time and in order.
type Orchestrator struct {
	apps   []domain.ApplicationConfig
	deps   Dependencies
	logger *slog.Logger
	locks  *lockSet
	newID  func() uuid.UUID
}

// Ensure Orchestrator implements Manager
var _ Manager = (*Orchestrator)(nil)

func NewOrchestrator(apps []domain.ApplicationConfig, deps Dependencies) *Orchestrator {
	deps = deps.withDefaults()
	return &Orchestrator{
		apps:   slices.Clone(apps),
		deps:   deps,
		logger: deps.Logger,
		locks:  newLockSet(),
		newID:  uuid.New,
	}
}

// DeployAll deploys every configured application.
func (o *Orchestrator) DeployAll(ctx context.Context) (domain.AggregateResult, error) {
	return o.run(ctx, o.apps)
}

// Deploy deploys the applications whose slug is in slugs, in configured order.
// No slugs means all applications.
func (o *Orchestrator) Deploy(ctx context.Context, slugs ...string) (domain.AggregateResult, error) {
	apps, err := o.selectApps(slugs)
	if err != nil {
		return domain.AggregateResult{}, err
	}
	return o.run(ctx, apps)
}

// Info describes the deployed revision of every application.
func (o *Orchestrator) Info(ctx context.Context) ([]domain.ApplicationInfo, error) {
	deployers, err := o.build(o.apps, o.deps)
	if err != nil {
		return nil, err
	}

	infos := make([]domain.ApplicationInfo, 0, len(deployers))
	for _, d := range deployers {
		infos = append(infos, domain.ApplicationInfo{
			Name:     d.Name(),
			Slug:     d.Slug(),
			Deployed: d.Deployed(),
		})
	}
	return infos, nil
}

func (o *Orchestrator) selectApps(slugs []string) ([]domain.ApplicationConfig, error) {
	if len(slugs) == 0 {
		return o.apps, nil
	}

	wanted := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		wanted[s] = false
	}

	var apps []domain.ApplicationConfig
	for _, app := range o.apps {
		if _, ok := wanted[app.Slug()]; ok {
			wanted[app.Slug()] = true
			apps = append(apps, app)
		}
	}

	var missing []string
	for _, s := range slugs {
		if !wanted[s] {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownApplication, strings.Join(missing, ", "))
	}

	return apps, nil
}

// build constructs every deployer before any of them runs, so a bad path
// aborts the whole batch.
func (o *Orchestrator) build(apps []domain.ApplicationConfig, deps Dependencies) ([]*ApplicationDeployer, error) {
	deployers := make([]*ApplicationDeployer, 0, len(apps))
	for _, app := range apps {
		d, err := NewApplicationDeployer(app, deps)
		if err != nil {
			deps.Logger.Error("Service operation failed",
				"layer", "orchestrator",
				"operation", "build_deployer",
				"app", app.DisplayName(),
				"error", err)
			return nil, err
		}
		deployers = append(deployers, d)
	}
	return deployers, nil
}

// run deploys apps one after another. A started run is never cancelled by its
// caller: only the git and deploy timeouts bound it.
func (o *Orchestrator) run(ctx context.Context, apps []domain.ApplicationConfig) (domain.AggregateResult, error) {
	ctx = context.WithoutCancel(ctx)
	runID := o.newID()
	logger := o.logger.With("run_id", runID)
	deps := o.deps
	deps.Logger = logger

	logger.Info("Deployment run starting", "applications", len(apps))

	deployers, err := o.build(apps, deps)
	if err != nil {
		return domain.AggregateResult{}, err
	}

	results := make([]domain.ApplicationResult, 0, len(deployers))
	for _, d := range deployers {
		unlock := o.locks.lock(d.Slug())
		outcome, err := d.Deploy(ctx)
		unlock()

		if err != nil {
			var cfgErr *domain.ConfigurationError
			if !errors.As(err, &cfgErr) {
				logger.Error("Service operation failed",
					"layer", "orchestrator",
					"operation", "deploy",
					"app", d.Name(),
					"error", err)
			} else {
				logger.Warn("Application is misconfigured", "app", d.Name(), "error", err)
			}
			outcome = domain.DeployOutcome{Status: domain.OutcomeFailed, Message: err.Error()}
		}

		results = append(results, domain.ApplicationResult{
			Name:     d.Name(),
			Slug:     d.Slug(),
			Revision: d.Revision(),
			Outcome:  outcome,
		})
	}

	result := domain.NewAggregateResult(runID, results)
	logger.Info("Deployment run finished", "success", result.Success)

	if o.deps.Recorder != nil {
		if err := o.deps.Recorder.Record(ctx, result); err != nil {
			logger.Error("Service operation failed",
				"layer", "orchestrator",
				"operation", "record_run",
				"error", err)
		}
	}

	return result, nil
}
