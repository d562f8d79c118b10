// Package deployer runs deployments of git-managed applications and aggregates their results.
package deployer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/pushr-cd/pushr/domain"
	"github.com/pushr-cd/pushr/notify"
)

// fetchFailedExitCode is the exit code reported when the deploy tool never ran.
const fetchFailedExitCode = -1

// ApplicationDeployer deploys a single application.
type ApplicationDeployer struct {
	config   domain.ApplicationConfig
	deps     Dependencies
	logger   *slog.Logger
	deployed domain.CommitInfo
	revision string
}

// NewApplicationDeployer checks that the deployed copy exists and reads its latest commit.
func NewApplicationDeployer(cfg domain.ApplicationConfig, deps Dependencies) (*ApplicationDeployer, error) {
	deps = deps.withDefaults()

	if strings.TrimSpace(cfg.Path) == "" {
		return nil, &domain.ConfigurationError{Application: cfg.DisplayName(), Field: "path", Reason: "is a required setting"}
	}
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, &domain.ConfigurationError{
			Application: cfg.DisplayName(),
			Field:       "path",
			Reason:      fmt.Sprintf("%s does not exist", cfg.Path),
		}
	}

	d := &ApplicationDeployer{
		config: cfg,
		deps:   deps,
		logger: deps.Logger.With("app", cfg.DisplayName()),
	}

	deployed, err := deps.VCS.LatestCommitInfo(cfg.DeployedDir())
	if err != nil {
		d.logger.Warn("Could not read deployed revision",
			"layer", "deployer",
			"operation", "read_deployed_commit",
			"deployed_dir", cfg.DeployedDir(),
			"error", err)
	}
	d.deployed = deployed

	return d, nil
}

func (d *ApplicationDeployer) Name() string {
	return d.config.DisplayName()
}

func (d *ApplicationDeployer) Slug() string {
	return d.config.Slug()
}

// Deployed returns the commit of the deployed copy as last read.
func (d *ApplicationDeployer) Deployed() domain.CommitInfo {
	return d.deployed
}

// Revision returns the repository revision seen by the last Deploy call.
func (d *ApplicationDeployer) Revision() string {
	return d.revision
}

// Deploy fetches the repository, and runs the deploy command when the fetched
// revision differs from the deployed one.
//
// A missing deploy command is returned as a *domain.ConfigurationError before
// anything else happens. Every other problem ends up in a failed outcome.
func (d *ApplicationDeployer) Deploy(ctx context.Context) (domain.DeployOutcome, error) {
	if strings.TrimSpace(d.config.DeployCommand) == "" {
		return domain.DeployOutcome{}, &domain.ConfigurationError{
			Application: d.Name(),
			Field:       "deploy_command",
			Reason:      "is a required setting",
		}
	}

	d.logger.Info("Downloading updates", "repository", d.config.Repository)
	if err := d.deps.VCS.Fetch(ctx, d.config.Repository, d.config.GitAuth); err != nil {
		return d.finish(ctx, "Fetching updates failed: "+err.Error(), fetchFailedExitCode), nil
	}

	d.logger.Info("Checking versions")
	latest, err := d.deps.VCS.LatestRevision(d.config.Repository)
	if err != nil {
		return d.finish(ctx, "Reading repository revision failed: "+err.Error(), fetchFailedExitCode), nil
	}
	d.revision = latest

	live, err := d.deps.VCS.LatestRevision(d.config.DeployedDir())
	if err != nil {
		return d.finish(ctx, "Reading deployed revision failed: "+err.Error(), fetchFailedExitCode), nil
	}

	if latest == live {
		d.logger.Info("No updates found", "revision", live)
		return domain.NoOpOutcome(), nil
	}
	d.logger.Info("Updating application", "from_revision", live, "to_revision", latest)

	d.checkAncestry(live)

	d.logger.Info("Deployment starting", "command", d.config.DeployCommand)

	runCtx := ctx
	if d.deps.DeployTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.deps.DeployTimeout)
		defer cancel()
	}

	res := d.deps.Runner.Run(runCtx, d.config.Repository, d.config.DeployCommand)
	return d.finish(ctx, res.Text(), res.ExitCode), nil
}

// checkAncestry warns when the deployed revision is not in the repository history.
// It never changes the outcome.
func (d *ApplicationDeployer) checkAncestry(live string) {
	history, err := d.deps.VCS.History(d.config.Repository)
	if err != nil {
		d.logger.Warn("Could not read repository history",
			"layer", "deployer",
			"operation", "ancestry_check",
			"error", err)
		return
	}
	if !slices.Contains(history, live) {
		d.logger.Warn("Deployed revision is not an ancestor of the repository HEAD",
			"deployed_revision", live)
	}
}

// finish classifies the collected text, logs the outcome and notifies.
func (d *ApplicationDeployer) finish(ctx context.Context, text string, exitCode int) domain.DeployOutcome {
	if Classify(d.deps.SuccessMode, text, exitCode) {
		if info, err := d.deps.VCS.LatestCommitInfo(d.config.DeployedDir()); err == nil {
			d.deployed = info
		}
		d.logger.Info("Successfully deployed application",
			"revision", d.deployed.Hash,
			"message", d.deployed.Message,
			"output", text)
		d.notify(ctx, notify.SuccessMessage(d.Name(), d.deployed))
		return domain.DeployOutcome{Status: domain.OutcomeDeployed, Message: text}
	}

	d.logger.Warn("Error when deploying application",
		"exit_code", exitCode,
		"output", text)
	d.notify(ctx, notify.FailureMessage(d.Name()))
	return domain.DeployOutcome{Status: domain.OutcomeFailed, Message: text}
}

func (d *ApplicationDeployer) notify(ctx context.Context, message string) {
	if d.deps.Notifier == nil {
		return
	}
	if err := d.deps.Notifier.Notify(ctx, message); err != nil {
		d.logger.Warn("Notification failed",
			"layer", "deployer",
			"operation", "notify",
			"error", err)
	}
}
