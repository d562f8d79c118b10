package git

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pushr-cd/pushr/domain"
	"github.com/pushr-cd/pushr/runner"
)

// CLIService implements version control operations by running the git binary.
// Credentials come from the user's git setup; per-application auth is ignored.
type CLIService struct {
	runner  runner.Runner
	timeout time.Duration
	logger  *slog.Logger
}

func NewCLIService(r runner.Runner, timeout time.Duration, logger *slog.Logger) *CLIService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIService{runner: r, timeout: timeout, logger: logger}
}

func (s *CLIService) git(ctx context.Context, workingDir string, args ...string) (string, error) {
	res := s.runner.RunArgs(ctx, workingDir, "git", args...)
	if res.Err != nil {
		return res.Output, fmt.Errorf("git %s failed: %w: %s", args[0], res.Err, strings.TrimSpace(res.Output))
	}
	return res.Output, nil
}

func (s *CLIService) Fetch(ctx context.Context, workingDir string, gitAuth *domain.GitAuthConfig) error {
	if gitAuth != nil {
		s.logger.Debug("Ignoring per-application git auth with the cli backend", "working_dir", workingDir)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.git(ctx, workingDir, "pull")
	if err != nil {
		return err
	}

	s.logger.Debug("git pull completed", "working_dir", workingDir, "output", strings.TrimSpace(out))
	return nil
}

func (s *CLIService) LatestRevision(workingDir string) (string, error) {
	out, err := s.git(context.Background(), workingDir, "rev-list", "HEAD", "--max-count=1")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *CLIService) History(workingDir string) ([]string, error) {
	out, err := s.git(context.Background(), workingDir, "rev-list", "HEAD")
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}

func (s *CLIService) LatestCommitInfo(workingDir string) (domain.CommitInfo, error) {
	out, err := s.git(context.Background(), workingDir, "log", "--pretty=format:"+domain.CommitLogFormat, "-n", "1")
	if err != nil {
		return domain.CommitInfo{}, err
	}
	return domain.ParseCommitInfo(out)
}
