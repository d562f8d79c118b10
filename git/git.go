// Package git provides the version control operations Pushr needs: fetch, revisions, history and commit info.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/pushr-cd/pushr/domain"
)

// ISOTimestampLayout matches git's %ci format.
const ISOTimestampLayout = "2006-01-02 15:04:05 -0700"

// shortHashLength matches git's default abbreviation.
const shortHashLength = 7

// GitService implements version control operations on top of go-git
type GitService struct {
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

func NewGitService(timeout time.Duration, logger *slog.Logger) *GitService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GitService{
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// createAuthMethod creates a transport.AuthMethod from GitAuthConfig
func (s *GitService) createAuthMethod(auth *domain.GitAuthConfig) (transport.AuthMethod, error) {
	if auth == nil {
		return nil, nil // Public repo
	}

	if auth.HTTPAuth != nil {
		return &http.BasicAuth{
			Username: auth.HTTPAuth.Username,
			Password: auth.HTTPAuth.Password,
		}, nil
	}

	if auth.SSHAuth != nil {
		return s.createSSHAuth(auth.SSHAuth)
	}

	return nil, nil
}

// createSSHAuth creates SSH authentication from GitSSHAuthConfig
func (s *GitService) createSSHAuth(config *domain.GitSSHAuthConfig) (transport.AuthMethod, error) {
	if config == nil {
		return nil, fmt.Errorf("SSH auth config is nil")
	}

	user := config.User
	if user == "" {
		user = "git"
	}

	return ssh.NewPublicKeys(user, []byte(config.PrivateKey), "")
}

// Fetch brings the checked-out branch of the working copy at workingDir up to date
// with its upstream. It is the equivalent of git fetch && git reset --hard @{upstream},
// so force-pushed branches are followed.
func (s *GitService) Fetch(ctx context.Context, workingDir string, gitAuth *domain.GitAuthConfig) error {
	s.logger.Debug("Fetching repository changes", "working_dir", workingDir)

	repo, err := git.PlainOpen(workingDir)
	if err != nil {
		s.logError("git_fetch", workingDir, err)
		return fmt.Errorf("failed to open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		s.logError("git_fetch", workingDir, err)
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return fmt.Errorf("HEAD of %s is detached, expected a branch", workingDir)
	}
	branchName := head.Name().Short()

	remoteName, mergeBranch, err := upstreamOf(repo, branchName)
	if err != nil {
		s.logError("git_fetch", workingDir, err)
		return err
	}

	authMethod, err := s.createAuthMethod(gitAuth)
	if err != nil {
		return fmt.Errorf("failed to create auth method: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteName,
		Auth:       authMethod,
		RefSpecs: []config.RefSpec{
			config.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", mergeBranch, remoteName, mergeBranch)),
		},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		s.logError("git_fetch", workingDir, err)
		return fmt.Errorf("failed to fetch from %s: %w", remoteName, err)
	}

	remoteRefName := plumbing.NewRemoteReferenceName(remoteName, mergeBranch)
	remoteRef, err := repo.Reference(remoteRefName, true)
	if err != nil {
		s.logError("git_fetch_get_remote_ref", workingDir, err)
		return fmt.Errorf("failed to get remote reference %s: %w", remoteRefName, err)
	}

	if head.Hash() == remoteRef.Hash() {
		s.logger.Debug("Repository already up to date", "working_dir", workingDir, "git_branch", branchName)
		return nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		s.logError("git_fetch", workingDir, err)
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	// Moves the branch ref and discards local changes to tracked files
	err = worktree.Reset(&git.ResetOptions{
		Commit: remoteRef.Hash(),
		Mode:   git.HardReset,
	})
	if err != nil {
		s.logError("git_fetch_reset", workingDir, err)
		return fmt.Errorf("failed to reset to %s: %w", remoteRef.Hash(), err)
	}

	s.logger.Info("Repository updated",
		"working_dir", workingDir,
		"git_branch", branchName,
		"from_commit", head.Hash().String(),
		"to_commit", remoteRef.Hash().String())

	return nil
}

// upstreamOf returns the remote and remote branch tracked by branchName,
// falling back to origin and the same branch name.
func upstreamOf(repo *git.Repository, branchName string) (string, string, error) {
	cfg, err := repo.Config()
	if err != nil {
		return "", "", fmt.Errorf("failed to read repository config: %w", err)
	}

	remoteName := git.DefaultRemoteName
	mergeBranch := branchName
	if branch, ok := cfg.Branches[branchName]; ok {
		if branch.Remote != "" {
			remoteName = branch.Remote
		}
		if branch.Merge != "" {
			mergeBranch = branch.Merge.Short()
		}
	}

	if _, ok := cfg.Remotes[remoteName]; !ok {
		return "", "", fmt.Errorf("remote %q is not configured", remoteName)
	}

	return remoteName, mergeBranch, nil
}

// LatestRevision returns the full hash of HEAD
func (s *GitService) LatestRevision(workingDir string) (string, error) {
	repo, err := git.PlainOpen(workingDir)
	if err != nil {
		s.logError("git_get_commit", workingDir, err)
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		s.logError("git_get_commit", workingDir, err)
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	return ref.Hash().String(), nil
}

// History returns the hashes of every commit reachable from HEAD, most recent first
func (s *GitService) History(workingDir string) ([]string, error) {
	repo, err := git.PlainOpen(workingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		s.logError("git_history", workingDir, err)
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer iter.Close()

	var hashes []string
	err = iter.ForEach(func(c *object.Commit) error {
		hashes = append(hashes, c.Hash.String())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history: %w", err)
	}

	return hashes, nil
}

// LatestCommitInfo describes the commit at HEAD
func (s *GitService) LatestCommitInfo(workingDir string) (domain.CommitInfo, error) {
	repo, err := git.PlainOpen(workingDir)
	if err != nil {
		return domain.CommitInfo{}, fmt.Errorf("failed to open repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		return domain.CommitInfo{}, fmt.Errorf("failed to get HEAD: %w", err)
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return domain.CommitInfo{}, fmt.Errorf("failed to get commit: %w", err)
	}

	return s.commitInfo(commit), nil
}

func (s *GitService) commitInfo(commit *object.Commit) domain.CommitInfo {
	hash := commit.Hash.String()
	subject, _, _ := strings.Cut(strings.TrimSpace(commit.Message), "\n")

	return domain.CommitInfo{
		Hash:         hash[:shortHashLength],
		Message:      strings.TrimSpace(subject),
		Author:       commit.Author.Name,
		// %ar is the author date, %ci the committer date
		RelativeTime: humanize.RelTime(commit.Author.When, s.now(), "ago", "from now"),
		ISOTimestamp: commit.Committer.When.Format(ISOTimestampLayout),
	}
}

func (s *GitService) logError(operation, workingDir string, err error) {
	s.logger.Error("Service operation failed",
		"layer", "git",
		"operation", operation,
		"working_dir", workingDir,
		"error", err)
}
