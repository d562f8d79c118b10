package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

var fixtureTime = time.Date(2026, 10, 18, 9, 12, 44, 0, time.FixedZone("CEST", 2*60*60))

// initRepo creates a repository with one commit in a fresh temp directory
func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	commitFile(t, repo, dir, "README.md", "# app\n", "Initial commit", fixtureTime)
	return dir, repo
}

// cloneRepo clones the repository at origin into a fresh temp directory
func cloneRepo(t *testing.T, origin string) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainClone(dir, false, &git.CloneOptions{URL: origin})
	require.NoError(t, err)
	return dir, repo
}

// commitFile writes a file and commits it
func commitFile(
	t *testing.T,
	repo *git.Repository,
	dir, name, content, message string,
	when time.Time,
) plumbing.Hash {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)

	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Jane Doe", Email: "jane@example.com", When: when},
	})
	require.NoError(t, err)
	return hash
}
