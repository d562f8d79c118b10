package git

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pushr-cd/pushr/domain"
	"github.com/pushr-cd/pushr/runner"
	"github.com/pushr-cd/pushr/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCLIService_LatestRevision(t *testing.T) {
	r := new(mocks.MockRunner)
	r.On("RunArgs", mock.Anything, "/srv/repo", "git", []string{"rev-list", "HEAD", "--max-count=1"}).
		Return(runner.Result{Output: "0123456789abcdef\n"})

	rev, err := NewCLIService(r, time.Minute, nil).LatestRevision("/srv/repo")
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", rev)
	r.AssertExpectations(t)
}

func TestCLIService_History(t *testing.T) {
	r := new(mocks.MockRunner)
	r.On("RunArgs", mock.Anything, "/srv/repo", "git", []string{"rev-list", "HEAD"}).
		Return(runner.Result{Output: "ccc\nbbb\naaa\n"})

	history, err := NewCLIService(r, time.Minute, nil).History("/srv/repo")
	require.NoError(t, err)
	assert.Equal(t, []string{"ccc", "bbb", "aaa"}, history)
}

func TestCLIService_LatestCommitInfo(t *testing.T) {
	r := new(mocks.MockRunner)
	r.On("RunArgs", mock.Anything, "/srv/app", "git",
		[]string{"log", "--pretty=format:" + domain.CommitLogFormat, "-n", "1"}).
		Return(runner.Result{Output: "abc1234 ;;;;; Fix cart ;;;;; Jane ;;;;; 2 days ago ;;;;; 2026-10-16 10:00:00 +0000"})

	info, err := NewCLIService(r, time.Minute, nil).LatestCommitInfo("/srv/app")
	require.NoError(t, err)
	assert.Equal(t, domain.CommitInfo{
		Hash:         "abc1234",
		Message:      "Fix cart",
		Author:       "Jane",
		RelativeTime: "2 days ago",
		ISOTimestamp: "2026-10-16 10:00:00 +0000",
	}, info)
}

func TestCLIService_FetchError(t *testing.T) {
	r := new(mocks.MockRunner)
	r.On("RunArgs", mock.Anything, "/srv/repo", "git", []string{"pull"}).
		Return(runner.Result{Output: "fatal: not a git repository", ExitCode: 128, Err: errors.New("exit status 128")})

	err := NewCLIService(r, time.Minute, nil).Fetch(context.Background(), "/srv/repo", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git pull failed")
	assert.Contains(t, err.Error(), "fatal: not a git repository")
}

func TestCLIService_FetchAppliesTimeout(t *testing.T) {
	r := new(mocks.MockRunner)
	r.On("RunArgs", mock.Anything, "/srv/repo", "git", []string{"pull"}).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(interface{ Deadline() (time.Time, bool) })
			_, ok := ctx.Deadline()
			assert.True(t, ok, "fetch context should carry a deadline")
		}).
		Return(runner.Result{Output: "Already up to date.\n"})

	require.NoError(t, NewCLIService(r, time.Minute, nil).Fetch(context.Background(), "/srv/repo", nil))
	r.AssertExpectations(t)
}
