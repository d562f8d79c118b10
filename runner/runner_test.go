package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_RunCapturesCombinedOutput(t *testing.T) {
	r := NewExecRunner(nil)

	res := r.Run(context.Background(), t.TempDir(), `sh -c "echo out; echo err 1>&2"`)

	require.NoError(t, res.Err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Output, "out")
	assert.Contains(t, res.Output, "err")
}

func TestExecRunner_RunUsesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("here"), 0o644))

	res := NewExecRunner(nil).Run(context.Background(), dir, "cat marker.txt")

	require.NoError(t, res.Err)
	assert.Equal(t, "here", res.Output)
}

func TestExecRunner_RunPassesLeadingEnvAssignments(t *testing.T) {
	res := NewExecRunner(nil).Run(context.Background(), t.TempDir(), `STAGE=production sh -c 'echo $STAGE'`)

	require.NoError(t, res.Err)
	assert.Equal(t, "production\n", res.Output)
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	res := NewExecRunner(nil).Run(context.Background(), t.TempDir(), `sh -c "echo partial; exit 3"`)

	require.Error(t, res.Err)
	assert.Equal(t, 3, res.ExitCode)
	// Exit status is not folded into the text
	assert.Equal(t, "partial\n", res.Text())
}

func TestExecRunner_CommandNotFound(t *testing.T) {
	res := NewExecRunner(nil).Run(context.Background(), t.TempDir(), "definitely-not-a-real-binary --flag")

	require.Error(t, res.Err)
	assert.Equal(t, -1, res.ExitCode)
	assert.Contains(t, res.Text(), "command failed to start")
}

func TestExecRunner_EmptyCommand(t *testing.T) {
	res := NewExecRunner(nil).Run(context.Background(), t.TempDir(), "   ")

	require.Error(t, res.Err)
	assert.Contains(t, res.Text(), "empty command")
}

func TestExecRunner_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	res := NewExecRunner(nil).RunArgs(ctx, t.TempDir(), "sleep", "5")

	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, context.DeadlineExceeded))
	assert.Contains(t, res.Text(), "command failed: sleep interrupted")
}

func TestResult_Text(t *testing.T) {
	assert.Equal(t, "ok", Result{Output: "ok"}.Text())
	assert.Equal(t, "boom", Result{Err: errors.New("boom")}.Text())
	assert.Equal(t, "partial\nboom", Result{Output: "partial\n", Err: errors.New("boom")}.Text())
}
