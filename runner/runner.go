// Package runner executes external commands and captures their combined output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
)

// waitDelay bounds how long Wait blocks on inherited pipes after the process is killed.
const waitDelay = 10 * time.Second

// Result is the captured outcome of one command.
type Result struct {
	// Output holds stdout and stderr interleaved as written.
	Output   string
	ExitCode int
	// Err is set when the command could not be started, timed out, or exited non-zero.
	Err error
}

// Text returns the captured output followed by a description of any failure
// to run the command. A non-zero exit on its own adds nothing.
func (r Result) Text() string {
	if r.Err == nil {
		return r.Output
	}
	var exitErr *exec.ExitError
	if errors.As(r.Err, &exitErr) {
		return r.Output
	}
	if r.Output == "" {
		return r.Err.Error()
	}
	return strings.TrimRight(r.Output, "\n") + "\n" + r.Err.Error()
}

// Runner runs commands in a working directory.
type Runner interface {
	// Run splits a command line into words and runs it without a shell.
	Run(ctx context.Context, dir, commandLine string) Result
	// RunArgs runs name with args.
	RunArgs(ctx context.Context, dir, name string, args ...string) Result
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	logger *slog.Logger
}

// Ensure ExecRunner implements Runner
var _ Runner = (*ExecRunner)(nil)

func NewExecRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, dir, commandLine string) Result {
	envs, args, err := shellwords.ParseWithEnvs(commandLine)
	if err != nil {
		return Result{ExitCode: -1, Err: fmt.Errorf("command failed to parse %q: %w", commandLine, err)}
	}
	if len(args) == 0 {
		return Result{ExitCode: -1, Err: fmt.Errorf("command failed to parse %q: empty command", commandLine)}
	}

	return r.run(ctx, dir, envs, args[0], args[1:]...)
}

func (r *ExecRunner) RunArgs(ctx context.Context, dir, name string, args ...string) Result {
	return r.run(ctx, dir, nil, name, args...)
}

func (r *ExecRunner) run(ctx context.Context, dir string, envs []string, name string, args ...string) Result {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay
	if len(envs) > 0 {
		cmd.Env = append(os.Environ(), envs...)
	}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	r.logger.Debug("Executing command",
		"layer", "runner",
		"command", cmd.String(),
		"working_dir", dir)

	started := time.Now()
	err := cmd.Run()
	result := Result{Output: output.String()}

	switch {
	case err == nil:
		result.ExitCode = 0
	case ctx.Err() != nil:
		result.ExitCode = -1
		result.Err = fmt.Errorf("command failed: %s interrupted after %s: %w",
			name, time.Since(started).Round(time.Second), ctx.Err())
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			result.Err = err
		} else {
			result.ExitCode = -1
			result.Err = fmt.Errorf("command failed to start: %w", err)
		}
	}

	if result.Err != nil {
		r.logger.Debug("Command finished with error",
			"layer", "runner",
			"command", cmd.String(),
			"exit_code", result.ExitCode,
			"error", result.Err)
	}

	return result
}
