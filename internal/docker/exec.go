package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Output of an external command execution.
type ExecResult struct {
	ExitCode int    // Exit code of the process.
	Stdout   string // Captured standard output.
	Stderr   string // Captured standard error.
}

// Executes external commands.
//
// Run spawns the command given as an argv vector and blocks until it
// exits. The returned error covers only failures to spawn or wait on
// the process; a command that ran and exited non-zero is reported
// through [ExecResult.ExitCode], and the caller decides how to handle
// it.
type Runner interface {
	Run(ctx context.Context, argv ...string) (*ExecResult, error)
	RunIn(ctx context.Context, dir string, argv ...string) (*ExecResult, error)
}

// Creates a [Runner] backed by os/exec.
func NewRunner() Runner {
	return &execRunner{}
}

type execRunner struct{}

// Runs a command in the current working directory.
func (r *execRunner) Run(ctx context.Context, argv ...string) (*ExecResult, error) {
	return r.RunIn(ctx, "", argv...)
}

// Runs a command in the given working directory. An empty dir means
// the current working directory.
func (r *execRunner) RunIn(ctx context.Context, dir string, argv ...string) (*ExecResult, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("running %s: %w", argv[0], err)
		}
	}

	return &ExecResult{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
