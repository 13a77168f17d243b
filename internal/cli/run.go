package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kineticfire-labs/dockrel/internal/docker"
	"github.com/kineticfire-labs/dockrel/internal/paths"
	"github.com/kineticfire-labs/dockrel/internal/pipeline"
	"github.com/kineticfire-labs/dockrel/internal/readiness"
)

// Represents the 'dockrel run' command.
type RunCmd struct {
	File            string `short:"f" help:"Pipeline file." default:"${pipeline_file}" placeholder:"PATH"`
	KeepEnvironment bool   `help:"Leave the compose environment running after the run."`
}

// Executes the run command.
//
// Loads the pipeline file, wires the docker client and readiness
// poller, executes one pipeline run, and records the run summary. The
// compose environment is torn down when the run brought it up, unless
// --keep-environment is set; teardown is best-effort and never masks
// the pipeline result.
func (c *RunCmd) Run(ctx context.Context) error {
	spec, err := pipeline.Load(c.File)
	if err != nil {
		return err
	}

	client := docker.NewClient(docker.NewRunner())
	defer client.Close()

	exec := pipeline.NewExecutor(
		spec,
		client,
		readiness.New(client),
		testFunc(client, spec.Test.Command),
		buildHooks(ctx, client, spec),
	)

	pc, runErr := exec.Run(ctx)

	if pc.EnvironmentStarted() && !c.KeepEnvironment {
		if err := client.ComposeDown(ctx, spec.Environment.Compose, spec.Environment.Project); err != nil {
			slog.Warn("environment teardown failed", "error", err)
		}
	}

	if err := writeSummary(paths.RunSummary(), pc, runErr); err != nil {
		slog.Warn("unable to write run summary", "error", err)
	}

	return runErr
}

// Builds the hook closures from the commands configured in the spec.
// Unconfigured hook points stay nil and are skipped by the executor.
func buildHooks(ctx context.Context, client *docker.Client, spec *pipeline.Spec) pipeline.Hooks {
	hooks := pipeline.Hooks{
		BeforeBuild: hookCommand(ctx, client, spec.Build.Before),
		AfterBuild:  hookCommand(ctx, client, spec.Build.After),
	}
	if spec.Success != nil {
		hooks.AfterSuccess = hookCommand(ctx, client, spec.Success.After)
	}
	if spec.Failure != nil {
		hooks.AfterFailure = hookCommand(ctx, client, spec.Failure.After)
	}
	return hooks
}

// Adapts a configured shell command into a zero-argument hook.
func hookCommand(ctx context.Context, client *docker.Client, command string) func() error {
	if command == "" {
		return nil
	}
	return func() error {
		res, err := client.Exec(ctx, "/bin/sh", "-c", command)
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("command %q: exit code %d: %s",
				command, res.ExitCode, strings.TrimSpace(res.Stderr))
		}
		return nil
	}
}

// Adapts the configured test command into the executor's test phase.
// A non-zero exit means the tests failed; a spawn failure is a harness
// error.
func testFunc(client *docker.Client, command string) pipeline.TestFunc {
	return func(ctx context.Context) (bool, error) {
		res, err := client.Exec(ctx, "/bin/sh", "-c", command)
		if err != nil {
			return false, err
		}
		if res.ExitCode != 0 {
			slog.Info("test command failed", "command", command, "exit_code", res.ExitCode)
			return false, nil
		}
		return true, nil
	}
}
