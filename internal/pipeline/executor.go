package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kineticfire-labs/dockrel/internal/docker"
	"github.com/kineticfire-labs/dockrel/internal/readiness"
	"github.com/kineticfire-labs/dockrel/internal/release"
)

// Zero-argument callbacks invoked synchronously at the fixed extension
// points of a run. Nil hooks are skipped; a hook error aborts the run
// at that point.
type Hooks struct {
	BeforeBuild  func() error
	AfterBuild   func() error
	AfterSuccess func() error
	AfterFailure func() error
}

// Runs the test phase. A false result means the tests ran and failed;
// an error means the harness itself failed, which is fatal.
type TestFunc func(ctx context.Context) (bool, error)

// Drives one pipeline run from build to completion.
type Executor struct {
	spec   *Spec
	client *docker.Client
	poller *readiness.Poller
	test   TestFunc
	hooks  Hooks
}

// Creates an executor for one validated spec.
func NewExecutor(spec *Spec, client *docker.Client, poller *readiness.Poller, test TestFunc, hooks Hooks) *Executor {
	return &Executor{
		spec:   spec,
		client: client,
		poller: poller,
		test:   test,
		hooks:  hooks,
	}
}

// Executes the pipeline phases in strict order: build, environment up,
// readiness wait, test, then exactly one of the success or failure
// paths. The returned context reflects everything the run committed,
// including when the error is non-nil.
func (e *Executor) Run(ctx context.Context) (*Context, error) {
	pc := newContext(e.spec.Pipeline)

	slog.Info("pipeline starting", "pipeline", pc.Name(), "image", e.spec.Build.Image)

	if err := e.build(ctx, pc); err != nil {
		return pc, err
	}

	if env := e.spec.Environment; env != nil {
		if err := e.up(ctx, pc, env); err != nil {
			return pc, err
		}
		if err := e.awaitReady(ctx, env); err != nil {
			return pc, err
		}
	}

	if err := e.runTests(ctx, pc); err != nil {
		return pc, err
	}

	// The branch is total: one of the two paths always runs.
	if pc.TestResult() == TestPassed {
		return pc, e.succeed(ctx, pc)
	}
	return pc, e.fail(pc)
}

// Builds the image and records it in the context, bracketed by the
// before and after build hooks.
func (e *Executor) build(ctx context.Context, pc *Context) error {
	if e.spec.Build.Image == "" {
		return fmt.Errorf("%w: build.image is required", ErrConfig)
	}

	if err := runHook("before-build", e.hooks.BeforeBuild); err != nil {
		return err
	}

	slog.Info("building image", "image", e.spec.Build.Image)

	err := e.client.Build(ctx, docker.BuildOptions{
		Image:      e.spec.Build.Image,
		Context:    e.spec.Build.Context,
		Dockerfile: e.spec.Build.Dockerfile,
		Args:       e.spec.Build.Args,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}

	if err := pc.setBuiltImage(e.spec.Build.Image); err != nil {
		return err
	}

	return runHook("after-build", e.hooks.AfterBuild)
}

// Starts the declared compose environment. The context is marked
// before the attempt: a failed "compose up" can still leave containers
// behind, so teardown is owed either way.
func (e *Executor) up(ctx context.Context, pc *Context, env *EnvironmentSpec) error {
	slog.Info("starting environment", "compose", env.Compose, "project", env.Project)

	pc.markEnvironmentStarted()
	if err := e.client.ComposeUp(ctx, env.Compose, env.Project); err != nil {
		return fmt.Errorf("%w: %w", ErrEnvironment, err)
	}
	return nil
}

// Blocks until the declared containers reach their dispositions. The
// test phase must never run against containers that did not get there.
func (e *Executor) awaitReady(ctx context.Context, env *EnvironmentSpec) error {
	targets := env.Targets()
	slog.Info("waiting for containers", "targets", len(targets))

	outcome := e.poller.Wait(ctx, targets, env.PollInterval(), env.PollAttempts())
	if !outcome.Success {
		return fmt.Errorf("%w: %s", ErrNotReady, outcome)
	}

	slog.Info("containers ready")
	return nil
}

// Runs the test phase and records the result. Exactly one transition
// to passed or failed happens here.
func (e *Executor) runTests(ctx context.Context, pc *Context) error {
	slog.Info("running tests", "pipeline", pc.Name())

	passed, err := e.test(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTestHarness, err)
	}

	result := TestFailed
	if passed {
		result = TestPassed
	}
	if err := pc.setTestResult(result); err != nil {
		return err
	}

	slog.Info("test phase finished", "result", result)
	return nil
}

// Success path: tags, then save, then publish, then the after-success
// hook. Each operation is skipped entirely when its block is absent. A
// failure aborts the remaining operations; earlier side effects stay.
func (e *Executor) succeed(ctx context.Context, pc *Context) error {
	if s := e.spec.Success; s != nil {
		built, err := pc.requireBuiltImage()
		if err != nil {
			return err
		}

		if len(s.Tags) > 0 {
			applied, err := release.ApplyTags(ctx, e.client, built, s.Tags)
			pc.addTags(applied...)
			if err != nil {
				return err
			}
		}

		if s.Save != nil {
			if err := release.Save(ctx, e.client, built, *s.Save); err != nil {
				return err
			}
		}

		if len(s.Publish) > 0 {
			published, err := release.Publish(ctx, e.client, built, s.Publish)
			pc.addPublished(published...)
			if err != nil {
				return err
			}
		}
	}

	if err := runHook("after-success", e.hooks.AfterSuccess); err != nil {
		return err
	}

	slog.Info("pipeline succeeded", "pipeline", pc.Name(), "tags", pc.AppliedTags())
	return nil
}

// Failure path: the after-failure hook only. Release operations never
// run when the tests failed.
func (e *Executor) fail(pc *Context) error {
	if err := runHook("after-failure", e.hooks.AfterFailure); err != nil {
		return err
	}

	return fmt.Errorf("%w: pipeline %q", ErrTestsFailed, pc.Name())
}

// Invokes a hook when configured, wrapping its error with the hook
// point for diagnostics.
func runHook(point string, hook func() error) error {
	if hook == nil {
		return nil
	}
	slog.Debug("running hook", "point", point)
	if err := hook(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrHook, point, err)
	}
	return nil
}
