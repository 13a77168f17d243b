package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/distribution/reference"
	"gopkg.in/yaml.v3"

	"github.com/kineticfire-labs/dockrel/internal/readiness"
	"github.com/kineticfire-labs/dockrel/internal/release"
)

// Describes one release pipeline, as declared in the pipeline file.
// Specs are read-only for the duration of a run.
type Spec struct {
	Pipeline    string           `yaml:"pipeline"`
	Build       BuildSpec        `yaml:"build"`
	Environment *EnvironmentSpec `yaml:"environment"`
	Test        TestSpec         `yaml:"test"`
	Success     *SuccessSpec     `yaml:"success"`
	Failure     *FailureSpec     `yaml:"failure"`
}

// Configures the build phase.
type BuildSpec struct {
	Image      string            `yaml:"image"`
	Context    string            `yaml:"context"`
	Dockerfile string            `yaml:"dockerfile"`
	Args       map[string]string `yaml:"args"`
	Before     string            `yaml:"before"` // Hook command run before the build.
	After      string            `yaml:"after"`  // Hook command run after the build.
}

// Configures the compose environment and the readiness wait.
type EnvironmentSpec struct {
	Compose  []string     `yaml:"compose"`
	Project  string       `yaml:"project"`
	Wait     []WaitTarget `yaml:"wait"`
	Interval int          `yaml:"interval"` // Seconds between polling attempts.
	Attempts int          `yaml:"attempts"` // Retry budget.
}

// Declares one container the environment must bring to a disposition.
type WaitTarget struct {
	Container string `yaml:"container"`
	Target    string `yaml:"target"` // running or healthy
}

// Configures the test phase.
type TestSpec struct {
	Command string `yaml:"command"`
}

// Configures the success path. Absent sub-blocks mean the operation is
// skipped, not defaulted.
type SuccessSpec struct {
	Tags    []string          `yaml:"tags"`
	Save    *release.SaveSpec `yaml:"save"`
	Publish []release.Target  `yaml:"publish"`
	After   string            `yaml:"after"` // Hook command run after the success path.
}

// Configures the failure path.
type FailureSpec struct {
	After string `yaml:"after"` // Hook command run after a failed test phase.
}

// Reads and validates a pipeline file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &spec, nil
}

// Checks the spec before any docker command runs. Every present
// sub-block must be fully specified.
func (s *Spec) Validate() error {
	if s.Pipeline == "" {
		return fmt.Errorf("%w: pipeline name is required", ErrConfig)
	}

	if s.Build.Image == "" {
		return fmt.Errorf("%w: build.image is required", ErrConfig)
	}
	if _, err := reference.ParseNormalizedNamed(s.Build.Image); err != nil {
		return fmt.Errorf("%w: build.image %q: %w", ErrConfig, s.Build.Image, err)
	}

	if s.Test.Command == "" {
		return fmt.Errorf("%w: test.command is required", ErrConfig)
	}

	if s.Environment != nil {
		if err := s.Environment.validate(); err != nil {
			return err
		}
	}

	if s.Success != nil {
		if err := s.Success.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (e *EnvironmentSpec) validate() error {
	if len(e.Compose) == 0 {
		return fmt.Errorf("%w: environment requires at least one compose file", ErrConfig)
	}
	if len(e.Wait) == 0 {
		return fmt.Errorf("%w: environment requires at least one wait target", ErrConfig)
	}
	for _, w := range e.Wait {
		if w.Container == "" {
			return fmt.Errorf("%w: wait target requires a container name", ErrConfig)
		}
		if _, err := readiness.ParseDisposition(w.Target); err != nil {
			return fmt.Errorf("%w: wait target %q: %w", ErrConfig, w.Container, err)
		}
	}
	if e.Interval < 0 {
		return fmt.Errorf("%w: interval must not be negative", ErrConfig)
	}
	if e.Attempts < 0 {
		return fmt.Errorf("%w: attempts must not be negative", ErrConfig)
	}
	return nil
}

func (s *SuccessSpec) validate() error {
	for _, tag := range s.Tags {
		if _, err := reference.ParseNormalizedNamed(tag); err != nil {
			return fmt.Errorf("%w: tag %q: %w", ErrConfig, tag, err)
		}
	}
	if s.Save != nil {
		if err := s.Save.Validate(); err != nil {
			return fmt.Errorf("%w: save: %w", ErrConfig, err)
		}
	}
	for _, target := range s.Publish {
		if err := target.Validate(); err != nil {
			return fmt.Errorf("%w: publish: %w", ErrConfig, err)
		}
	}
	return nil
}

// Returns the wait targets as a container-to-disposition map for the
// readiness poller. Call only on a validated spec.
func (e *EnvironmentSpec) Targets() map[string]readiness.Disposition {
	targets := make(map[string]readiness.Disposition, len(e.Wait))
	for _, w := range e.Wait {
		d, err := readiness.ParseDisposition(w.Target)
		if err != nil {
			// The poller reports the illegal target itself.
			d = readiness.Disposition(w.Target)
		}
		targets[w.Container] = d
	}
	return targets
}

// Returns the configured polling interval or the default.
func (e *EnvironmentSpec) PollInterval() time.Duration {
	if e.Interval > 0 {
		return time.Duration(e.Interval) * time.Second
	}
	return readiness.DefaultInterval
}

// Returns the configured retry budget or the default.
func (e *EnvironmentSpec) PollAttempts() int {
	if e.Attempts > 0 {
		return e.Attempts
	}
	return readiness.DefaultAttempts
}
