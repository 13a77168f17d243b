package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kineticfire-labs/dockrel/internal/readiness"
	"github.com/kineticfire-labs/dockrel/internal/release"
)

func validSpec() *Spec {
	return &Spec{
		Pipeline: "greeting-app",
		Build:    BuildSpec{Image: "greeting-app:1.0"},
		Test:     TestSpec{Command: "./run-tests.sh"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Spec)
		wantErr bool
	}{
		{"minimal valid spec", func(s *Spec) {}, false},
		{"missing pipeline name", func(s *Spec) { s.Pipeline = "" }, true},
		{"missing build image", func(s *Spec) { s.Build.Image = "" }, true},
		{"invalid build image", func(s *Spec) { s.Build.Image = "UPPER CASE" }, true},
		{"missing test command", func(s *Spec) { s.Test.Command = "" }, true},
		{
			"environment without compose files",
			func(s *Spec) {
				s.Environment = &EnvironmentSpec{
					Wait: []WaitTarget{{Container: "c", Target: "running"}},
				}
			},
			true,
		},
		{
			"environment without wait targets",
			func(s *Spec) {
				s.Environment = &EnvironmentSpec{Compose: []string{"dc.yml"}}
			},
			true,
		},
		{
			"wait target without container",
			func(s *Spec) {
				s.Environment = &EnvironmentSpec{
					Compose: []string{"dc.yml"},
					Wait:    []WaitTarget{{Target: "running"}},
				}
			},
			true,
		},
		{
			"wait target with unknown disposition",
			func(s *Spec) {
				s.Environment = &EnvironmentSpec{
					Compose: []string{"dc.yml"},
					Wait:    []WaitTarget{{Container: "c", Target: "ready"}},
				}
			},
			true,
		},
		{
			"valid environment",
			func(s *Spec) {
				s.Environment = &EnvironmentSpec{
					Compose:  []string{"dc.yml"},
					Wait:     []WaitTarget{{Container: "c", Target: "healthy"}},
					Interval: 1,
					Attempts: 5,
				}
			},
			false,
		},
		{
			"negative interval",
			func(s *Spec) {
				s.Environment = &EnvironmentSpec{
					Compose:  []string{"dc.yml"},
					Wait:     []WaitTarget{{Container: "c", Target: "running"}},
					Interval: -1,
				}
			},
			true,
		},
		{
			"invalid additional tag",
			func(s *Spec) {
				s.Success = &SuccessSpec{Tags: []string{"not a ref"}}
			},
			true,
		},
		{
			"save without path",
			func(s *Spec) {
				s.Success = &SuccessSpec{Save: &release.SaveSpec{Compression: "gzip"}}
			},
			true,
		},
		{
			"save with unknown compression",
			func(s *Spec) {
				s.Success = &SuccessSpec{Save: &release.SaveSpec{Path: "a.tar", Compression: "rar"}}
			},
			true,
		},
		{
			"publish target without name",
			func(s *Spec) {
				s.Success = &SuccessSpec{Publish: []release.Target{{Namespace: "acme"}}}
			},
			true,
		},
		{
			"full success block",
			func(s *Spec) {
				s.Success = &SuccessSpec{
					Tags:    []string{"greeting-app:latest"},
					Save:    &release.SaveSpec{Path: "a.tar.gz", Compression: "gzip"},
					Publish: []release.Target{{Name: "hub", Namespace: "acme"}},
				}
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(spec)

			err := spec.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrConfig) {
					t.Fatalf("err = %v, want ErrConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	doc := `
pipeline: greeting-app
build:
  image: greeting-app:1.2.3
  context: .
  args:
    VERSION: 1.2.3
environment:
  compose:
    - docker-compose.yml
  project: greeting-it
  wait:
    - container: greeting-app
      target: healthy
    - container: greeting-db
      target: running
  interval: 1
  attempts: 5
test:
  command: ./gradlew integrationTest
success:
  tags:
    - greeting-app:latest
  save:
    path: dist/greeting-app.tar.gz
    compression: gzip
  publish:
    - name: dockerhub
      namespace: kineticfire
      tag: 1.2.3
failure:
  after: ./scripts/cleanup.sh
`
	path := filepath.Join(t.TempDir(), "dockrel.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if spec.Pipeline != "greeting-app" {
		t.Fatalf("pipeline = %q, want greeting-app", spec.Pipeline)
	}
	if spec.Build.Args["VERSION"] != "1.2.3" {
		t.Fatalf("build args = %v, want VERSION=1.2.3", spec.Build.Args)
	}
	if len(spec.Environment.Wait) != 2 {
		t.Fatalf("wait targets = %d, want 2", len(spec.Environment.Wait))
	}
	if spec.Success.Save.Compression != "gzip" {
		t.Fatalf("compression = %q, want gzip", spec.Success.Save.Compression)
	}
	if spec.Failure.After != "./scripts/cleanup.sh" {
		t.Fatalf("failure.after = %q, want ./scripts/cleanup.sh", spec.Failure.After)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dockrel.yaml")
	if err := os.WriteFile(path, []byte("pipeline: p\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestEnvironmentPollDefaults(t *testing.T) {
	env := &EnvironmentSpec{}
	if got := env.PollInterval(); got != readiness.DefaultInterval {
		t.Fatalf("PollInterval = %v, want default %v", got, readiness.DefaultInterval)
	}
	if got := env.PollAttempts(); got != readiness.DefaultAttempts {
		t.Fatalf("PollAttempts = %d, want default %d", got, readiness.DefaultAttempts)
	}

	env = &EnvironmentSpec{Interval: 5, Attempts: 3}
	if got := env.PollInterval(); got != 5*time.Second {
		t.Fatalf("PollInterval = %v, want 5s", got)
	}
	if got := env.PollAttempts(); got != 3 {
		t.Fatalf("PollAttempts = %d, want 3", got)
	}
}

func TestEnvironmentTargets(t *testing.T) {
	env := &EnvironmentSpec{
		Wait: []WaitTarget{
			{Container: "app", Target: "healthy"},
			{Container: "db", Target: "running"},
		},
	}

	targets := env.Targets()
	if targets["app"] != readiness.Healthy {
		t.Fatalf("app target = %q, want healthy", targets["app"])
	}
	if targets["db"] != readiness.Running {
		t.Fatalf("db target = %q, want running", targets["db"])
	}
}
