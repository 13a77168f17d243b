package docker

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// Scripted runner returning canned results keyed by the joined argv.
// Unmatched commands fall back to the default result.
type fakeRunner struct {
	results  map[string]*ExecResult
	fallback *ExecResult
	spawnErr error
	calls    []string
}

func (f *fakeRunner) Run(ctx context.Context, argv ...string) (*ExecResult, error) {
	return f.RunIn(ctx, "", argv...)
}

func (f *fakeRunner) RunIn(ctx context.Context, dir string, argv ...string) (*ExecResult, error) {
	key := strings.Join(argv, " ")
	f.calls = append(f.calls, key)

	if f.spawnErr != nil {
		return nil, f.spawnErr
	}
	if res, ok := f.results[key]; ok {
		return res, nil
	}
	if f.fallback != nil {
		return f.fallback, nil
	}
	return &ExecResult{ExitCode: 0}, nil
}

func inspectKey(format, container string) string {
	return strings.Join([]string{dockerBin, "inspect", "--format", format, container}, " ")
}

func TestState(t *testing.T) {
	tests := []struct {
		name   string
		result *ExecResult
		want   RawState
	}{
		{"running", &ExecResult{Stdout: "running\n"}, StateRunning},
		{"created", &ExecResult{Stdout: "created\n"}, StateCreated},
		{"restarting", &ExecResult{Stdout: "restarting\n"}, StateRestarting},
		{"paused", &ExecResult{Stdout: "paused\n"}, StatePaused},
		{"exited", &ExecResult{Stdout: "exited\n"}, StateExited},
		{"dead", &ExecResult{Stdout: "dead\n"}, StateDead},
		{
			"no such object",
			&ExecResult{ExitCode: 1, Stderr: "Error: No such object: app\n"},
			StateNotFound,
		},
		{
			"daemon unreachable",
			&ExecResult{ExitCode: 1, Stderr: "Cannot connect to the Docker daemon\n"},
			StateError,
		},
		{"unrecognized state", &ExecResult{Stdout: "meditating\n"}, StateError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(&fakeRunner{
				results: map[string]*ExecResult{
					inspectKey(stateFormat, "app"): tt.result,
				},
			})

			got, _ := c.State(context.Background(), "app")
			if got != tt.want {
				t.Fatalf("State = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStateSpawnError(t *testing.T) {
	c := NewClient(&fakeRunner{spawnErr: fmt.Errorf("exec format error")})

	got, detail := c.State(context.Background(), "app")
	if got != StateError {
		t.Fatalf("State = %q, want %q", got, StateError)
	}
	if detail == "" {
		t.Fatal("expected diagnostic detail on spawn error")
	}
}

func TestStateErrorDetail(t *testing.T) {
	c := NewClient(&fakeRunner{
		results: map[string]*ExecResult{
			inspectKey(stateFormat, "app"): {ExitCode: 1, Stderr: "permission denied\n"},
		},
	})

	got, detail := c.State(context.Background(), "app")
	if got != StateError {
		t.Fatalf("State = %q, want %q", got, StateError)
	}
	if detail != "permission denied" {
		t.Fatalf("detail = %q, want %q", detail, "permission denied")
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		result *ExecResult
		want   RawHealth
	}{
		{"healthy", &ExecResult{Stdout: "healthy\n"}, HealthHealthy},
		{"unhealthy", &ExecResult{Stdout: "unhealthy\n"}, HealthUnhealthy},
		{"starting", &ExecResult{Stdout: "starting\n"}, HealthStarting},
		{"nil output means no health check", &ExecResult{Stdout: "<nil>\n"}, HealthNone},
		{"no value output means no health check", &ExecResult{Stdout: "<no value>\n"}, HealthNone},
		{
			"missing health key means no health check",
			&ExecResult{ExitCode: 1, Stderr: `template parsing error: map has no entry for key "Health"`},
			HealthNone,
		},
		{
			"nil pointer means no health check",
			&ExecResult{ExitCode: 1, Stderr: "template parsing error: nil pointer evaluating *container.Health.Status"},
			HealthNone,
		},
		{
			"no such object",
			&ExecResult{ExitCode: 1, Stderr: "Error: No such object: app\n"},
			HealthNotFound,
		},
		{
			"daemon unreachable",
			&ExecResult{ExitCode: 1, Stderr: "Cannot connect to the Docker daemon\n"},
			HealthError,
		},
		{"unrecognized status", &ExecResult{Stdout: "thriving\n"}, HealthError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(&fakeRunner{
				results: map[string]*ExecResult{
					inspectKey(healthFormat, "app"): tt.result,
				},
			})

			got, _ := c.Health(context.Background(), "app")
			if got != tt.want {
				t.Fatalf("Health = %q, want %q", got, tt.want)
			}
		})
	}
}
