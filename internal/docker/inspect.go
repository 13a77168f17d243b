package docker

import (
	"context"
	"fmt"
	"strings"
)

// Running-state of a single container as reported by the runtime.
type RawState string

const (
	StateCreated    RawState = "created"
	StateRestarting RawState = "restarting"
	StateRunning    RawState = "running"
	StatePaused     RawState = "paused"
	StateExited     RawState = "exited"
	StateDead       RawState = "dead"
	StateNotFound   RawState = "not-found"
	StateError      RawState = "error"
)

// Health status of a single container as reported by the runtime.
type RawHealth string

const (
	HealthHealthy   RawHealth = "healthy"
	HealthUnhealthy RawHealth = "unhealthy"
	HealthStarting  RawHealth = "starting"
	HealthNone      RawHealth = "no-healthcheck"
	HealthNotFound  RawHealth = "not-found"
	HealthError     RawHealth = "error"
)

// Queries the current disposition of a single named container.
//
// The second return value carries raw diagnostic text when the result
// is [StateError] or [HealthError], and is empty otherwise.
type Inspector interface {
	State(ctx context.Context, container string) (RawState, string)
	Health(ctx context.Context, container string) (RawHealth, string)
}

// Inspect format templates for state and health queries.
const (
	stateFormat  = "{{.State.Status}}"
	healthFormat = "{{.State.Health.Status}}"
)

// Substring markers in docker CLI error text. The CLI reports errors as
// free text rather than structured codes, so these checks are the
// compatibility contract with it.
const (
	notFoundMarker    = "No such object"
	noHealthKeyMarker = "map has no entry for key"
	noHealthNilMarker = "nil pointer evaluating"
)

// Stdout values the health template yields when the container has no
// health check configured.
var noHealthOutputs = map[string]bool{
	"<nil>":      true,
	"<no value>": true,
}

// Queries the running-state of a container via "docker inspect".
func (c *Client) State(ctx context.Context, container string) (RawState, string) {
	res, err := c.runner.Run(ctx, dockerBin, "inspect", "--format", stateFormat, container)
	if err != nil {
		return StateError, err.Error()
	}

	if res.ExitCode != 0 {
		if strings.Contains(res.Stderr, notFoundMarker) {
			return StateNotFound, ""
		}
		return StateError, strings.TrimSpace(res.Stderr)
	}

	switch out := strings.TrimSpace(res.Stdout); out {
	case "created":
		return StateCreated, ""
	case "restarting":
		return StateRestarting, ""
	case "running":
		return StateRunning, ""
	case "paused":
		return StatePaused, ""
	case "exited":
		return StateExited, ""
	case "dead":
		return StateDead, ""
	default:
		return StateError, fmt.Sprintf("unrecognized container state %q", out)
	}
}

// Queries the health status of a container via "docker inspect".
//
// A container without a health check makes the inspect template fail or
// yield a nil value; both are classified as [HealthNone] so callers can
// fail fast instead of polling a status that can never appear.
func (c *Client) Health(ctx context.Context, container string) (RawHealth, string) {
	res, err := c.runner.Run(ctx, dockerBin, "inspect", "--format", healthFormat, container)
	if err != nil {
		return HealthError, err.Error()
	}

	if res.ExitCode != 0 {
		switch {
		case strings.Contains(res.Stderr, notFoundMarker):
			return HealthNotFound, ""
		case strings.Contains(res.Stderr, noHealthKeyMarker),
			strings.Contains(res.Stderr, noHealthNilMarker):
			return HealthNone, ""
		}
		return HealthError, strings.TrimSpace(res.Stderr)
	}

	out := strings.TrimSpace(res.Stdout)
	if noHealthOutputs[out] {
		return HealthNone, ""
	}

	switch out {
	case "healthy":
		return HealthHealthy, ""
	case "unhealthy":
		return HealthUnhealthy, ""
	case "starting":
		return HealthStarting, ""
	default:
		return HealthError, fmt.Sprintf("unrecognized health status %q", out)
	}
}
