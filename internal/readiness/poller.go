package readiness

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/kineticfire-labs/dockrel/internal/docker"
)

const (

	// Default interval between polling attempts.
	DefaultInterval = 2 * time.Second

	// Default retry budget for multi-target waits (~44s total).
	DefaultAttempts = 22

	// Default retry budget for single-target waits (~20s total).
	DefaultSingleAttempts = 10
)

// Classification of one target on one pass.
type class int

const (
	classProceed class = iota // Target disposition reached.
	classRetry                // Transient state, may resolve with time.
	classTerminal             // Will never self-correct, stop waiting.
)

// Polls container dispositions until ready, terminally failed, or out
// of retries.
type Poller struct {
	inspector docker.Inspector
	sleep     func(time.Duration) // Injectable for tests.
}

// Creates a poller over the given inspector.
func New(inspector docker.Inspector) *Poller {
	return &Poller{
		inspector: inspector,
		sleep:     time.Sleep,
	}
}

// Blocks until every target container reaches its disposition.
//
// The first pass runs immediately with no initial sleep. Each pass
// classifies every target in deterministic (sorted) order: if all
// proceed the wait succeeds; the first terminal classification fails
// the wait on the spot; otherwise the pass counts against maxRetries
// and the poller sleeps for interval before the next pass. At most
// maxRetries+1 passes are made. When the budget runs out the outcome
// reports the last retryable state observed and which container it
// belonged to.
func (p *Poller) Wait(ctx context.Context, targets map[string]Disposition, interval time.Duration, maxRetries int) Outcome {
	ids := make([]string, 0, len(targets))
	for id := range targets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Reject unsupported dispositions before any query is made.
	for _, id := range ids {
		if d := targets[id]; d != Running && d != Healthy {
			return failed(ReasonIllegalTarget, id, fmt.Sprintf("unsupported disposition %q", d))
		}
	}

	var lastContainer, lastDetail string

	for attempt := 0; ; attempt++ {
		ready := true

		for _, id := range ids {
			cl, reason, detail := p.check(ctx, id, targets[id])
			switch cl {
			case classProceed:
			case classRetry:
				ready = false
				lastContainer, lastDetail = id, detail
			case classTerminal:
				return failed(reason, id, detail)
			}
		}

		if ready {
			return succeeded()
		}

		if attempt >= maxRetries {
			return failed(ReasonRetriesExceeded, lastContainer, lastDetail)
		}

		slog.Debug("waiting for containers",
			"attempt", attempt+1,
			"of", maxRetries,
			"last", lastContainer,
			"state", lastDetail,
		)
		p.sleep(interval)
	}
}

// Blocks until a single container reaches its disposition.
func (p *Poller) WaitOne(ctx context.Context, container string, target Disposition, interval time.Duration, maxRetries int) Outcome {
	return p.Wait(ctx, map[string]Disposition{container: target}, interval, maxRetries)
}

// Queries and classifies a single target.
//
// Terminal classifications carry the failure reason; retryable ones
// carry the raw state as detail so an exhausted budget can report what
// the container was last seen doing.
func (p *Poller) check(ctx context.Context, id string, target Disposition) (class, Reason, string) {
	if target == Running {
		state, detail := p.inspector.State(ctx, id)
		switch state {
		case docker.StateRunning:
			return classProceed, "", ""
		case docker.StateCreated, docker.StateNotFound:
			return classRetry, "", string(state)
		case docker.StateRestarting, docker.StatePaused, docker.StateExited, docker.StateDead:
			return classTerminal, ReasonFailed, fmt.Sprintf("container state %q", state)
		default:
			return classTerminal, ReasonError, detail
		}
	}

	health, detail := p.inspector.Health(ctx, id)
	switch health {
	case docker.HealthHealthy:
		return classProceed, "", ""
	case docker.HealthStarting, docker.HealthNotFound:
		return classRetry, "", string(health)
	case docker.HealthUnhealthy:
		return classTerminal, ReasonUnhealthy, fmt.Sprintf("health status %q", health)
	case docker.HealthNone:
		return classTerminal, ReasonNoHealthCheck, "container has no health check"
	default:
		return classTerminal, ReasonError, detail
	}
}
