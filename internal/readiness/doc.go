// Package readiness blocks until containers reach a target disposition.
//
// A [Poller] repeatedly inspects one or more containers until every one
// reaches its declared [Disposition] (running or healthy), a container
// reports a state that can never self-correct, or the retry budget runs
// out. The first pass is issued immediately, so a wait against
// already-ready containers returns without sleeping.
//
// Classification follows a strict precedence: a terminal state (exited,
// dead, unhealthy, missing health check, query error) fails the wait on
// the pass that observes it, while transient states (created, starting,
// not yet found) consume the retry budget. This keeps a crashed
// container from burning the full budget while a merely slow container
// still gets all of it.
//
// Example usage:
//
//	poller := readiness.New(client)
//	outcome := poller.Wait(ctx, map[string]readiness.Disposition{
//	    "app": readiness.Healthy,
//	    "db":  readiness.Running,
//	}, readiness.DefaultInterval, readiness.DefaultAttempts)
//	if !outcome.Success {
//	    return fmt.Errorf("container %s: %s", outcome.Container, outcome.Reason)
//	}
package readiness
