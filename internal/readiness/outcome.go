package readiness

import (
	"errors"
	"fmt"
	"strings"
)

var ErrDisposition = errors.New("unknown disposition")

// Target condition a caller wants a container to reach.
type Disposition string

const (
	Running Disposition = "running"
	Healthy Disposition = "healthy"
)

// Parses a disposition from configuration text.
func ParseDisposition(s string) (Disposition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "running":
		return Running, nil
	case "healthy":
		return Healthy, nil
	}
	return "", fmt.Errorf("%w: %q", ErrDisposition, s)
}

// Why a wait ended without success.
type Reason string

const (
	ReasonUnhealthy       Reason = "unhealthy"
	ReasonNoHealthCheck   Reason = "no-healthcheck"
	ReasonFailed          Reason = "failed"
	ReasonRetriesExceeded Reason = "num-retries-exceeded"
	ReasonIllegalTarget   Reason = "illegal-target"
	ReasonError           Reason = "error"
)

// Result of a bounded wait for one or more containers.
//
// Reason and Container are set exactly when Success is false. Detail
// optionally carries human-readable context, such as the raw state that
// triggered the failure.
type Outcome struct {
	Success   bool
	Reason    Reason
	Container string
	Detail    string
}

func succeeded() Outcome {
	return Outcome{Success: true}
}

func failed(reason Reason, container, detail string) Outcome {
	return Outcome{Reason: reason, Container: container, Detail: detail}
}

// Renders the outcome for logs and error messages.
func (o Outcome) String() string {
	if o.Success {
		return "success"
	}
	if o.Detail != "" {
		return fmt.Sprintf("container %q: %s: %s", o.Container, o.Reason, o.Detail)
	}
	return fmt.Sprintf("container %q: %s", o.Container, o.Reason)
}
