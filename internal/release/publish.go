package release

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/distribution/reference"
	"github.com/opencontainers/go-digest"

	"github.com/kineticfire-labs/dockrel/internal/docker"
)

// Marker preceding the digest in docker push output.
const digestMarker = "digest: "

// Implied components of a Docker Hub reference. They stay implied when
// inherited so "app:1.0" round-trips as "app:1.0".
const (
	hubRegistry  = "docker.io"
	hubNamespace = "library"
)

// Configures one named publish destination. Every field except Name is
// an optional override of the corresponding component of the built
// image reference.
type Target struct {
	Name       string `yaml:"name"`       // Identifies the target in logs and failures.
	Registry   string `yaml:"registry"`   // Registry host (e.g. "registry.example.com:5000").
	Namespace  string `yaml:"namespace"`  // Registry namespace or organization.
	Repository string `yaml:"repository"` // Repository name override.
	Tag        string `yaml:"tag"`        // Tag override.
}

// Checks that the target is named and produces a valid reference for a
// placeholder image.
func (t Target) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: publish target requires a name", ErrTarget)
	}
	if _, err := t.Ref("image:latest"); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrTarget, t.Name, err)
	}
	return nil
}

// Computes the fully qualified reference this target publishes to,
// starting from the built image reference and applying the overrides.
// Each unset field inherits the corresponding component of the built
// reference.
func (t Target) Ref(image string) (string, error) {
	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return "", err
	}

	domain := reference.Domain(named)
	repoPath := reference.Path(named)

	registry := t.Registry
	if registry == "" && domain != hubRegistry {
		registry = domain
	}

	namespace := t.Namespace
	if namespace == "" {
		if ns := path.Dir(repoPath); ns != "." && !(domain == hubRegistry && ns == hubNamespace) {
			namespace = ns
		}
	}

	repo := t.Repository
	if repo == "" {
		repo = path.Base(repoPath)
	}

	tag := t.Tag
	if tag == "" {
		if tagged, ok := named.(reference.Tagged); ok {
			tag = tagged.Tag()
		} else {
			tag = "latest"
		}
	}

	var b strings.Builder
	if registry != "" {
		b.WriteString(registry)
		b.WriteString("/")
	}
	if namespace != "" {
		b.WriteString(namespace)
		b.WriteString("/")
	}
	b.WriteString(repo)
	b.WriteString(":")
	b.WriteString(tag)

	ref := b.String()
	if _, err := reference.ParseNormalizedNamed(ref); err != nil {
		return "", fmt.Errorf("computed reference %q: %w", ref, err)
	}

	return ref, nil
}

// Records a completed push to one target.
type Published struct {
	Target string        // Target name from configuration.
	Ref    string        // Reference that was pushed.
	Digest digest.Digest // Digest the registry reported, if parseable.
}

// Pushes the built image to every configured target in order.
//
// Targets are independent: a failure is attributed to the target that
// caused it, and the returned slice covers the targets that completed
// before the failure.
func Publish(ctx context.Context, dc *docker.Client, image string, targets []Target) ([]Published, error) {
	if image == "" {
		return nil, fmt.Errorf("%w: publish operation", ErrMissingImage)
	}

	published := make([]Published, 0, len(targets))
	for _, target := range targets {
		p, err := publishOne(ctx, dc, image, target)
		if err != nil {
			return published, fmt.Errorf("%w: target %q: %w", ErrPublish, target.Name, err)
		}
		published = append(published, p)
	}

	return published, nil
}

// Re-tags the image for one target and pushes it.
func publishOne(ctx context.Context, dc *docker.Client, image string, target Target) (Published, error) {
	ref, err := target.Ref(image)
	if err != nil {
		return Published{}, err
	}

	if ref != image {
		if err := dc.Tag(ctx, image, ref); err != nil {
			return Published{}, err
		}
	}

	res, err := dc.Push(ctx, ref)
	if err != nil {
		return Published{}, err
	}

	d := parseDigest(res.Stdout)
	slog.Info("image published", "target", target.Name, "ref", ref, "digest", d)

	return Published{Target: target.Name, Ref: ref, Digest: d}, nil
}

// Scans push output for the digest the registry reported. Returns an
// empty digest when none is found; the push still succeeded.
func parseDigest(out string) digest.Digest {
	for _, line := range strings.Split(out, "\n") {
		idx := strings.Index(line, digestMarker)
		if idx < 0 {
			continue
		}
		fields := strings.Fields(line[idx+len(digestMarker):])
		if len(fields) == 0 {
			continue
		}
		if d, err := digest.Parse(fields[0]); err == nil {
			return d
		}
	}
	return ""
}
