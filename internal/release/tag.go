package release

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kineticfire-labs/dockrel/internal/docker"
)

// Applies additional tags to the built image in declaration order.
//
// Returns the tags that were applied, which on error covers everything
// before the failing tag; those stay applied.
func ApplyTags(ctx context.Context, dc *docker.Client, image string, tags []string) ([]string, error) {
	if image == "" {
		return nil, fmt.Errorf("%w: tag operation", ErrMissingImage)
	}

	applied := make([]string, 0, len(tags))
	for _, tag := range tags {
		if err := dc.Tag(ctx, image, tag); err != nil {
			return applied, fmt.Errorf("%w: %q: %w", ErrTag, tag, err)
		}
		applied = append(applied, tag)
		slog.Info("tag applied", "image", image, "tag", tag)
	}

	return applied, nil
}
