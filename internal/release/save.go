package release

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kineticfire-labs/dockrel/internal/docker"
	"github.com/kineticfire-labs/dockrel/internal/paths"
)

// Configures a save operation.
type SaveSpec struct {
	Path        string `yaml:"path"`        // Destination archive path.
	Compression string `yaml:"compression"` // One of none, gzip, bzip2, xz, zip.
}

// Checks that the save block is fully specified.
func (s SaveSpec) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("%w: save requires a destination path", ErrSave)
	}
	if _, err := ParseCompression(s.Compression); err != nil {
		return err
	}
	return nil
}

// Serializes the built image to the configured archive.
//
// Compressed variants write the uncompressed archive first and then
// run the compressor over it, so a failing "docker save" surfaces
// through its own exit code instead of being masked by the exit code
// of a downstream pipe stage.
func Save(ctx context.Context, dc *docker.Client, image string, spec SaveSpec) error {
	if image == "" {
		return fmt.Errorf("%w: save operation", ErrMissingImage)
	}

	compression, err := ParseCompression(spec.Compression)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(spec.Path); dir != "." {
		if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
			return fmt.Errorf("%w: %w", ErrSave, err)
		}
	}

	if compression == CompressionNone {
		if err := dc.Save(ctx, image, spec.Path); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrSave, spec.Path, err)
		}
		slog.Info("image saved", "image", image, "path", spec.Path, "compression", compression)
		return nil
	}

	tmp := spec.Path + ".tmp"
	if err := dc.Save(ctx, image, tmp); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSave, spec.Path, err)
	}
	defer os.Remove(tmp)

	if err := compress(ctx, dc, compression, tmp, spec.Path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSave, spec.Path, err)
	}

	slog.Info("image saved", "image", image, "path", spec.Path, "compression", compression)
	return nil
}

// Compresses the archive at src into dest. The paths reach the shell
// as quoted positional parameters, never by interpolation into the
// command text.
func compress(ctx context.Context, dc *docker.Client, c Compression, src, dest string) error {
	script := fmt.Sprintf(`%s -c "$1" > "$2"`, c)
	if c == CompressionZip {
		// zip writes the archive itself; the tar stream becomes the
		// single "-" entry.
		script = `zip -q "$2" - < "$1"`
	}

	res, err := dc.Exec(ctx, "/bin/sh", "-c", script, "sh", src, dest)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%s: exit code %d: %s",
			c, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return nil
}
