package docker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

const dockerBin = "docker"

// Invokes the docker CLI through a [Runner].
//
// A Client is a scoped resource: acquire one per process, pass it to
// every collaborator that needs the runtime, and release it with Close
// on shutdown.
type Client struct {
	runner Runner // Executes the assembled command lines.
}

// Creates a client over the given runner.
func NewClient(runner Runner) *Client {
	return &Client{runner: runner}
}

// Releases the client. The CLI boundary holds no connection state, but
// callers should treat the client as a resource with a lifecycle.
func (c *Client) Close() error {
	return nil
}

// Controls an image build.
type BuildOptions struct {
	Image      string            // Reference to tag the built image with.
	Context    string            // Build context directory. Empty means ".".
	Dockerfile string            // Dockerfile path override.
	Args       map[string]string // Build arguments.
}

// Builds an image via "docker build".
func (c *Client) Build(ctx context.Context, opts BuildOptions) error {
	argv := []string{dockerBin, "build", "-t", opts.Image}

	if opts.Dockerfile != "" {
		argv = append(argv, "-f", opts.Dockerfile)
	}

	for _, key := range sortedKeys(opts.Args) {
		argv = append(argv, "--build-arg", key+"="+opts.Args[key])
	}

	buildCtx := opts.Context
	if buildCtx == "" {
		buildCtx = "."
	}
	argv = append(argv, buildCtx)

	return c.run(ctx, ErrDocker, argv...)
}

// Applies a tag to an image via "docker tag".
//
// Re-applying a tag that already points at the image succeeds without
// changing anything, so tagging is idempotent.
func (c *Client) Tag(ctx context.Context, image, tag string) error {
	return c.run(ctx, ErrDocker, dockerBin, "tag", image, tag)
}

// Serializes an image to an archive via "docker save".
func (c *Client) Save(ctx context.Context, image, path string) error {
	return c.run(ctx, ErrDocker, dockerBin, "save", "-o", path, image)
}

// Runs an arbitrary command through the client's runner. Used for the
// hook and test commands configured alongside the docker operations;
// the exit code is reported through the result, not as an error.
func (c *Client) Exec(ctx context.Context, argv ...string) (*ExecResult, error) {
	slog.Debug("exec", "argv", strings.Join(argv, " "))
	return c.runner.Run(ctx, argv...)
}

// Pushes an image via "docker push".
//
// The push output is returned on success so callers can extract the
// digest the registry reported.
func (c *Client) Push(ctx context.Context, ref string) (*ExecResult, error) {
	argv := []string{dockerBin, "push", ref}

	res, err := c.runner.Run(ctx, argv...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocker, err)
	}
	if res.ExitCode != 0 {
		return nil, exitError(ErrDocker, argv, res)
	}

	return res, nil
}

// Starts the declared compose services detached via "docker compose up".
func (c *Client) ComposeUp(ctx context.Context, files []string, project string) error {
	argv := composeArgs(files, project)
	argv = append(argv, "up", "-d")
	return c.run(ctx, ErrCompose, argv...)
}

// Tears the compose environment down via "docker compose down".
func (c *Client) ComposeDown(ctx context.Context, files []string, project string) error {
	argv := composeArgs(files, project)
	argv = append(argv, "down")
	return c.run(ctx, ErrCompose, argv...)
}

// Assembles the common "docker compose" prefix with file and project flags.
func composeArgs(files []string, project string) []string {
	argv := []string{dockerBin, "compose"}
	for _, f := range files {
		argv = append(argv, "-f", f)
	}
	if project != "" {
		argv = append(argv, "-p", project)
	}
	return argv
}

// Runs a command line and converts a non-zero exit into an error
// wrapped over the given sentinel.
func (c *Client) run(ctx context.Context, sentinel error, argv ...string) error {
	slog.Debug("exec", "argv", strings.Join(argv, " "))

	res, err := c.runner.Run(ctx, argv...)
	if err != nil {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	if res.ExitCode != 0 {
		return exitError(sentinel, argv, res)
	}
	return nil
}

// Formats a non-zero exit as an error carrying the command, exit code,
// and trimmed stderr for diagnostics.
func exitError(sentinel error, argv []string, res *ExecResult) error {
	return fmt.Errorf("%w: %s: exit code %d: %s",
		sentinel, strings.Join(argv, " "), res.ExitCode, strings.TrimSpace(res.Stderr))
}

// Returns map keys in sorted order for deterministic argv assembly.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
