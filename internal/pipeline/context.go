package pipeline

import (
	"fmt"

	"github.com/kineticfire-labs/dockrel/internal/release"
)

// Outcome of the test phase.
type TestResult string

const (
	TestNotRun TestResult = "not-run"
	TestPassed TestResult = "passed"
	TestFailed TestResult = "failed"
)

// State threaded through every phase of a single pipeline run.
//
// A Context is created fresh at run start and discarded at run end; it
// is never shared across runs. The built image reference is set exactly
// once by the build phase, applied tags only ever accumulate, and the
// test result moves from not-run to passed or failed exactly once.
type Context struct {
	name       string
	builtImage string
	applied    []string
	published  []release.Published
	testResult TestResult
	envStarted bool
}

func newContext(name string) *Context {
	return &Context{
		name:       name,
		testResult: TestNotRun,
	}
}

// Returns the pipeline name.
func (c *Context) Name() string {
	return c.name
}

// Returns the built image reference, or "" before the build phase.
func (c *Context) BuiltImage() string {
	return c.builtImage
}

// Returns the tags applied so far, in application order.
func (c *Context) AppliedTags() []string {
	tags := make([]string, len(c.applied))
	copy(tags, c.applied)
	return tags
}

// Returns the publish results recorded so far.
func (c *Context) Published() []release.Published {
	published := make([]release.Published, len(c.published))
	copy(published, c.published)
	return published
}

// Returns the test phase outcome.
func (c *Context) TestResult() TestResult {
	return c.testResult
}

// Reports whether the compose environment was brought up during the
// run. Teardown is only owed when this is true.
func (c *Context) EnvironmentStarted() bool {
	return c.envStarted
}

func (c *Context) markEnvironmentStarted() {
	c.envStarted = true
}

// Records the built image reference. The reference is write-once for
// the lifetime of the run.
func (c *Context) setBuiltImage(ref string) error {
	if c.builtImage != "" {
		return fmt.Errorf("%w: built image already set to %q", ErrConfig, c.builtImage)
	}
	if ref == "" {
		return fmt.Errorf("%w: empty image reference", ErrConfig)
	}
	c.builtImage = ref
	return nil
}

// Returns the built image reference or the named configuration error
// phases must surface when it is absent.
func (c *Context) requireBuiltImage() (string, error) {
	if c.builtImage == "" {
		return "", fmt.Errorf("%w: pipeline %q", ErrNoBuiltImage, c.name)
	}
	return c.builtImage, nil
}

func (c *Context) addTags(tags ...string) {
	c.applied = append(c.applied, tags...)
}

func (c *Context) addPublished(published ...release.Published) {
	c.published = append(c.published, published...)
}

// Records the test outcome. The transition from not-run happens exactly
// once and only to passed or failed.
func (c *Context) setTestResult(result TestResult) error {
	if c.testResult != TestNotRun {
		return fmt.Errorf("%w: test result already %q", ErrConfig, c.testResult)
	}
	if result != TestPassed && result != TestFailed {
		return fmt.Errorf("%w: invalid test result %q", ErrConfig, result)
	}
	c.testResult = result
	return nil
}
