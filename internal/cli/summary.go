package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/kineticfire-labs/dockrel/internal/paths"
	"github.com/kineticfire-labs/dockrel/internal/pipeline"
)

// Snapshot of a completed pipeline run, written to the state directory
// for inspection by later tooling.
type runSummary struct {
	Pipeline    string             `json:"pipeline"`
	Image       string             `json:"image,omitempty"`
	TestResult  string             `json:"test_result"`
	AppliedTags []string           `json:"applied_tags,omitempty"`
	Published   []publishedSummary `json:"published,omitempty"`
	Error       string             `json:"error,omitempty"`
	FinishedAt  time.Time          `json:"finished_at"`
}

type publishedSummary struct {
	Target string `json:"target"`
	Ref    string `json:"ref"`
	Digest string `json:"digest,omitempty"`
}

// Writes the run summary as JSON, creating the state directory as
// needed.
func writeSummary(path string, pc *pipeline.Context, runErr error) error {
	summary := runSummary{
		Pipeline:    pc.Name(),
		Image:       pc.BuiltImage(),
		TestResult:  string(pc.TestResult()),
		AppliedTags: pc.AppliedTags(),
		FinishedAt:  time.Now().UTC(),
	}
	for _, p := range pc.Published() {
		summary.Published = append(summary.Published, publishedSummary{
			Target: p.Target,
			Ref:    p.Ref,
			Digest: string(p.Digest),
		})
	}
	if runErr != nil {
		summary.Error = runErr.Error()
	}

	if err := os.MkdirAll(filepath.Dir(path), paths.DefaultDirMode); err != nil {
		return err
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, paths.DefaultFileMode)
}
