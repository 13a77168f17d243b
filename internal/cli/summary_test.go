package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kineticfire-labs/dockrel/internal/pipeline"
)

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "last-run.json")

	err := writeSummary(path, &pipeline.Context{}, errors.New("boom"))
	if err != nil {
		t.Fatalf("writeSummary returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("summary is not valid JSON: %v", err)
	}
	if got["error"] != "boom" {
		t.Fatalf("error = %v, want boom", got["error"])
	}
	if _, ok := got["finished_at"]; !ok {
		t.Fatal("summary missing finished_at")
	}
}

func TestWriteSummaryNoError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-run.json")

	if err := writeSummary(path, &pipeline.Context{}, nil); err != nil {
		t.Fatalf("writeSummary returned error: %v", err)
	}

	var got map[string]any
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if _, ok := got["error"]; ok {
		t.Fatalf("error key present on clean run: %v", got["error"])
	}
}
