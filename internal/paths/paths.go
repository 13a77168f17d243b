package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "dockrel"

	// Default pipeline file name, resolved against the working directory.
	DefaultPipelineFile = "dockrel.yaml"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for persistent run state.
//
//	Linux:   $XDG_STATE_HOME/dockrel or ~/.local/state/dockrel
//	macOS:   ~/Library/Application Support/dockrel
func State() string {
	return filepath.Join(xdg.StateHome, toolName)
}

// Path to the summary file describing the most recent pipeline run.
//
//	Linux:   $XDG_STATE_HOME/dockrel/last-run.json
//	macOS:   ~/Library/Application Support/dockrel/last-run.json
func RunSummary() string {
	return filepath.Join(State(), "last-run.json")
}
