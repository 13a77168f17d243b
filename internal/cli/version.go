package cli

import (
	"context"
	"fmt"

	"github.com/kineticfire-labs/dockrel/internal"
)

// Represents the 'dockrel version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.VersionString())
	return nil
}
