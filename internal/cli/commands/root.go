package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootCommand handles the root command
type RootCommand struct {
	app *App
}

// Execute runs the command
func (rc *RootCommand) Execute(cmd *cobra.Command, args []string) error {
	start := rc.app.config.PrimaryWorkspace()
	if len(args) == 1 {
		start = args[0]
	}

	root, err := rc.app.locator().Locate(start)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), root)
	return nil
}
