package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pytdbg/internal/action"
	"pytdbg/internal/ui"
)

// DebugCommand handles the debug command
type DebugCommand struct {
	app *App
}

// Execute runs the command
func (dc *DebugCommand) Execute(cmd *cobra.Command, args []string) error {
	file, line, err := parseLocation(args[0])
	if err != nil {
		return err
	}
	runner, err := dc.app.runner()
	if err != nil {
		return err
	}

	h := dc.app.handler(action.DiskSource{}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	result, err := h.DebugTest(cmd.Context(), action.Request{File: file, Line: line, Runner: runner})
	if err != nil {
		return err
	}

	formatter := ui.NewFormatter(cmd.OutOrStdout())
	formatter.PrintResolved(result)
	fmt.Fprintln(cmd.OutOrStdout())

	if err := result.Session.Wait(); err != nil {
		return err
	}
	formatter.PrintSuccess("Debug session finished")
	return nil
}

// IDCommand handles the id command
type IDCommand struct {
	app *App
}

// Execute runs the command
func (ic *IDCommand) Execute(cmd *cobra.Command, args []string) error {
	file, line, err := parseLocation(args[0])
	if err != nil {
		return err
	}
	runner, err := ic.app.runner()
	if err != nil {
		return err
	}

	h := ic.app.handler(action.DiskSource{}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	result, err := h.Resolve(cmd.Context(), action.Request{File: file, Line: line, Runner: runner})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.ID)
	return nil
}
