package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pytdbg/internal/action"
	"pytdbg/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	runner, err := lc.app.runner()
	if err != nil {
		return err
	}

	h := lc.app.handler(action.DiskSource{}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	files, err := lc.app.index(cmd.Context(), h, runner, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if len(files) == 0 {
		printNoTests(cmd.OutOrStdout())
		return nil
	}

	ui.NewFormatter(cmd.OutOrStdout()).PrintTestList(files, runner)
	return nil
}

// PickCommand handles the pick command
type PickCommand struct {
	app *App
}

// Execute runs the command
func (pc *PickCommand) Execute(cmd *cobra.Command, args []string) error {
	runner, err := pc.app.runner()
	if err != nil {
		return err
	}

	h := pc.app.handler(action.DiskSource{}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	files, err := pc.app.index(cmd.Context(), h, runner, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if len(files) == 0 {
		printNoTests(cmd.OutOrStdout())
		return nil
	}

	selection, err := pc.app.newPicker(runner).Pick(files)
	if err != nil {
		return err
	}

	result, err := h.DebugTest(cmd.Context(), action.Request{
		File:         selection.File.Path,
		FunctionName: selection.Test.FunctionName,
		Line:         selection.Test.Line,
		Runner:       runner,
	})
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
