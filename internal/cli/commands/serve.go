package commands

import (
	"github.com/spf13/cobra"

	"pytdbg/internal/action"
	"pytdbg/internal/lsp"
	"pytdbg/internal/mcpserver"
)

// ServeCommand handles the serve command
type ServeCommand struct {
	app *App
}

// Execute runs the command. stdout carries the protocol, so debugger
// output is sent to stderr.
func (sc *ServeCommand) Execute(cmd *cobra.Command, args []string) error {
	documents := lsp.NewDocuments(action.DiskSource{})
	h := sc.app.handler(documents, cmd.ErrOrStderr(), cmd.ErrOrStderr())

	server := lsp.NewServer(sc.app.config, h, documents, sc.app.version)
	return server.Serve(cmd.Context(), lsp.Stdio())
}

// MCPCommand handles the mcp command
type MCPCommand struct {
	app *App
}

// Execute runs the command
func (mc *MCPCommand) Execute(cmd *cobra.Command, args []string) error {
	h := mc.app.handler(action.DiskSource{}, cmd.ErrOrStderr(), cmd.ErrOrStderr())

	server := mcpserver.NewServer(h, mc.app.indexer(), mc.app.version)
	return server.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}
