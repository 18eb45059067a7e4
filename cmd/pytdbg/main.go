package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pytdbg/internal/cli"
	"pytdbg/internal/cli/commands"
	"pytdbg/internal/config"
	"pytdbg/internal/ui"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "pytdbg",
		Short: "Debug a single Python test",
		Long: `Build the pytest or unittest identifier of the test under the cursor, write a
"run single test" launch configuration and start the test under debugpy. Runs as a
CLI, a language server (serve) or an MCP server (mcp).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Filled in by the root PersistentPreRunE once flags are parsed
	cfg := config.New()

	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(commands.NewApp(cfg, version))

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.NewFormatter(os.Stderr).PrintError(err)
		stop()
		os.Exit(1)
	}
}
