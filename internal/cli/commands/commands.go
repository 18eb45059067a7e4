package commands

import (
	"pytdbg/internal/cli"
	"pytdbg/internal/config"
	"pytdbg/internal/logging"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Debug *DebugCommand
	ID    *IDCommand
	Root  *RootCommand
	List  *ListCommand
	Pick  *PickCommand
	Serve *ServeCommand
	MCP   *MCPCommand
}

// NewCommands creates all commands. Dependencies are built by the App once
// the configuration has been loaded.
func NewCommands(app *App) *Commands {
	return &Commands{
		Debug: &DebugCommand{app: app},
		ID:    &IDCommand{app: app},
		Root:  &RootCommand{app: app},
		List:  &ListCommand{app: app},
		Pick:  &PickCommand{app: app},
		Serve: &ServeCommand{app: app},
		MCP:   &MCPCommand{app: app},
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().StringArrayVarP(&flags.Workspaces, "workspace", "w", nil, "Workspace folder (repeatable, defaults to the current directory)")
	rootCmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "Path to a config file used instead of <workspace>/.pytdbg.yaml")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.PrimaryWorkspace(), flags.ConfigPath)
		if err != nil {
			return err
		}
		*cfg = *loaded
		cfg.ApplyFlags(flags.ToConfigFlags())
		logging.Init(logging.ParseLevel(cfg.LogLevel), cmd.ErrOrStderr())
		return nil
	}

	// Debug command
	debugCmd := &cobra.Command{
		Use:   "debug FILE:LINE",
		Short: "Debug a single test",
		Long:  "Write the single-test launch configuration for the test declared at FILE:LINE and start it under debugpy",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Debug.Execute,
	}
	addRunnerFlag(debugCmd, flags)
	rootCmd.AddCommand(debugCmd)

	// ID command
	idCmd := &cobra.Command{
		Use:   "id FILE:LINE",
		Short: "Print the identifier of a test",
		Long:  "Print the pytest node id or unittest dotted path of the test declared at FILE:LINE",
		Args:  cobra.ExactArgs(1),
		RunE:  c.ID.Execute,
	}
	addRunnerFlag(idCmd, flags)
	rootCmd.AddCommand(idCmd)

	// Root command
	rootDirCmd := &cobra.Command{
		Use:   "root [DIR]",
		Short: "Print the project root",
		Long:  "Search DIR (default: the first workspace) for the directory holding the marker file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.Root.Execute,
	}
	rootCmd.AddCommand(rootDirCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered tests",
		Long:  "Scan test files and list every test with its identifier",
		Args:  cobra.NoArgs,
		RunE:  c.List.Execute,
	}
	addDiscoveryFlags(listCmd, flags)
	rootCmd.AddCommand(listCmd)

	// Pick command
	pickCmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a test interactively and debug it",
		Long:  "Scan test files, choose one test in an interactive picker and start it under debugpy",
		Args:  cobra.NoArgs,
		RunE:  c.Pick.Execute,
	}
	addDiscoveryFlags(pickCmd, flags)
	rootCmd.AddCommand(pickCmd)

	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the language server on stdio",
		Long:  "Serve code lenses that debug a single test from the editor",
		Args:  cobra.NoArgs,
		RunE:  c.Serve.Execute,
	}
	rootCmd.AddCommand(serveCmd)

	// MCP command
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long:  "Expose test discovery and single-test debugging as MCP tools",
		Args:  cobra.NoArgs,
		RunE:  c.MCP.Execute,
	}
	rootCmd.AddCommand(mcpCmd)
}

func addRunnerFlag(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringVarP(&flags.Runner, "runner", "r", "pytest", "Test runner: pytest or unittest")
}

func addDiscoveryFlags(cmd *cobra.Command, flags *cli.Flags) {
	addRunnerFlag(cmd, flags)
	cmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	cmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., 'test_views*' or '*Payment*')")
	cmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of workers used to index test files")
}
