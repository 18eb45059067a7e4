// Package mcpserver exposes test discovery and the debug action as MCP
// tools, so an agent can start a debug session the same way the editor
// does.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"pytdbg/internal/action"
	"pytdbg/internal/discovery"
	"pytdbg/internal/domain"
	"pytdbg/internal/logging"
)

// Tester is the part of the action handler the tools call into
type Tester interface {
	Locate(file string) (domain.Workspace, string, error)
	Resolve(ctx context.Context, req action.Request) (*action.Result, error)
	DebugTest(ctx context.Context, req action.Request) (*action.Result, error)
}

// Server wraps an MCP server with the pytdbg tools registered
type Server struct {
	tester  Tester
	indexer *discovery.Indexer
	mcp     *server.MCPServer
}

// NewServer creates the MCP server and registers its tools
func NewServer(tester Tester, indexer *discovery.Indexer, version string) *Server {
	s := &Server{
		tester:  tester,
		indexer: indexer,
		mcp: server.NewMCPServer(
			"pytdbg",
			version,
			server.WithToolCapabilities(false),
		),
	}

	s.mcp.AddTool(findTestTriggersTool(), s.HandleFindTestTriggers)
	s.mcp.AddTool(buildTestIDTool(), s.HandleBuildTestID)
	s.mcp.AddTool(debugTestTool(), s.HandleDebugTest)
	return s
}

// Serve speaks MCP over the given streams until ctx is done or in closes
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(logging.StdLogger("mcp"))
	logging.Info("mcp", "MCP server started")
	return stdio.Listen(ctx, in, out)
}

func findTestTriggersTool() mcp.Tool {
	return mcp.NewTool("find_test_triggers",
		mcp.WithDescription("List the test functions of a Python test file with their pytest and unittest identifiers"),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path to the test file"),
		),
	)
}

func buildTestIDTool() mcp.Tool {
	return mcp.NewTool("build_test_id",
		mcp.WithDescription("Build the runner identifier of the test function declared on a line"),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path to the test file"),
		),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("One-based line of the def statement"),
		),
		mcp.WithString("runner",
			mcp.Description("Test runner: pytest or unittest"),
			mcp.Enum(string(domain.RunnerPytest), string(domain.RunnerUnittest)),
			mcp.DefaultString(string(domain.RunnerPytest)),
		),
	)
}

func debugTestTool() mcp.Tool {
	return mcp.NewTool("debug_test",
		mcp.WithDescription("Write the single-test launch configuration and start the test under debugpy"),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path to the test file"),
		),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("One-based line of the def statement"),
		),
		mcp.WithString("runner",
			mcp.Description("Test runner: pytest or unittest"),
			mcp.Enum(string(domain.RunnerPytest), string(domain.RunnerUnittest)),
			mcp.DefaultString(string(domain.RunnerPytest)),
		),
	)
}

// HandleFindTestTriggers handles the find_test_triggers tool
func (s *Server) HandleFindTestTriggers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := request.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError("file parameter is required"), nil
	}
	file, err = filepath.Abs(file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	_, root, err := s.tester.Locate(file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	triggers := s.indexer.IndexFile(ctx, root, file)
	if triggers.Err != nil {
		return mcp.NewToolResultError(triggers.Err.Error()), nil
	}
	if triggers.Tests == nil {
		triggers.Tests = []domain.IndexedTest{}
	}

	jsonData, err := json.MarshalIndent(triggers, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format triggers: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleBuildTestID handles the build_test_id tool
func (s *Server) HandleBuildTestID(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := toolRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.tester.Resolve(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result.ID), nil
}

// HandleDebugTest handles the debug_test tool
func (s *Server) HandleDebugTest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := toolRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.tester.DebugTest(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if result.Session == nil {
		err := errors.Wrapf(domain.ErrDebugLaunchFailed, "no session for %s", result.ID)
		return mcp.NewToolResultError(err.Error()), nil
	}

	go func() {
		if err := result.Session.Wait(); err != nil {
			logging.Warn("mcp", "debug session for %s exited: %v", result.ID, err)
		}
	}()

	return mcp.NewToolResultText(fmt.Sprintf(
		"Started %s with %s; debugpy is listening on %s (launch configuration %q)",
		result.ID, req.Runner, result.Session.Listen, result.Session.Name,
	)), nil
}

// toolRequest reads the file, line and runner arguments shared by the
// build_test_id and debug_test tools
func toolRequest(request mcp.CallToolRequest) (action.Request, error) {
	file, err := request.RequireString("file")
	if err != nil {
		return action.Request{}, errors.New("file parameter is required")
	}

	var line int
	switch v := request.GetArguments()["line"].(type) {
	case float64:
		line = int(v)
	case int:
		line = v
	default:
		return action.Request{}, errors.New("line parameter is required")
	}
	if line < 1 {
		return action.Request{}, errors.Errorf("line must be at least 1, got %d", line)
	}

	runner, err := domain.ParseRunner(request.GetString("runner", string(domain.RunnerPytest)))
	if err != nil {
		return action.Request{}, err
	}

	return action.Request{File: file, Line: line - 1, Runner: runner}, nil
}
