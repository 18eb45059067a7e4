package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pytdbg/internal/action"
	"pytdbg/internal/discovery"
	"pytdbg/internal/domain"
	"pytdbg/internal/execution"
	"pytdbg/internal/testid"
)

const modelsTest = `class ModelTests:
    def test_create(self):
        pass

def test_module_level():
    pass
`

type fakeTester struct {
	root      string
	err       error
	noSession bool
	requests  []action.Request
}

func (f *fakeTester) Locate(file string) (domain.Workspace, string, error) {
	if f.err != nil {
		return domain.Workspace{}, "", f.err
	}
	return domain.Workspace{Path: f.root}, f.root, nil
}

func (f *fakeTester) Resolve(_ context.Context, req action.Request) (*action.Result, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &action.Result{ID: "polls/test_models.py::ModelTests::test_create"}, nil
}

func (f *fakeTester) DebugTest(ctx context.Context, req action.Request) (*action.Result, error) {
	result, err := f.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	if !f.noSession {
		result.Session = &execution.Session{Name: "run single test", Listen: "127.0.0.1:5678"}
	}
	return result, nil
}

func newTestServer(t *testing.T, tester *fakeTester) *Server {
	t.Helper()
	return NewServer(tester, discovery.NewIndexer(testid.NewBuilder(true), 1), "test")
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "Expected TextContent")
	return text.Text
}

func TestHandleFindTestTriggers(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "polls", "test_models.py")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
	require.NoError(t, os.WriteFile(file, []byte(modelsTest), 0644))

	s := newTestServer(t, &fakeTester{root: root})
	result, err := s.HandleFindTestTriggers(context.Background(), callRequest("find_test_triggers", map[string]interface{}{
		"file": file,
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var triggers domain.FileTriggers
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &triggers))
	assert.Equal(t, "polls/test_models.py", triggers.RelPath)
	require.Len(t, triggers.Tests, 2)
	assert.Equal(t, "polls/test_models.py::ModelTests::test_create", triggers.Tests[0].PytestID)
	assert.Equal(t, "polls.test_models.ModelTests.test_create", triggers.Tests[0].UnittestID)
	assert.Equal(t, "polls/test_models.py::test_module_level", triggers.Tests[1].PytestID)
}

func TestHandleFindTestTriggers_Errors(t *testing.T) {
	t.Run("missing file argument", func(t *testing.T) {
		s := newTestServer(t, &fakeTester{})
		result, err := s.HandleFindTestTriggers(context.Background(), callRequest("find_test_triggers", map[string]interface{}{}))
		assert.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("root not found", func(t *testing.T) {
		s := newTestServer(t, &fakeTester{err: domain.ErrRootNotFound})
		result, err := s.HandleFindTestTriggers(context.Background(), callRequest("find_test_triggers", map[string]interface{}{
			"file": "/nowhere/test_a.py",
		}))
		assert.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "project root not found", resultText(t, result))
	})

	t.Run("unreadable file", func(t *testing.T) {
		root := t.TempDir()
		s := newTestServer(t, &fakeTester{root: root})
		result, err := s.HandleFindTestTriggers(context.Background(), callRequest("find_test_triggers", map[string]interface{}{
			"file": filepath.Join(root, "test_missing.py"),
		}))
		assert.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestHandleBuildTestID(t *testing.T) {
	tester := &fakeTester{root: "/ws"}
	s := newTestServer(t, tester)

	result, err := s.HandleBuildTestID(context.Background(), callRequest("build_test_id", map[string]interface{}{
		"file":   "/ws/polls/test_models.py",
		"line":   float64(2),
		"runner": "unittest",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "polls/test_models.py::ModelTests::test_create", resultText(t, result))

	require.Len(t, tester.requests, 1)
	assert.Equal(t, action.Request{File: "/ws/polls/test_models.py", Line: 1, Runner: domain.RunnerUnittest}, tester.requests[0])
}

func TestHandleBuildTestID_DefaultsToPytest(t *testing.T) {
	tester := &fakeTester{root: "/ws"}
	s := newTestServer(t, tester)

	_, err := s.HandleBuildTestID(context.Background(), callRequest("build_test_id", map[string]interface{}{
		"file": "/ws/polls/test_models.py",
		"line": float64(2),
	}))
	require.NoError(t, err)
	require.Len(t, tester.requests, 1)
	assert.Equal(t, domain.RunnerPytest, tester.requests[0].Runner)
}

func TestHandleDebugTest(t *testing.T) {
	s := newTestServer(t, &fakeTester{root: "/ws"})

	result, err := s.HandleDebugTest(context.Background(), callRequest("debug_test", map[string]interface{}{
		"file": "/ws/polls/test_models.py",
		"line": float64(2),
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "polls/test_models.py::ModelTests::test_create")
	assert.Contains(t, text, "127.0.0.1:5678")
}

func TestToolRequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		message string
	}{
		{
			name:    "missing file",
			args:    map[string]interface{}{"line": float64(1)},
			message: "file parameter is required",
		},
		{
			name:    "missing line",
			args:    map[string]interface{}{"file": "/ws/test_a.py"},
			message: "line parameter is required",
		},
		{
			name:    "line below one",
			args:    map[string]interface{}{"file": "/ws/test_a.py", "line": float64(0)},
			message: "line must be at least 1, got 0",
		},
		{
			name:    "unknown runner",
			args:    map[string]interface{}{"file": "/ws/test_a.py", "line": float64(1), "runner": "nose"},
			message: `"nose": unknown test runner`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := &fakeTester{root: "/ws"}
			s := newTestServer(t, tester)

			result, err := s.HandleDebugTest(context.Background(), callRequest("debug_test", tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Equal(t, tt.message, resultText(t, result))
			assert.Empty(t, tester.requests)
		})
	}
}

func TestHandleDebugTest_LaunchFailure(t *testing.T) {
	s := newTestServer(t, &fakeTester{root: "/ws", err: errors.Wrap(domain.ErrDebugLaunchFailed, "exec: python3 not found")})

	result, err := s.HandleDebugTest(context.Background(), callRequest("debug_test", map[string]interface{}{
		"file": "/ws/test_a.py",
		"line": float64(1),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "exec: python3 not found: debug launch failed", resultText(t, result))
}

func TestHandleDebugTest_NoSession(t *testing.T) {
	s := newTestServer(t, &fakeTester{root: "/ws", noSession: true})

	result, err := s.HandleDebugTest(context.Background(), callRequest("debug_test", map[string]interface{}{
		"file": "/ws/test_a.py",
		"line": float64(1),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "no session for polls/test_models.py::ModelTests::test_create: debug launch failed", resultText(t, result))
}
