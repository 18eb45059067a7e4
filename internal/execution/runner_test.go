package execution

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pytdbg/internal/config"
	"pytdbg/internal/domain"
	"pytdbg/internal/launch"
)

func seededRepo(t *testing.T, runner domain.RunnerKind, id string) *launch.MemoryRepository {
	t.Helper()
	repo := launch.NewMemoryRepository()
	cfg := launch.NewConfiguration(domain.LaunchDescriptor{
		DisplayName:      "run single test",
		Runner:           runner,
		TargetID:         id,
		WorkingDirectory: "${workspaceFolder}",
		Program:          "${workspaceFolder}/backend/manage.py",
		DebugOptions: domain.DebugOptions{
			Type:        "python",
			KeepDB:      true,
			Interpreter: "${command:python.interpreterPath}",
		},
	})
	require.NoError(t, launch.Write(repo, cfg))
	return repo
}

func newLauncher(cfg *config.Config, repo launch.Repository) *DebugpyLauncher {
	return NewDebugpyLauncher(cfg, func(string) launch.Repository { return repo }, nil, nil)
}

func TestDebugpyLauncher_Command(t *testing.T) {
	cfg := config.New()
	cfg.Python = "/opt/py/bin/python"

	t.Run("pytest module", func(t *testing.T) {
		repo := seededRepo(t, domain.RunnerPytest, "tests/test_a.py::A::test_b")
		records, _ := repo.Load()
		lc, err := launch.Decode(records[0])
		require.NoError(t, err)

		cmd := newLauncher(cfg, repo).Command("/ws", lc)

		assert.Equal(t, []string{
			"/opt/py/bin/python", "-m", "debugpy", "--listen", "127.0.0.1:5678", "--wait-for-client",
			"-m", "pytest", "tests/test_a.py::A::test_b",
		}, cmd.Args)
		assert.Equal(t, "/ws", cmd.Dir)
	})

	t.Run("unittest program", func(t *testing.T) {
		cfg := config.New()
		cfg.Python = "python"
		cfg.WaitForClient = false
		repo := seededRepo(t, domain.RunnerUnittest, "tests.test_a.A.test_b")
		records, _ := repo.Load()
		lc, err := launch.Decode(records[0])
		require.NoError(t, err)

		cmd := newLauncher(cfg, repo).Command("/ws", lc)

		assert.Equal(t, []string{
			"python", "-m", "debugpy", "--listen", "127.0.0.1:5678",
			"/ws/backend/manage.py", "test", "tests.test_a.A.test_b", "--keepdb",
		}, cmd.Args)
	})

	t.Run("concrete interpreter path wins", func(t *testing.T) {
		lc := launch.Configuration{Module: "pytest", PythonPath: "/venv/bin/python", Args: []string{"x.py::test_x"}}
		cmd := newLauncher(cfg, launch.NewMemoryRepository()).Command("/ws", lc)

		assert.Equal(t, "/venv/bin/python", cmd.Args[0])
		assert.Equal(t, "/ws", cmd.Dir)
	})
}

func TestDebugpyLauncher_Start(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}

	t.Run("starts and waits", func(t *testing.T) {
		cfg := config.New()
		cfg.Python = "true"
		repo := seededRepo(t, domain.RunnerPytest, "a.py::test_a")

		session, err := newLauncher(cfg, repo).Start(context.Background(), t.TempDir(), "run single test")
		require.NoError(t, err)
		assert.NotZero(t, session.PID())
		assert.NoError(t, session.Wait())
	})

	t.Run("process failure surfaces on wait", func(t *testing.T) {
		cfg := config.New()
		cfg.Python = "false"
		repo := seededRepo(t, domain.RunnerPytest, "a.py::test_a")

		session, err := newLauncher(cfg, repo).Start(context.Background(), t.TempDir(), "run single test")
		require.NoError(t, err)
		assert.Error(t, session.Wait())
	})

	t.Run("missing interpreter fails to start", func(t *testing.T) {
		cfg := config.New()
		cfg.Python = "/nonexistent/python-for-tests"
		repo := seededRepo(t, domain.RunnerPytest, "a.py::test_a")

		_, err := newLauncher(cfg, repo).Start(context.Background(), t.TempDir(), "run single test")
		assert.Error(t, err)
	})

	t.Run("missing configuration", func(t *testing.T) {
		_, err := newLauncher(config.New(), launch.NewMemoryRepository()).Start(context.Background(), t.TempDir(), "run single test")
		assert.ErrorContains(t, err, "not found")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newLauncher(config.New(), launch.NewMemoryRepository()).Start(ctx, t.TempDir(), "run single test")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
