package execution

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"pytdbg/internal/config"
	"pytdbg/internal/launch"
	"pytdbg/internal/logging"
)

const (
	varWorkspaceFolder = "${workspaceFolder}"
	varInterpreterPath = "${command:python.interpreterPath}"
)

// Session is a started debugger process
type Session struct {
	Name   string   // Launch configuration name
	Args   []string // Full command line
	Dir    string   // Working directory
	Listen string   // debugpy listen address
	cmd    *exec.Cmd
}

// Wait blocks until the debugged process exits
func (s *Session) Wait() error {
	if s.cmd == nil {
		return nil
	}
	return s.cmd.Wait()
}

// PID returns the process id of the debugger
func (s *Session) PID() int {
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// DebugpyLauncher runs a launch configuration under debugpy, listening for
// the editor to attach.
type DebugpyLauncher struct {
	config *config.Config
	open   launch.Opener
	stdout io.Writer
	stderr io.Writer
}

// NewDebugpyLauncher creates a DebugpyLauncher writing process output to
// stdout and stderr.
func NewDebugpyLauncher(cfg *config.Config, open launch.Opener, stdout, stderr io.Writer) *DebugpyLauncher {
	return &DebugpyLauncher{config: cfg, open: open, stdout: stdout, stderr: stderr}
}

// Start loads the named configuration from the workspace and starts it.
// The process is not tied to ctx once started.
func (l *DebugpyLauncher) Start(ctx context.Context, workspace string, name string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := l.open(workspace).Load()
	if err != nil {
		return nil, err
	}
	record, ok := launch.Find(records, name)
	if !ok {
		return nil, errors.Errorf("launch configuration %q not found", name)
	}
	lc, err := launch.Decode(record)
	if err != nil {
		return nil, err
	}

	cmd := l.Command(workspace, lc)
	session := &Session{
		Name:   name,
		Args:   cmd.Args,
		Dir:    cmd.Dir,
		Listen: l.config.DebugListen,
		cmd:    cmd,
	}

	logging.Info("launcher", "starting %s in %s", strings.Join(cmd.Args, " "), cmd.Dir)
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "start %s", cmd.Path)
	}
	return session, nil
}

// Command builds the debugpy command line for a launch configuration
func (l *DebugpyLauncher) Command(workspace string, lc launch.Configuration) *exec.Cmd {
	expand := func(s string) string {
		s = strings.ReplaceAll(s, varWorkspaceFolder, workspace)
		return strings.ReplaceAll(s, varInterpreterPath, l.config.Python)
	}

	python := l.config.Python
	if lc.PythonPath != "" {
		python = expand(lc.PythonPath)
	}

	args := []string{"-m", "debugpy", "--listen", l.config.DebugListen}
	if l.config.WaitForClient {
		args = append(args, "--wait-for-client")
	}
	if lc.Module != "" {
		args = append(args, "-m", lc.Module)
	} else {
		args = append(args, expand(lc.Program))
	}
	for _, arg := range lc.Args {
		args = append(args, expand(arg))
	}

	cmd := exec.Command(python, args...)
	cmd.Dir = workspace
	if lc.Cwd != "" {
		cmd.Dir = expand(lc.Cwd)
	}
	cmd.Env = os.Environ()
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	return cmd
}
