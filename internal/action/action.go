// Package action implements the single user-facing operation: debug one
// test. Every failure is returned to the caller, which surfaces it on its
// one notification channel.
package action

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"pytdbg/internal/config"
	"pytdbg/internal/discovery"
	"pytdbg/internal/domain"
	"pytdbg/internal/execution"
	"pytdbg/internal/launch"
	"pytdbg/internal/logging"
	"pytdbg/internal/testid"
)

// DocumentSource returns the current text of a file
type DocumentSource interface {
	Text(path string) (string, error)
}

// DiskSource reads documents from the file system
type DiskSource struct{}

func (DiskSource) Text(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "read document")
	}
	return string(data), nil
}

// Request identifies the test to debug. FunctionName may be empty, in
// which case it is read from the def statement on Line.
type Request struct {
	File         string
	FunctionName string
	Line         int // Zero-based
	Runner       domain.RunnerKind
}

// Result describes a resolved and, for DebugTest, launched test
type Result struct {
	Workspace  domain.Workspace
	Root       string
	Target     domain.TestTarget
	ID         string
	Descriptor domain.LaunchDescriptor
	Session    *execution.Session
}

// Handler resolves tests and starts debug sessions for them
type Handler struct {
	config    *config.Config
	locator   *discovery.Locator
	builder   *testid.Builder
	open      launch.Opener
	launcher  execution.Launcher
	documents DocumentSource

	mu         sync.RWMutex
	workspaces []domain.Workspace
}

// NewHandler creates a Handler whose workspaces default to cfg.Workspaces
func NewHandler(
	cfg *config.Config,
	locator *discovery.Locator,
	builder *testid.Builder,
	open launch.Opener,
	launcher execution.Launcher,
	documents DocumentSource,
) *Handler {
	h := &Handler{
		config:    cfg,
		locator:   locator,
		builder:   builder,
		open:      open,
		launcher:  launcher,
		documents: documents,
	}
	var workspaces []domain.Workspace
	for _, path := range cfg.Workspaces {
		workspaces = append(workspaces, domain.Workspace{Name: filepath.Base(path), Path: path})
	}
	h.SetWorkspaces(workspaces)
	return h
}

// SetWorkspaces replaces the known workspace folders
func (h *Handler) SetWorkspaces(workspaces []domain.Workspace) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.workspaces = append([]domain.Workspace(nil), workspaces...)
}

// Workspace returns the innermost known workspace containing file
func (h *Handler) Workspace(file string) (domain.Workspace, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var best domain.Workspace
	for _, ws := range h.workspaces {
		rel, err := filepath.Rel(ws.Path, file)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if len(ws.Path) > len(best.Path) {
			best = ws
		}
	}
	if best.Path == "" {
		return domain.Workspace{}, errors.Wrapf(domain.ErrWorkspaceNotFound, "%s", file)
	}
	return best, nil
}

// Locate returns the workspace containing file and the project root found
// under it.
func (h *Handler) Locate(file string) (domain.Workspace, string, error) {
	ws, err := h.Workspace(file)
	if err != nil {
		return domain.Workspace{}, "", err
	}
	root, err := h.locator.Locate(ws.Path)
	if err != nil {
		return domain.Workspace{}, "", err
	}
	return ws, root, nil
}

// Resolve locates the project root and builds the test identifier
// without touching the launch configuration.
func (h *Handler) Resolve(ctx context.Context, req Request) (*Result, error) {
	file, err := filepath.Abs(req.File)
	if err != nil {
		return nil, errors.Wrap(err, "resolve file path")
	}

	ws, root, err := h.Locate(file)
	if err != nil {
		return nil, err
	}

	text, err := h.documents.Text(file)
	if err != nil {
		return nil, err
	}

	functionName := req.FunctionName
	if functionName == "" {
		trigger, ok := discovery.TriggerAt(text, req.Line)
		if !ok {
			return nil, errors.Wrapf(domain.ErrNoTestAtLine, "%s:%d", file, req.Line+1)
		}
		functionName = trigger.FunctionName
	}

	target := h.builder.Target(file, discovery.SplitLines(text), req.Line, functionName, req.Runner)
	id := h.builder.Build(target, root)
	logging.Debug("action", "resolved %s:%d to %s", file, req.Line+1, id)

	return &Result{
		Workspace:  ws,
		Root:       root,
		Target:     target,
		ID:         id,
		Descriptor: h.descriptor(ws, root, req.Runner, id),
	}, nil
}

// DebugTest resolves the test, writes the launch record and starts the
// debugger.
func (h *Handler) DebugTest(ctx context.Context, req Request) (*Result, error) {
	result, err := h.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	repo := h.open(result.Workspace.Path)
	if err := launch.Write(repo, launch.NewConfiguration(result.Descriptor)); err != nil {
		return nil, errors.Wrap(err, "update launch configuration")
	}

	session, err := h.launcher.Start(ctx, result.Workspace.Path, result.Descriptor.DisplayName)
	if err != nil {
		logging.Error("action", err, "debugger did not start for %s", result.ID)
		return nil, errors.Wrapf(domain.ErrDebugLaunchFailed, "%v", err)
	}
	if session == nil {
		return nil, errors.Wrapf(domain.ErrDebugLaunchFailed, "no session for %s", result.ID)
	}
	result.Session = session
	return result, nil
}

func (h *Handler) descriptor(ws domain.Workspace, root string, runner domain.RunnerKind, id string) domain.LaunchDescriptor {
	program := testid.RelativePath(ws.Path, filepath.Join(root, h.config.MarkerFile))
	return domain.LaunchDescriptor{
		DisplayName:      h.config.LaunchConfigName,
		Runner:           runner,
		TargetID:         id,
		WorkingDirectory: root,
		Program:          "${workspaceFolder}/" + program,
		DebugOptions: domain.DebugOptions{
			Type:        h.config.DebugType,
			Django:      h.config.Django,
			JustMyCode:  h.config.JustMyCode,
			KeepDB:      h.config.KeepDB,
			Interpreter: h.config.InterpreterVariable,
		},
	}
}
