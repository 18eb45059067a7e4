// Package lsp serves code lenses for Python test functions and runs the
// debug action when one is clicked.
package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"pytdbg/internal/action"
	"pytdbg/internal/config"
	"pytdbg/internal/discovery"
	"pytdbg/internal/domain"
	"pytdbg/internal/logging"
)

// Commands offered by the code lenses
const (
	CommandRunPytest   = "pytdbg.runPytestTest"
	CommandRunUnittest = "pytdbg.runUnittestTest"
)

type lensCommand struct {
	title   string
	command string
	runner  domain.RunnerKind
}

var lensCommands = []lensCommand{
	{title: "▶ Run with pytest", command: CommandRunPytest, runner: domain.RunnerPytest},
	{title: "▶ Run with unittest", command: CommandRunUnittest, runner: domain.RunnerUnittest},
}

func runnerForCommand(command string) (domain.RunnerKind, bool) {
	for _, lc := range lensCommands {
		if lc.command == command {
			return lc.runner, true
		}
	}
	return "", false
}

// Debugger is the action the server exposes through its commands
type Debugger interface {
	DebugTest(ctx context.Context, req action.Request) (*action.Result, error)
	SetWorkspaces(workspaces []domain.Workspace)
}

// Notifier sends notifications to the client
type Notifier interface {
	Notify(ctx context.Context, method string, params interface{}) error
}

// Server is a language server over one client connection
type Server struct {
	config    *config.Config
	debugger  Debugger
	documents *Documents
	version   string

	mu       sync.Mutex
	notifier Notifier
	shutdown bool
	onExit   func()
}

// NewServer creates a Server. documents must be the same source the
// debugger reads test files from.
func NewServer(cfg *config.Config, debugger Debugger, documents *Documents, version string) *Server {
	return &Server{
		config:    cfg,
		debugger:  debugger,
		documents: documents,
		version:   version,
	}
}

// SetNotifier sets the channel used for window/showMessage
func (s *Server) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Serve handles requests on rwc until the client exits or ctx is done
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))

	s.mu.Lock()
	s.notifier = conn
	s.onExit = func() { _ = conn.Close() }
	s.mu.Unlock()

	conn.Go(ctx, protocol.Handlers(s.Handle))
	logging.Info("lsp", "language server started")

	select {
	case <-ctx.Done():
		_ = conn.Close()
		<-conn.Done()
		return ctx.Err()
	case <-conn.Done():
	}

	s.mu.Lock()
	clean := s.shutdown
	s.mu.Unlock()
	if err := conn.Err(); err != nil && !clean && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "language server connection")
	}
	return nil
}

// Handle dispatches a single request or notification
func (s *Server) Handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	logging.Debug("lsp", "<- %s", req.Method())

	switch req.Method() {
	case protocol.MethodInitialize:
		var params protocol.InitializeParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, s.initialize(&params), nil)

	case protocol.MethodInitialized:
		return reply(ctx, nil, nil)

	case protocol.MethodShutdown:
		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		return reply(ctx, nil, nil)

	case protocol.MethodExit:
		err := reply(ctx, nil, nil)
		s.mu.Lock()
		exit := s.onExit
		s.mu.Unlock()
		if exit != nil {
			exit()
		}
		return err

	case protocol.MethodTextDocumentDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		if path := filename(params.TextDocument.URI); path != "" {
			s.documents.Set(path, params.TextDocument.Text)
		}
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentDidChange:
		var params protocol.DidChangeTextDocumentParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		// Full sync: the last change carries the whole document.
		path := filename(params.TextDocument.URI)
		if n := len(params.ContentChanges); n > 0 && path != "" {
			s.documents.Set(path, params.ContentChanges[n-1].Text)
		}
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentDidClose:
		var params protocol.DidCloseTextDocumentParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		s.documents.Close(filename(params.TextDocument.URI))
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentCodeLens:
		var params protocol.CodeLensParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, s.CodeLenses(ctx, params.TextDocument.URI), nil)

	case protocol.MethodWorkspaceExecuteCommand:
		var params protocol.ExecuteCommandParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}
		s.ExecuteCommand(ctx, params.Command, params.Arguments)
		return reply(ctx, nil, nil)
	}

	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}

func decode(req jsonrpc2.Request, v interface{}) error {
	if err := json.Unmarshal(req.Params(), v); err != nil {
		logging.Warn("lsp", "invalid params for %s: %v", req.Method(), err)
		return jsonrpc2.ErrInvalidParams
	}
	return nil
}

// filename returns the path of a file:// URI, or "" for other schemes
func filename(u protocol.DocumentURI) string {
	if !strings.HasPrefix(string(u), uri.FileScheme+"://") {
		return ""
	}
	return uri.URI(u).Filename()
}

func (s *Server) initialize(params *protocol.InitializeParams) *protocol.InitializeResult {
	var workspaces []domain.Workspace
	for _, folder := range params.WorkspaceFolders {
		workspaces = append(workspaces, domain.Workspace{
			Name: folder.Name,
			Path: filename(protocol.DocumentURI(folder.URI)),
		})
	}
	if len(workspaces) == 0 && params.RootURI != "" {
		path := filename(params.RootURI)
		workspaces = append(workspaces, domain.Workspace{Name: path, Path: path})
	}
	s.debugger.SetWorkspaces(workspaces)
	logging.Info("lsp", "initialized with %d workspace folder(s)", len(workspaces))

	commands := make([]string, 0, len(lensCommands))
	for _, lc := range lensCommands {
		commands = append(commands, lc.command)
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync:       protocol.TextDocumentSyncKindFull,
			CodeLensProvider:       &protocol.CodeLensOptions{},
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{Commands: commands},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "pytdbg",
			Version: s.version,
		},
	}
}

// CodeLenses returns one lens per runner for every test function in the
// document. Files that do not look like test files get none.
func (s *Server) CodeLenses(ctx context.Context, doc protocol.DocumentURI) []protocol.CodeLens {
	lenses := []protocol.CodeLens{}

	path := filename(doc)
	if path == "" || !s.config.IsTestFile(path) {
		return lenses
	}

	text, err := s.documents.Text(path)
	if err != nil {
		logging.Warn("lsp", "cannot read %s: %v", path, err)
		return lenses
	}

	for _, trigger := range discovery.FindTestTriggers(ctx, text) {
		rng := protocol.Range{
			Start: protocol.Position{Line: uint32(trigger.Line), Character: uint32(trigger.Column)},
			End:   protocol.Position{Line: uint32(trigger.Line), Character: uint32(trigger.EndColumn)},
		}
		for _, lc := range lensCommands {
			lenses = append(lenses, protocol.CodeLens{
				Range: rng,
				Command: &protocol.Command{
					Title:     lc.title,
					Command:   lc.command,
					Arguments: []interface{}{string(doc), trigger.FunctionName, trigger.Line},
				},
			})
		}
	}
	return lenses
}

// ExecuteCommand runs the debug action for a lens command. Every outcome
// is reported to the user through window/showMessage.
func (s *Server) ExecuteCommand(ctx context.Context, command string, args []interface{}) {
	req, err := commandRequest(command, args)
	if err != nil {
		s.showError(ctx, err)
		return
	}

	result, err := s.debugger.DebugTest(ctx, req)
	if err != nil {
		s.showError(ctx, err)
		return
	}
	if result.Session == nil {
		s.showError(ctx, errors.Wrapf(domain.ErrDebugLaunchFailed, "no session for %s", result.ID))
		return
	}

	logging.Info("lsp", "started debug session for %s (pid %d)", result.ID, result.Session.PID())
	s.showMessage(ctx, protocol.MessageTypeInfo,
		fmt.Sprintf("Debugging %s (debugpy listening on %s)", result.ID, result.Session.Listen))

	go func() {
		if err := result.Session.Wait(); err != nil {
			logging.Warn("lsp", "debug session for %s exited: %v", result.ID, err)
			return
		}
		logging.Info("lsp", "debug session for %s exited", result.ID)
	}()
}

// commandRequest decodes the [uri, functionName, line] lens arguments
func commandRequest(command string, args []interface{}) (action.Request, error) {
	runner, ok := runnerForCommand(command)
	if !ok {
		return action.Request{}, errors.Errorf("unknown command %q", command)
	}
	if len(args) < 3 {
		return action.Request{}, errors.Errorf("%s expects [uri, functionName, line], got %d argument(s)", command, len(args))
	}

	docURI, _ := args[0].(string)
	path := filename(protocol.DocumentURI(docURI))
	if path == "" {
		return action.Request{}, errors.Errorf("%s: invalid document uri %v", command, args[0])
	}
	functionName, ok := args[1].(string)
	if !ok {
		return action.Request{}, errors.Errorf("%s: invalid function name %v", command, args[1])
	}

	var line int
	switch v := args[2].(type) {
	case float64:
		line = int(v)
	case int:
		line = v
	default:
		return action.Request{}, errors.Errorf("%s: invalid line %v", command, args[2])
	}

	return action.Request{
		File:         path,
		FunctionName: functionName,
		Line:         line,
		Runner:       runner,
	}, nil
}

func (s *Server) showError(ctx context.Context, err error) {
	logging.Error("lsp", err, "command failed")
	s.showMessage(ctx, protocol.MessageTypeError, "Error: "+err.Error())
}

func (s *Server) showMessage(ctx context.Context, typ protocol.MessageType, message string) {
	s.mu.Lock()
	n := s.notifier
	s.mu.Unlock()
	if n == nil {
		return
	}
	params := &protocol.ShowMessageParams{Type: typ, Message: message}
	if err := n.Notify(ctx, protocol.MethodWindowShowMessage, params); err != nil {
		logging.Warn("lsp", "showMessage failed: %v", err)
	}
}
