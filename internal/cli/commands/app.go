package commands

import (
	"context"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"pytdbg/internal/action"
	"pytdbg/internal/config"
	"pytdbg/internal/discovery"
	"pytdbg/internal/domain"
	"pytdbg/internal/execution"
	"pytdbg/internal/launch"
	"pytdbg/internal/logging"
	"pytdbg/internal/testid"
	"pytdbg/internal/ui"
)

// App builds the components shared by the commands from the loaded config
type App struct {
	config  *config.Config
	version string

	// newPicker is replaced in tests
	newPicker func(runner domain.RunnerKind) ui.Picker
	// newLauncher is replaced in tests
	newLauncher func(open launch.Opener, stdout, stderr io.Writer) execution.Launcher
}

// NewApp creates an App reading cfg, which is filled in before any command runs
func NewApp(cfg *config.Config, version string) *App {
	a := &App{config: cfg, version: version}
	a.newPicker = func(runner domain.RunnerKind) ui.Picker {
		return ui.NewTestPicker(runner)
	}
	a.newLauncher = func(open launch.Opener, stdout, stderr io.Writer) execution.Launcher {
		return execution.NewDebugpyLauncher(a.config, open, stdout, stderr)
	}
	return a
}

func (a *App) locator() *discovery.Locator {
	return discovery.NewLocator(a.config.MarkerFile, a.config.MaxDepth, a.config.IsExcluded)
}

func (a *App) builder() *testid.Builder {
	return testid.NewBuilder(a.config.IndentAwareClassLookup)
}

func (a *App) opener() launch.Opener {
	return func(workspace string) launch.Repository {
		return launch.NewFileRepository(a.config.GetLaunchPath(workspace))
	}
}

// handler wires the debug action. Debugger output goes to stdout and stderr.
func (a *App) handler(documents action.DocumentSource, stdout, stderr io.Writer) *action.Handler {
	open := a.opener()
	return action.NewHandler(
		a.config,
		a.locator(),
		a.builder(),
		open,
		a.newLauncher(open, stdout, stderr),
		documents,
	)
}

func (a *App) indexer() *discovery.Indexer {
	return discovery.NewIndexer(a.builder(), a.config.Processors)
}

// runner returns the runner selected with --runner
func (a *App) runner() (domain.RunnerKind, error) {
	if a.config.Flags.Runner == "" {
		return domain.RunnerPytest, nil
	}
	return domain.ParseRunner(a.config.Flags.Runner)
}

// index scans the test path, resolves every test against the project root
// and applies the name filter
func (a *App) index(ctx context.Context, h *action.Handler, runner domain.RunnerKind, progress io.Writer) ([]domain.FileTriggers, error) {
	testPath, err := filepath.Abs(a.config.GetTestPath())
	if err != nil {
		return nil, err
	}

	_, root, err := h.Locate(testPath)
	if err != nil {
		return nil, err
	}
	logging.Debug("cli", "indexing %s against project root %s", testPath, root)

	scanner := discovery.NewScanner(a.config.TestFilePattern, a.config.IsExcluded)
	files, err := scanner.Scan(testPath)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	ix := a.indexer()
	if progress != nil {
		ix.SetProgress(ui.NewProgressBar(len(files), progress))
	}
	indexed := ix.Index(ctx, root, files)

	return discovery.NewFilter().FilterTests(indexed, a.config.Flags.NameFilter, runner), nil
}

func printNoTests(out io.Writer) {
	color.New(color.FgYellow).Fprintln(out, "No tests found")
}
