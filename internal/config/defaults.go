package config

const (
	// DefaultMarkerFile is the file whose directory is the project root
	DefaultMarkerFile = "manage.py"
	// DefaultMaxDepth bounds the project root search
	DefaultMaxDepth = 3
	// DefaultTestFilePattern selects files that may contain tests
	DefaultTestFilePattern = "*test*.py"
	// DefaultLaunchFile is the launch configuration file, relative to the workspace
	DefaultLaunchFile = ".vscode/launch.json"
	// DefaultLaunchConfigName is the reserved launch record name
	DefaultLaunchConfigName = "run single test"
	// DefaultDebugType is the debug adapter type written to the launch record
	DefaultDebugType = "python"
	// DefaultPython is the interpreter used to start debugpy
	DefaultPython = "python3"
	// DefaultInterpreterVariable is written as the record's pythonPath
	DefaultInterpreterVariable = "${command:python.interpreterPath}"
	// DefaultDebugListen is where debugpy waits for the editor to attach
	DefaultDebugListen = "127.0.0.1:5678"
	// DefaultProcessors is the number of indexing workers
	DefaultProcessors = 4
	// DefaultLogLevel is the default log level
	DefaultLogLevel = "warn"
)

// DefaultExcludedDirs are skipped during the project root search and test scan
var DefaultExcludedDirs = []string{
	"node_modules",
	"venv",
	"env",
	".venv",
}
