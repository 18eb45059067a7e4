package domain

// DebugOptions are the debugger knobs copied into the launch record
type DebugOptions struct {
	Type        string // Debug adapter type, e.g. "python"
	Django      bool
	JustMyCode  bool
	KeepDB      bool   // Pass --keepdb to manage.py test
	Interpreter string // Interpreter reference, e.g. ${command:python.interpreterPath}
}

// LaunchDescriptor describes the debug session for one test
type LaunchDescriptor struct {
	DisplayName      string
	Runner           RunnerKind
	TargetID         string
	WorkingDirectory string
	Program          string // manage.py path, used by the unittest runner
	DebugOptions     DebugOptions
}

// Workspace is a folder opened by the host
type Workspace struct {
	Name string
	Path string
}
