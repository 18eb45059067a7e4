package cli

import "pytdbg/internal/config"

// Flags holds command-line flags
type Flags struct {
	Workspaces []string
	ConfigPath string
	LogLevel   string
	Runner     string
	TestPath   string
	NameFilter string
	Processors int
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Workspaces: f.Workspaces,
		ConfigPath: f.ConfigPath,
		LogLevel:   f.LogLevel,
		Runner:     f.Runner,
		TestPath:   f.TestPath,
		NameFilter: f.NameFilter,
		Processors: f.Processors,
	}
}

// PrimaryWorkspace returns the workspace config files are loaded from
func (f *Flags) PrimaryWorkspace() string {
	if len(f.Workspaces) == 0 {
		return "."
	}
	return f.Workspaces[0]
}
