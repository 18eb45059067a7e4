package config

import (
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Workspace folders known to the host
	Workspaces []string `yaml:"-"`

	// Project root discovery
	MarkerFile   string   `yaml:"marker_file"`
	MaxDepth     int      `yaml:"max_depth"`
	ExcludedDirs []string `yaml:"excluded_dirs"`

	// Test discovery
	TestFilePattern        string `yaml:"test_file_pattern"`
	IndentAwareClassLookup bool   `yaml:"indent_aware_class_lookup"`
	Processors             int    `yaml:"processors"`

	// Launch record
	LaunchFile          string `yaml:"launch_file"`
	LaunchConfigName    string `yaml:"launch_config_name"`
	DebugType           string `yaml:"debug_type"`
	InterpreterVariable string `yaml:"interpreter_variable"`
	Django              bool   `yaml:"django"`
	JustMyCode          bool   `yaml:"just_my_code"`
	KeepDB              bool   `yaml:"keep_db"`

	// Debugger process
	Python        string `yaml:"python"`
	DebugListen   string `yaml:"debug_listen"`
	WaitForClient bool   `yaml:"wait_for_client"`

	LogLevel string `yaml:"log_level"`

	// Command flags
	Flags Flags `yaml:"-"`
}

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

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		MarkerFile:          DefaultMarkerFile,
		MaxDepth:            DefaultMaxDepth,
		TestFilePattern:     DefaultTestFilePattern,
		Processors:          DefaultProcessors,
		LaunchFile:          DefaultLaunchFile,
		LaunchConfigName:    DefaultLaunchConfigName,
		DebugType:           DefaultDebugType,
		InterpreterVariable: DefaultInterpreterVariable,
		Django:              true,
		JustMyCode:          false,
		KeepDB:              true,
		Python:              DefaultPython,
		DebugListen:         DefaultDebugListen,
		WaitForClient:       true,
		LogLevel:            DefaultLogLevel,
	}
	// Copy default exclusions
	cfg.ExcludedDirs = make([]string, len(DefaultExcludedDirs))
	copy(cfg.ExcludedDirs, DefaultExcludedDirs)
	return cfg
}

// ApplyFlags overlays command-line flags on top of the loaded config
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if len(flags.Workspaces) > 0 {
		c.Workspaces = nil
		for _, ws := range flags.Workspaces {
			if abs, err := filepath.Abs(ws); err == nil {
				ws = abs
			}
			c.Workspaces = append(c.Workspaces, ws)
		}
	}
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}

// PrimaryWorkspace returns the first workspace folder, or "." when none is set
func (c *Config) PrimaryWorkspace() string {
	if len(c.Workspaces) == 0 {
		return "."
	}
	return c.Workspaces[0]
}

// GetTestPath returns the directory the test scan starts from
func (c *Config) GetTestPath() string {
	base := c.PrimaryWorkspace()
	if c.Flags.TestPath == "" {
		return base
	}
	if filepath.IsAbs(c.Flags.TestPath) {
		return c.Flags.TestPath
	}
	return filepath.Join(base, c.Flags.TestPath)
}

// GetLaunchPath returns the launch configuration file for a workspace
func (c *Config) GetLaunchPath(workspace string) string {
	if filepath.IsAbs(c.LaunchFile) {
		return c.LaunchFile
	}
	return filepath.Join(workspace, filepath.FromSlash(c.LaunchFile))
}

// IsExcluded reports whether a directory name is skipped during searches
func (c *Config) IsExcluded(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, dir := range c.ExcludedDirs {
		if dir == name {
			return true
		}
	}
	return false
}

// IsTestFile reports whether a file name matches the test file pattern
func (c *Config) IsTestFile(path string) bool {
	matched, err := filepath.Match(c.TestFilePattern, filepath.Base(path))
	return err == nil && matched
}
