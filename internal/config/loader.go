package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osLookupEnv = os.LookupEnv

const (
	userConfigDir     = ".config/pytdbg"
	userConfigFile    = "config.yaml"
	projectConfigFile = ".pytdbg.yaml"
	dotEnvFile        = ".env"
	envPrefix         = "PYTDBG_"
)

// overlay mirrors Config with optional fields so that a layer only
// overrides what it actually sets.
type overlay struct {
	MarkerFile             *string  `yaml:"marker_file"`
	MaxDepth               *int     `yaml:"max_depth"`
	ExcludedDirs           []string `yaml:"excluded_dirs"`
	TestFilePattern        *string  `yaml:"test_file_pattern"`
	IndentAwareClassLookup *bool    `yaml:"indent_aware_class_lookup"`
	Processors             *int     `yaml:"processors"`
	LaunchFile             *string  `yaml:"launch_file"`
	LaunchConfigName       *string  `yaml:"launch_config_name"`
	DebugType              *string  `yaml:"debug_type"`
	InterpreterVariable    *string  `yaml:"interpreter_variable"`
	Django                 *bool    `yaml:"django"`
	JustMyCode             *bool    `yaml:"just_my_code"`
	KeepDB                 *bool    `yaml:"keep_db"`
	Python                 *string  `yaml:"python"`
	DebugListen            *string  `yaml:"debug_listen"`
	WaitForClient          *bool    `yaml:"wait_for_client"`
	LogLevel               *string  `yaml:"log_level"`
}

// Load builds the configuration by layering defaults, the user config,
// the project config (or explicitPath), and PYTDBG_* variables from the
// workspace .env file and the process environment.
func Load(workspace, explicitPath string) (*Config, error) {
	cfg := New()
	if workspace != "" {
		if abs, err := filepath.Abs(workspace); err == nil {
			workspace = abs
		}
		cfg.Workspaces = []string{workspace}
	}

	if path, err := getUserConfigPath(); err == nil {
		if err := applyFile(cfg, path, false); err != nil {
			return nil, err
		}
	}

	projectPath := explicitPath
	if projectPath == "" && workspace != "" {
		projectPath = filepath.Join(workspace, projectConfigFile)
	}
	if projectPath != "" {
		if err := applyFile(cfg, projectPath, explicitPath != ""); err != nil {
			return nil, err
		}
	}

	env := map[string]string{}
	if workspace != "" {
		dotEnv, err := godotenv.Read(filepath.Join(workspace, dotEnvFile))
		if err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrap(err, "read .env")
		}
		for k, v := range dotEnv {
			env[k] = v
		}
	}
	for _, key := range envKeys {
		if v, ok := osLookupEnv(envPrefix + key); ok {
			env[envPrefix+key] = v
		}
	}
	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, userConfigFile), nil
}

func applyFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return errors.Wrapf(err, "read config %s", path)
	}
	var o overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	if err := o.validate(); err != nil {
		return errors.Wrapf(err, "config %s", path)
	}
	merge(cfg, o)
	return nil
}

// validate rejects values no layer may set. A max_depth of 0 is legal and
// limits the root search to the start directory.
func (o overlay) validate() error {
	if o.MaxDepth != nil && *o.MaxDepth < 0 {
		return errors.Errorf("max_depth must not be negative, got %d", *o.MaxDepth)
	}
	return nil
}

func merge(cfg *Config, o overlay) {
	setString(&cfg.MarkerFile, o.MarkerFile)
	setInt(&cfg.MaxDepth, o.MaxDepth)
	if o.ExcludedDirs != nil {
		cfg.ExcludedDirs = append([]string(nil), o.ExcludedDirs...)
	}
	setString(&cfg.TestFilePattern, o.TestFilePattern)
	setBool(&cfg.IndentAwareClassLookup, o.IndentAwareClassLookup)
	setPositiveInt(&cfg.Processors, o.Processors)
	setString(&cfg.LaunchFile, o.LaunchFile)
	setString(&cfg.LaunchConfigName, o.LaunchConfigName)
	setString(&cfg.DebugType, o.DebugType)
	setString(&cfg.InterpreterVariable, o.InterpreterVariable)
	setBool(&cfg.Django, o.Django)
	setBool(&cfg.JustMyCode, o.JustMyCode)
	setBool(&cfg.KeepDB, o.KeepDB)
	setString(&cfg.Python, o.Python)
	setString(&cfg.DebugListen, o.DebugListen)
	setBool(&cfg.WaitForClient, o.WaitForClient)
	setString(&cfg.LogLevel, o.LogLevel)
}

// envKeys are the PYTDBG_* suffixes understood by applyEnv
var envKeys = []string{
	"MARKER_FILE", "MAX_DEPTH", "EXCLUDED_DIRS", "TEST_FILE_PATTERN",
	"INDENT_AWARE_CLASS_LOOKUP", "PROCESSORS", "LAUNCH_FILE", "LAUNCH_CONFIG_NAME",
	"DEBUG_TYPE", "DJANGO", "JUST_MY_CODE", "KEEP_DB", "PYTHON", "DEBUG_LISTEN",
	"WAIT_FOR_CLIENT", "LOG_LEVEL",
}

func applyEnv(cfg *Config, env map[string]string) error {
	var o overlay
	for _, key := range envKeys {
		raw, ok := env[envPrefix+key]
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)
		var err error
		switch key {
		case "MARKER_FILE":
			o.MarkerFile = &raw
		case "TEST_FILE_PATTERN":
			o.TestFilePattern = &raw
		case "LAUNCH_FILE":
			o.LaunchFile = &raw
		case "LAUNCH_CONFIG_NAME":
			o.LaunchConfigName = &raw
		case "DEBUG_TYPE":
			o.DebugType = &raw
		case "PYTHON":
			o.Python = &raw
		case "DEBUG_LISTEN":
			o.DebugListen = &raw
		case "LOG_LEVEL":
			o.LogLevel = &raw
		case "EXCLUDED_DIRS":
			o.ExcludedDirs = splitList(raw)
		case "MAX_DEPTH":
			o.MaxDepth, err = parseInt(raw)
		case "PROCESSORS":
			o.Processors, err = parseInt(raw)
		case "INDENT_AWARE_CLASS_LOOKUP":
			o.IndentAwareClassLookup, err = parseBool(raw)
		case "DJANGO":
			o.Django, err = parseBool(raw)
		case "JUST_MY_CODE":
			o.JustMyCode, err = parseBool(raw)
		case "KEEP_DB":
			o.KeepDB, err = parseBool(raw)
		case "WAIT_FOR_CLIENT":
			o.WaitForClient, err = parseBool(raw)
		}
		if err != nil {
			return errors.Wrapf(err, "invalid %s%s", envPrefix, key)
		}
	}
	if err := o.validate(); err != nil {
		return errors.Wrap(err, "invalid environment")
	}
	merge(cfg, o)
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInt(raw string) (*int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseBool(raw string) (*bool, error) {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// setPositiveInt ignores zero and negative values so they keep the default
func setPositiveInt(dst *int, v *int) {
	if v != nil && *v > 0 {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
