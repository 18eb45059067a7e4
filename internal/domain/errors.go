package domain

import "github.com/pkg/errors"

var (
	// ErrRootNotFound means no marker file was found within the depth bound
	ErrRootNotFound = errors.New("project root not found")
	// ErrWorkspaceNotFound means the file does not belong to any known workspace
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrDebugLaunchFailed means the debugger could not be started
	ErrDebugLaunchFailed = errors.New("debug launch failed")
	// ErrUnknownRunner means the runner name is neither pytest nor unittest
	ErrUnknownRunner = errors.New("unknown test runner")
	// ErrNoTestAtLine means the requested line does not declare a test function
	ErrNoTestAtLine = errors.New("no test function at line")
)
