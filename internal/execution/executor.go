package execution

import "context"

// Launcher starts a debug session from a named launch configuration.
// Start returns a non-nil session whenever err is nil.
type Launcher interface {
	Start(ctx context.Context, workspace string, name string) (*Session, error)
}
