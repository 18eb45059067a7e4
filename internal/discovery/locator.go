package discovery

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"pytdbg/internal/domain"
	"pytdbg/internal/logging"
)

// ExcludeFunc reports whether a directory should be skipped by name
type ExcludeFunc func(name string) bool

// Locator finds the project root by searching for a marker file
type Locator struct {
	marker   string
	maxDepth int
	exclude  ExcludeFunc
	readDir  func(string) ([]os.DirEntry, error)
}

// NewLocator creates a Locator for the given marker file and depth bound
func NewLocator(marker string, maxDepth int, exclude ExcludeFunc) *Locator {
	if exclude == nil {
		exclude = func(string) bool { return false }
	}
	return &Locator{
		marker:   marker,
		maxDepth: maxDepth,
		exclude:  exclude,
		readDir:  os.ReadDir,
	}
}

type frame struct {
	dir   string
	depth int
}

// Locate returns the directory that directly contains the marker file.
// The start directory is depth 0; directories deeper than maxDepth are
// not visited. Unreadable directories are logged and skipped.
func (l *Locator) Locate(start string) (string, error) {
	start = filepath.Clean(start)
	stack := []frame{{dir: start, depth: 0}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := l.readDir(current.dir)
		if err != nil {
			logging.Warn("locator", "cannot read directory %s: %v", current.dir, err)
			continue
		}

		found := false
		for _, entry := range entries {
			if !entry.IsDir() && entry.Name() == l.marker {
				found = true
				break
			}
		}
		if found {
			logging.Debug("locator", "found %s in %s", l.marker, current.dir)
			return current.dir, nil
		}

		if current.depth >= l.maxDepth {
			continue
		}

		// Push in reverse so siblings are visited in listing order
		for i := len(entries) - 1; i >= 0; i-- {
			entry := entries[i]
			if !entry.IsDir() || l.exclude(entry.Name()) {
				continue
			}
			stack = append(stack, frame{
				dir:   filepath.Join(current.dir, entry.Name()),
				depth: current.depth + 1,
			})
		}
	}

	return "", errors.Wrapf(domain.ErrRootNotFound, "no %s within depth %d of %s", l.marker, l.maxDepth, start)
}

// LocateMarker returns the full path of the marker file
func (l *Locator) LocateMarker(start string) (string, error) {
	dir, err := l.Locate(start)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, l.marker), nil
}
