package discovery

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scanner scans for Python test files in a directory
type Scanner struct {
	pattern string
	exclude ExcludeFunc
}

// NewScanner creates a new Scanner matching file names against pattern
// and skipping directories for which exclude returns true
func NewScanner(pattern string, exclude ExcludeFunc) *Scanner {
	if exclude == nil {
		exclude = func(string) bool { return false }
	}
	return &Scanner{pattern: pattern, exclude: exclude}
}

// Scan finds all test files in the given root directory
func (s *Scanner) Scan(root string) ([]string, error) {
	var testfiles []string

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && s.exclude(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if matched, _ := filepath.Match(s.pattern, d.Name()); matched {
			testfiles = append(testfiles, path)
		}
		return nil
	})

	return testfiles, err
}
