package discovery

import (
	"path/filepath"
	"strings"

	"pytdbg/internal/domain"
)

// Filter filters indexed tests by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// Match reports whether value matches pattern. Patterns with * or ? are
// wildcards where every literal part must appear in order; plain patterns
// match as substrings.
func (f *Filter) Match(pattern, value string) bool {
	if pattern == "" {
		return true
	}
	if matched, err := filepath.Match(pattern, value); err == nil && matched {
		return true
	}
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(value, pattern)
	}

	rest := value
	matchedAny := false
	for _, part := range strings.FieldsFunc(pattern, func(r rune) bool { return r == '*' || r == '?' }) {
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
		matchedAny = true
	}
	return matchedAny
}

// FilterTests keeps tests whose identifier for runner or function name
// matches pattern. Files left without tests are dropped.
func (f *Filter) FilterTests(files []domain.FileTriggers, pattern string, runner domain.RunnerKind) []domain.FileTriggers {
	if pattern == "" {
		return files
	}

	var filtered []domain.FileTriggers
	for _, file := range files {
		var tests []domain.IndexedTest
		for _, test := range file.Tests {
			if f.Match(pattern, test.ID(runner)) || f.Match(pattern, test.FunctionName) {
				tests = append(tests, test)
			}
		}
		if len(tests) > 0 {
			file.Tests = tests
			filtered = append(filtered, file)
		}
	}
	return filtered
}
