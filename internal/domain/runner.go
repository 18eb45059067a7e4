package domain

import (
	"strings"

	"github.com/pkg/errors"
)

// RunnerKind selects the Python test-execution convention to target
type RunnerKind string

const (
	// RunnerPytest addresses tests by file-and-symbol path (tests/test_a.py::A::test_b)
	RunnerPytest RunnerKind = "pytest"
	// RunnerUnittest addresses tests by dotted module path (tests.test_a.A.test_b)
	RunnerUnittest RunnerKind = "unittest"
)

// Runners lists the supported runner kinds in display order
var Runners = []RunnerKind{RunnerPytest, RunnerUnittest}

// ParseRunner converts a user-supplied runner name into a RunnerKind
func ParseRunner(s string) (RunnerKind, error) {
	switch RunnerKind(strings.ToLower(strings.TrimSpace(s))) {
	case RunnerPytest:
		return RunnerPytest, nil
	case RunnerUnittest:
		return RunnerUnittest, nil
	}
	return "", errors.Wrapf(ErrUnknownRunner, "%q", s)
}

func (r RunnerKind) String() string {
	return string(r)
}
