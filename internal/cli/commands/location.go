package commands

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// parseLocation splits FILE:LINE with a one-based line into the file and a
// zero-based line
func parseLocation(arg string) (string, int, error) {
	i := strings.LastIndex(arg, ":")
	if i <= 0 || i == len(arg)-1 {
		return "", 0, errors.Errorf("expected FILE:LINE, got %q", arg)
	}
	line, err := strconv.Atoi(arg[i+1:])
	if err != nil {
		return "", 0, errors.Errorf("invalid line number in %q", arg)
	}
	if line < 1 {
		return "", 0, errors.Errorf("line must be at least 1 in %q", arg)
	}
	return arg[:i], line - 1, nil
}
