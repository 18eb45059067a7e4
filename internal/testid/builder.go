// Package testid derives runner-specific test identifiers from a file path,
// its enclosing class and the test function name.
package testid

import (
	"path/filepath"
	"regexp"
	"strings"

	"pytdbg/internal/domain"
)

const sourceExt = ".py"

var classPattern = regexp.MustCompile(`^\s*class\s+(\w+)[\s(]*`)

// Builder builds fully qualified test identifiers
type Builder struct {
	indentAware bool
}

// NewBuilder creates a Builder. With indentAware set, the enclosing class
// must be indented strictly less than the test function.
func NewBuilder(indentAware bool) *Builder {
	return &Builder{indentAware: indentAware}
}

// Target resolves the enclosing class of the function declared on line
func (b *Builder) Target(filePath string, lines []string, line int, functionName string, runner domain.RunnerKind) domain.TestTarget {
	var className string
	if b.indentAware {
		className, _ = ClassNameAboveLineIndented(lines, line)
	} else {
		className, _ = ClassNameAboveLine(lines, line)
	}
	return domain.TestTarget{
		FilePath:     filePath,
		Line:         line,
		ClassName:    className,
		FunctionName: functionName,
		Runner:       runner,
	}
}

// Build returns the identifier of target for its runner
func (b *Builder) Build(target domain.TestTarget, projectRoot string) string {
	rel := RelativePath(projectRoot, target.FilePath)
	if target.Runner == domain.RunnerUnittest {
		return join(".", ModulePath(rel), target.ClassName, target.FunctionName)
	}
	return join("::", rel, target.ClassName, target.FunctionName)
}

// join skips the empty class segment instead of emitting "::::"
func join(sep string, parts ...string) string {
	var kept []string
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

// RelativePath returns file relative to root with forward slashes.
// If no relative path exists the file path is returned unchanged.
func RelativePath(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = file
	}
	return strings.ReplaceAll(filepath.ToSlash(rel), `\`, "/")
}

// ModulePath turns a relative source path into a dotted module path
func ModulePath(rel string) string {
	rel = strings.TrimSuffix(rel, sourceExt)
	return strings.ReplaceAll(rel, "/", ".")
}

// ClassNameAboveLine scans upward from line-1 for the nearest class
// declaration. It is purely textual and ignores nesting.
func ClassNameAboveLine(lines []string, line int) (string, bool) {
	if line > len(lines) {
		line = len(lines)
	}
	for i := line - 1; i >= 0; i-- {
		if match := classPattern.FindStringSubmatch(lines[i]); match != nil {
			return match[1], true
		}
	}
	return "", false
}

// ClassNameAboveLineIndented is like ClassNameAboveLine but only accepts
// class lines indented strictly less than the target line. Blank lines and
// comment lines do not narrow the scope. Content of a multi-line string that
// is dedented below the target line still does, since lines are read
// without tokenizing.
func ClassNameAboveLineIndented(lines []string, line int) (string, bool) {
	if line < 0 || line >= len(lines) {
		return "", false
	}
	limit := indentOf(lines[line])
	for i := line - 1; i >= 0 && limit > 0; i-- {
		text := lines[i]
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := indentOf(text)
		if indent >= limit {
			continue
		}
		if match := classPattern.FindStringSubmatch(text); match != nil {
			return match[1], true
		}
		limit = indent
	}
	return "", false
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 8 - n%8
		default:
			return n
		}
	}
	return n
}
