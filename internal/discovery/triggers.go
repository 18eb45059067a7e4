package discovery

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf16"

	"pytdbg/internal/domain"
)

// testDefPattern matches an (optionally indented) `def test_xxx(` line
var testDefPattern = regexp.MustCompile(`^\s*def\s+(test_\w+)\s*\(`)

// SplitLines splits document text into lines, dropping CR from CRLF endings
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// FindTestTriggers returns one trigger per test function declaration, in
// line order. Columns count UTF-16 code units, the LSP default. When ctx is
// cancelled the triggers found so far are returned.
func FindTestTriggers(ctx context.Context, text string) []domain.Trigger {
	var triggers []domain.Trigger
	for i, line := range SplitLines(text) {
		if ctx.Err() != nil {
			return triggers
		}
		match := testDefPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		triggers = append(triggers, domain.Trigger{
			FunctionName: match[1],
			Line:         i,
			Column:       utf16Len(line) - utf16Len(strings.TrimLeft(line, " \t")),
			EndColumn:    utf16Len(line),
		})
	}
	return triggers
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// TriggerAt returns the trigger declared on the given zero-based line
func TriggerAt(text string, line int) (domain.Trigger, bool) {
	lines := SplitLines(text)
	if line < 0 || line >= len(lines) {
		return domain.Trigger{}, false
	}
	for _, trigger := range FindTestTriggers(context.Background(), lines[line]) {
		trigger.Line = line
		return trigger, true
	}
	return domain.Trigger{}, false
}
