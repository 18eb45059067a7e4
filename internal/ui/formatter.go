package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"pytdbg/internal/action"
	"pytdbg/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

// PrintTestList prints indexed files as a tree with the identifier of
// every test for the given runner
func (f *Formatter) PrintTestList(files []domain.FileTriggers, runner domain.RunnerKind) {
	total := 0
	for _, file := range files {
		total += len(file.Tests)
	}
	fmt.Fprintln(f.out, color.GreenString("Found %d test(s) in %d file(s):\n", total, len(files)))

	for i, file := range files {
		isLastFile := i == len(files)-1
		if isLastFile {
			fmt.Fprintln(f.out, color.CyanString("└── %s", file.RelPath))
		} else {
			fmt.Fprintln(f.out, color.CyanString("├── %s", file.RelPath))
		}

		branch := "│   "
		if isLastFile {
			branch = "    "
		}

		if file.Err != nil {
			fmt.Fprintf(f.out, "%s└── %s\n", branch, color.RedString("error: %v", file.Err))
			continue
		}
		if len(file.Tests) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", branch, color.RedString("(no test functions found)"))
			continue
		}

		for j, test := range file.Tests {
			prefix := branch + "├── "
			if j == len(file.Tests)-1 {
				prefix = branch + "└── "
			}
			fmt.Fprintf(f.out, "%s%s %s\n", prefix, color.YellowString(test.ID(runner)), color.HiBlackString(":%d", test.Line+1))
		}
	}
}

// PrintResolved prints the identifier and the launch details of a result
func (f *Formatter) PrintResolved(result *action.Result) {
	rows := [][2]string{
		{"Workspace", result.Workspace.Path},
		{"Project root", result.Root},
		{"Runner", result.Target.Runner.String()},
		{"Test", result.ID},
	}
	if result.Session != nil {
		rows = append(rows,
			[2]string{"Launch config", result.Session.Name},
			[2]string{"Debugger", "listening on " + result.Session.Listen},
			[2]string{"Command", strings.Join(result.Session.Args, " ")},
		)
	}

	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	for _, row := range rows {
		fmt.Fprintf(f.out, "%s  %s\n", color.CyanString("%-*s", width, row[0]), color.WhiteString(row[1]))
	}
}

// PrintSuccess prints a green check line
func (f *Formatter) PrintSuccess(format string, args ...interface{}) {
	fmt.Fprintln(f.out, color.GreenString("✓ "+format, args...))
}

// PrintError is the single user-facing error surface of the CLI
func (f *Formatter) PrintError(err error) {
	fmt.Fprintln(f.out, color.RedString("Error: %v", err))
}
