package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/rivo/tview"

	"pytdbg/internal/domain"
)

// ErrPickCancelled is returned when the picker is closed without a choice
var ErrPickCancelled = errors.New("no test selected")

// TestPicker lets the user browse indexed tests in an interactive TUI
// and choose one to debug
type TestPicker struct {
	runner domain.RunnerKind
	run    func(app *tview.Application, root tview.Primitive) error
}

// NewTestPicker creates a picker showing identifiers for runner
func NewTestPicker(runner domain.RunnerKind) *TestPicker {
	return &TestPicker{
		runner: runner,
		run: func(app *tview.Application, root tview.Primitive) error {
			return app.SetRoot(root, true).Run()
		},
	}
}

type pickerEntry struct {
	file domain.FileTriggers
	test domain.IndexedTest
}

func flattenEntries(files []domain.FileTriggers) []pickerEntry {
	var entries []pickerEntry
	for _, file := range files {
		for _, test := range file.Tests {
			entries = append(entries, pickerEntry{file: file, test: test})
		}
	}
	return entries
}

// Pick displays the tests and blocks until one is chosen or the picker is closed
func (p *TestPicker) Pick(files []domain.FileTriggers) (*Selection, error) {
	entries := flattenEntries(files)
	if len(entries) == 0 {
		return nil, errors.New("no tests found")
	}

	app := tview.NewApplication()
	var selected *Selection

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i, entry := range entries {
		list.AddItem(p.itemText(i, entry), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(detailsContainer, 0, 1, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" %d test(s) | ↑↓ to navigate, [yellow]Enter[white] to debug, Esc or Ctrl+C to exit ", len(entries)))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(entries) {
			detailsView.SetText(p.details(entries[index]))
		}
	}

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	list.SetSelectedFunc(func(index int, _ string, _ string, _ rune) {
		entry := entries[index]
		selected = &Selection{File: entry.file, Test: entry.test}
		app.Stop()
	})
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc, tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := p.run(app, mainLayout); err != nil {
		return nil, errors.Wrap(err, "failed to run TUI")
	}
	if selected == nil {
		return nil, ErrPickCancelled
	}
	return selected, nil
}

func (p *TestPicker) itemText(index int, entry pickerEntry) string {
	name := entry.test.FunctionName
	if entry.test.ClassName != "" {
		name = entry.test.ClassName + "." + name
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(name))
}

// details formats an entry with tview color tags
func (p *TestPicker) details(entry pickerEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[cyan]File:[white] %s:%d\n", tview.Escape(entry.file.RelPath), entry.test.Line+1)
	if entry.test.ClassName != "" {
		fmt.Fprintf(&b, "[cyan]Class:[white] %s\n", entry.test.ClassName)
	}
	fmt.Fprintf(&b, "[cyan]Function:[white] %s\n\n", entry.test.FunctionName)
	fmt.Fprintf(&b, "[yellow]pytest:[white]\n%s\n\n", tview.Escape(entry.test.PytestID))
	fmt.Fprintf(&b, "[yellow]unittest:[white]\n%s\n\n", tview.Escape(entry.test.UnittestID))
	fmt.Fprintf(&b, "[gray]Debug with %s[white]\n", p.runner)
	return b.String()
}
