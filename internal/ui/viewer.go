package ui

import "pytdbg/internal/domain"

// Selection is a test chosen in the picker
type Selection struct {
	File domain.FileTriggers
	Test domain.IndexedTest
}

// Picker lets the user choose one test from an index
type Picker interface {
	Pick(files []domain.FileTriggers) (*Selection, error)
}
