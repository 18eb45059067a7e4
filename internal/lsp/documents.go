package lsp

import (
	"sync"

	"pytdbg/internal/action"
)

// Documents holds the text of files open in the editor. Files that are not
// open are read through the fallback source.
type Documents struct {
	mu       sync.RWMutex
	texts    map[string]string
	fallback action.DocumentSource
}

// NewDocuments creates an empty overlay over fallback
func NewDocuments(fallback action.DocumentSource) *Documents {
	return &Documents{
		texts:    make(map[string]string),
		fallback: fallback,
	}
}

// Set stores the current text of an open document
func (d *Documents) Set(path, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts[path] = text
}

// Close forgets an open document
func (d *Documents) Close(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.texts, path)
}

// Text returns the editor's copy of path, or the fallback's when the
// document is not open.
func (d *Documents) Text(path string) (string, error) {
	d.mu.RLock()
	text, ok := d.texts[path]
	d.mu.RUnlock()
	if ok {
		return text, nil
	}
	return d.fallback.Text(path)
}
