package discovery

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pytdbg/internal/testid"
)

type recordingProgress struct {
	mu       sync.Mutex
	files    int
	tests    int
	finished bool
}

func (p *recordingProgress) Update(files, tests int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.files, p.tests = files, tests
}

func (p *recordingProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
}

func TestIndexer_Index(t *testing.T) {
	root := makeTree(t, "manage.py")
	write := func(rel, content string) string {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	views := write("polls/tests/test_views.py", "class ViewsTest:\n    def test_index(self):\n        pass\n")
	free := write("polls/test_free.py", "def test_free():\n    pass\n")
	empty := write("polls/tests/test_empty.py", "# nothing here\n")
	missing := filepath.Join(root, "polls", "test_gone.py")

	indexer := NewIndexer(testid.NewBuilder(false), 3)
	progress := &recordingProgress{}
	indexer.SetProgress(progress)

	results := indexer.Index(context.Background(), root, []string{views, free, empty, missing})
	require.Len(t, results, 4)

	// Sorted by path
	assert.Equal(t, free, results[0].Path)
	assert.Equal(t, missing, results[1].Path)
	assert.Equal(t, empty, results[2].Path)
	assert.Equal(t, views, results[3].Path)

	assert.Equal(t, "polls/test_free.py::test_free", results[0].Tests[0].PytestID)
	assert.Equal(t, "polls.test_free.test_free", results[0].Tests[0].UnittestID)
	assert.Error(t, results[1].Err)
	assert.Empty(t, results[2].Tests)

	require.Len(t, results[3].Tests, 1)
	test := results[3].Tests[0]
	assert.Equal(t, "ViewsTest", test.ClassName)
	assert.Equal(t, 1, test.Line)
	assert.Equal(t, "polls/tests/test_views.py::ViewsTest::test_index", test.PytestID)
	assert.Equal(t, "polls.tests.test_views.ViewsTest.test_index", test.UnittestID)

	assert.Equal(t, 4, progress.files)
	assert.Equal(t, 2, progress.tests)
	assert.True(t, progress.finished)
}

func TestIndexer_Empty(t *testing.T) {
	assert.Nil(t, NewIndexer(testid.NewBuilder(false), 0).Index(context.Background(), "/", nil))
}
