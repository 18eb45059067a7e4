package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_Scan(t *testing.T) {
	root := makeTree(t,
		"manage.py",
		"polls/tests/test_views.py",
		"polls/tests/test_models.py",
		"polls/views.py",
		"accounts/tests.py",
		"venv/lib/site-packages/test_vendor.py",
		"node_modules/x/test_js.py",
		".tox/test_hidden.py",
	)

	scanner := NewScanner("*test*.py", defaultExclude)

	t.Run("scans test files correctly", func(t *testing.T) {
		results, err := scanner.Scan(root)
		require.NoError(t, err)

		// Should find 3 test files, not the ones in excluded or hidden dirs
		assert.Len(t, results, 3)
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		_, err := scanner.Scan("/non/existent/path")
		assert.Error(t, err)
	})

	t.Run("returns error for file instead of directory", func(t *testing.T) {
		_, err := scanner.Scan(root + "/manage.py")
		assert.Error(t, err)
	})

	t.Run("hidden start directory is still scanned", func(t *testing.T) {
		results, err := scanner.Scan(root + "/.tox")
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}
