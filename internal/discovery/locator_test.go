package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pytdbg/internal/domain"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, file := range files {
		full := filepath.Join(root, filepath.FromSlash(file))
		if strings.HasSuffix(file, "/") {
			require.NoError(t, os.MkdirAll(full, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("# test\n"), 0644))
	}
	return root
}

func defaultExclude(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "node_modules", "venv", "env", ".venv":
		return true
	}
	return false
}

func TestLocator_Locate(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		maxDepth int
		expected string // relative to the tree root, "" means not found
	}{
		{
			name:     "marker at start directory",
			files:    []string{"manage.py", "app/manage.py"},
			maxDepth: 3,
			expected: ".",
		},
		{
			name:     "marker nested at max depth",
			files:    []string{"a/b/c/manage.py"},
			maxDepth: 3,
			expected: "a/b/c",
		},
		{
			name:     "marker beyond max depth",
			files:    []string{"a/b/c/d/manage.py"},
			maxDepth: 3,
			expected: "",
		},
		{
			name:     "marker only inside excluded directory",
			files:    []string{"node_modules/manage.py", "venv/lib/manage.py"},
			maxDepth: 3,
			expected: "",
		},
		{
			name:     "marker only inside hidden directory",
			files:    []string{".cache/manage.py"},
			maxDepth: 3,
			expected: "",
		},
		{
			name:     "directory named like the marker does not count",
			files:    []string{"manage.py/", "backend/manage.py"},
			maxDepth: 3,
			expected: "backend",
		},
		{
			name:     "siblings visited in listing order",
			files:    []string{"alpha/manage.py", "beta/manage.py"},
			maxDepth: 3,
			expected: "alpha",
		},
		{
			name:     "depth first before later siblings",
			files:    []string{"a/deep/manage.py", "b/manage.py"},
			maxDepth: 3,
			expected: "a/deep",
		},
		{
			name:     "zero depth only checks start",
			files:    []string{"app/manage.py"},
			maxDepth: 0,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := makeTree(t, tt.files...)
			locator := NewLocator("manage.py", tt.maxDepth, defaultExclude)

			dir, err := locator.Locate(root)
			if tt.expected == "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrRootNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(root, filepath.FromSlash(tt.expected)), dir)
		})
	}
}

func TestLocator_UnreadableBranchIsSkipped(t *testing.T) {
	root := makeTree(t, "broken/x.py", "ok/manage.py")
	locator := NewLocator("manage.py", 3, defaultExclude)
	locator.readDir = func(dir string) ([]os.DirEntry, error) {
		if filepath.Base(dir) == "broken" {
			return nil, os.ErrPermission
		}
		return os.ReadDir(dir)
	}

	dir, err := locator.Locate(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "ok"), dir)
}

func TestLocator_MissingStartDirectory(t *testing.T) {
	locator := NewLocator("manage.py", 3, nil)

	_, err := locator.Locate(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, domain.ErrRootNotFound)
}

func TestLocator_LocateMarker(t *testing.T) {
	root := makeTree(t, "src/manage.py")
	locator := NewLocator("manage.py", 3, defaultExclude)

	path, err := locator.LocateMarker(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "manage.py"), path)
}
