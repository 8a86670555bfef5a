package traverse

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safeguardsiliconlife/aidigest/pkg/ignore"
	"github.com/safeguardsiliconlife/aidigest/pkg/selection"
)

func buildTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestWalkerFiles(t *testing.T) {
	root := buildTree(t, map[string]string{
		"a.txt":     "A",
		"dir/b.txt": "B",
		"dir/c.txt": "C",
	})
	w := NewWalker(root, nil, nil)

	files, err := w.Files(root)
	require.NoError(t, err)

	sort.Strings(files)
	assert.Equal(t, []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "dir", "b.txt"),
		filepath.Join(root, "dir", "c.txt"),
	}, files)
}

func TestWalkerIgnorePruning(t *testing.T) {
	root := buildTree(t, map[string]string{
		"keep.go":              "k",
		"node_modules/x/y.js":  "y",
		"build.log":            "l",
		"src/nested/file.go":   "f",
		"src/nested/cache.tmp": "c",
	})
	rules := ignore.NewRuleset(nil)
	rules.AddPatterns("node_modules", "*.log", "*.tmp")
	w := NewWalker(root, rules, nil)

	files, err := w.Files(root)
	require.NoError(t, err)

	sort.Strings(files)
	assert.Equal(t, []string{
		filepath.Join(root, "keep.go"),
		filepath.Join(root, "src", "nested", "file.go"),
	}, files)
}

func TestWalkerEntries(t *testing.T) {
	root := buildTree(t, map[string]string{
		"a.txt":     "A",
		"dir/b.txt": "B",
	})
	w := NewWalker(root, nil, nil)

	entries, err := w.Entries(root)
	require.NoError(t, err)

	byPath := map[string]selection.Kind{}
	for _, e := range entries {
		byPath[e.Path] = e.Kind
	}
	assert.Equal(t, selection.KindFile, byPath[filepath.Join(root, "a.txt")])
	assert.Equal(t, selection.KindDirectory, byPath[filepath.Join(root, "dir")])
	assert.Equal(t, selection.KindFile, byPath[filepath.Join(root, "dir", "b.txt")])
	assert.NotContains(t, byPath, root, "the root itself is not a candidate")
}

func TestWalkerMissingRoot(t *testing.T) {
	w := NewWalker("", nil, nil)

	_, err := w.Files(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestWalkerRootMustBeDirectory(t *testing.T) {
	root := buildTree(t, map[string]string{"f.txt": "x"})
	w := NewWalker(root, nil, nil)

	_, err := w.Files(filepath.Join(root, "f.txt"))
	assert.Error(t, err)
}

func TestWalkerPickedSubdirectoryUsesBuildRootIgnores(t *testing.T) {
	root := buildTree(t, map[string]string{
		"dir/secret/key.pem": "k",
		"dir/ok.txt":         "o",
	})
	rules := ignore.NewRuleset(nil)
	rules.AddPatterns("dir/secret")
	w := NewWalker(root, rules, nil)

	t.Run("walk from the build root", func(t *testing.T) {
		files, err := w.Files(root)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "dir", "ok.txt")}, files)
	})

	t.Run("walk from the picked subdirectory matches the same files", func(t *testing.T) {
		files, err := w.Files(filepath.Join(root, "dir"))
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "dir", "ok.txt")}, files)
	})
}
