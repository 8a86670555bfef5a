package selection

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTraverser implements Traverser from canned directory listings.
type fakeTraverser struct {
	dirs map[string][]string
	errs map[string]error
}

func (f *fakeTraverser) Files(root string) ([]string, error) {
	if err, ok := f.errs[root]; ok {
		return nil, err
	}
	files, ok := f.dirs[root]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]string(nil), files...), nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExpandDirectoriesSortedAndOrdered(t *testing.T) {
	ft := &fakeTraverser{dirs: map[string][]string{
		// Deliberately unsorted, as filesystem iteration order would be.
		"beta":  {"beta/z.txt", "beta/a.txt"},
		"alpha": {"alpha/2.txt", "alpha/1.txt"},
	}}
	e := NewExpander(ft, nil)

	files, failures := e.Expand([]PathEntry{
		{Path: "beta", Kind: KindDirectory},
		{Path: "alpha", Kind: KindDirectory},
	})

	assert.Empty(t, failures)
	// beta first (entry order preserved), each directory sorted internally.
	assert.Equal(t, []string{"beta/a.txt", "beta/z.txt", "alpha/1.txt", "alpha/2.txt"}, files)
}

func TestExpandDirectoryOnlySelectionIsSorted(t *testing.T) {
	ft := &fakeTraverser{dirs: map[string][]string{
		"d": {"d/c", "d/a", "d/b"},
	}}
	e := NewExpander(ft, nil)

	files, failures := e.Expand([]PathEntry{{Path: "d", Kind: KindDirectory}})

	assert.Empty(t, failures)
	assert.True(t, sort.StringsAreSorted(files))
	assert.Equal(t, files, dedupeForTest(files), "no duplicates from one expansion")
}

func dedupeForTest(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func TestExpandFileEntries(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.txt", "A")

	e := NewExpander(&fakeTraverser{}, nil)

	t.Run("regular file included directly", func(t *testing.T) {
		files, failures := e.Expand([]PathEntry{{Path: file, Kind: KindFile}})
		assert.Empty(t, failures)
		assert.Equal(t, []string{file}, files)
	})

	t.Run("vanished file fails that entry and continues", func(t *testing.T) {
		gone := filepath.Join(dir, "gone.txt")
		files, failures := e.Expand([]PathEntry{
			{Path: gone, Kind: KindFile},
			{Path: file, Kind: KindFile},
		})
		assert.Equal(t, []string{file}, files)
		require.Len(t, failures, 1)
		assert.Equal(t, gone, failures[0].Path)
		assert.True(t, errors.Is(failures[0], os.ErrNotExist))
	})

	t.Run("file entry that became a directory is a failure", func(t *testing.T) {
		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.Mkdir(sub, 0o755))
		files, failures := e.Expand([]PathEntry{{Path: sub, Kind: KindFile}})
		assert.Empty(t, files)
		require.Len(t, failures, 1)
		assert.Equal(t, sub, failures[0].Path)
	})
}

func TestExpandUnreadableDirectoryAccumulates(t *testing.T) {
	ft := &fakeTraverser{
		dirs: map[string][]string{"ok": {"ok/f.txt"}},
		errs: map[string]error{"broken": os.ErrPermission},
	}
	e := NewExpander(ft, nil)

	files, failures := e.Expand([]PathEntry{
		{Path: "broken", Kind: KindDirectory},
		{Path: "ok", Kind: KindDirectory},
	})

	assert.Equal(t, []string{"ok/f.txt"}, files)
	require.Len(t, failures, 1)
	assert.Equal(t, "broken", failures[0].Path)
	assert.True(t, errors.Is(failures[0], os.ErrPermission))
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "f.txt", "x")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	gone := filepath.Join(dir, "missing")

	sel, failures := Classify([]string{sub, file, gone})

	assert.Equal(t, RawSelection{
		{Path: sub, Kind: KindDirectory},
		{Path: file, Kind: KindFile},
	}, sel)
	require.Len(t, failures, 1)
	assert.Equal(t, gone, failures[0].Path)
}
