// Package traverse enumerates files and directories under a build root.
// It is the production implementation of selection.Traverser and the
// source of the picker's candidate list. Nothing is cached: every build
// re-enumerates the filesystem.
package traverse

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/safeguardsiliconlife/aidigest/pkg/ignore"
	"github.com/safeguardsiliconlife/aidigest/pkg/selection"
)

// Walker walks a directory tree, pruning paths matched by the ignore
// rules. Access errors below the root are logged and skipped; a missing
// or unreadable root is an error.
type Walker struct {
	base   string
	rules  *ignore.Ruleset
	logger *zap.Logger
}

// NewWalker returns a Walker filtering through the given Ruleset. Ignore
// rules are always evaluated against paths relative to base, the build
// root, so a pattern with path components (dir/secret) matches the same
// files whether the walk starts at the root or at a picked subdirectory.
// Rules and logger may be nil; nil rules exclude nothing.
func NewWalker(base string, rules *ignore.Ruleset, logger *zap.Logger) *Walker {
	if rules == nil {
		rules = ignore.NewRuleset(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{base: base, rules: rules, logger: logger}
}

// Files returns the regular files beneath root that survive the ignore
// rules. Paths are returned as joined with root (relative when root is
// relative), unsorted; callers order them as needed.
func (w *Walker) Files(root string) ([]string, error) {
	var files []string
	err := w.walk(root, func(path, relPath string, d fs.DirEntry) {
		if d.Type().IsRegular() {
			files = append(files, path)
		}
	})
	return files, err
}

// Entries returns the files and directories beneath root (the root
// itself excluded) that survive the ignore rules, in walk order. These
// form the picker's candidate list.
func (w *Walker) Entries(root string) ([]selection.PathEntry, error) {
	var entries []selection.PathEntry
	err := w.walk(root, func(path, relPath string, d fs.DirEntry) {
		switch {
		case d.IsDir():
			entries = append(entries, selection.PathEntry{Path: path, Kind: selection.KindDirectory})
		case d.Type().IsRegular():
			entries = append(entries, selection.PathEntry{Path: path, Kind: selection.KindFile})
		}
	})
	return entries, err
}

// walk runs fn over every non-ignored entry beneath root. Ignored
// directories are pruned whole.
func (w *Walker) walk(root string, fn func(path, relPath string, d fs.DirEntry)) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("traversal root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("traversal root %s is not a directory", root)
	}

	base := w.base
	if base == "" {
		base = root
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("Error accessing path during traversal",
				zap.String("path", path),
				zap.Error(err))
			return nil
		}
		if path == root {
			return nil
		}

		relPath, relErr := filepath.Rel(base, path)
		if relErr != nil {
			relPath = path
		}

		if w.rules.Matches(relPath, d.IsDir()) {
			if d.IsDir() {
				w.logger.Debug("Skipping ignored directory", zap.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}

		fn(path, relPath, d)
		return nil
	})
}
