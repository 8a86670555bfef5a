package selection

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
)

// Traverser enumerates the regular files beneath a directory. The
// filesystem walker in pkg/traverse is the production implementation;
// tests substitute fakes.
type Traverser interface {
	Files(root string) ([]string, error)
}

// Expander flattens a mixed list of file and directory entries into a
// list of regular-file paths. Directories are expanded recursively via
// the Traverser and their contents sorted lexicographically, so the
// result is deterministic regardless of filesystem iteration order.
type Expander struct {
	traverser Traverser
	logger    *zap.Logger
}

// NewExpander returns an Expander backed by the given Traverser. A nil
// logger is replaced with a no-op logger.
func NewExpander(t Traverser, logger *zap.Logger) *Expander {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Expander{traverser: t, logger: logger}
}

// Expand processes entries strictly in input order: entry i is fully
// expanded before entry i+1, so the relative ordering of user picks is
// preserved. A path that vanished or became unreadable fails that single
// entry and is accumulated as a PathError; the remainder of the
// expansion continues.
func (e *Expander) Expand(entries []PathEntry) ([]string, []*PathError) {
	var (
		files    []string
		failures []*PathError
	)

	for _, entry := range entries {
		switch entry.Kind {
		case KindFile:
			info, err := os.Stat(entry.Path)
			if err != nil {
				e.logger.Warn("Selected file is unavailable",
					zap.String("path", entry.Path),
					zap.Error(err))
				failures = append(failures, &PathError{Path: entry.Path, Err: err})
				continue
			}
			if !info.Mode().IsRegular() {
				err := fmt.Errorf("not a regular file (%s)", info.Mode())
				e.logger.Warn("Selected path changed kind",
					zap.String("path", entry.Path),
					zap.String("mode", info.Mode().String()))
				failures = append(failures, &PathError{Path: entry.Path, Err: err})
				continue
			}
			files = append(files, entry.Path)

		case KindDirectory:
			contents, err := e.traverser.Files(entry.Path)
			if err != nil {
				e.logger.Warn("Failed to expand directory",
					zap.String("path", entry.Path),
					zap.Error(err))
				failures = append(failures, &PathError{Path: entry.Path, Err: err})
				continue
			}
			sort.Strings(contents)
			files = append(files, contents...)

		default:
			failures = append(failures, &PathError{
				Path: entry.Path,
				Err:  fmt.Errorf("unknown entry kind %v", entry.Kind),
			})
		}
	}

	return files, failures
}

// Classify stats each picked path and assigns its kind. Paths that
// cannot be stat'ed (vanished between picking and resolution) are
// reported as PathErrors and left out of the selection.
func Classify(paths []string) (RawSelection, []*PathError) {
	var (
		sel      RawSelection
		failures []*PathError
	)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			failures = append(failures, &PathError{Path: p, Err: err})
			continue
		}
		kind := KindFile
		if info.IsDir() {
			kind = KindDirectory
		}
		sel = append(sel, PathEntry{Path: p, Kind: kind})
	}
	return sel, failures
}
