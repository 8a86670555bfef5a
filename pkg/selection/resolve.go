package selection

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/safeguardsiliconlife/aidigest/pkg/pathset"
)

// Resolver combines expansion with set algebra to produce the final file
// list for a build. It holds no state between calls; every Resolve is
// independent and idempotent given the same filesystem snapshot.
type Resolver struct {
	expander *Expander
	logger   *zap.Logger
}

// NewResolver returns a Resolver using the given Expander. A nil logger
// is replaced with a no-op logger.
func NewResolver(e *Expander, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{expander: e, logger: logger}
}

// Resolve produces the deduplicated, ordered file list for the given
// mode. Exclusion is computed post-expansion at the file level, so
// excluding a directory removes exactly the files it contains even when
// a sibling pick independently included one of them. An empty raw
// selection yields an empty list under ModeInclude and the full root set
// under ModeExclude.
func (r *Resolver) Resolve(mode Mode, raw RawSelection, rootEntries []PathEntry) ([]string, []*PathError) {
	switch mode {
	case ModeAll:
		files, failures := r.expander.Expand(rootEntries)
		return pathset.Dedupe(files), failures

	case ModeInclude:
		files, failures := r.expander.Expand(raw)
		resolved := pathset.Dedupe(files)
		r.logger.Debug("Resolved include selection",
			zap.Int("picked", len(raw)),
			zap.Int("resolved", len(resolved)))
		return resolved, failures

	case ModeExclude:
		rootFiles, failures := r.expander.Expand(rootEntries)
		excluded, exFailures := r.expander.Expand(raw)
		failures = append(failures, exFailures...)
		resolved := pathset.Difference(pathset.Dedupe(rootFiles), pathset.Dedupe(excluded))
		r.logger.Debug("Resolved exclude selection",
			zap.Int("rootFiles", len(rootFiles)),
			zap.Int("excluded", len(excluded)),
			zap.Int("resolved", len(resolved)))
		return resolved, failures

	default:
		return nil, []*PathError{{Err: fmt.Errorf("unknown selection mode %v", mode)}}
	}
}
