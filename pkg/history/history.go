// Package history records completed builds under timestamp-named
// directories and resolves the most recent one. Each record holds a copy
// of the artifact, a short human-readable summary, and the serialized
// manifest. Records are never mutated once written.
package history

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/safeguardsiliconlife/aidigest/pkg/assemble"
)

// ErrNoHistory is returned when a lookup needs a prior build and none
// has been recorded.
var ErrNoHistory = errors.New("no builds recorded yet")

const (
	// HistoryDirName is the subfolder under the history root that holds
	// one directory per build.
	HistoryDirName = "aidigest"

	// SummaryFileName is the human-readable per-build summary.
	SummaryFileName = "info.txt"

	// ManifestFileName is the serialized manifest inside a record.
	ManifestFileName = "manifest.yaml"

	lockFileName    = ".lock"
	timestampLayout = "20060102_150405"
)

// Record is one persisted build, keyed by its creation timestamp.
type Record struct {
	Name         string // timestamp-derived directory name
	Dir          string // absolute record directory
	ArtifactPath string // copied artifact inside the record
	Summary      string // contents of info.txt
}

// Tracker persists and lists build records under a history root.
type Tracker struct {
	root   string
	logger *zap.Logger
	now    func() time.Time
}

// NewTracker returns a Tracker rooted at root. A nil logger is replaced
// with a no-op logger.
func NewTracker(root string, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{root: root, logger: logger, now: time.Now}
}

// base is the directory holding one subdirectory per build.
func (t *Tracker) base() string { return filepath.Join(t.root, HistoryDirName) }

// Record persists the manifest's build: a fresh timestamp-named
// directory containing a copy of the artifact, info.txt, and
// manifest.yaml. A file lock on the history base serializes concurrent
// invocations so two builds cannot claim the same directory name.
func (t *Tracker) Record(m *assemble.Manifest) (*Record, error) {
	base := t.base()
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir %s: %w", base, err)
	}

	lock := flock.New(filepath.Join(base, lockFileName))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("locking history dir: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			t.logger.Warn("Failed to release history lock", zap.Error(err))
		}
	}()

	name, dir, err := t.claimRecordDir(base)
	if err != nil {
		return nil, err
	}

	artifactDst := filepath.Join(dir, filepath.Base(m.OutputPath))
	if err := copyFile(m.OutputPath, artifactDst); err != nil {
		return nil, fmt.Errorf("copying artifact into history: %w", err)
	}

	summary := formatSummary(m)
	if err := os.WriteFile(filepath.Join(dir, SummaryFileName), []byte(summary), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", SummaryFileName, err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), data, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", ManifestFileName, err)
	}

	t.logger.Info("Recorded build",
		zap.String("record", dir),
		zap.Int("files", m.Count))

	return &Record{Name: name, Dir: dir, ArtifactPath: artifactDst, Summary: summary}, nil
}

// claimRecordDir creates the next free timestamp-named directory. Within
// one second, later builds get an increasing zero-padded suffix, so
// lexicographic order on names stays creation order past ten records.
func (t *Tracker) claimRecordDir(base string) (string, string, error) {
	stamp := t.now().Format(timestampLayout)
	name := stamp
	for i := 2; ; i++ {
		dir := filepath.Join(base, name)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return name, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", fmt.Errorf("creating record dir %s: %w", dir, err)
		}
		name = fmt.Sprintf("%s_%03d", stamp, i)
	}
}

// ListRecent returns up to n records, most recent first. Ordering is by
// directory name, which encodes the creation timestamp plus a same-second
// suffix.
func (t *Tracker) ListRecent(n int) ([]Record, error) {
	entries, err := os.ReadDir(t.base())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if n >= 0 && len(names) > n {
		names = names[:n]
	}

	records := make([]Record, 0, len(names))
	for _, name := range names {
		records = append(records, t.loadRecord(name))
	}
	return records, nil
}

// ResolveLatest returns the artifact path of the most recent record.
func (t *Tracker) ResolveLatest() (string, error) {
	records, err := t.ListRecent(1)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", ErrNoHistory
	}
	latest := records[0]
	if latest.ArtifactPath == "" {
		return "", fmt.Errorf("record %s has no artifact", latest.Dir)
	}
	return latest.ArtifactPath, nil
}

// loadRecord reads a record directory's summary and locates its
// artifact. Missing pieces are tolerated; old or hand-pruned records
// still list.
func (t *Tracker) loadRecord(name string) Record {
	dir := filepath.Join(t.base(), name)
	rec := Record{Name: name, Dir: dir}

	if data, err := os.ReadFile(filepath.Join(dir, SummaryFileName)); err == nil {
		rec.Summary = string(data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return rec
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch e.Name() {
		case SummaryFileName, ManifestFileName, lockFileName:
			continue
		}
		rec.ArtifactPath = filepath.Join(dir, e.Name())
		break
	}
	return rec
}

// formatSummary renders the info.txt body for a build.
func formatSummary(m *assemble.Manifest) string {
	return fmt.Sprintf("Command: %s\nTimestamp: %s\nFiles: %d\nOutput: %s\n",
		m.Command,
		m.CreatedAt.Format("2006-01-02 15:04:05"),
		m.Count,
		m.OutputPath,
	)
}

// copyFile copies src to dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
