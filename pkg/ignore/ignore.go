// Package ignore implements gitignore-style exclusion rules for the
// traversal step. Rules come from three sources: the built-in defaults,
// a .aidigestignore file in the build root, and ad-hoc patterns supplied
// on the command line.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// IgnoreFileName is the per-project ignore file read from the build root.
const IgnoreFileName = ".aidigestignore"

// DefaultPatterns mirrors the tool's historical built-in exclusions.
var DefaultPatterns = []string{
	".git", ".svn", ".hg", ".idea", ".vscode",
	"node_modules", "venv", "env", "__pycache__",
	"*.pyc", "*.pyo", "*.pyd", "*.db", "*.sqlite3",
	"*.log", "*.sql", "*.swp", "*.swo",
	"*.bak", "*.tmp", "*.temp",
	"*.o", "*.obj", "*.exe", "*.dll", "*.so", "*.dylib",
	"*.jar", "*.war", "*.ear", "*.sar", "*.class",
	"*.lock", "*.DS_Store", "Thumbs.db",
}

// rule is one compiled pattern line.
type rule struct {
	re     *regexp.Regexp
	negate bool
	line   string
}

// Ruleset matches relative paths against an ordered list of ignore rules.
// Later rules win, so a negated pattern can re-include an earlier match.
type Ruleset struct {
	rules  []rule
	logger *zap.Logger
}

// NewRuleset returns an empty Ruleset. A nil logger is replaced with a
// no-op logger.
func NewRuleset(logger *zap.Logger) *Ruleset {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ruleset{logger: logger}
}

// Load builds a Ruleset for the given build root: the defaults (unless
// disabled), the root's .aidigestignore file if present, and any extra
// command-line patterns, in that order.
func Load(root string, useDefaults bool, extra []string, logger *zap.Logger) (*Ruleset, error) {
	rs := NewRuleset(logger)

	if useDefaults {
		rs.AddPatterns(DefaultPatterns...)
	}

	ignoreFile := filepath.Join(root, IgnoreFileName)
	data, err := os.ReadFile(ignoreFile)
	switch {
	case err == nil:
		rs.AddPatterns(strings.Split(string(data), "\n")...)
		rs.logger.Debug("Loaded ignore file",
			zap.String("file", ignoreFile),
			zap.Int("totalRules", len(rs.rules)))
	case os.IsNotExist(err):
		rs.logger.Debug("No ignore file in build root", zap.String("file", ignoreFile))
	default:
		return nil, fmt.Errorf("reading %s: %w", ignoreFile, err)
	}

	rs.AddPatterns(extra...)
	return rs, nil
}

// AddPatterns compiles the given pattern lines into the Ruleset. Empty
// lines and comments are skipped; lines that fail to compile are logged
// and dropped.
func (rs *Ruleset) AddPatterns(lines ...string) {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		negate := false
		if strings.HasPrefix(trimmed, "!") {
			negate = true
			trimmed = strings.TrimPrefix(trimmed, "!")
		}

		re, err := compilePattern(trimmed)
		if err != nil {
			rs.logger.Warn("Dropping invalid ignore pattern",
				zap.String("pattern", line),
				zap.Error(err))
			continue
		}
		rs.rules = append(rs.rules, rule{re: re, negate: negate, line: line})
	}
}

// Len reports the number of compiled rules.
func (rs *Ruleset) Len() int { return len(rs.rules) }

// Matches reports whether the given path (relative to the build root,
// slash-separated) is excluded by the rules. isDir selects directory
// semantics for trailing-slash patterns.
func (rs *Ruleset) Matches(relPath string, isDir bool) bool {
	p := filepath.ToSlash(relPath)
	if isDir && !strings.HasSuffix(p, "/") {
		p += "/"
	}

	matched := false
	for _, r := range rs.rules {
		if r.re.MatchString(p) {
			matched = !r.negate
		}
	}
	return matched
}
