package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesetMatches(t *testing.T) {
	t.Run("directory name matches at any depth", func(t *testing.T) {
		rs := NewRuleset(nil)
		rs.AddPatterns("node_modules")
		assert.True(t, rs.Matches("node_modules", true))
		assert.True(t, rs.Matches("web/node_modules", true))
		assert.True(t, rs.Matches("node_modules/left-pad/index.js", false))
		assert.False(t, rs.Matches("src/main.go", false))
	})

	t.Run("wildcard extensions", func(t *testing.T) {
		rs := NewRuleset(nil)
		rs.AddPatterns("*.log")
		assert.True(t, rs.Matches("build.log", false))
		assert.True(t, rs.Matches("logs/build.log", false))
		assert.False(t, rs.Matches("build.log.txt", false))
	})

	t.Run("negation re-includes a later match", func(t *testing.T) {
		rs := NewRuleset(nil)
		rs.AddPatterns("*.log", "!keep.log")
		assert.True(t, rs.Matches("debug.log", false))
		assert.False(t, rs.Matches("keep.log", false))
	})

	t.Run("double star patterns", func(t *testing.T) {
		rs := NewRuleset(nil)
		rs.AddPatterns("docs/**/draft")
		assert.True(t, rs.Matches("docs/a/b/draft", true))
		assert.True(t, rs.Matches("docs/draft", true))
		assert.False(t, rs.Matches("other/draft", true))
	})

	t.Run("root-relative patterns match from the top only", func(t *testing.T) {
		rs := NewRuleset(nil)
		rs.AddPatterns("/build")
		assert.True(t, rs.Matches("build", true))
		assert.True(t, rs.Matches("build/out.o", false))
		assert.False(t, rs.Matches("src/build", true))
		assert.False(t, rs.Matches("src/build/out.o", false))
	})

	t.Run("comments and blanks are skipped", func(t *testing.T) {
		rs := NewRuleset(nil)
		rs.AddPatterns("# a comment", "", "  ")
		assert.Equal(t, 0, rs.Len())
	})
}

func TestLoad(t *testing.T) {
	t.Run("defaults plus ignore file plus extras", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(root, IgnoreFileName),
			[]byte("secret/\n# comment\n"), 0o644))

		rs, err := Load(root, true, []string{"*.tmp2"}, nil)
		require.NoError(t, err)

		assert.True(t, rs.Matches(".git", true), "default pattern applies")
		assert.True(t, rs.Matches("secret", true), "ignore file pattern applies")
		assert.True(t, rs.Matches("scratch.tmp2", false), "extra pattern applies")
	})

	t.Run("defaults can be disabled", func(t *testing.T) {
		rs, err := Load(t.TempDir(), false, nil, nil)
		require.NoError(t, err)
		assert.False(t, rs.Matches(".git", true))
	})

	t.Run("missing ignore file is fine", func(t *testing.T) {
		rs, err := Load(t.TempDir(), true, nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, rs)
	})
}
