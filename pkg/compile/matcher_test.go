package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher(t *testing.T, cfg Configuration) *PathMatcher {
	t.Helper()
	m, err := NewPathMatcher(&cfg, nil)
	require.NoError(t, err)
	return m
}

func TestMatcherDefaultInclude(t *testing.T) {
	m := newTestMatcher(t, Configuration{})
	assert.True(t, m.Matches("src/main.go", false))
	assert.True(t, m.Matches("README", false))
}

func TestMatcherDirectoriesNeverIncluded(t *testing.T) {
	m := newTestMatcher(t, Configuration{})
	assert.False(t, m.Matches("src", true))
}

func TestMatcherPrunesExcludedDirs(t *testing.T) {
	m := newTestMatcher(t, Configuration{ExcludeDirs: []string{".git", "node_modules"}})
	assert.True(t, m.ShouldPrune(".git"))
	assert.True(t, m.ShouldPrune("web/node_modules"))
	assert.False(t, m.ShouldPrune("src"))
}

func TestMatcherIgnorePatternsCoverFilesAndDirs(t *testing.T) {
	m := newTestMatcher(t, Configuration{IgnorePatterns: []string{"*.log", "tmp/"}})
	assert.False(t, m.Matches("debug.log", false))
	assert.False(t, m.Matches("logs/debug.log", false))
	assert.True(t, m.ShouldPrune("tmp"))
	assert.True(t, m.Ignored("debug.log"))
	assert.False(t, m.Ignored("main.go"))
}

func TestMatcherExcludedFileNames(t *testing.T) {
	m := newTestMatcher(t, Configuration{ExcludeFiles: []string{"secrets.txt"}})
	assert.False(t, m.Matches("conf/secrets.txt", false))
	assert.True(t, m.Matches("conf/public.txt", false))
}

func TestMatcherExtensionRulesCaseInsensitive(t *testing.T) {
	m := newTestMatcher(t, Configuration{ExcludeExtensions: []string{".EXE"}})
	assert.False(t, m.Matches("tool.exe", false))
	assert.False(t, m.Matches("tool.Exe", false))

	// Leading dot is optional in the configured set.
	m = newTestMatcher(t, Configuration{IncludeExtensions: []string{"py"}})
	assert.True(t, m.Matches("script.PY", false))
	assert.False(t, m.Matches("notes.txt", false))
}

func TestMatcherEmptyIncludeSetMeansNoRestriction(t *testing.T) {
	m := newTestMatcher(t, Configuration{})
	assert.True(t, m.Matches("anything.xyz", false))
}

func TestMatcherIncludePatterns(t *testing.T) {
	m := newTestMatcher(t, Configuration{IncludePatterns: []string{"test_*.py"}})
	assert.True(t, m.Matches("pkg/test_main.py", false))
	assert.False(t, m.Matches("pkg/main.py", false))
}

func TestMatcherExcludePatterns(t *testing.T) {
	m := newTestMatcher(t, Configuration{ExcludePatterns: []string{"temp_*", "**/*.bak"}})
	assert.False(t, m.Matches("temp_data.txt", false))
	assert.False(t, m.Matches("deep/nested/old.bak", false))
	assert.True(t, m.Matches("data.txt", false))
}

func TestMatcherExcludeExtensionBeatsIncludePattern(t *testing.T) {
	m := newTestMatcher(t, Configuration{
		ExcludeExtensions: []string{".py"},
		IncludePatterns:   []string{"*.py"},
	})
	assert.False(t, m.Matches("main.py", false))
}

func TestValidateRejectsContradictoryExtensions(t *testing.T) {
	cfg := DefaultConfiguration(t.TempDir())
	cfg.IncludeExtensions = []string{".py"}
	cfg.ExcludeExtensions = []string{"PY"}

	err := cfg.Validate()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestValidateRejectsMissingRoot(t *testing.T) {
	cfg := DefaultConfiguration("/does/not/exist")
	var cfgErr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "root", cfgErr.Field)
}

func TestValidateRejectsUnknownFormat(t *testing.T) {
	cfg := DefaultConfiguration(t.TempDir())
	cfg.Format = "yaml"
	var cfgErr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "format", cfgErr.Field)
}
