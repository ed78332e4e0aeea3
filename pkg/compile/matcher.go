package compile

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	zglob "github.com/mattn/go-zglob"
	"go.uber.org/zap"

	"project2text/pkg/ignore"
)

// PathMatcher applies the layered filter rules from a Configuration to
// relative paths. It performs no I/O and is safe to reuse across a whole walk.
type PathMatcher struct {
	excludeDirs  map[string]struct{}
	excludeFiles map[string]struct{}
	includeExts  map[string]struct{}
	excludeExts  map[string]struct{}
	includeGlobs []string
	excludeGlobs []string
	ignored      *ignore.Set
	logger       *zap.Logger
}

// NewPathMatcher compiles the filter rules of cfg into a matcher. Invalid
// glob patterns are reported as a ConfigError.
func NewPathMatcher(cfg *Configuration, logger *zap.Logger) (*PathMatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &PathMatcher{
		excludeDirs:  nameSet(cfg.ExcludeDirs),
		excludeFiles: nameSet(cfg.ExcludeFiles),
		includeExts:  extensionSet(cfg.IncludeExtensions),
		excludeExts:  extensionSet(cfg.ExcludeExtensions),
		includeGlobs: append([]string(nil), cfg.IncludePatterns...),
		excludeGlobs: append([]string(nil), cfg.ExcludePatterns...),
		ignored:      ignore.NewSet(logger),
		logger:       logger,
	}
	m.ignored.Compile(cfg.IgnorePatterns...)

	for _, pattern := range cfg.IncludePatterns {
		if err := checkGlob(pattern); err != nil {
			return nil, &ConfigError{Field: "pattern-include", Reason: err.Error()}
		}
	}
	for _, pattern := range cfg.ExcludePatterns {
		if err := checkGlob(pattern); err != nil {
			return nil, &ConfigError{Field: "pattern-exclude", Reason: err.Error()}
		}
	}

	return m, nil
}

// ShouldPrune reports whether a directory at relPath must be excluded from
// the walk entirely, including everything beneath it.
func (m *PathMatcher) ShouldPrune(relPath string) bool {
	name := path.Base(relPath)
	if _, ok := m.excludeDirs[name]; ok {
		return true
	}
	return m.ignored.MatchesPath(relPath)
}

// Ignored reports whether a path hits an ignore pattern. Ignored paths are
// omitted from the rendered tree, unlike paths filtered by extension or glob
// rules.
func (m *PathMatcher) Ignored(relPath string) bool {
	return m.ignored.MatchesPath(relPath)
}

// Matches reports whether a path is selected for ingestion. Directories are
// never selected themselves; they are only traversed or pruned.
func (m *PathMatcher) Matches(relPath string, isDir bool) bool {
	if isDir {
		return false
	}

	name := path.Base(relPath)
	if m.ignored.MatchesPath(relPath) {
		return false
	}
	if _, ok := m.excludeFiles[name]; ok {
		return false
	}

	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := m.excludeExts[ext]; ok {
		return false
	}
	if len(m.includeExts) > 0 {
		if _, ok := m.includeExts[ext]; !ok {
			return false
		}
	}

	if len(m.includeGlobs) > 0 && !matchesAny(m.includeGlobs, relPath, name) {
		return false
	}
	if matchesAny(m.excludeGlobs, relPath, name) {
		return false
	}

	return true
}

// matchesAny tries each glob against both the relative path and the bare
// file name, so "*.log" and "logs/**/*.log" both behave as expected.
func matchesAny(patterns []string, relPath, name string) bool {
	for _, pattern := range patterns {
		if ok, err := zglob.Match(pattern, relPath); err == nil && ok {
			return true
		}
		if ok, err := zglob.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// checkGlob validates a glob pattern by matching it against a probe path.
func checkGlob(pattern string) error {
	if _, err := zglob.Match(pattern, "probe"); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return nil
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		if normalized := normalizeExtension(e); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set
}
