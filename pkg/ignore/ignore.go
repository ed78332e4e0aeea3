// Package ignore compiles gitignore-style pattern lines into a matcher
// over slash-separated relative paths.
package ignore

import (
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Matcher reports whether a relative path is covered by a set of ignore patterns.
type Matcher interface {
	MatchesPath(path string) bool
	MatchesPathWithPattern(path string) (bool, *Pattern)
}

// Pattern is one compiled ignore rule together with its source line.
type Pattern struct {
	Regex  *regexp.Regexp // Compiled regular expression for the rule.
	Negate bool           // True when the line started with '!'.
	Line   string         // Original pattern line.
	LineNo int            // 1-based position within the compiled set.
}

// Set is an ordered collection of ignore patterns. Later patterns win,
// matching gitignore semantics for negation.
type Set struct {
	patterns []*Pattern
	logger   *zap.Logger
}

// NewSet returns an empty pattern set. A nil logger disables debug output.
func NewSet(logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Set{logger: logger}
}

// Compile parses pattern lines and appends them to the set. Empty lines,
// comments, and lines that fail to compile are skipped.
func (s *Set) Compile(lines ...string) {
	for _, line := range lines {
		regex, negate := parsePatternLine(line)
		if regex == nil {
			continue
		}
		p := &Pattern{
			Regex:  regex,
			Negate: negate,
			Line:   line,
			LineNo: len(s.patterns) + 1,
		}
		s.patterns = append(s.patterns, p)
		s.logger.Debug("Compiled ignore pattern",
			zap.Int("lineNo", p.LineNo),
			zap.String("pattern", p.Line),
			zap.Bool("negate", p.Negate))
	}
}

// Len returns the number of compiled patterns.
func (s *Set) Len() int {
	return len(s.patterns)
}

// MatchesPath checks whether the path matches any non-negated pattern.
func (s *Set) MatchesPath(path string) bool {
	matched, _ := s.MatchesPathWithPattern(path)
	return matched
}

// MatchesPathWithPattern checks the path against every pattern in order and
// returns the final verdict together with the last pattern that decided it.
func (s *Set) MatchesPathWithPattern(path string) (bool, *Pattern) {
	normalized := filepath.ToSlash(path)

	matched := false
	var decisive *Pattern
	for _, p := range s.patterns {
		if !p.Regex.MatchString(normalized) {
			continue
		}
		decisive = p
		matched = !p.Negate
	}
	return matched, decisive
}

// parsePatternLine converts one ignore line into an anchored regular
// expression plus its negation flag. Returns a nil regex for blank lines
// and comments.
func parsePatternLine(line string) (*regexp.Regexp, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false
	}

	negate := false
	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = strings.TrimPrefix(trimmed, "!")
	}

	// Literal '#' and '!' are written escaped in ignore files.
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}

	expr := escapeSpecialChars(trimmed)
	expr = handleDoubleStarPatterns(expr)
	expr = wildcardToRegex(expr)
	expr = anchorPattern(expr, trimmed)

	compiled, err := regexp.Compile(expr)
	if err != nil {
		return nil, false
	}
	return compiled, negate
}

// escapeSpecialChars escapes regex special characters except '*', '?', and '/'.
func escapeSpecialChars(pattern string) string {
	const specialChars = `.+()|^$[]{}`
	for _, char := range specialChars {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

// handleDoubleStarPatterns rewrites '**' segments into regex equivalents.
func handleDoubleStarPatterns(pattern string) string {
	pattern = doubleStarMiddle.ReplaceAllString(pattern, `(/|/.+/)`)
	pattern = doubleStarTrailing.ReplaceAllString(pattern, `(/.*)?`)
	pattern = doubleStarLeading.ReplaceAllString(pattern, `(.*/)?`)
	return pattern
}

// wildcardToRegex converts the '*' and '?' wildcards to regex equivalents.
func wildcardToRegex(pattern string) string {
	pattern = singleStar.ReplaceAllString(pattern, `[^/]*`)
	return strings.ReplaceAll(pattern, "?", ".")
}

// anchorPattern anchors the expression so it matches the whole path, or the
// path plus anything beneath it when the original line named a directory.
func anchorPattern(pattern, originalPattern string) string {
	if strings.HasSuffix(originalPattern, "/") {
		pattern = strings.TrimSuffix(pattern, "/") + "(/.*)?$"
	} else {
		pattern += "(|/.*)?$"
	}

	if strings.HasPrefix(originalPattern, "/") {
		// Root-relative rule: paths handed to the matcher carry no leading slash.
		return "^" + strings.TrimPrefix(pattern, "/")
	}
	return "^(|.*/)" + pattern
}

var (
	doubleStarMiddle   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailing = regexp.MustCompile(`/\*\*$`)
	doubleStarLeading  = regexp.MustCompile(`^\*\*/`)
	singleStar         = regexp.MustCompile(`\*`)
)
