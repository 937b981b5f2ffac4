package generator

import (
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tacogips/qgen/internal/debug"
)

// ShouldIgnoreFile reports whether a template-relative path matches any of
// the ignore patterns.
func ShouldIgnoreFile(relPath string, ignorePatterns []string) bool {
	for _, pattern := range ignorePatterns {
		if MatchesPattern(relPath, pattern) {
			debug.Debug("[generator] Ignoring file: %s (matched pattern: %s)", relPath, pattern)
			return true
		}
	}
	return false
}

// MatchesPattern checks a path against a doublestar glob. The pattern is
// tried against the full slash-separated path and against the base name.
func MatchesPattern(relPath, pattern string) bool {
	slashed := filepath.ToSlash(relPath)
	pattern = filepath.ToSlash(pattern)

	if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
		return true
	}
	if ok, err := doublestar.Match(pattern, path.Base(slashed)); err == nil && ok {
		return true
	}
	return false
}
