// Package globset provides compiled sets of shell-style glob patterns.
//
// Patterns use doublestar semantics: `*` matches within a path segment,
// `**` matches across segments, `?` matches a single character, and bracket
// classes are supported. Matching is defined over forward-slash separated
// paths regardless of host OS.
package globset

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// GlobSet is a compiled list of glob patterns. The zero value (and an empty
// set) matches nothing.
type GlobSet struct {
	patterns []string
}

// Compile validates each pattern and returns a GlobSet over them.
func Compile(patterns []string) (GlobSet, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return GlobSet{}, fmt.Errorf("invalid glob pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}
	return GlobSet{patterns: patterns}, nil
}

// MustCompile is Compile for patterns known to be valid; it panics otherwise.
// Intended for tests and package-internal constants.
func MustCompile(patterns []string) GlobSet {
	set, err := Compile(patterns)
	if err != nil {
		panic(err)
	}
	return set
}

// Match reports whether the slash-separated path matches any pattern in the set.
func (g GlobSet) Match(path string) bool {
	for _, pattern := range g.patterns {
		ok, err := doublestar.Match(pattern, path)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// Empty reports whether the set contains no patterns.
func (g GlobSet) Empty() bool {
	return len(g.patterns) == 0
}

// Patterns returns the source patterns of the set.
func (g GlobSet) Patterns() []string {
	return g.patterns
}
