package fsutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AbsPath is a canonical absolute path to an existing filesystem entry.
// Symlinks are resolved at construction, so two AbsPath values compare
// equal exactly when they name the same entry.
type AbsPath struct {
	path string
}

// NewAbsPath canonicalizes path into an AbsPath. The path must exist;
// construction fails otherwise.
func NewAbsPath(path string) (AbsPath, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return AbsPath{}, fmt.Errorf("resolve absolute path for %s: %w", path, err)
	}

	// EvalSymlinks both resolves links and verifies the entry exists.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return AbsPath{}, fmt.Errorf("canonicalize %s: %w", path, err)
	}

	return AbsPath{path: resolved}, nil
}

// String returns the canonical path.
func (p AbsPath) String() string {
	return p.path
}

// Base returns the final element of the path.
func (p AbsPath) Base() string {
	return filepath.Base(p.path)
}

// Dir returns the directory containing the path.
func (p AbsPath) Dir() string {
	return filepath.Dir(p.path)
}

// IsZero reports whether p is the zero value rather than a constructed path.
func (p AbsPath) IsZero() bool {
	return p.path == ""
}

// RelTo renders the path relative to dir using forward-slash separators.
// Used for glob matching, which is defined over slash-separated paths
// regardless of host OS.
func (p AbsPath) RelTo(dir string) (string, error) {
	rel, err := filepath.Rel(dir, p.path)
	if err != nil {
		return "", fmt.Errorf("relativize %s against %s: %w", p.path, dir, err)
	}
	return filepath.ToSlash(rel), nil
}

// Under reports whether the path is dir or descends from dir.
func (p AbsPath) Under(dir string) bool {
	rel, err := filepath.Rel(dir, p.path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
