// Package linter models a configured linter and roster selection over a set
// of configured linters.
package linter

import (
	"strings"

	"github.com/yaklabco/multilint/pkg/fsutil"
	"github.com/yaklabco/multilint/pkg/globset"
)

// Placeholders recognized in argv templates.
const (
	// PathsfilePlaceholder is replaced in the command argv with the path of
	// the temporary file listing the paths to lint.
	PathsfilePlaceholder = "{{PATHSFILE}}"

	// DryRunPlaceholder is replaced in the init argv with "1" for dry runs
	// and "0" otherwise.
	DryRunPlaceholder = "{{DRYRUN}}"
)

// Spec describes a single linter as configured in the manifest. Specs are
// created by the config loader and immutable afterwards.
type Spec struct {
	// Code identifies the linter. Conventionally uppercase alphanumerics,
	// unique within a loaded configuration.
	Code string

	// Include selects the paths this linter applies to. Patterns are matched
	// against paths rendered relative to ManifestDir.
	Include globset.GlobSet

	// Exclude removes paths even when Include matches. May be empty.
	Exclude globset.GlobSet

	// Command is the argv template used to invoke the linter. Tokens may
	// contain PathsfilePlaceholder, which is substituted at launch time.
	Command []string

	// InitCommand is the optional argv template for `multilint init`. It
	// mentions DryRunPlaceholder in at least one token.
	InitCommand []string

	// IsFormatter marks linters whose findings carry safe replacements,
	// applied by `multilint format`.
	IsFormatter bool

	// ManifestDir is the primary manifest's directory. It anchors glob
	// matching and is the working directory for the child process.
	ManifestDir string
}

// Matches reports whether the canonical path is applicable to this linter:
// matched by Include and not matched by Exclude, with matching performed on
// the path relative to the manifest directory.
func (s Spec) Matches(path fsutil.AbsPath) bool {
	rel, err := path.RelTo(s.ManifestDir)
	if err != nil {
		return false
	}
	return s.Include.Match(rel) && !s.Exclude.Match(rel)
}

// ApplicablePaths filters paths down to those this linter should see.
func (s Spec) ApplicablePaths(paths []fsutil.AbsPath) []fsutil.AbsPath {
	var applicable []fsutil.AbsPath
	for _, path := range paths {
		if s.Matches(path) {
			applicable = append(applicable, path)
		}
	}
	return applicable
}

// CommandArgv renders the effective argv, replacing every occurrence of
// PathsfilePlaceholder in every token with pathsFile. No other interpolation
// is performed.
func (s Spec) CommandArgv(pathsFile string) []string {
	argv := make([]string, len(s.Command))
	for i, token := range s.Command {
		argv[i] = strings.ReplaceAll(token, PathsfilePlaceholder, pathsFile)
	}
	return argv
}

// InitArgv renders the init argv with DryRunPlaceholder substituted as
// "1" (dry run) or "0". Returns nil when no init command is configured.
func (s Spec) InitArgv(dryRun bool) []string {
	if len(s.InitCommand) == 0 {
		return nil
	}
	value := "0"
	if dryRun {
		value = "1"
	}
	argv := make([]string, len(s.InitCommand))
	for i, token := range s.InitCommand {
		argv[i] = strings.ReplaceAll(token, DryRunPlaceholder, value)
	}
	return argv
}
