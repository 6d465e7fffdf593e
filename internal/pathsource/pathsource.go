// Package pathsource produces the candidate file set for a run. Exactly one
// input mode is active per invocation; the resulting paths are canonicalized
// and optionally restricted to the primary manifest's directory.
package pathsource

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/yaklabco/multilint/internal/logging"
	"github.com/yaklabco/multilint/internal/vcs"
	"github.com/yaklabco/multilint/pkg/fsutil"
)

// Sentinel errors for path-source selection and resolution.
var (
	// ErrConflicting indicates more than one input mode was requested.
	ErrConflicting = errors.New(
		"conflicting path sources: specify only one of positional paths, --paths-from, --paths-cmd, --all-files, or a revision flag")

	// ErrMissingMergeBase indicates merge-base mode with no branch to
	// compare against, either on the command line or in the manifest.
	ErrMissingMergeBase = errors.New("no merge base branch: pass --merge-base-with or set merge_base_with in the manifest")
)

// NotFoundError reports an explicitly named path that does not resolve.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path %s does not exist: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// CommandFailedError reports a --paths-cmd that exited non-zero.
type CommandFailedError struct {
	Command string
	Err     error
	Stderr  string
}

func (e *CommandFailedError) Error() string {
	msg := fmt.Sprintf("paths command %q failed: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandFailedError) Unwrap() error {
	return e.Err
}

type kind int

const (
	kindExplicit kind = iota
	kindFromFile
	kindFromCommand
	kindChanged
	kindAllFiles
)

// Source is one configured input mode. Construct with Choose.
type Source struct {
	kind      kind
	paths     []string // kindExplicit
	file      string   // kindFromFile
	command   string   // kindFromCommand
	revision  string   // kindChanged: lint changes relative to this revision
	mergeBase string   // kindChanged: branch to compute a merge base against
}

// Options captures the CLI surface relevant to path selection.
type Options struct {
	// Paths are positional path arguments.
	Paths []string

	// PathsFrom is the --paths-from file.
	PathsFrom string

	// PathsCmd is the --paths-cmd shell command.
	PathsCmd string

	// AllFiles is --all-files.
	AllFiles bool

	// Revision is --revision.
	Revision string

	// MergeBaseWith is --merge-base-with; overrides the manifest default.
	MergeBaseWith string

	// DefaultMergeBase is the manifest's merge_base_with scalar.
	DefaultMergeBase string
}

// Choose picks the input mode for this invocation. Requesting more than one
// mode is ErrConflicting. When nothing is requested the mode is ChangedFiles
// relative to the merge base when a branch is configured, else relative to
// the repository tip.
func Choose(opts Options) (*Source, error) {
	modes := 0
	if len(opts.Paths) > 0 {
		modes++
	}
	if opts.PathsFrom != "" {
		modes++
	}
	if opts.PathsCmd != "" {
		modes++
	}
	if opts.AllFiles {
		modes++
	}
	if opts.Revision != "" {
		modes++
	}
	if modes > 1 {
		return nil, ErrConflicting
	}

	switch {
	case len(opts.Paths) > 0:
		if opts.MergeBaseWith != "" {
			return nil, ErrConflicting
		}
		return &Source{kind: kindExplicit, paths: opts.Paths}, nil
	case opts.PathsFrom != "":
		return &Source{kind: kindFromFile, file: opts.PathsFrom}, nil
	case opts.PathsCmd != "":
		return &Source{kind: kindFromCommand, command: opts.PathsCmd}, nil
	case opts.AllFiles:
		return &Source{kind: kindAllFiles}, nil
	case opts.Revision != "":
		return &Source{kind: kindChanged, revision: opts.Revision}, nil
	default:
		branch := opts.MergeBaseWith
		if branch == "" {
			branch = opts.DefaultMergeBase
		}
		return &Source{kind: kindChanged, mergeBase: branch}, nil
	}
}

// Resolve produces the canonical path set. manifestDir anchors VCS discovery,
// is the working directory of the paths command (whose relative output lines
// are resolved against it), and, when restrict is true, paths outside it are
// filtered out.
//
// Entries that fail to canonicalize are dropped with a warning, except in
// explicit mode where they are a hard error.
func (s *Source) Resolve(manifestDir string, restrict bool) ([]fsutil.AbsPath, error) {
	raw, err := s.rawPaths(manifestDir)
	if err != nil {
		return nil, err
	}

	logger := logging.Default()
	explicit := s.kind == kindExplicit

	seen := make(map[fsutil.AbsPath]bool, len(raw))
	var resolved []fsutil.AbsPath
	filtered := 0
	for _, entry := range raw {
		path, err := fsutil.NewAbsPath(entry)
		if err != nil {
			if explicit {
				return nil, &NotFoundError{Path: entry, Err: err}
			}
			logger.Warn("dropping path that does not resolve",
				logging.FieldPath, entry, logging.FieldError, err)
			continue
		}
		if restrict && !path.Under(manifestDir) {
			filtered++
			continue
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		resolved = append(resolved, path)
	}

	if filtered > 0 {
		logger.Debug("only_lint_under_config_dir filtered paths outside the manifest directory",
			logging.FieldFiltered, filtered, logging.FieldDir, manifestDir)
	}

	return resolved, nil
}

// rawPaths produces the uncanonicalized entries for the mode.
func (s *Source) rawPaths(manifestDir string) ([]string, error) {
	switch s.kind {
	case kindExplicit:
		return s.paths, nil

	case kindFromFile:
		content, err := os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read paths file %s: %w", s.file, err)
		}
		return nonBlankLines(string(content)), nil

	case kindFromCommand:
		cmd := exec.Command("sh", "-c", s.command)
		cmd.Dir = manifestDir
		var stderr strings.Builder
		cmd.Stderr = &stderr
		out, err := cmd.Output()
		if err != nil {
			return nil, &CommandFailedError{
				Command: s.command,
				Err:     err,
				Stderr:  strings.TrimSpace(stderr.String()),
			}
		}
		// The command ran in manifestDir, so relative entries are relative to it.
		lines := nonBlankLines(string(out))
		for i, line := range lines {
			if !filepath.IsAbs(line) {
				lines[i] = filepath.Join(manifestDir, line)
			}
		}
		return lines, nil

	case kindChanged:
		repo, err := vcs.NewRepo(manifestDir)
		if err != nil {
			return nil, err
		}
		relativeTo := s.revision
		if relativeTo == "" && s.mergeBase != "" {
			relativeTo, err = repo.MergeBaseWith(s.mergeBase)
			if err != nil {
				return nil, fmt.Errorf("compute merge base with %s: %w", s.mergeBase, err)
			}
		}
		return repo.ChangedFiles(relativeTo)

	case kindAllFiles:
		repo, err := vcs.NewRepo(manifestDir)
		if err != nil {
			return nil, err
		}
		return repo.AllFiles("")
	}

	return nil, fmt.Errorf("unknown path source kind %d", s.kind)
}

// RequireMergeBase validates that merge-base mode has a branch to work with.
// Called by the CLI when --merge-base-with was passed explicitly empty.
func (s *Source) RequireMergeBase() error {
	if s.kind == kindChanged && s.revision == "" && s.mergeBase == "" {
		return ErrMissingMergeBase
	}
	return nil
}

func nonBlankLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
