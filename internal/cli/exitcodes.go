package cli

import (
	"errors"

	"github.com/yaklabco/multilint/internal/configloader"
	"github.com/yaklabco/multilint/internal/pathsource"
	"github.com/yaklabco/multilint/internal/vcs"
	"github.com/yaklabco/multilint/pkg/linter"
	"github.com/yaklabco/multilint/pkg/runner"
)

// Exit codes for multilint.
const (
	// ExitSuccess indicates no findings and no hard failures.
	ExitSuccess = 0

	// ExitFindings indicates linters ran and reported findings, or a
	// linter failed outright.
	ExitFindings = 1

	// ExitUsage indicates invalid flag combinations or selections.
	ExitUsage = 64

	// ExitConfig indicates manifest discovery or validation errors.
	ExitConfig = 65

	// ExitPathSource indicates the path set could not be produced.
	ExitPathSource = 66

	// ExitInternal indicates an internal error.
	ExitInternal = 70

	// ExitCancelled indicates the run was interrupted.
	ExitCancelled = 130
)

// ErrFindingsReported signals a completed run that found lint issues; it
// carries the exit code without being worth logging.
var ErrFindingsReported = errors.New("lint findings reported")

// ExitCode maps an error returned by the root command onto the process exit
// code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrFindingsReported) {
		return ExitFindings
	}
	if errors.Is(err, runner.ErrCancelled) {
		return ExitCancelled
	}

	var (
		notFound  *configloader.NotFoundError
		invalid   *configloader.InvalidError
		unknown   *linter.UnknownLinterError
		pathMiss  *pathsource.NotFoundError
		cmdFailed *pathsource.CommandFailedError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &invalid):
		return ExitConfig
	case errors.As(err, &unknown), errors.Is(err, pathsource.ErrConflicting):
		return ExitUsage
	case errors.As(err, &pathMiss),
		errors.As(err, &cmdFailed),
		errors.Is(err, pathsource.ErrMissingMergeBase),
		errors.Is(err, vcs.ErrUnavailable):
		return ExitPathSource
	}

	return ExitInternal
}
