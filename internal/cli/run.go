package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/multilint/internal/configloader"
	"github.com/yaklabco/multilint/internal/history"
	"github.com/yaklabco/multilint/internal/logging"
	"github.com/yaklabco/multilint/internal/pathsource"
	"github.com/yaklabco/multilint/internal/ui/pretty"
	"github.com/yaklabco/multilint/internal/ui/progress"
	"github.com/yaklabco/multilint/pkg/fsutil"
	"github.com/yaklabco/multilint/pkg/linter"
	"github.com/yaklabco/multilint/pkg/runner"
)

// runMode distinguishes linting from formatter application.
type runMode int

const (
	modeLint runMode = iota
	modeFormat
)

// runLint is the shared body of the root, run, and format commands.
func runLint(cmd *cobra.Command, args []string, flags *rootFlags, mode runMode) error {
	logger := logging.Default()
	started := time.Now()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	roster, err := linter.Select(cfg.Linters, flags.take, flags.skip)
	if err != nil {
		return err
	}
	if mode == modeFormat {
		roster = onlyFormatters(roster)
	}

	if cfg.OnlyLintUnderConfigDir {
		logger.Debug("only_lint_under_config_dir is set; paths outside the manifest directory are ignored",
			logging.FieldDir, cfg.PrimaryDir())
	}

	source, err := pathsource.Choose(pathsource.Options{
		Paths:            args,
		PathsFrom:        flags.pathsFrom,
		PathsCmd:         flags.pathsCmd,
		AllFiles:         flags.allFiles,
		Revision:         flags.revision,
		MergeBaseWith:    flags.mergeBaseWith,
		DefaultMergeBase: cfg.MergeBaseWith,
	})
	if err != nil {
		return err
	}
	// An explicit but empty --merge-base-with means the user asked for
	// merge-base mode with no branch to compare against.
	if cmd.Flags().Changed("merge-base-with") && flags.mergeBaseWith == "" {
		if err := source.RequireMergeBase(); err != nil {
			return err
		}
	}

	paths, err := source.Resolve(cfg.PrimaryDir(), cfg.OnlyLintUnderConfigDir)
	if err != nil {
		return err
	}
	logger.Debug("resolved path set", logging.FieldPaths, len(paths))

	styles := pretty.NewStyles(pretty.IsColorEnabled(flags.color, cmd.OutOrStdout()))

	var observer runner.Observer
	var display *progress.Display
	if flags.output == "human" && !flags.noProgress {
		if out, ok := cmd.OutOrStdout().(*os.File); ok && progress.Enabled(out) {
			display = progress.New(out, styles)
			display.Start()
			observer = display
		}
	}
	// The display must be gone before anything is printed, on every path.
	defer func() {
		if display != nil {
			display.Stop()
		}
	}()

	report, err := runner.Run(ctx, roster, paths, runner.Options{
		Jobs:     flags.jobs,
		Observer: observer,
	})
	if display != nil {
		display.Stop()
		display = nil
	}
	if err != nil {
		return err
	}

	var applied *runner.ApplyResult
	if mode == modeFormat {
		applied, err = runner.ApplyReplacements(report.Findings, cfg.PrimaryDir())
		if err != nil {
			return err
		}
	}

	reportText, err := renderReport(cmd, flags, styles, report, applied)
	if err != nil {
		return err
	}

	if flags.teeJSON != "" {
		if err := teeJSONFindings(flags.teeJSON, report.Findings); err != nil {
			return err
		}
	}

	runErr := classifyOutcome(mode, report, applied)
	recordHistory(started, reportText, ExitCode(runErr))
	logger.Debug("run finished", logging.FieldFindings, len(report.Findings))
	return runErr
}

// classifyOutcome decides the command's error result. A lint run fails on
// any finding or hard failure; a format run fails only on conflicts and
// hard failures, since applied replacements are the point.
func classifyOutcome(mode runMode, report *runner.Report, applied *runner.ApplyResult) error {
	switch mode {
	case modeFormat:
		if len(report.HardErrors) > 0 || (applied != nil && len(applied.Conflicts) > 0) {
			return ErrFindingsReported
		}
		return nil
	default:
		if !report.Success() {
			return ErrFindingsReported
		}
		return nil
	}
}

// loadConfig resolves manifests from --config flags or upward discovery.
func loadConfig(flags *rootFlags) (*configloader.Config, error) {
	var manifests []fsutil.AbsPath
	if len(flags.configs) > 0 {
		for _, path := range flags.configs {
			manifest, err := fsutil.NewAbsPath(path)
			if err != nil {
				return nil, &configloader.InvalidError{Path: path, Err: err}
			}
			manifests = append(manifests, manifest)
		}
	} else {
		manifest, err := configloader.Discover("", configloader.DefaultManifestName)
		if err != nil {
			return nil, err
		}
		manifests = []fsutil.AbsPath{manifest}
	}

	return configloader.Load(manifests)
}

func onlyFormatters(roster []linter.Spec) []linter.Spec {
	var formatters []linter.Spec
	for _, spec := range roster {
		if spec.IsFormatter {
			formatters = append(formatters, spec)
		}
	}
	return formatters
}

// recordHistory persists the invocation for `multilint rage`. Failures are
// logged, never fatal.
func recordHistory(started time.Time, reportText string, exitCode int) {
	store, err := history.NewStore()
	if err != nil {
		logging.Default().Debug("history store unavailable", logging.FieldError, err)
		return
	}
	err = store.Record(history.Entry{
		Timestamp: started,
		Argv:      os.Args,
		ExitCode:  exitCode,
		Report:    reportText,
	})
	if err != nil {
		logging.Default().Debug("could not record run", logging.FieldError, err)
	}
}
