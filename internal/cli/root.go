// Package cli provides the Cobra command structure for multilint.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/multilint/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// rootFlags are the persistent flags shared by run and format.
type rootFlags struct {
	verbose bool
	configs []string
	color   string

	take []string
	skip []string

	output  string
	teeJSON string

	pathsCmd      string
	pathsFrom     string
	allFiles      bool
	revision      string
	mergeBaseWith string

	jobs       int
	noProgress bool
}

// NewRootCommand creates the root multilint command with all subcommands.
// Running the root command with no subcommand lints, same as `run`.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "multilint [paths...]",
		Short: "A fast driver for arbitrary linters",
		Long: `multilint discovers files, decides which of the configured linters apply
to each of them, fans the linters out as child processes, and merges their
structured findings into one report.

Linters are declared in .lintrunner.toml. With no arguments, files changed
in the working tree are linted. Positional paths, --paths-from, --paths-cmd,
--all-files, and --revision select other file sets.`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flags.verbose {
				logging.SetLevel("debug")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags, modeLint)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	persistent := rootCmd.PersistentFlags()
	persistent.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	persistent.StringArrayVar(&flags.configs, "config", nil,
		"path to a manifest; repeatable, later files merge over earlier ones")
	persistent.StringVar(&flags.color, "color", "auto", "colorize output: auto, always, never")
	persistent.StringSliceVar(&flags.take, "take", nil, "only run these linter codes")
	persistent.StringSliceVar(&flags.skip, "skip", nil, "skip these linter codes")
	persistent.StringVar(&flags.output, "output", "human", "output format: human, oneline, json")
	persistent.StringVar(&flags.teeJSON, "tee-json", "", "additionally stream JSON findings to this file")
	persistent.StringVar(&flags.pathsCmd, "paths-cmd", "", "shell command printing one path per line")
	persistent.StringVar(&flags.pathsFrom, "paths-from", "", "file listing one path per line")
	persistent.BoolVar(&flags.allFiles, "all-files", false, "lint all tracked files")
	persistent.StringVar(&flags.revision, "revision", "", "lint files changed relative to this revision")
	persistent.StringVar(&flags.mergeBaseWith, "merge-base-with", "",
		"lint files changed relative to the merge base with this revision")
	persistent.IntVar(&flags.jobs, "jobs", 0, "number of linters run in parallel (0 = number of cores)")
	persistent.BoolVar(&flags.noProgress, "no-progress", false, "disable the live progress display")

	rootCmd.AddCommand(newRunCommand(flags))
	rootCmd.AddCommand(newFormatCommand(flags))
	rootCmd.AddCommand(newInitCommand(flags))
	rootCmd.AddCommand(newRageCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

func newRunCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run the configured linters (the default)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags, modeLint)
		},
	}
}

func newFormatCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "format [paths...]",
		Short: "Run formatter linters and apply their replacements",
		Long: `Run only the linters marked is_formatter and write their proposed
replacements to the working tree. A replacement is applied only when the
file still matches the snapshot the linter saw; otherwise the file is left
alone and a conflict is reported.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags, modeFormat)
		},
	}
}
