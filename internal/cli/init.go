package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yaklabco/multilint/pkg/linter"
	"github.com/yaklabco/multilint/pkg/runner"
)

func newInitCommand(flags *rootFlags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Run every linter's init command to set up dependencies",
		Long: `Run each configured linter's init_command in order. With --dry-run the
{{DRYRUN}} placeholder is substituted with 1 and the commands are expected
to only print what they would do.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			roster, err := linter.Select(cfg.Linters, flags.take, flags.skip)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runner.RunInit(ctx, roster, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what init would do without doing it")

	return cmd
}
