package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/yaklabco/multilint/internal/logging"
	"github.com/yaklabco/multilint/pkg/linter"
)

// RunInit invokes each linter's init command sequentially with the dry-run
// placeholder substituted. Linters without an init command are skipped.
// Child output goes straight to the user's terminal.
func RunInit(ctx context.Context, roster []linter.Spec, dryRun bool) error {
	logger := logging.Default()

	for _, spec := range roster {
		argv := spec.InitArgv(dryRun)
		if argv == nil {
			logger.Debug("no init command", logging.FieldLinter, spec.Code)
			continue
		}

		logger.Info("initializing linter", logging.FieldLinter, spec.Code, logging.FieldArgv, argv)

		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Dir = spec.ManifestDir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("init command for linter %s: %w", spec.Code, err)
		}
	}

	return nil
}
