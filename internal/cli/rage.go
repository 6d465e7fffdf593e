package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/multilint/internal/history"
	"github.com/yaklabco/multilint/internal/logging"
)

func newRageCommand() *cobra.Command {
	var invocation int
	var gist bool

	cmd := &cobra.Command{
		Use:   "rage",
		Short: "Print the report of a past invocation",
		Long: `Replay the stored report of a past multilint run, newest first.
--invocation=N selects the N-th most recent run (0 is the latest).
--gist uploads the report with 'gh gist create' instead of printing it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := history.NewStore()
			if err != nil {
				return err
			}

			entry, err := store.Run(invocation)
			if err != nil {
				return err
			}

			report := formatRageReport(entry)
			if gist {
				return uploadGist(report)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), report)
			return err
		},
	}

	cmd.Flags().IntVar(&invocation, "invocation", 0, "which past run to report, 0 being the most recent")
	cmd.Flags().BoolVar(&gist, "gist", false, "upload the report with 'gh gist create'")

	return cmd
}

func formatRageReport(entry history.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "timestamp: %s\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "argv: %s\n", strings.Join(entry.Argv, " "))
	fmt.Fprintf(&b, "exit code: %d\n\n", entry.ExitCode)
	b.WriteString(entry.Report)
	return b.String()
}

// uploadGist pipes the report into gh.
func uploadGist(report string) error {
	logger := logging.Default()
	logger.Info("uploading report", "command", "gh gist create -")

	cmd := exec.Command("gh", "gist", "create", "-")
	cmd.Stdin = strings.NewReader(report)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gh gist create: %w", err)
	}
	return nil
}
