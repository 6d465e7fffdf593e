package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/multilint/internal/ui/pretty"
	"github.com/yaklabco/multilint/pkg/runner"
)

// renderReport writes the report in the selected output format and returns
// the rendered text for the history store.
func renderReport(
	cmd *cobra.Command,
	flags *rootFlags,
	styles *pretty.Styles,
	report *runner.Report,
	applied *runner.ApplyResult,
) (string, error) {
	var text string
	switch flags.output {
	case "human", "":
		text = renderHuman(styles, report, applied)
	case "oneline", "json":
		// Both are the machine-readable stream: one JSON object per
		// finding, newline-delimited, in report order.
		var b strings.Builder
		if err := writeJSONStream(&b, report.Findings); err != nil {
			return "", err
		}
		text = b.String()
	default:
		return "", fmt.Errorf("unknown output format %q: want human, oneline, or json", flags.output)
	}

	_, err := io.WriteString(cmd.OutOrStdout(), text)
	return text, err
}

// renderHuman renders findings grouped in report order (roster, then path,
// then line), hard failures, and the severity totals footer.
func renderHuman(styles *pretty.Styles, report *runner.Report, applied *runner.ApplyResult) string {
	var b strings.Builder

	for _, finding := range report.Findings {
		b.WriteString(styles.FormatFinding(finding))
		b.WriteString("\n")
	}

	for _, hard := range report.HardErrors {
		b.WriteString(styles.FormatHardError(hard))
		b.WriteString("\n")
	}

	if applied != nil {
		for _, path := range applied.Written {
			b.WriteString(styles.Success.Render("formatted") + " " + path + "\n")
		}
		for _, conflict := range applied.Conflicts {
			b.WriteString(styles.Failure.Render("conflict") + " " + conflict.Error() + "\n")
		}
	}

	b.WriteString(styles.FormatSummary(report))
	return b.String()
}

// writeJSONStream emits one JSON object per finding, newline-delimited, in
// report order.
func writeJSONStream(w io.Writer, findings []runner.Finding) error {
	encoder := json.NewEncoder(w)
	for _, finding := range findings {
		if err := encoder.Encode(finding); err != nil {
			return fmt.Errorf("encode finding: %w", err)
		}
	}
	return nil
}

// teeJSONFindings streams the findings to path in addition to the primary
// output.
func teeJSONFindings(path string, findings []runner.Finding) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open tee file %s: %w", path, err)
	}
	defer file.Close()

	if err := writeJSONStream(file, findings); err != nil {
		return err
	}
	return file.Close()
}
