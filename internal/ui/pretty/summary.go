package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/multilint/pkg/runner"
)

// FormatSummary renders the footer line with totals per severity.
// Example: "4 errors, 2 warnings, 1 advice (3 linters failed)".
func (s *Styles) FormatSummary(report *runner.Report) string {
	if report.Success() {
		return s.Success.Render("No lint issues.") + "\n"
	}

	counts := report.SeverityCounts()

	var parts []string
	if n := counts[runner.SeverityError]; n > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
	}
	if n := counts[runner.SeverityWarning]; n > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
	}
	if n := counts[runner.SeverityAdvice]; n > 0 {
		parts = append(parts, s.Advice.Render(fmt.Sprintf("%d advice", n)))
	}
	if n := counts[runner.SeverityDisabled]; n > 0 {
		parts = append(parts, s.Disabled.Render(fmt.Sprintf("%d disabled", n)))
	}

	line := strings.Join(parts, ", ")
	if len(report.HardErrors) > 0 {
		failed := fmt.Sprintf("%d %s failed", len(report.HardErrors), plural(len(report.HardErrors), "linter", "linters"))
		if line == "" {
			line = s.Failure.Render(failed)
		} else {
			line += " " + s.Failure.Render("("+failed+")")
		}
	}

	return line + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
