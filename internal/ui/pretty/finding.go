package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/multilint/pkg/runner"
)

// descriptionWidth is the wrap width for long finding descriptions.
const descriptionWidth = 96

// FormatFinding renders one finding for terminal output:
//
//	Warning (FLAKE8) line too long
//	  at torch/nn/functional.py:1342:80
//	  <wrapped description>
//	  <replacement diff, when present>
func (s *Styles) FormatFinding(finding runner.Finding) string {
	var b strings.Builder

	heading := fmt.Sprintf("%s (%s) %s",
		s.FormatSeverity(finding.Severity),
		s.Code.Render(finding.Code),
		s.Name.Render(finding.Name),
	)
	b.WriteString(heading + "\n")

	if finding.Path != nil {
		location := fmt.Sprintf("at %s:%d:%d",
			finding.PathOr(""), finding.LineOr(0), finding.CharOr(0))
		b.WriteString("  " + s.Location.Render(location) + "\n")
	}

	if finding.Description != nil && *finding.Description != "" {
		wrapped := lipgloss.NewStyle().Width(descriptionWidth).Render(*finding.Description)
		for _, line := range strings.Split(wrapped, "\n") {
			b.WriteString("  " + s.Description.Render(line) + "\n")
		}
	}

	if finding.HasReplacement() {
		diff := s.FormatReplacementDiff(finding.PathOr(""), *finding.Original, *finding.Replacement)
		for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
	}

	return b.String()
}

// FormatSeverity returns a styled, capitalized severity word.
func (s *Styles) FormatSeverity(severity runner.Severity) string {
	switch severity {
	case runner.SeverityError:
		return s.Error.Render("Error")
	case runner.SeverityWarning:
		return s.Warning.Render("Warning")
	case runner.SeverityAdvice:
		return s.Advice.Render("Advice")
	case runner.SeverityDisabled:
		return s.Disabled.Render("Disabled")
	default:
		return string(severity)
	}
}

// FormatHardError renders one hard failure.
func (s *Styles) FormatHardError(hard runner.HardError) string {
	var b strings.Builder
	b.WriteString(s.Failure.Render(fmt.Sprintf("Linter %s failed", hard.Code)))
	if hard.Err != nil {
		b.WriteString(": " + hard.Err.Error())
	}
	b.WriteString("\n")

	for _, line := range hard.MalformedLines {
		b.WriteString("  " + s.Dim.Render("unparseable: ") + line + "\n")
	}
	if hard.Stderr != "" {
		b.WriteString(s.Dim.Render("  stderr:") + "\n")
		for _, line := range strings.Split(hard.Stderr, "\n") {
			b.WriteString("    " + line + "\n")
		}
	}
	return b.String()
}
