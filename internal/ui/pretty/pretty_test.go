package pretty

import (
	"strings"
	"testing"

	"github.com/yaklabco/multilint/pkg/runner"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func testFinding() runner.Finding {
	return runner.Finding{
		Path:        strPtr("src/app.py"),
		Line:        intPtr(12),
		Char:        intPtr(3),
		Code:        "FLAKE8",
		Name:        "unused import",
		Severity:    runner.SeverityWarning,
		Description: strPtr("The import 'os' is never used."),
	}
}

func TestFormatFinding(t *testing.T) {
	t.Parallel()

	styles := NewStyles(false)
	out := styles.FormatFinding(testFinding())

	for _, want := range []string{
		"Warning (FLAKE8) unused import",
		"at src/app.py:12:3",
		"The import 'os' is never used.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatFinding_NoPath(t *testing.T) {
	t.Parallel()

	styles := NewStyles(false)
	finding := testFinding()
	finding.Path = nil

	out := styles.FormatFinding(finding)
	if strings.Contains(out, "at ") {
		t.Errorf("pathless finding should omit location line:\n%s", out)
	}
}

func TestFormatFinding_WithReplacementDiff(t *testing.T) {
	t.Parallel()

	styles := NewStyles(false)
	finding := testFinding()
	finding.Original = strPtr("a\nb\nc\n")
	finding.Replacement = strPtr("a\nB\nc\n")

	out := styles.FormatFinding(finding)
	for _, want := range []string{"--- a/src/app.py", "+++ b/src/app.py", "-b", "+B", "@@"} {
		if !strings.Contains(out, want) {
			t.Errorf("diff output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatReplacementDiff_Identical(t *testing.T) {
	t.Parallel()

	styles := NewStyles(false)
	if out := styles.FormatReplacementDiff("f", "same\n", "same\n"); out != "" {
		t.Errorf("identical snapshots should yield no diff, got:\n%s", out)
	}
}

func TestFormatReplacementDiff_HunkHeaders(t *testing.T) {
	t.Parallel()

	styles := NewStyles(false)
	original := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"
	replacement := "1\n2\nX\n4\n5\n6\n7\n8\n9\nY\n"

	out := styles.FormatReplacementDiff("f", original, replacement)

	// Two distant changes produce two hunks.
	if got := strings.Count(out, "@@"); got != 4 { // two headers, each with two @@
		t.Errorf("expected 2 hunks (4 @@ markers), got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "-3") || !strings.Contains(out, "+X") {
		t.Errorf("first change missing:\n%s", out)
	}
	if !strings.Contains(out, "-10") || !strings.Contains(out, "+Y") {
		t.Errorf("second change missing:\n%s", out)
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := NewStyles(false)

	clean := &runner.Report{}
	if out := styles.FormatSummary(clean); !strings.Contains(out, "No lint issues") {
		t.Errorf("clean summary = %q", out)
	}

	report := &runner.Report{
		Findings: []runner.Finding{
			{Code: "A", Name: "x", Severity: runner.SeverityError},
			{Code: "A", Name: "y", Severity: runner.SeverityError},
			{Code: "B", Name: "z", Severity: runner.SeverityAdvice},
		},
		HardErrors: []runner.HardError{{Code: "C"}},
	}
	out := styles.FormatSummary(report)
	for _, want := range []string{"2 errors", "1 advice", "1 linter failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q: %q", want, out)
		}
	}
}

func TestFormatHardError(t *testing.T) {
	t.Parallel()

	styles := NewStyles(false)
	out := styles.FormatHardError(runner.HardError{
		Code:   "CLANG",
		Stderr: "segfault",
	})
	if !strings.Contains(out, "Linter CLANG failed") || !strings.Contains(out, "segfault") {
		t.Errorf("hard error output = %q", out)
	}
}
