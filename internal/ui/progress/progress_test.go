package progress

import (
	"os"
	"strings"
	"testing"

	"github.com/yaklabco/multilint/internal/ui/pretty"
)

func newTestDisplay(t *testing.T) *Display {
	t.Helper()
	return New(os.Stdout, pretty.NewStyles(false))
}

func TestBuildView_Counts(t *testing.T) {
	t.Parallel()

	d := newTestDisplay(t)
	d.LinterStarted("B")
	d.LinterStarted("A")
	d.LinterStarted("C")
	d.LinterCompleted("A", "clean", true)
	d.LinterCompleted("C", "exit 1", false)

	d.mu.Lock()
	view := d.buildView(24)
	d.mu.Unlock()

	for _, want := range []string{
		"Running linters...",
		"1 running", "1 done", "1 failed", "of 3",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	// Successful completions drop off the board; failures stay.
	if strings.Contains(view, "clean") {
		t.Errorf("successful linter should not be listed:\n%s", view)
	}
	if !strings.Contains(view, "✗ C") || !strings.Contains(view, "exit 1") {
		t.Errorf("failed linter line missing:\n%s", view)
	}
	if !strings.Contains(view, "● B") {
		t.Errorf("running linter line missing:\n%s", view)
	}
}

func TestBuildView_SortedByCode(t *testing.T) {
	t.Parallel()

	d := newTestDisplay(t)
	d.LinterStarted("ZULU")
	d.LinterStarted("ALPHA")

	d.mu.Lock()
	view := d.buildView(24)
	d.mu.Unlock()

	if strings.Index(view, "ALPHA") > strings.Index(view, "ZULU") {
		t.Errorf("linters not sorted by code:\n%s", view)
	}
}

func TestBuildView_Truncation(t *testing.T) {
	t.Parallel()

	d := newTestDisplay(t)
	for _, code := range []string{"A", "B", "C", "D", "E", "F"} {
		d.LinterStarted(code)
	}

	// Height 7 leaves 3 body lines after the header and notice reserve.
	d.mu.Lock()
	view := d.buildView(7)
	d.mu.Unlock()

	if !strings.Contains(view, "... 3 more linters running") {
		t.Errorf("truncation notice missing:\n%s", view)
	}
	if strings.Contains(view, "● F") {
		t.Errorf("truncated linter should not be listed:\n%s", view)
	}
}

func TestLinterUpdated_UnknownCodeIgnored(t *testing.T) {
	t.Parallel()

	d := newTestDisplay(t)
	d.LinterUpdated("GHOST", "should not appear")

	d.mu.Lock()
	view := d.buildView(24)
	d.mu.Unlock()

	if strings.Contains(view, "GHOST") {
		t.Errorf("update for unknown linter must be ignored:\n%s", view)
	}
}

func TestStop_WithoutStartIsNoop(t *testing.T) {
	t.Parallel()

	d := newTestDisplay(t)
	d.Stop() // must not panic or block
}
