package runner

import (
	"fmt"
	"sort"
	"strings"
)

// Outcome classifies a single linter's run.
type Outcome int

const (
	// OutcomeClean means exit 0, zero findings, no malformed output.
	OutcomeClean Outcome = iota

	// OutcomeFindings means exit 0 with at least one finding.
	OutcomeFindings

	// OutcomeHardFailure means a non-zero exit, a spawn failure, or
	// malformed output.
	OutcomeHardFailure
)

// HardError records a linter that failed outright rather than reporting
// findings.
type HardError struct {
	// Code is the linter's code.
	Code string

	// Err is the spawn error or exit status.
	Err error

	// ExitCode is the child's exit code, or -1 when it never ran.
	ExitCode int

	// Stderr is an excerpt of the child's captured stderr.
	Stderr string

	// MalformedLines holds stdout lines that failed to parse as findings.
	MalformedLines []string
}

func (e HardError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "linter %s failed", e.Code)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.MalformedLines) > 0 {
		fmt.Fprintf(&b, ": %d unparseable output line(s), first: %q", len(e.MalformedLines), e.MalformedLines[0])
	}
	if e.Stderr != "" {
		fmt.Fprintf(&b, "\nstderr:\n%s", e.Stderr)
	}
	return b.String()
}

// LinterResult is the outcome of one linter in the roster.
type LinterResult struct {
	// Code is the linter's code.
	Code string

	// RosterIndex is the linter's position in the roster, used for
	// deterministic ordering of the aggregated report.
	RosterIndex int

	// Outcome classifies the run.
	Outcome Outcome

	// Skipped is true when no paths were applicable and the linter was
	// never launched.
	Skipped bool

	// Findings holds the parsed findings in the child's stdout order.
	Findings []Finding

	// HardErrors holds failures attributed to this linter.
	HardErrors []HardError
}

// Report aggregates a full engine run.
type Report struct {
	// Results holds one entry per roster linter, in roster order.
	Results []LinterResult

	// Findings holds all findings sorted by (roster index, path, line,
	// column), so output is reproducible across parallelism settings.
	Findings []Finding

	// HardErrors holds all hard failures, in roster order.
	HardErrors []HardError
}

// Success reports whether the run produced no findings and no hard failures.
func (r *Report) Success() bool {
	return r != nil && len(r.Findings) == 0 && len(r.HardErrors) == 0
}

// SeverityCounts tallies findings per severity.
func (r *Report) SeverityCounts() map[Severity]int {
	counts := make(map[Severity]int)
	for _, finding := range r.Findings {
		counts[finding.Severity]++
	}
	return counts
}

// assemble builds a Report from per-linter results, restoring roster order
// and applying the deterministic finding sort.
func assemble(results []LinterResult) *Report {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RosterIndex < results[j].RosterIndex
	})

	report := &Report{Results: results}

	type keyed struct {
		finding     Finding
		rosterIndex int
	}
	var all []keyed
	for _, result := range results {
		for _, finding := range result.Findings {
			all = append(all, keyed{finding: finding, rosterIndex: result.RosterIndex})
		}
		report.HardErrors = append(report.HardErrors, result.HardErrors...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.rosterIndex != b.rosterIndex {
			return a.rosterIndex < b.rosterIndex
		}
		if ap, bp := a.finding.PathOr(""), b.finding.PathOr(""); ap != bp {
			return ap < bp
		}
		if al, bl := a.finding.LineOr(0), b.finding.LineOr(0); al != bl {
			return al < bl
		}
		return a.finding.CharOr(0) < b.finding.CharOr(0)
	})

	report.Findings = make([]Finding, len(all))
	for i, k := range all {
		report.Findings[i] = k.finding
	}
	return report
}
