// Package runner executes a roster of linters against a path set and
// aggregates their findings into a deterministic report.
//
// Each linter occupies one worker for its full lifetime: spawn, drain
// output, reap. Findings from one linter keep the child's stdout order;
// across linters the final report is sorted by (roster index, path, line,
// column) so output does not depend on completion order.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/multilint/internal/logging"
	"github.com/yaklabco/multilint/pkg/fsutil"
	"github.com/yaklabco/multilint/pkg/linter"
)

// ErrCancelled is returned when the run is interrupted. No partial findings
// are reported.
var ErrCancelled = errors.New("run cancelled")

// DefaultGracePeriod is how long a terminated child may linger before it is
// killed.
const DefaultGracePeriod = 2 * time.Second

// Observer receives per-linter progress transitions. Implementations must be
// safe for concurrent use; runner calls them from worker goroutines.
type Observer interface {
	// LinterStarted announces a linter entering the running state.
	LinterStarted(code string)

	// LinterUpdated carries a new status message for a running linter.
	LinterUpdated(code, message string)

	// LinterCompleted announces a linter finishing, successfully or not.
	LinterCompleted(code, message string, success bool)
}

// nopObserver drops all transitions.
type nopObserver struct{}

func (nopObserver) LinterStarted(string)               {}
func (nopObserver) LinterUpdated(string, string)       {}
func (nopObserver) LinterCompleted(string, string, bool) {}

// Options controls an engine run.
type Options struct {
	// Jobs bounds worker parallelism. Zero or negative means one worker per
	// available core. The minimum is 1, which runs linters serially.
	Jobs int

	// GracePeriod is the terminate-to-kill window on cancellation. Zero
	// means DefaultGracePeriod.
	GracePeriod time.Duration

	// Observer receives progress transitions. Nil means none.
	Observer Observer
}

// Run fans the roster out over a bounded worker pool and returns the
// aggregated report. On context cancellation all children are terminated,
// temporary files removed, and ErrCancelled returned with no report.
func Run(ctx context.Context, roster []linter.Spec, paths []fsutil.AbsPath, opts Options) (*Report, error) {
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(roster) {
		jobs = len(roster)
	}
	if jobs < 1 {
		jobs = 1
	}

	grace := opts.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	logger := logging.Default()
	logger.Debug("starting engine run",
		logging.FieldJobs, jobs,
		"linters", len(roster),
		logging.FieldPaths, len(paths),
	)

	type workItem struct {
		index int
		spec  linter.Spec
	}

	workCh := make(chan workItem)
	outCh := make(chan LinterResult)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				observer.LinterStarted(item.spec.Code)
				result := runOne(ctx, item.spec, paths, grace, observer)
				result.RosterIndex = item.index

				select {
				case <-ctx.Done():
					return
				case outCh <- result:
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for index, spec := range roster {
			select {
			case <-ctx.Done():
				return
			case workCh <- workItem{index: index, spec: spec}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	results := make([]LinterResult, 0, len(roster))
	for result := range outCh {
		results = append(results, result)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	return assemble(results), nil
}
