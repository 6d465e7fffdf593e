// Package progress drives the live per-linter status board. The display
// takes over the terminal's alternate screen while linters run and restores
// the prior view on teardown, so it leaves no trace in scrollback.
package progress

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/yaklabco/multilint/internal/ui/pretty"
)

// Terminal control sequences: alternate screen and cursor visibility.
const (
	enterAltScreen = "\x1b[?1049h"
	leaveAltScreen = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	clearAndHome   = "\x1b[2J\x1b[H"
)

// redrawInterval coalesces bursts of status updates into one repaint.
const redrawInterval = 50 * time.Millisecond

// linterStatus is the live record for one linter.
type linterStatus struct {
	message   string
	completed bool
	success   bool
}

// Display renders the status board. It implements runner.Observer; worker
// goroutines feed it status transitions while the render loop repaints.
type Display struct {
	out    *os.File
	styles *pretty.Styles

	mu       sync.Mutex
	statuses map[string]*linterStatus

	redraw chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
	active bool
}

// Enabled reports whether the display can run: out is a terminal.
func Enabled(out *os.File) bool {
	return isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
}

// New creates a display writing to out.
func New(out *os.File, styles *pretty.Styles) *Display {
	return &Display{
		out:      out,
		styles:   styles,
		statuses: make(map[string]*linterStatus),
		redraw:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start enters the alternate screen, hides the cursor, and begins the
// render loop.
func (d *Display) Start() {
	if d.active {
		return
	}
	d.active = true
	fmt.Fprint(d.out, enterAltScreen+hideCursor)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-d.done:
				return
			case <-d.redraw:
				d.render()
				// Coalesce rapid updates into the next frame.
				time.Sleep(redrawInterval)
			}
		}
	}()
}

// Stop tears the display down, restoring the cursor and leaving the
// alternate screen. Safe to call more than once and safe when Start never
// ran.
func (d *Display) Stop() {
	if !d.active {
		return
	}
	d.active = false
	close(d.done)
	d.wg.Wait()
	fmt.Fprint(d.out, showCursor+leaveAltScreen)
}

// LinterStarted implements runner.Observer.
func (d *Display) LinterStarted(code string) {
	d.mu.Lock()
	d.statuses[code] = &linterStatus{message: "running"}
	d.mu.Unlock()
	d.requestRedraw()
}

// LinterUpdated implements runner.Observer. Updates are best-effort: when
// the lock is contended the message is dropped rather than blocking the
// worker.
func (d *Display) LinterUpdated(code, message string) {
	if !d.mu.TryLock() {
		return
	}
	if status, ok := d.statuses[code]; ok {
		status.message = message
	}
	d.mu.Unlock()
	d.requestRedraw()
}

// LinterCompleted implements runner.Observer.
func (d *Display) LinterCompleted(code, message string, success bool) {
	d.mu.Lock()
	if status, ok := d.statuses[code]; ok {
		status.message = message
		status.completed = true
		status.success = success
	} else {
		d.statuses[code] = &linterStatus{message: message, completed: true, success: success}
	}
	d.mu.Unlock()
	d.requestRedraw()
}

func (d *Display) requestRedraw() {
	select {
	case d.redraw <- struct{}{}:
	default:
	}
}

func (d *Display) render() {
	height := 24
	if _, h, err := term.GetSize(int(d.out.Fd())); err == nil && h > 0 {
		height = h
	}

	d.mu.Lock()
	view := d.buildView(height)
	d.mu.Unlock()

	fmt.Fprint(d.out, clearAndHome+view)
}

// buildView assembles the whole frame. Callers hold d.mu.
func (d *Display) buildView(height int) string {
	total := len(d.statuses)
	completed, failed := 0, 0
	for _, status := range d.statuses {
		if status.completed {
			completed++
			if !status.success {
				failed++
			}
		}
	}
	running := total - completed
	succeeded := completed - failed

	var b strings.Builder
	b.WriteString(d.styles.Bold.Render("Running linters...") + "\n")

	var parts []string
	if running > 0 {
		parts = append(parts, d.styles.Running.Render(fmt.Sprintf("%d running", running)))
	}
	if succeeded > 0 {
		parts = append(parts, d.styles.Done.Render(fmt.Sprintf("%d done", succeeded)))
	}
	if failed > 0 {
		parts = append(parts, d.styles.Failed.Render(fmt.Sprintf("%d failed", failed)))
	}
	if len(parts) == 0 {
		parts = append(parts, "0 done")
	}
	b.WriteString(fmt.Sprintf("(%s of %d)\n\n", strings.Join(parts, ", "), total))

	// Completed-successful linters drop off the board.
	var codes []string
	for code, status := range d.statuses {
		if status.completed && status.success {
			continue
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)

	// Header is 3 lines; one line is reserved for the truncation notice.
	available := height - 4
	if available < 1 {
		available = 1
	}

	shown := codes
	truncated := 0
	if len(codes) > available {
		shown = codes[:available]
		truncated = len(codes) - available
	}

	for _, code := range shown {
		status := d.statuses[code]
		var glyph, message string
		switch {
		case !status.completed:
			glyph = d.styles.Running.Render("●")
			message = d.styles.Dim.Render(status.message)
		case status.success:
			glyph = d.styles.Done.Render("✓")
			message = d.styles.Done.Render(status.message)
		default:
			glyph = d.styles.Failed.Render("✗")
			message = d.styles.Failed.Render(status.message)
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", glyph, d.styles.Bold.Render(code), message))
	}

	if truncated > 0 {
		b.WriteString(d.styles.Dim.Render(fmt.Sprintf("... %d more %s running\n",
			truncated, pluralLinters(truncated))))
	}

	return b.String()
}

func pluralLinters(n int) string {
	if n == 1 {
		return "linter"
	}
	return "linters"
}
