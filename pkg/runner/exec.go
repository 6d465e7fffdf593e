package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/yaklabco/multilint/internal/logging"
	"github.com/yaklabco/multilint/pkg/fsutil"
	"github.com/yaklabco/multilint/pkg/linter"
)

// stderrExcerptLimit bounds the stderr captured into a hard-error record.
const stderrExcerptLimit = 4096

// maxFindingLine bounds a single stdout line; findings carrying whole-file
// snapshots can be large.
const maxFindingLine = 16 * 1024 * 1024

// runOne executes a single linter against the full path set and classifies
// the outcome. The paths file lives only for the duration of the call.
func runOne(ctx context.Context, spec linter.Spec, paths []fsutil.AbsPath, grace time.Duration, observer Observer) LinterResult {
	result := LinterResult{Code: spec.Code}

	applicable := spec.ApplicablePaths(paths)
	if len(applicable) == 0 {
		result.Outcome = OutcomeClean
		result.Skipped = true
		observer.LinterCompleted(spec.Code, "skipped, no applicable files", true)
		return result
	}

	observer.LinterUpdated(spec.Code, fmt.Sprintf("linting %d files", len(applicable)))

	pathsFile, cleanup, err := writePathsFile(applicable)
	if err != nil {
		result.Outcome = OutcomeHardFailure
		result.HardErrors = append(result.HardErrors, HardError{Code: spec.Code, Err: err, ExitCode: -1})
		observer.LinterCompleted(spec.Code, err.Error(), false)
		return result
	}
	defer cleanup()

	argv := spec.CommandArgv(pathsFile)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = spec.ManifestDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// On cancellation, terminate politely and kill after the grace period.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = grace

	runErr := cmd.Run()

	findings, malformed := parseOutput(spec.Code, stdout.Bytes())
	result.Findings = findings

	switch {
	case runErr != nil:
		result.Outcome = OutcomeHardFailure
		result.Findings = nil
		result.HardErrors = append(result.HardErrors, HardError{
			Code:     spec.Code,
			Err:      runErr,
			ExitCode: exitCodeOf(cmd),
			Stderr:   excerpt(stderr.String()),
		})
		observer.LinterCompleted(spec.Code, "failed: "+runErr.Error(), false)

	case len(malformed) > 0:
		result.Outcome = OutcomeHardFailure
		result.HardErrors = append(result.HardErrors, HardError{
			Code:           spec.Code,
			Err:            errors.New("unparseable linter output"),
			ExitCode:       0,
			Stderr:         excerpt(stderr.String()),
			MalformedLines: malformed,
		})
		observer.LinterCompleted(spec.Code, "produced unparseable output", false)

	case len(findings) > 0:
		result.Outcome = OutcomeFindings
		observer.LinterCompleted(spec.Code, fmt.Sprintf("%d findings", len(findings)), true)

	default:
		result.Outcome = OutcomeClean
		observer.LinterCompleted(spec.Code, "clean", true)
	}

	return result
}

// writePathsFile materializes the applicable paths, one per line, into a
// fresh temporary file. The returned cleanup removes it on every exit path.
func writePathsFile(paths []fsutil.AbsPath) (string, func(), error) {
	tmp, err := os.CreateTemp("", "multilint-paths-*")
	if err != nil {
		return "", nil, fmt.Errorf("create paths file: %w", err)
	}
	name := tmp.Name()
	cleanup := func() { _ = os.Remove(name) }

	var b strings.Builder
	for _, path := range paths {
		b.WriteString(path.String())
		b.WriteByte('\n')
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("write paths file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close paths file: %w", err)
	}
	return name, cleanup, nil
}

// parseOutput decodes stdout as newline-delimited JSON findings. Malformed
// lines are collected; parsing continues past them.
func parseOutput(code string, stdout []byte) ([]Finding, []string) {
	logger := logging.Default()

	var findings []Finding
	var malformed []string

	scanner := bufio.NewScanner(bytes.NewReader(stdout))
	scanner.Buffer(make([]byte, 64*1024), maxFindingLine)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		finding, err := parseFinding([]byte(line))
		if err != nil {
			malformed = append(malformed, line)
			continue
		}
		if finding.Code != code {
			// Accepted, but worth recording.
			logger.Warn("finding reported under a different code",
				logging.FieldLinter, code, logging.FieldCode, finding.Code)
		}
		findings = append(findings, finding)
	}
	if err := scanner.Err(); err != nil {
		malformed = append(malformed, fmt.Sprintf("output scan failed: %v", err))
	}

	return findings, malformed
}

// exitCodeOf returns the child's exit code, or -1 when it never ran.
func exitCodeOf(cmd *exec.Cmd) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrExcerptLimit {
		return s[:stderrExcerptLimit] + "\n[stderr truncated]"
	}
	return s
}
