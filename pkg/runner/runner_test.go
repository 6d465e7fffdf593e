package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/yaklabco/multilint/pkg/fsutil"
	"github.com/yaklabco/multilint/pkg/globset"
	"github.com/yaklabco/multilint/pkg/linter"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

// testTree creates a manifest dir with one lintable file and returns both.
func testTree(t *testing.T) (string, fsutil.AbsPath) {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "source.py")
	if err := os.WriteFile(file, []byte("print('hi')\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	abs, err := fsutil.NewAbsPath(file)
	if err != nil {
		t.Fatalf("NewAbsPath: %v", err)
	}
	root, err := fsutil.NewAbsPath(dir)
	if err != nil {
		t.Fatalf("NewAbsPath(dir): %v", err)
	}
	return root.String(), abs
}

func specFor(code, manifestDir string, command ...string) linter.Spec {
	return linter.Spec{
		Code:        code,
		Include:     globset.MustCompile([]string{"**"}),
		Command:     command,
		ManifestDir: manifestDir,
	}
}

const findingJSON = `{"path":"source.py","line":1,"char":1,"code":"T","name":"dummy","severity":"advice","original":null,"replacement":null,"description":"a dummy finding"}`

func TestRun_SimpleLinter(t *testing.T) {
	t.Parallel()
	requireSh(t)

	dir, file := testTree(t)
	roster := []linter.Spec{specFor("T", dir, "echo", findingJSON)}

	report, err := Run(context.Background(), roster, []fsutil.AbsPath{file}, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Success() {
		t.Error("run with findings should not be Success")
	}
	if len(report.Findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(report.Findings))
	}
	finding := report.Findings[0]
	if finding.PathOr("") != "source.py" || finding.LineOr(0) != 1 || finding.Severity != SeverityAdvice {
		t.Errorf("unexpected finding: %+v", finding)
	}
	if report.Results[0].Outcome != OutcomeFindings {
		t.Errorf("outcome = %v, want OutcomeFindings", report.Results[0].Outcome)
	}
}

func TestRun_SkipsWhenNothingApplicable(t *testing.T) {
	t.Parallel()

	dir, file := testTree(t)
	spec := specFor("T", dir, "this-would-fail-if-run")
	spec.Include = globset.MustCompile([]string{"**/*.go"})
	roster := []linter.Spec{spec}

	report, err := Run(context.Background(), roster, []fsutil.AbsPath{file}, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !report.Success() {
		t.Errorf("skipped linter should leave a successful report: %+v", report)
	}
	if !report.Results[0].Skipped {
		t.Error("expected Skipped to be set")
	}
}

func TestRun_NonZeroExitIsHardFailure(t *testing.T) {
	t.Parallel()
	requireSh(t)

	dir, file := testTree(t)
	roster := []linter.Spec{specFor("T", dir, "sh", "-c", "echo boom >&2; exit 2")}

	report, err := Run(context.Background(), roster, []fsutil.AbsPath{file}, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.HardErrors) != 1 {
		t.Fatalf("got %d hard errors, want 1", len(report.HardErrors))
	}
	hard := report.HardErrors[0]
	if hard.Code != "T" || hard.ExitCode != 2 {
		t.Errorf("hard error = %+v", hard)
	}
	if !strings.Contains(hard.Stderr, "boom") {
		t.Errorf("stderr excerpt %q should contain child stderr", hard.Stderr)
	}
}

func TestRun_SpawnFailure(t *testing.T) {
	t.Parallel()

	dir, file := testTree(t)
	roster := []linter.Spec{specFor("T", dir, "multilint-test-no-such-binary")}

	report, err := Run(context.Background(), roster, []fsutil.AbsPath{file}, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.HardErrors) != 1 {
		t.Fatalf("got %d hard errors, want 1", len(report.HardErrors))
	}
	if report.HardErrors[0].ExitCode != -1 {
		t.Errorf("spawn failure exit code = %d, want -1", report.HardErrors[0].ExitCode)
	}
}

func TestRun_MalformedOutputCollected(t *testing.T) {
	t.Parallel()
	requireSh(t)

	dir, file := testTree(t)
	script := "echo 'this is not json'; echo '" + findingJSON + "'"
	roster := []linter.Spec{specFor("T", dir, "sh", "-c", script)}

	report, err := Run(context.Background(), roster, []fsutil.AbsPath{file}, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	result := report.Results[0]
	if result.Outcome != OutcomeHardFailure {
		t.Errorf("outcome = %v, want OutcomeHardFailure", result.Outcome)
	}
	// The valid finding survives parsing.
	if len(result.Findings) != 1 {
		t.Errorf("got %d findings, want 1", len(result.Findings))
	}
	if len(report.HardErrors) != 1 || len(report.HardErrors[0].MalformedLines) != 1 {
		t.Errorf("hard errors = %+v", report.HardErrors)
	}
}

func TestRun_PathsFileContents(t *testing.T) {
	t.Parallel()
	requireSh(t)

	dir, file := testTree(t)
	dest := filepath.Join(dir, "captured.txt")
	roster := []linter.Spec{specFor("T", dir, "cp", "{{PATHSFILE}}", dest)}

	report, err := Run(context.Background(), roster, []fsutil.AbsPath{file}, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !report.Success() {
		t.Fatalf("expected clean run, got %+v", report.HardErrors)
	}

	captured, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read captured paths file: %v", err)
	}
	want := file.String() + "\n"
	if string(captured) != want {
		t.Errorf("paths file = %q, want %q", captured, want)
	}
}

func TestRun_DeterministicAcrossParallelism(t *testing.T) {
	t.Parallel()
	requireSh(t)

	dir, file := testTree(t)
	mkFinding := func(code, path string, line int) string {
		return `{"path":"` + path + `","line":` + strconv.Itoa(line) + `,"char":1,"code":"` + code +
			`","name":"x","severity":"warning","original":null,"replacement":null,"description":null}`
	}
	// Linter B sleeps so completion order differs from roster order.
	roster := []linter.Spec{
		specFor("B", dir, "sh", "-c", "sleep 0.2; echo '"+mkFinding("B", "b.py", 2)+"'; echo '"+mkFinding("B", "a.py", 9)+"'"),
		specFor("A", dir, "echo", mkFinding("A", "z.py", 1)),
	}

	var runs [][]string
	for _, jobs := range []int{1, 4} {
		report, err := Run(context.Background(), roster, []fsutil.AbsPath{file}, Options{Jobs: jobs})
		if err != nil {
			t.Fatalf("Run(jobs=%d) error = %v", jobs, err)
		}
		var keys []string
		for _, finding := range report.Findings {
			keys = append(keys, finding.Code+"/"+finding.PathOr(""))
		}
		runs = append(runs, keys)
	}

	if !reflect.DeepEqual(runs[0], runs[1]) {
		t.Errorf("orders differ across parallelism: %v vs %v", runs[0], runs[1])
	}
	// Roster order first, then path.
	want := []string{"B/a.py", "B/b.py", "A/z.py"}
	if !reflect.DeepEqual(runs[0], want) {
		t.Errorf("sorted findings = %v, want %v", runs[0], want)
	}
}

func TestRun_Cancellation(t *testing.T) {
	t.Parallel()
	requireSh(t)

	dir, file := testTree(t)
	roster := []linter.Spec{specFor("T", dir, "sleep", "10")}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Run(ctx, roster, []fsutil.AbsPath{file}, Options{GracePeriod: 200 * time.Millisecond})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Run() error = %v, want ErrCancelled", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v; grace period not honored", elapsed)
	}
}

func TestWritePathsFile_Cleanup(t *testing.T) {
	t.Parallel()

	_, file := testTree(t)
	name, cleanup, err := writePathsFile([]fsutil.AbsPath{file})
	if err != nil {
		t.Fatalf("writePathsFile() error = %v", err)
	}
	if !fsutil.FileExists(name) {
		t.Fatal("paths file should exist before cleanup")
	}
	cleanup()
	if fsutil.FileExists(name) {
		t.Error("paths file should be removed by cleanup")
	}
}

func TestParseFinding_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		ok   bool
	}{
		{"valid", findingJSON, true},
		{"not json", "garbage", false},
		{"missing code", `{"name":"x","severity":"error"}`, false},
		{"missing name", `{"code":"T","severity":"error"}`, false},
		{"bad severity", `{"code":"T","name":"x","severity":"fatal"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseFinding([]byte(tt.line))
			if (err == nil) != tt.ok {
				t.Errorf("parseFinding(%q) error = %v, ok = %v", tt.line, err, tt.ok)
			}
		})
	}
}
