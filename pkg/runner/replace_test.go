package runner

import (
	"os"
	"path/filepath"
	"testing"
)

func strPtr(s string) *string { return &s }

func replacementFinding(code, path, original, replacement string) Finding {
	return Finding{
		Path:        strPtr(path),
		Code:        code,
		Name:        "format",
		Severity:    SeverityWarning,
		Original:    strPtr(original),
		Replacement: strPtr(replacement),
	}
}

func TestApplyReplacements(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "f.py")
	if err := os.WriteFile(target, []byte("A\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	result, err := ApplyReplacements([]Finding{
		replacementFinding("FMT", "f.py", "A\n", "B\n"),
	}, dir)
	if err != nil {
		t.Fatalf("ApplyReplacements() error = %v", err)
	}

	if len(result.Written) != 1 || len(result.Conflicts) != 0 {
		t.Fatalf("result = %+v", result)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "B\n" {
		t.Errorf("content = %q, want B", got)
	}
}

func TestApplyReplacements_Conflict(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "f.py")
	if err := os.WriteFile(target, []byte("C\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	result, err := ApplyReplacements([]Finding{
		replacementFinding("FMT", "f.py", "A\n", "B\n"),
	}, dir)
	if err != nil {
		t.Fatalf("ApplyReplacements() error = %v", err)
	}

	if len(result.Written) != 0 {
		t.Errorf("conflicting replacement must not write: %+v", result)
	}
	if len(result.Conflicts) != 1 || result.Conflicts[0].Code != "FMT" {
		t.Errorf("conflicts = %+v", result.Conflicts)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "C\n" {
		t.Errorf("file must be byte-identical after conflict, got %q", got)
	}
}

func TestApplyReplacements_ChainsOnSameFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "f.py")
	if err := os.WriteFile(target, []byte("A\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	result, err := ApplyReplacements([]Finding{
		replacementFinding("F1", "f.py", "A\n", "B\n"),
		replacementFinding("F2", "f.py", "B\n", "C\n"),
	}, dir)
	if err != nil {
		t.Fatalf("ApplyReplacements() error = %v", err)
	}
	if len(result.Written) != 2 || len(result.Conflicts) != 0 {
		t.Fatalf("result = %+v", result)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "C\n" {
		t.Errorf("content = %q, want C", got)
	}
}

func TestApplyReplacements_IgnoresPartialSnapshots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "f.py")
	if err := os.WriteFile(target, []byte("A\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	finding := replacementFinding("FMT", "f.py", "A\n", "B\n")
	finding.Replacement = nil

	result, err := ApplyReplacements([]Finding{finding}, dir)
	if err != nil {
		t.Fatalf("ApplyReplacements() error = %v", err)
	}
	if len(result.Written) != 0 || len(result.Conflicts) != 0 {
		t.Errorf("partial snapshot should be ignored: %+v", result)
	}
}
