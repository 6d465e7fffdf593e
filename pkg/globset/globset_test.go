package globset

import "testing"

func TestCompile_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Compile([]string{"src/[a-.go"})
	if err == nil {
		t.Fatal("expected error for malformed bracket class")
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"everything", []string{"**"}, "deep/nested/file.py", true},
		{"star stays in segment", []string{"*.py"}, "sub/file.py", false},
		{"doublestar crosses segments", []string{"**/*.py"}, "sub/dir/file.py", true},
		{"question mark", []string{"file.p?"}, "file.py", true},
		{"bracket class", []string{"file.[ch]"}, "file.c", true},
		{"bracket class miss", []string{"file.[ch]"}, "file.go", false},
		{"exact file", []string{"include/api.h"}, "include/api.h", true},
		{"first of several", []string{"*.go", "*.py"}, "main.go", true},
		{"second of several", []string{"*.go", "*.py"}, "main.py", true},
		{"none of several", []string{"*.go", "*.py"}, "main.rs", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			set, err := Compile(tt.patterns)
			if err != nil {
				t.Fatalf("Compile(%v) error = %v", tt.patterns, err)
			}
			if got := set.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestEmptySetMatchesNothing(t *testing.T) {
	t.Parallel()

	var zero GlobSet
	if zero.Match("anything") {
		t.Error("zero GlobSet must not match")
	}

	empty := MustCompile(nil)
	if empty.Match("anything") {
		t.Error("empty GlobSet must not match")
	}
	if !empty.Empty() {
		t.Error("Empty() should be true for empty set")
	}
}
