//go:build stave

package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Check,
	"i": Install,
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version, err := shOutput(context.Background(), "git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	commit, err := shOutput(context.Background(), "git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "none"
	}
	date := time.Now().UTC().Format(time.RFC3339)

	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		strings.TrimSpace(version),
		strings.TrimSpace(commit),
		date,
	)
}

// Build compiles the multilint binary with version info.
func Build(ctx context.Context) error {
	fmt.Println("Building multilint...")
	return sh(ctx, "go", "build", "-ldflags", ldflags(), "-o", "bin/multilint", "./cmd/multilint")
}

// Test runs all tests using gotestsum with race detection and coverage.
func Test(ctx context.Context) error {
	fmt.Println("Running tests...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	args := []string{
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-v", "-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	}
	return sh(ctx, "go", args...)
}

// Lint runs golangci-lint with auto-fix.
func Lint(ctx context.Context) error {
	fmt.Println("Running linters...")
	return sh(ctx, "golangci-lint", "run", "--fix", "./...")
}

// LintCI runs golangci-lint without auto-fix (for CI).
func LintCI(ctx context.Context) error {
	fmt.Println("Running linters (CI mode)...")
	return sh(ctx, "golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func Fmt(ctx context.Context) error {
	fmt.Println("Formatting code...")
	return sh(ctx, "gofmt", "-w", ".")
}

// Vet runs go vet.
func Vet(ctx context.Context) error {
	fmt.Println("Running go vet...")
	return sh(ctx, "go", "vet", "./...")
}

// Check runs format, lint, and test.
func Check(ctx context.Context) error {
	fmt.Println("Running checks...")
	if err := Fmt(ctx); err != nil {
		return err
	}
	if err := Lint(ctx); err != nil {
		return err
	}
	return Test(ctx)
}

// Clean removes build artifacts.
func Clean(ctx context.Context) error {
	fmt.Println("Cleaning build artifacts...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	_ = os.Remove("coverage.out")
	return nil
}

// Install installs multilint to $GOBIN or $GOPATH/bin.
func Install(ctx context.Context) error {
	fmt.Println("Installing multilint...")
	return sh(ctx, "go", "install", "-ldflags", ldflags(), "./cmd/multilint")
}

// Deps ensures all dependencies are downloaded.
func Deps(ctx context.Context) error {
	fmt.Println("Downloading dependencies...")
	if err := sh(ctx, "go", "mod", "download"); err != nil {
		return err
	}
	return sh(ctx, "go", "mod", "tidy")
}

// Smoke builds the binary and runs it against its own repository.
func Smoke(ctx context.Context) error {
	if err := Build(ctx); err != nil {
		return err
	}
	fmt.Println("Running smoke check...")
	bin := filepath.Join("bin", "multilint")
	return sh(ctx, bin, "--all-files", "--output=oneline", "--no-progress")
}

// sh executes a shell command with proper output handling.
func sh(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	fmt.Printf("→ %s %s\n", name, strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("%s exited with code %d", name, exitErr.ExitCode())
		}
		return err
	}
	return nil
}

// shOutput executes a command and returns its output.
func shOutput(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
