package configloader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/multilint/internal/logging"
	"github.com/yaklabco/multilint/pkg/fsutil"
)

// DefaultManifestName is the manifest searched for when no --config is given.
const DefaultManifestName = ".lintrunner.toml"

// maxSearchDepth bounds the number of parent hops during discovery.
const maxSearchDepth = 10

// NotFoundError reports that no manifest was found during upward discovery.
type NotFoundError struct {
	// Filename is the manifest name that was searched for.
	Filename string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(
		"could not find %q in the current directory or any parent (searched up to %d levels or until a git repository root)",
		e.Filename, maxSearchDepth)
}

// Discover walks from startDir upward looking for filename. The search stops
// when the file is found, when a directory holding a .git entry is reached,
// after maxSearchDepth parent hops, or at the filesystem root. The file test
// runs before the git-marker test so a manifest co-located with the
// repository root is still found.
//
// An empty startDir means the current working directory.
func Discover(startDir, filename string) (fsutil.AbsPath, error) {
	logger := logging.Default()

	if startDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fsutil.AbsPath{}, fmt.Errorf("get working directory: %w", err)
		}
		startDir = cwd
	}

	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return fsutil.AbsPath{}, fmt.Errorf("resolve %s: %w", startDir, err)
	}

	for depth := 0; ; depth++ {
		candidate := filepath.Join(currentDir, filename)
		if fsutil.FileExists(candidate) {
			logger.Debug("found manifest", logging.FieldManifest, candidate)
			return fsutil.NewAbsPath(candidate)
		}

		// Stop at a git repository root, after the file test, so a
		// manifest next to .git is found above.
		if _, err := os.Stat(filepath.Join(currentDir, ".git")); err == nil {
			logger.Debug("hit git repository root", logging.FieldDir, currentDir)
			break
		}

		if depth >= maxSearchDepth {
			logger.Debug("hit maximum search depth", logging.FieldDir, currentDir)
			break
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		currentDir = parent
	}

	return fsutil.AbsPath{}, &NotFoundError{Filename: filename}
}
