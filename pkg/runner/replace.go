package runner

import (
	"bytes"
	"fmt"

	"github.com/yaklabco/multilint/internal/logging"
	"github.com/yaklabco/multilint/pkg/fsutil"
)

// Conflict records a file whose on-disk contents no longer match a
// replacement's original snapshot. The file is left untouched.
type Conflict struct {
	// Path is the target file.
	Path string

	// Code is the linter whose replacement was rejected.
	Code string
}

func (c Conflict) Error() string {
	return fmt.Sprintf("replacement conflict: %s changed since linter %s read it", c.Path, c.Code)
}

// ApplyResult summarizes a formatter pass.
type ApplyResult struct {
	// Written lists files that were overwritten.
	Written []string

	// Conflicts lists replacements rejected because the file changed.
	Conflicts []Conflict
}

// ApplyReplacements applies formatter findings to the working tree. Only
// findings carrying both snapshots participate; the rest are ignored. When
// the file's current bytes equal the original snapshot the replacement is
// written atomically; otherwise a conflict is recorded and the file is
// untouched.
//
// Findings are processed in report order, so several replacements for one
// file chain as long as each original matches the previous replacement.
func ApplyReplacements(findings []Finding, manifestDir string) (*ApplyResult, error) {
	logger := logging.Default()
	result := &ApplyResult{}

	for _, finding := range findings {
		if !finding.HasReplacement() || finding.Path == nil {
			continue
		}

		target := finding.AbsolutePath(manifestDir)
		current, err := fsutil.ReadFile(target)
		if err != nil {
			return nil, fmt.Errorf("read %s for replacement: %w", target, err)
		}

		if !bytes.Equal(current, []byte(*finding.Original)) {
			result.Conflicts = append(result.Conflicts, Conflict{Path: target, Code: finding.Code})
			logger.Warn("skipping replacement, file changed since lint",
				logging.FieldPath, target, logging.FieldLinter, finding.Code)
			continue
		}

		if err := fsutil.WriteAtomic(target, []byte(*finding.Replacement)); err != nil {
			return nil, fmt.Errorf("apply replacement to %s: %w", target, err)
		}
		result.Written = append(result.Written, target)
		logger.Debug("applied replacement", logging.FieldPath, target, logging.FieldLinter, finding.Code)
	}

	return result, nil
}
