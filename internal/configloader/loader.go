// Package configloader discovers, parses, and validates multilint manifests.
//
// A manifest is a TOML document with repeated [[linter]] sections and two
// optional top-level scalars, merge_base_with and only_lint_under_config_dir.
// Several manifests may be loaded in order: linter sections append, later
// scalars win. The first manifest is the primary one; its directory anchors
// glob matching and the working directory of linter subprocesses.
package configloader

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/yaklabco/multilint/internal/logging"
	"github.com/yaklabco/multilint/pkg/fsutil"
	"github.com/yaklabco/multilint/pkg/globset"
	"github.com/yaklabco/multilint/pkg/linter"
)

// Validation sentinels. InvalidError wraps each with the manifest path.
var (
	// ErrDuplicateLinterCode indicates two linter sections share a code.
	ErrDuplicateLinterCode = errors.New("linter code defined multiple times")

	// ErrEmptyCommand indicates a linter with an empty command list.
	ErrEmptyCommand = errors.New("empty command list")

	// ErrMissingDryRunPlaceholder indicates an init_command with no
	// {{DRYRUN}} token.
	ErrMissingDryRunPlaceholder = errors.New("init_command does not mention {{DRYRUN}}")
)

// InvalidError reports a manifest that failed to parse or validate.
type InvalidError struct {
	// Path is the manifest the error is attributed to: the file that failed
	// to read or parse, or the primary manifest for validation errors in the
	// merged linter sections. Validation errors are not traced back to the
	// manifest that contributed the offending section.
	Path string

	// Err holds the underlying schema violation.
	Err error
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Err)
}

func (e *InvalidError) Unwrap() error {
	return e.Err
}

// document mirrors the manifest TOML schema.
type document struct {
	MergeBaseWith          string          `toml:"merge_base_with"`
	OnlyLintUnderConfigDir *bool           `toml:"only_lint_under_config_dir"`
	Linters                []linterSection `toml:"linter"`
}

type linterSection struct {
	Code            string   `toml:"code"`
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Command         []string `toml:"command"`
	InitCommand     []string `toml:"init_command"`
	IsFormatter     bool     `toml:"is_formatter"`
}

// Config is the merged, validated result of loading one or more manifests.
type Config struct {
	// Linters holds one Spec per linter section, in manifest order.
	Linters []linter.Spec

	// MergeBaseWith is the default revision for --merge-base-with mode.
	// Empty when no manifest sets it.
	MergeBaseWith string

	// OnlyLintUnderConfigDir restricts the effective path set to files under
	// the primary manifest's directory.
	OnlyLintUnderConfigDir bool

	// PrimaryPath is the first loaded manifest.
	PrimaryPath fsutil.AbsPath
}

// PrimaryDir returns the primary manifest's directory.
func (c *Config) PrimaryDir() string {
	return c.PrimaryPath.Dir()
}

// Load reads and parses each manifest, merges them in order, validates the
// merged document, and compiles the linter specs. At least one path is
// required.
func Load(paths []fsutil.AbsPath) (*Config, error) {
	if len(paths) == 0 {
		return nil, errors.New("no manifest paths given")
	}

	logger := logging.Default()

	merged := document{}
	for _, path := range paths {
		content, err := fsutil.ReadFile(path.String())
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}

		var doc document
		decoder := toml.NewDecoder(bytes.NewReader(content))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&doc); err != nil {
			return nil, &InvalidError{Path: path.String(), Err: err}
		}

		merged.Linters = append(merged.Linters, doc.Linters...)
		if doc.MergeBaseWith != "" {
			merged.MergeBaseWith = doc.MergeBaseWith
		}
		if doc.OnlyLintUnderConfigDir != nil {
			merged.OnlyLintUnderConfigDir = doc.OnlyLintUnderConfigDir
		}
		logger.Debug("loaded manifest",
			logging.FieldManifest, path.String(),
			"linters", len(doc.Linters),
		)
	}

	primary := paths[0]
	specs, err := compileSpecs(merged.Linters, primary)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Linters:       specs,
		MergeBaseWith: merged.MergeBaseWith,
		PrimaryPath:   primary,
	}
	if merged.OnlyLintUnderConfigDir != nil {
		cfg.OnlyLintUnderConfigDir = *merged.OnlyLintUnderConfigDir
	}
	return cfg, nil
}

// compileSpecs validates each linter section and compiles its glob sets.
func compileSpecs(sections []linterSection, primary fsutil.AbsPath) ([]linter.Spec, error) {
	manifestDir := primary.Dir()
	seen := make(map[string]bool, len(sections))
	specs := make([]linter.Spec, 0, len(sections))

	for _, section := range sections {
		if section.Code == "" {
			return nil, &InvalidError{Path: primary.String(), Err: errors.New("linter section missing code")}
		}
		if seen[section.Code] {
			return nil, &InvalidError{
				Path: primary.String(),
				Err:  fmt.Errorf("%w: %q", ErrDuplicateLinterCode, section.Code),
			}
		}
		seen[section.Code] = true

		if len(section.Command) == 0 {
			return nil, &InvalidError{
				Path: primary.String(),
				Err:  fmt.Errorf("linter %q: %w", section.Code, ErrEmptyCommand),
			}
		}

		if len(section.InitCommand) > 0 && !mentionsDryRun(section.InitCommand) {
			return nil, &InvalidError{
				Path: primary.String(),
				Err:  fmt.Errorf("linter %q: %w", section.Code, ErrMissingDryRunPlaceholder),
			}
		}

		include, err := globset.Compile(section.IncludePatterns)
		if err != nil {
			return nil, &InvalidError{
				Path: primary.String(),
				Err:  fmt.Errorf("linter %q include_patterns: %w", section.Code, err),
			}
		}
		exclude, err := globset.Compile(section.ExcludePatterns)
		if err != nil {
			return nil, &InvalidError{
				Path: primary.String(),
				Err:  fmt.Errorf("linter %q exclude_patterns: %w", section.Code, err),
			}
		}

		specs = append(specs, linter.Spec{
			Code:        section.Code,
			Include:     include,
			Exclude:     exclude,
			Command:     section.Command,
			InitCommand: section.InitCommand,
			IsFormatter: section.IsFormatter,
			ManifestDir: manifestDir,
		})
	}

	return specs, nil
}

func mentionsDryRun(argv []string) bool {
	for _, token := range argv {
		if strings.Contains(token, linter.DryRunPlaceholder) {
			return true
		}
	}
	return false
}
