package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError    = "error"
	FieldPath     = "path"
	FieldPaths    = "paths"
	FieldManifest = "manifest"
	FieldDir      = "dir"

	// Linter fields.
	FieldLinter   = "linter"
	FieldCode     = "code"
	FieldArgv     = "argv"
	FieldExitCode = "exit_code"

	// Run fields.
	FieldJobs       = "jobs"
	FieldMode       = "mode"
	FieldFindings   = "findings"
	FieldSkipped    = "skipped"
	FieldFiltered   = "filtered"
	FieldMergeBase  = "merge_base"
	FieldInvocation = "invocation"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
