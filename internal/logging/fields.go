package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"
	FieldBytes  = "bytes"

	// Configuration fields.
	FieldConfig   = "config"
	FieldLayer    = "layer"
	FieldFormat   = "format"
	FieldCapacity = "capacity"
	FieldMaxDepth = "max_depth"

	// Document fields.
	FieldTokens   = "tokens"
	FieldLanguage = "language"

	// Check fields.
	FieldChecks = "checks"
	FieldFailed = "failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
