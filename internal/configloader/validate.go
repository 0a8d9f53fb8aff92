package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/jnav/internal/logging"
	"github.com/yaklabco/jnav/pkg/config"
	"github.com/yaklabco/jnav/pkg/tokenizer"
)

// largeTokenCapacity is the buffer size above which a warning is issued.
const largeTokenCapacity = 1 << 24

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the name of the invalid field (e.g., "max_depth").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings. Empty fields are
// accepted so partial file configurations can be validated before merging.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.TokenCapacity < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "token_capacity",
			Value:   cfg.TokenCapacity,
			Message: "token_capacity must be >= 0 (0 means count first)",
		})
	} else if cfg.TokenCapacity > largeTokenCapacity {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "token_capacity",
			Value:   cfg.TokenCapacity,
			Message: fmt.Sprintf("token_capacity %d preallocates a very large buffer", cfg.TokenCapacity),
		})
	}

	if cfg.MaxDepth < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "max_depth",
			Value:   cfg.MaxDepth,
			Message: "max_depth must be >= 1",
		})
	} else if cfg.MaxDepth > tokenizer.MaxDepthLimit {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "max_depth",
			Value:   cfg.MaxDepth,
			Message: fmt.Sprintf("max_depth is capped at %d", tokenizer.MaxDepthLimit),
		})
	}

	if cfg.LogLevel != "" && !logging.IsValidLevel(cfg.LogLevel) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json, table", cfg.Format),
		})
	}

	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	return result
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
