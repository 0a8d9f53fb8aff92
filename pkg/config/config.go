// Package config defines core configuration types for jnav.
// These types are pure data structures with no dependency on the loader.
package config

// OutputFormat specifies how query results and token dumps are rendered.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatTable:
		return true
	default:
		return false
	}
}

// ColorMode controls styled terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is known.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// DefaultMaxDepth matches the tokenizer's default nesting limit.
const DefaultMaxDepth = 512

// Config is the root configuration structure for jnav.
type Config struct {
	// TokenCapacity is the size of the token buffer. Zero sizes the buffer
	// exactly from a counting pass over the input.
	TokenCapacity int `yaml:"token_capacity"`

	// MaxDepth bounds container nesting accepted by the tokenizer.
	MaxDepth int `yaml:"max_depth"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"format"`

	// Color controls styled output ("auto", "always" or "never").
	Color ColorMode `yaml:"color"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		TokenCapacity: 0, // 0 means count first
		MaxDepth:      DefaultMaxDepth,
		LogLevel:      "info",
		Format:        FormatText,
		Color:         ColorAuto,
	}
}
