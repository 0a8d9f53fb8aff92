package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/yaklabco/jnav/pkg/config"
)

// envVarPrefix is the prefix for all jnav environment variables.
const envVarPrefix = "JNAV_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeInt
)

// envMapping defines an environment variable to config field mapping.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"TOKEN_CAPACITY": {field: "token_capacity", typ: envTypeInt, description: "Token buffer size (0 = count first)"},
	"MAX_DEPTH":      {field: "max_depth", typ: envTypeInt, description: "Maximum container nesting"},
	"LOG_LEVEL":      {field: "log_level", typ: envTypeString, description: "Log level: debug, info, warn, or error"},
	"FORMAT":         {field: "format", typ: envTypeString, description: "Output format: text, json, or table"},
	"COLOR":          {field: "color", typ: envTypeString, description: "Color mode: auto, always, or never"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with JNAV_ (e.g., JNAV_MAX_DEPTH).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// setStringField sets a string field on the config by field name.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "log_level":
		cfg.LogLevel = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "color":
		cfg.Color = config.ColorMode(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field name.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "token_capacity":
		cfg.TokenCapacity = value
	case "max_depth":
		cfg.MaxDepth = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// EnvVar describes a supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns all supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Description: mapping.description})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
