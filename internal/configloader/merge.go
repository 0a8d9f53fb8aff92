package configloader

import (
	"cmp"

	"github.com/yaklabco/jnav/pkg/config"
)

// merge layers override on top of base. Zero fields in override are unset and
// keep the base value, so a partial file never resets a lower layer.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	return &config.Config{
		TokenCapacity: cmp.Or(override.TokenCapacity, base.TokenCapacity),
		MaxDepth:      cmp.Or(override.MaxDepth, base.MaxDepth),
		LogLevel:      cmp.Or(override.LogLevel, base.LogLevel),
		Format:        cmp.Or(override.Format, base.Format),
		Color:         cmp.Or(override.Color, base.Color),
	}
}

// MergeAll merges configurations in order; later ones take precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	var result *config.Config
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}
