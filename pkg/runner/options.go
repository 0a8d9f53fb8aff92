// Package runner loads JSON documents and runs check suites over many files.
package runner

import (
	"github.com/yaklabco/jnav/pkg/config"
	"github.com/yaklabco/jnav/pkg/jnav"
)

// Options controls a multi-file check run.
type Options struct {
	// Paths are the user-specified files or directories to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// considered JSON. Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restrict discovery to matching paths, relative to WorkingDir.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files and directories.
	ExcludeGlobs []string

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// Config sizes the token buffer and bounds nesting. Nil uses defaults.
	Config *config.Config

	// Tracer receives navigation events from every cursor.
	Tracer jnav.TraceFunc
}

// DefaultExtensions returns the default set of JSON file extensions.
func DefaultExtensions() []string {
	return []string{".json", ".geojson", ".jsonld", ".har"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveConfig() *config.Config {
	if o.Config == nil {
		return config.NewConfig()
	}
	return o.Config
}
