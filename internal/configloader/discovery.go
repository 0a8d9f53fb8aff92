package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// ConfigPaths represents discovered configuration file paths. Missing files
// are empty strings.
type ConfigPaths struct {
	// System is the machine-wide config, e.g. /etc/jnav/config.yaml.
	System string

	// User is the per-user config, e.g. ~/.config/jnav/config.yaml.
	User string

	// Project is the nearest .jnav.yml above the working directory.
	Project string

	// Explicit is the --config path.
	Explicit string
}

// ProjectConfigFiles are the file names a project config may use, most
// preferred first.
//
//nolint:gochecknoglobals // Read-only lookup table.
var ProjectConfigFiles = []string{".jnav.yml", ".jnav.yaml", "jnav.yml", "jnav.yaml"}

// directoryConfigFiles are the names looked up in the system and user
// config directories.
//
//nolint:gochecknoglobals // Read-only lookup table.
var directoryConfigFiles = []string{"config.yaml", "config.yml"}

// vcsRootMarkers end the upward project search.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds the system, user and project configuration files for
// workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), directoryConfigFiles),
		User:    firstFile(userConfigDir(), directoryConfigFiles),
		Project: project,
	}, nil
}

// systemConfigDir is /etc/jnav, or %ProgramData%\jnav on Windows.
func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/jnav"
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "jnav")
}

// userConfigDir follows XDG_CONFIG_HOME and falls back to ~/.config/jnav.
func userConfigDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "jnav")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "jnav")
}

// FindProjectConfig walks up from startDir and returns the first project
// config file found. The search ends after the first VCS root, the home
// directory or the filesystem root; nothing found is not an error.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		if path := firstFile(dir, ProjectConfigFiles); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == home || isVCSRoot(dir) {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	i := slices.IndexFunc(names, func(name string) bool {
		info, err := os.Stat(filepath.Join(dir, name))
		return err == nil && !info.IsDir()
	})
	if i < 0 {
		return ""
	}
	return filepath.Join(dir, names[i])
}

func isVCSRoot(dir string) bool {
	return slices.ContainsFunc(vcsRootMarkers, func(marker string) bool {
		info, err := os.Stat(filepath.Join(dir, marker))
		return err == nil && info.IsDir()
	})
}
