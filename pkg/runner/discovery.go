package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover finds JSON files matching opts. It returns a sorted, deduplicated
// list of absolute file paths. Files named explicitly are kept even when their
// extension does not match; hidden files and directories are skipped while
// walking.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	filter, err := newFilter(workDir, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if !filter.excluded(absPath) {
				add(absPath)
			}
			continue
		}

		if err := filter.walk(ctx, absPath, add); err != nil {
			return nil, err
		}
	}

	slices.Sort(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// filter decides which walked paths are JSON documents to check.
type filter struct {
	workDir    string
	extensions []string
	include    []glob.Glob
	exclude    []glob.Glob
}

func newFilter(workDir string, opts Options) (*filter, error) {
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	extensions := make([]string, 0, len(opts.effectiveExtensions()))
	for _, ext := range opts.effectiveExtensions() {
		extensions = append(extensions, strings.ToLower(ext))
	}

	return &filter{workDir: workDir, extensions: extensions, include: include, exclude: exclude}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func (f *filter) walk(ctx context.Context, root string, add func(string)) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || (path != root && f.excluded(path)) {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden || !entry.Type().IsRegular() {
			return nil
		}

		if f.hasExtension(path) && !f.excluded(path) && f.included(path) {
			add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (f *filter) hasExtension(path string) bool {
	return slices.Contains(f.extensions, strings.ToLower(filepath.Ext(path)))
}

func (f *filter) excluded(path string) bool {
	return matchAny(f.exclude, f.relative(path))
}

func (f *filter) included(path string) bool {
	return len(f.include) == 0 || matchAny(f.include, f.relative(path))
}

func (f *filter) relative(path string) string {
	rel, err := filepath.Rel(f.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// matchAny also tries the base name and a trailing slash, so "*.min.json"
// matches at any depth and "vendor/**" matches the vendor directory itself.
func matchAny(globs []glob.Glob, rel string) bool {
	base := rel[strings.LastIndexByte(rel, '/')+1:]
	for _, g := range globs {
		if g.Match(rel) || g.Match(base) || g.Match(rel+"/") {
			return true
		}
	}
	return false
}
