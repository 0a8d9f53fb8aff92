package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/jnav/pkg/config"
)

func isolatedOptions(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".jnav.yml"), "max_depth: 64\nformat: table\n")

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	require.NoError(t, err)

	assert.Equal(t, 64, result.Config.MaxDepth)
	assert.Equal(t, config.FormatTable, result.Config.Format)
	assert.Equal(t, "info", result.Config.LogLevel, "unset fields keep defaults")
	assert.Equal(t, []string{filepath.Join(tmpDir, ".jnav.yml")}, result.LoadedFrom)
}

func TestLoad_ProjectConfigUpwardSearch(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".jnav.yaml"), "log_level: warn\n")
	nested := filepath.Join(tmpDir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), isolatedOptions(nested))
	require.NoError(t, err)
	assert.Equal(t, "warn", result.Config.LogLevel)
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".jnav.yml"), "log_level: warn\n")
	repo := filepath.Join(tmpDir, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	path, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoad_ExplicitConfigOverridesProject(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".jnav.yml"), "max_depth: 64\ncolor: never\n")
	custom := filepath.Join(tmpDir, "custom.yml")
	writeFile(t, custom, "max_depth: 16\n")

	opts := isolatedOptions(tmpDir)
	opts.ExplicitPath = custom

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 16, result.Config.MaxDepth)
	assert.Equal(t, config.ColorNever, result.Config.Color)
	assert.Len(t, result.LoadedFrom, 2)
	assert.Equal(t, custom, result.Paths.Explicit)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".jnav.yml"), "token_capacity: 100\nformat: table\n")

	opts := isolatedOptions(tmpDir)
	opts.CLIConfig = &config.Config{Format: config.FormatJSON, LogLevel: "debug"}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, config.FormatJSON, result.Config.Format)
	assert.Equal(t, "debug", result.Config.LogLevel)
	assert.Equal(t, 100, result.Config.TokenCapacity)
}

func TestLoad_Environment(t *testing.T) {
	// Not parallel because it modifies the environment.
	t.Setenv("JNAV_MAX_DEPTH", "8")
	t.Setenv("JNAV_FORMAT", "json")

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".jnav.yml"), "max_depth: 64\nformat: table\n")

	opts := isolatedOptions(tmpDir)
	opts.IgnoreEnv = false
	opts.CLIConfig = &config.Config{Format: config.FormatText}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 8, result.Config.MaxDepth, "environment beats files")
	assert.Equal(t, config.FormatText, result.Config.Format, "flags beat environment")
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("JNAV_TOKEN_CAPACITY", "lots")

	opts := isolatedOptions(t.TempDir())
	opts.IgnoreEnv = false

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JNAV_TOKEN_CAPACITY")
}

func TestLoad_UserConfig(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	writeFile(t, filepath.Join(configHome, "jnav", "config.yaml"), "color: always\n")

	opts := isolatedOptions(t.TempDir())
	opts.IgnoreUserConfig = false

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, config.ColorAlways, result.Config.Color)
	assert.Equal(t, filepath.Join(configHome, "jnav", "config.yaml"), result.Paths.User)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"bad format", "format: sarif\n", "format"},
		{"bad color", "color: rainbow\n", "color"},
		{"bad level", "log_level: loud\n", "log_level"},
		{"negative capacity", "token_capacity: -1\n", "token_capacity"},
		{"negative depth", "max_depth: -4\n", "max_depth"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, ".jnav.yml")
			writeFile(t, path, testCase.content)

			_, err := Load(context.Background(), isolatedOptions(tmpDir))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, testCase.field, validationErr.Field)
			assert.Equal(t, path, validationErr.FilePath)
		})
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".jnav.yml"), "flavor: gfm\n")

	_, err := Load(context.Background(), isolatedOptions(tmpDir))
	require.Error(t, err)
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t.TempDir())
	opts.CLIConfig = &config.Config{MaxDepth: 10000}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "max_depth")
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolatedOptions(t.TempDir()))
	require.Error(t, err)
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	assert.Nil(t, MergeAll())

	merged := MergeAll(
		config.NewConfig(),
		&config.Config{MaxDepth: 32},
		&config.Config{Format: config.FormatJSON},
		nil,
	)
	assert.Equal(t, 32, merged.MaxDepth)
	assert.Equal(t, config.FormatJSON, merged.Format)
	assert.Equal(t, config.ColorAuto, merged.Color)
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".jnav.yml")

	written, err := WriteConfig(ctx, config.NewConfig(), path)
	require.NoError(t, err)
	assert.True(t, written)

	loaded, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), loaded)

	written, err = WriteConfig(ctx, config.NewConfig(), path)
	require.NoError(t, err)
	assert.False(t, written, "identical content is not rewritten")

	written, err = WriteConfig(ctx, &config.Config{MaxDepth: 8}, path)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	require.Len(t, vars, 5)
	assert.Equal(t, "JNAV_COLOR", vars[0].Name)
	assert.Equal(t, "JNAV_MAX_DEPTH", GetEnvVarName("max_depth"))
	assert.Empty(t, GetEnvVarName("unknown"))
}
