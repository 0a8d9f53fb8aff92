package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/jnav/internal/configloader"
	"github.com/yaklabco/jnav/internal/logging"
	"github.com/yaklabco/jnav/pkg/config"
)

// defaultConfigFile is written by config init when no path is given.
const defaultConfigFile = ".jnav.yml"

func newConfigCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration that results from merging, in increasing
precedence, /etc/jnav/config.yaml, the user config in $XDG_CONFIG_HOME/jnav,
the nearest .jnav.yml above the working directory, the --config file,
JNAV_* environment variables and command-line flags.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, state)
		},
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigEnvCommand())

	return cmd
}

func runConfigShow(cmd *cobra.Command, state *app) error {
	var header strings.Builder
	header.WriteString("# effective jnav configuration")
	if len(state.loadedFrom) == 0 {
		header.WriteString("\n# no config files loaded")
	}
	for _, path := range state.loadedFrom {
		header.WriteString("\n# loaded from " + path)
	}

	content, err := state.cfg.ToYAMLWithHeader(header.String())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(content)
	return err
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with the defaults",
		Long: `Create a configuration file holding the default settings, ready to edit.
The file is written to .jnav.yml in the current directory unless a path is
given. Existing files are kept unless --force is set.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			return runConfigInit(cmd, path, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")

	return cmd
}

func runConfigInit(cmd *cobra.Command, path string, force bool) error {
	logger := logging.FromContext(cmd.Context())

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, path)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	written, err := configloader.WriteConfig(cmd.Context(), config.NewConfig(), absPath)
	if err != nil {
		return err
	}

	if !written {
		logger.Info("configuration file unchanged", logging.FieldPath, path)
		return nil
	}
	logger.Info("created configuration file", logging.FieldPath, path)
	return nil
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List supported environment variables",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, v := range configloader.ListEnvVars() {
				fmt.Fprintf(out, "%-20s %s\n", v.Name, v.Description)
			}
			return nil
		},
	}
}
