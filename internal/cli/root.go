// Package cli provides the Cobra command structure for jnav.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/jnav/internal/configloader"
	"github.com/yaklabco/jnav/internal/logging"
	"github.com/yaklabco/jnav/internal/ui/pretty"
	"github.com/yaklabco/jnav/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app is the state shared by subcommands once configuration is loaded.
type app struct {
	cfg        *config.Config
	loadedFrom []string
	logger     *log.Logger
}

// colorEnabled reports whether output to cmd's writer should be styled.
func (a *app) colorEnabled(cmd *cobra.Command) bool {
	return pretty.IsColorEnabled(string(a.cfg.Color), cmd.OutOrStdout())
}

type rootFlags struct {
	debug      bool
	configPath string
	noConfig   bool
	logLevel   string
	color      string
}

// NewRootCommand creates the root jnav command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &rootFlags{}
	state := &app{cfg: config.NewConfig(), logger: logging.Default()}

	rootCmd := &cobra.Command{
		Use:   "jnav",
		Short: "Navigate and check JSON documents without building a tree",
		Long: `jnav reads JSON documents into a flat token array and walks it with a
cursor. Values are located by key and index paths such as $.items[0].id and
read without decoding the document into a tree.

Use get to read values, tokens to inspect the token layout and check to
assert properties of many documents at once.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.load(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging and navigation tracing")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flags.noConfig, "no-config", false,
		"ignore discovered config files and JNAV_* environment variables")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flags.color, "color", "auto", "colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	rootCmd.AddGroup(
		&cobra.Group{ID: groupDocuments, Title: "Document Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	// Add subcommands.
	for _, cmd := range []*cobra.Command{
		newGetCommand(state),
		newTokensCommand(state),
		newCheckCommand(state),
	} {
		cmd.GroupID = groupDocuments
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newConfigCommand(state),
		newVersionCommand(info),
	} {
		cmd.GroupID = groupSetup
		rootCmd.AddCommand(cmd)
	}

	// Help is styled unless --color never, or auto without a terminal.
	NewHelpFormatter(func() string { return flags.color }).ApplyToCommand(rootCmd)

	return rootCmd
}

// load resolves the configuration for cmd and installs the logger in its
// context.
func (a *app) load(cmd *cobra.Command, flags *rootFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	overrides, err := flagOverrides(cmd.Flags(), flags)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	opts := configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: flags.configPath,
		CLIConfig:    overrides,
	}
	if flags.noConfig {
		opts.IgnoreSystemConfig = true
		opts.IgnoreUserConfig = true
		opts.IgnoreProjectConfig = true
		opts.IgnoreEnv = true
	}

	// Loading is logged at the level requested on the command line, since the
	// configured level is not known yet.
	bootLevel := overrides.LogLevel
	if bootLevel == "" {
		bootLevel = "warn"
	}
	bootLogger := logging.NewWriter(cmd.ErrOrStderr(), bootLevel)

	result, err := configloader.Load(logging.WithLogger(ctx, bootLogger), opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	a.cfg = result.Config
	a.loadedFrom = result.LoadedFrom
	a.logger = logging.NewWriter(cmd.ErrOrStderr(), a.cfg.LogLevel)

	for _, warning := range result.Warnings {
		a.logger.Warn(warning)
	}

	a.logger.Debug("configuration loaded",
		logging.FieldConfig, result.LoadedFrom,
		logging.FieldFormat, a.cfg.Format,
		logging.FieldCapacity, a.cfg.TokenCapacity,
		logging.FieldMaxDepth, a.cfg.MaxDepth,
	)

	cmd.SetContext(logging.WithLogger(ctx, a.logger))
	return nil
}

// flagOverrides collects the configuration set explicitly on the command
// line. Flags a command does not define are skipped.
func flagOverrides(flagSet *pflag.FlagSet, flags *rootFlags) (*config.Config, error) {
	cfg := &config.Config{}

	if flagSet.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if flags.debug {
		cfg.LogLevel = "debug"
	}
	if flagSet.Changed("color") {
		cfg.Color = config.ColorMode(flags.color)
		if !cfg.Color.IsValid() {
			return nil, fmt.Errorf("%w: invalid color mode %q", ErrUsage, flags.color)
		}
	}

	if flagSet.Changed("format") {
		format, err := flagSet.GetString("format")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cfg.Format = config.OutputFormat(format)
		if !cfg.Format.IsValid() {
			return nil, fmt.Errorf("%w: invalid format %q", ErrUsage, format)
		}
	}

	if flagSet.Changed("capacity") {
		capacity, err := flagSet.GetInt("capacity")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cfg.TokenCapacity = capacity
	}

	if flagSet.Changed("max-depth") {
		depth, err := flagSet.GetInt("max-depth")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cfg.MaxDepth = depth
	}

	return cfg, nil
}

// addDocumentFlags registers the flags that control tokenization.
func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().Int("capacity", 0, "token buffer size; 0 counts tokens first and sizes exactly")
	cmd.Flags().Int("max-depth", config.DefaultMaxDepth, "maximum nesting depth of containers")
}

// addFormatFlag registers --format with the formats cmd supports.
func addFormatFlag(cmd *cobra.Command, formats string) {
	cmd.Flags().String("format", string(config.FormatText), "output format: "+formats)
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}
