package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/jnav/internal/input"
	"github.com/yaklabco/jnav/internal/logging"
	"github.com/yaklabco/jnav/internal/ui/pretty"
	"github.com/yaklabco/jnav/pkg/check"
	"github.com/yaklabco/jnav/pkg/config"
	"github.com/yaklabco/jnav/pkg/jnav"
	"github.com/yaklabco/jnav/pkg/runner"
)

type checkFlags struct {
	checks  string
	jobs    int
	include []string
	exclude []string
	verbose bool
}

// checkReport is the JSON output of the check command.
type checkReport struct {
	Files []fileReport `json:"files"`
	Stats statsReport  `json:"stats"`
}

type fileReport struct {
	Path    string         `json:"path"`
	Tokens  int            `json:"tokens,omitempty"`
	Error   string         `json:"error,omitempty"`
	Results []resultReport `json:"results,omitempty"`
}

type resultReport struct {
	Check   string `json:"check"`
	Path    string `json:"path"`
	Passed  bool   `json:"passed"`
	Got     string `json:"got,omitempty"`
	Message string `json:"message,omitempty"`
}

type statsReport struct {
	Files        int `json:"files"`
	FilesErrored int `json:"files_errored"`
	FilesFailing int `json:"files_failing"`
	Checks       int `json:"checks"`
	Passed       int `json:"passed"`
	Failed       int `json:"failed"`
}

func newCheckCommand(state *app) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check --checks <file> [paths...]",
		Short: "Assert properties of JSON documents",
		Long: `Evaluate a suite of checks against every JSON file found under the given
paths, or against standard input when the only path is '-'.

A checks file lists query paths and what the values there must look like:

  checks:
    - name: version is pinned
      path: $.version
      kind: string
      equals: "1.2.0"
    - path: $.items
      len: 3
    - path: $.price
      min: 0
    - path: $.legacy
      exists: false

kind is one of object, array, string, number, boolean, null or primitive.
The command exits with status 1 when any check fails.

Examples:
  jnav check -c checks.yml              # Check the current directory
  jnav check -c checks.yml fixtures/    # Check a directory
  jnav check -c checks.yml --exclude 'vendor/**'
  jnav check -c checks.yml --format json a.json b.json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, state, args, flags)
		},
	}

	addFormatFlag(cmd, "text, table, json")
	addDocumentFlags(cmd)
	cmd.Flags().StringVarP(&flags.checks, "checks", "c", "", "checks file (required)")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns of files to check")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns of files and directories to skip")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list passing checks too")
	_ = cmd.MarkFlagRequired("checks")

	return cmd
}

func runCheck(cmd *cobra.Command, state *app, args []string, flags *checkFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	suite, err := check.LoadSuite(flags.checks)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	logger.Debug("checks loaded", logging.FieldPath, flags.checks, logging.FieldChecks, len(suite.Checks))

	var result *runner.Result
	if len(args) == 1 && args[0] == input.StdinName {
		result, err = checkStdin(cmd, state, suite)
	} else {
		result, err = checkFiles(cmd, state, suite, args, flags)
	}
	if err != nil {
		return err
	}

	logger.Debug("checks finished",
		logging.FieldChecks, result.Stats.Checks.Total,
		logging.FieldFailed, result.Stats.Checks.Failed,
	)

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(state.colorEnabled(cmd))

	switch state.cfg.Format {
	case config.FormatJSON:
		if err := writeJSON(out, buildCheckReport(result)); err != nil {
			return err
		}
	case config.FormatTable:
		for _, outcome := range result.Files {
			fmt.Fprint(out, styles.FormatFileOutcome(outcome, true))
		}
		fmt.Fprint(out, styles.FormatSummary(result.Stats))
	default:
		for _, outcome := range result.Files {
			if outcome.Failed() || flags.verbose {
				fmt.Fprint(out, styles.FormatFileOutcome(outcome, flags.verbose))
			}
		}
		fmt.Fprint(out, styles.FormatSummaryOneLine(result.Stats))
	}

	if result.HasFailures() {
		return ErrChecksFailed
	}
	return nil
}

func checkFiles(
	cmd *cobra.Command,
	state *app,
	suite *check.Suite,
	paths []string,
	flags *checkFlags,
) (*runner.Result, error) {
	ctx := cmd.Context()

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	run, err := runner.New(suite)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	result, err := run.Run(ctx, runner.Options{
		Paths:        paths,
		WorkingDir:   workDir,
		IncludeGlobs: flags.include,
		ExcludeGlobs: flags.exclude,
		Jobs:         flags.jobs,
		Config:       state.cfg,
		Tracer:       logging.TracerFromContext(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	return result, nil
}

// checkStdin evaluates the suite against a single document on standard input.
func checkStdin(cmd *cobra.Command, state *app, suite *check.Suite) (*runner.Result, error) {
	ctx := cmd.Context()

	loaded, err := runner.Load(ctx, input.StdinName, state.cfg, cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}

	results := suite.Evaluate(loaded.Document, jnav.CursorOptions{Tracer: logging.TracerFromContext(ctx)})
	summary := check.Summarize(results)

	outcome := runner.FileOutcome{
		Path:    loaded.Source.DisplayName(),
		Tokens:  loaded.Document.Len(),
		Results: results,
	}

	stats := runner.Stats{
		FilesDiscovered: 1,
		FilesProcessed:  1,
		TokensTotal:     outcome.Tokens,
		Checks:          summary,
	}
	if summary.Failed > 0 {
		stats.FilesWithFailures = 1
	}

	return &runner.Result{Files: []runner.FileOutcome{outcome}, Stats: stats}, nil
}

func buildCheckReport(result *runner.Result) checkReport {
	report := checkReport{
		Files: make([]fileReport, 0, len(result.Files)),
		Stats: statsReport{
			Files:        result.Stats.FilesDiscovered,
			FilesErrored: result.Stats.FilesErrored,
			FilesFailing: result.Stats.FilesWithFailures,
			Checks:       result.Stats.Checks.Total,
			Passed:       result.Stats.Checks.Passed,
			Failed:       result.Stats.Checks.Failed,
		},
	}

	for _, outcome := range result.Files {
		file := fileReport{Path: outcome.Path, Tokens: outcome.Tokens}
		if outcome.Error != nil {
			file.Error = outcome.Error.Error()
		}
		for _, r := range outcome.Results {
			file.Results = append(file.Results, resultReport{
				Check:   r.Check.Label(),
				Path:    r.Check.Path,
				Passed:  r.Passed,
				Got:     r.Got,
				Message: r.Message,
			})
		}
		report.Files = append(report.Files, file)
	}

	return report
}
