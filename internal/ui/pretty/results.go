package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/jnav/pkg/check"
	"github.com/yaklabco/jnav/pkg/jsontok"
	"github.com/yaklabco/jnav/pkg/runner"
)

const (
	summaryDividerWidth = 40
	passLabel           = "PASS"
	failLabel           = "FAIL"
)

// FormatValue formats a resolved query as "path  kind  value". The value is
// written as is; container text keeps its own line breaks.
func (s *Styles) FormatValue(path string, kind jsontok.Kind, value string) string {
	return fmt.Sprintf("%s  %s  %s\n",
		s.Path.Render(path),
		s.Kind(kind).Render(kind.String()),
		value,
	)
}

// FormatQueryError formats a query that failed to resolve.
func (s *Styles) FormatQueryError(path string, err error) string {
	return fmt.Sprintf("%s  %s  %s\n", s.Path.Render(path), s.Error.Render("error"), err)
}

// FormatCheckResult formats one check outcome on a single line.
func (s *Styles) FormatCheckResult(result check.Result) string {
	if result.Passed {
		return fmt.Sprintf("  %s  %s\n", s.Success.Render(passLabel), result.Check.Label())
	}

	line := fmt.Sprintf("  %s  %s  %s", s.Failure.Render(failLabel), result.Check.Label(), result.Message)
	if result.Got != "" && !strings.Contains(result.Message, result.Got) {
		line += s.Dim.Render(" (got " + result.Got + ")")
	}
	return line + "\n"
}

// FormatFileOutcome formats the results for one file under a header line.
// Passing checks are listed only when verbose is set.
func (s *Styles) FormatFileOutcome(outcome runner.FileOutcome, verbose bool) string {
	var builder strings.Builder

	builder.WriteString(s.Bold.Render(outcome.Path))
	if outcome.Error != nil {
		builder.WriteString("  " + s.Error.Render("error") + "  " + outcome.Error.Error() + "\n")
		return builder.String()
	}
	builder.WriteString(s.Dim.Render(fmt.Sprintf("  (%d tokens)", outcome.Tokens)) + "\n")

	for _, result := range outcome.Results {
		if result.Passed && !verbose {
			continue
		}
		builder.WriteString(s.FormatCheckResult(result))
	}
	return builder.String()
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files, 12 checks (2 failed), 1 file with errors".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	files := plural(stats.FilesDiscovered, "file", "files")
	if stats.Checks.Failed == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("All checks passed") +
			s.Dim.Render(fmt.Sprintf(" (%s, %s)", files, plural(stats.Checks.Total, "check", "checks"))) + "\n"
	}

	parts := []string{files}

	checks := plural(stats.Checks.Total, "check", "checks")
	if stats.Checks.Failed > 0 {
		checks += " (" + s.Failure.Render(strconv.Itoa(stats.Checks.Failed)+" failed") + ")"
	}
	parts = append(parts, checks)

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(plural(stats.FilesErrored, "file", "files")+" with errors"))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files with errors: " +
			s.Error.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	if stats.FilesWithFailures > 0 {
		builder.WriteString("  Files failing:     " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithFailures)) + "\n")
	}
	builder.WriteString("  Tokens:            " +
		s.SummaryValue.Render(strconv.Itoa(stats.TokensTotal)) + "\n")

	builder.WriteString("\n")
	builder.WriteString("  Checks run:        " +
		s.SummaryValue.Render(strconv.Itoa(stats.Checks.Total)) + "\n")
	builder.WriteString("    Passed:          " +
		s.Success.Render(strconv.Itoa(stats.Checks.Passed)) + "\n")
	if stats.Checks.Failed > 0 {
		builder.WriteString("    Failed:          " +
			s.Failure.Render(strconv.Itoa(stats.Checks.Failed)) + "\n")
	}

	builder.WriteString("\n")
	switch {
	case stats.FilesErrored > 0 || stats.Checks.Failed > 0:
		builder.WriteString(s.Failure.Render("Checks failed"))
	default:
		builder.WriteString(s.Success.Render("Checks passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
