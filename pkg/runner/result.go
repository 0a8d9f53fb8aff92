package runner

import "github.com/yaklabco/jnav/pkg/check"

// FileOutcome is the result of checking a single file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Tokens is the number of tokens in the document.
	Tokens int

	// Results holds one entry per check, in suite order.
	Results []check.Result

	// Error is set if the file could not be loaded.
	Error error
}

// Failed reports whether the file errored or any check failed.
func (o FileOutcome) Failed() bool {
	if o.Error != nil {
		return true
	}
	for _, r := range o.Results {
		if !r.Passed {
			return true
		}
	}
	return false
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered   int
	FilesProcessed    int
	FilesErrored      int
	FilesWithFailures int
	TokensTotal       int
	Checks            check.Summary
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any file errored or failed a check.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.Checks.Failed > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.TokensTotal += outcome.Tokens

	summary := check.Summarize(outcome.Results)
	r.Stats.Checks.Total += summary.Total
	r.Stats.Checks.Passed += summary.Passed
	r.Stats.Checks.Failed += summary.Failed

	if summary.Failed > 0 {
		r.Stats.FilesWithFailures++
	}
}
