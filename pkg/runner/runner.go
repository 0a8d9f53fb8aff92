package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/jnav/pkg/check"
	"github.com/yaklabco/jnav/pkg/jnav"
)

// Runner checks many documents against one suite.
type Runner struct {
	// Suite is evaluated against every discovered file.
	Suite *check.Suite
}

// New compiles suite and creates a Runner for it. Workers only read the
// compiled suite.
func New(suite *check.Suite) (*Runner, error) {
	if suite == nil {
		return nil, fmt.Errorf("%w: no suite", check.ErrInvalidCheck)
	}
	if err := suite.Compile(); err != nil {
		return nil, err
	}
	return &Runner{Suite: suite}, nil
}

// Run discovers files under opts.Paths and checks them concurrently. Outcomes
// are returned in discovery order regardless of completion order. A file that
// cannot be loaded is recorded in its outcome and does not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	outcomes := make([]FileOutcome, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			outcomes[i] = r.processFile(groupCtx, path, opts)
			return groupCtx.Err()
		})
	}

	waitErr := group.Wait()

	for _, outcome := range outcomes {
		if outcome.Path != "" {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	if waitErr != nil {
		return result, waitErr
	}

	return result, nil
}

// processFile loads one document and evaluates the suite against it.
func (r *Runner) processFile(ctx context.Context, path string, opts Options) FileOutcome {
	outcome := FileOutcome{Path: path}

	loaded, err := Load(ctx, path, opts.effectiveConfig(), nil)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	outcome.Tokens = loaded.Document.Len()
	outcome.Results = r.Suite.Evaluate(loaded.Document, jnav.CursorOptions{Tracer: opts.Tracer})
	return outcome
}
