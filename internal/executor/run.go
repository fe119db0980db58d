package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spachava753/compatmatrix/internal/checks"
	"github.com/spachava753/compatmatrix/internal/component"
	"github.com/spachava753/compatmatrix/internal/environment"
	"github.com/spachava753/compatmatrix/internal/environment/host"
	"github.com/spachava753/compatmatrix/internal/models"
	"github.com/spachava753/compatmatrix/internal/registry"
	"github.com/spachava753/compatmatrix/internal/report"
	"github.com/spachava753/compatmatrix/internal/testrunner"
)

// RunMatrix checks every tuple in file order and aggregates the outcomes.
// A cancelled ctx stops the run; the check in flight is dropped and the
// remaining tuples are counted as skipped.
func (o *Orchestrator) RunMatrix(ctx context.Context, tuples []models.VersionTuple) *models.MatrixResult {
	result := newMatrixResult()
	o.runMatrix(ctx, tuples, result)
	return result
}

func newMatrixResult() *models.MatrixResult {
	return &models.MatrixResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Results:   []models.CheckResult{},
	}
}

func (o *Orchestrator) runMatrix(ctx context.Context, tuples []models.VersionTuple, result *models.MatrixResult) {
	defer finishMatrixResult(result, len(tuples))

	for _, t := range tuples {
		if ctx.Err() != nil {
			return
		}
		r := o.Check(ctx, t)
		if ctx.Err() != nil {
			slog.Warn("check interrupted", "tuple", t.String())
			return
		}
		result.Results = append(result.Results, r)
		slog.Info("check finished", "tuple", t.String(), "outcome", r.Outcome(), "duration_sec", r.DurationSec)
	}
}

func finishMatrixResult(result *models.MatrixResult, planned int) {
	result.EndedAt = time.Now()
	result.TotalDurationSec = result.EndedAt.Sub(result.StartedAt).Seconds()
	result.TotalChecks = len(result.Results)
	result.PassedChecks, result.FailedChecks = 0, 0
	for _, r := range result.Results {
		if r.OK {
			result.PassedChecks++
		} else {
			result.FailedChecks++
		}
	}
	result.SkippedChecks = max(planned-len(result.Results), 0)
	if result.SkippedChecks > 0 {
		result.Cancelled = true
	}
}

// RunOptions configures a complete invocation.
type RunOptions struct {
	Config models.MatrixConfig
	// Args are the positional command-line arguments selecting the mode.
	Args      []string
	Verbosity models.Verbosity
	// SummaryJSON and MetricsFile, when set, receive the matrix summary.
	SummaryJSON string
	MetricsFile string
	// Executor defaults to the host executor.
	Executor environment.Executor
	// Stdout and Stderr receive tool output; they default to the process's.
	Stdout io.Writer
	Stderr io.Writer
}

// Outcome is the result of a complete invocation. Exactly one of Check and
// Matrix is set.
type Outcome struct {
	Mode   Mode
	Check  *models.CheckResult
	Matrix *models.MatrixResult
}

// OK reports whether the invocation should exit successfully.
func (o *Outcome) OK() bool {
	if o.Matrix != nil {
		return o.Matrix.OK()
	}
	return o.Check != nil && o.Check.OK
}

// Run performs a complete invocation: it builds the registry, clones missing
// components, selects the mode from the arguments and checks the selected
// tuples. Errors are returned for failures that prevent any check from
// running; failing checks are reported through the Outcome.
func Run(ctx context.Context, opts RunOptions) (out *Outcome, err error) {
	cfg := opts.Config
	if opts.Executor == nil {
		opts.Executor = host.NewExecutor()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	inv, err := ParseArgs(opts.Args, cfg.Primary)
	if err != nil {
		return nil, models.NewError(models.ErrSetupFailed, "parsing arguments", err)
	}

	// In matrix mode the results file is rewritten however the run ends,
	// holding whatever completed before.
	var result *models.MatrixResult
	if inv.Mode == ModeMatrix {
		result = newMatrixResult()
		defer func() {
			if result.EndedAt.IsZero() {
				finishMatrixResult(result, 0)
			}
			err = errors.Join(err, flushMatrix(cfg.ResultsFile, opts.SummaryJSON, opts.MetricsFile, result))
		}()
	}

	if cfg.CacheDir, err = filepath.Abs(cfg.CacheDir); err != nil {
		return nil, models.NewError(models.ErrSetupFailed, "resolving cache dir", err)
	}

	reg, err := registry.New(cfg.Components, cfg.CacheDir, opts.Executor, component.WithOutput(opts.Stdout, opts.Stderr))
	if err != nil {
		return nil, models.NewError(models.ErrSetupFailed, "building registry", err)
	}

	buildDir, err := os.MkdirTemp("", "compatmatrix-build-*")
	if err != nil {
		return nil, models.NewError(models.ErrInternalError, "creating build directory", err)
	}
	defer os.RemoveAll(buildDir)

	testTmpDir, err := os.MkdirTemp("", "compatmatrix-tests-*")
	if err != nil {
		return nil, models.NewError(models.ErrInternalError, "creating test directory", err)
	}
	defer os.RemoveAll(testTmpDir)

	layout := registry.Layout{
		CacheDir: cfg.CacheDir,
		BuildDir: buildDir,
		BinDir:   filepath.Join(buildDir, "bin"),
		LibDir:   filepath.Join(buildDir, cfg.Env.LibrarySubdir),
	}
	if err := registry.Setup(ctx, reg, layout, cfg.CloneConcurrency); err != nil {
		return nil, models.NewError(models.ErrSetupFailed, "setup", err)
	}

	testComp, ok := reg.Get(cfg.Tests.Component)
	if !ok {
		return nil, models.NewError(models.ErrSetupFailed, "setup", fmt.Errorf("test component %q is not registered", cfg.Tests.Component))
	}
	runner := testrunner.New(opts.Executor, filepath.Join(testComp.Dir(), cfg.Tests.Subdir), expandTests(cfg.Tests, reg), opts.Verbosity)
	runner.SetOutput(opts.Stdout, opts.Stderr)

	orch := NewOrchestrator(reg, layout, cfg.Env, cfg.Tests.Names, testTmpDir, runner)

	var tuples []models.VersionTuple
	if inv.NeedsChecks() {
		tuples, err = checks.Load(cfg.ChecksFile)
		if err != nil {
			return nil, models.NewError(models.ErrLookupFailed, "loading checks", err)
		}
	}

	slog.Info("starting run", "mode", inv.Mode, "verbosity", opts.Verbosity)

	switch inv.Mode {
	case ModeSingleAxis:
		tuple, err := inv.ResolveSingleAxis(tuples)
		if err != nil {
			return nil, err
		}
		r := orch.Check(ctx, tuple)
		return &Outcome{Mode: inv.Mode, Check: &r}, nil

	case ModeExplicit:
		r := orch.Check(ctx, inv.Tuple)
		return &Outcome{Mode: inv.Mode, Check: &r}, nil
	}

	orch.runMatrix(ctx, tuples, result)
	return &Outcome{Mode: inv.Mode, Matrix: result}, nil
}

// flushMatrix writes the results file and the optional summaries.
func flushMatrix(resultsFile, summaryJSON, metricsFile string, result *models.MatrixResult) error {
	var errs []error

	if err := checks.WriteResults(resultsFile, result.Results); err != nil {
		errs = append(errs, fmt.Errorf("writing results file: %w", err))
	} else {
		slog.Info("results written", "path", resultsFile, "checks", len(result.Results))
	}

	if summaryJSON != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			errs = append(errs, fmt.Errorf("encoding summary: %w", err))
		} else if err := checks.WriteFileAtomic(summaryJSON, data); err != nil {
			errs = append(errs, fmt.Errorf("writing summary: %w", err))
		}
	}

	if metricsFile != "" {
		if err := report.WriteMetrics(metricsFile, result); err != nil {
			errs = append(errs, fmt.Errorf("writing metrics: %w", err))
		}
	}

	return errors.Join(errs...)
}

// expandTests replaces {<id>} placeholders in the harness and driver with
// the checkout directory of the named component.
func expandTests(cfg models.TestsConfig, reg *registry.Registry) models.TestsConfig {
	pairs := make([]string, 0, 2*reg.Len())
	for _, c := range reg.Components() {
		pairs = append(pairs, "{"+c.ID()+"}", c.Dir())
	}
	r := strings.NewReplacer(pairs...)

	expand := func(argv []string) []string {
		if argv == nil {
			return nil
		}
		out := make([]string, len(argv))
		for i, a := range argv {
			out[i] = r.Replace(a)
		}
		return out
	}

	cfg.Harness = expand(cfg.Harness)
	cfg.Driver = expand(cfg.Driver)
	return cfg
}
