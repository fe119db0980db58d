// Package testrunner drives the fixed external test suite and reports a
// single pass/fail outcome for the whole invocation.
package testrunner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spachava753/compatmatrix/internal/environment"
	"github.com/spachava753/compatmatrix/internal/models"
)

// Runner runs test scripts from one directory.
type Runner struct {
	exec      environment.Executor
	dir       string
	cfg       models.TestsConfig
	verbosity models.Verbosity

	stdout io.Writer
	stderr io.Writer
}

// New creates a runner executing tests in dir.
func New(ex environment.Executor, dir string, cfg models.TestsConfig, verbosity models.Verbosity) *Runner {
	return &Runner{
		exec:      ex,
		dir:       dir,
		cfg:       cfg,
		verbosity: verbosity,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
}

// SetOutput redirects the driver output of normal and verbose runs.
func (r *Runner) SetOutput(stdout, stderr io.Writer) {
	r.stdout = stdout
	r.stderr = stderr
}

// Dir returns the directory tests run in.
func (r *Runner) Dir() string {
	return r.dir
}

// Run executes tests and reports whether all of them passed. A failing test
// is not an error; err is returned only when the suite could not be run.
func (r *Runner) Run(ctx context.Context, tests []string) (bool, error) {
	slog.Info("running tests", "dir", r.dir, "count", len(tests), "verbosity", r.verbosity)

	if r.verbosity == models.VerbosityQuiet {
		return r.runQuiet(ctx, tests)
	}
	return r.runDriver(ctx, tests)
}

// runQuiet runs every test on its own through the minimal harness with
// output discarded, continuing past failures.
func (r *Runner) runQuiet(ctx context.Context, tests []string) (bool, error) {
	if len(r.cfg.Harness) == 0 {
		return false, fmt.Errorf("no test harness configured")
	}

	passed := true
	for _, test := range tests {
		argv := append(slices.Clone(r.cfg.Harness), test)
		code, err := r.exec.Exec(ctx, environment.Command{
			Name: argv[0],
			Args: argv[1:],
			Dir:  r.dir,
		})
		if err != nil {
			return false, fmt.Errorf("running %s: %w", test, err)
		}
		if code != 0 {
			slog.Warn("test failed", "test", test, "exit_code", code)
			passed = false
		}
	}
	return passed, nil
}

// runDriver hands the whole selection to the suite's make-style driver with
// a single worker.
func (r *Runner) runDriver(ctx context.Context, tests []string) (bool, error) {
	if len(r.cfg.Driver) == 0 {
		return false, fmt.Errorf("no test driver configured")
	}

	flags := []string{"-j1"}
	if r.verbosity == models.VerbosityVerbose {
		flags = append(flags, "-v", "--keep-tmpdir")
	}
	flags = append(flags, tests...)

	argv := slices.Clone(r.cfg.Driver)
	if r.cfg.FlagsVar != "" {
		argv = append(argv, r.cfg.FlagsVar+"="+strings.Join(flags, " "))
	} else {
		argv = append(argv, flags...)
	}

	code, err := r.exec.Exec(ctx, environment.Command{
		Name:   argv[0],
		Args:   argv[1:],
		Dir:    r.dir,
		Stdout: r.stdout,
		Stderr: r.stderr,
	})
	if err != nil {
		return false, fmt.Errorf("running test driver: %w", err)
	}
	if code != 0 {
		slog.Warn("test driver reported failures", "exit_code", code)
	}
	return code == 0, nil
}
